// Package metrics exposes Prometheus collectors for task lifecycle activity.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels for transition outcomes.
const (
	ResultOK           = "ok"
	ResultNotFound     = "not_found"
	ResultInvalidState = "invalid_state"
	ResultError        = "error"
)

// Recorder records lifecycle metrics.
type Recorder struct {
	transitions *prometheus.CounterVec
	ratings     *prometheus.HistogramVec
	hoursSpent  *prometheus.HistogramVec
}

// NewRecorder creates and registers collectors under namespace.
func NewRecorder(namespace string, reg prometheus.Registerer) (*Recorder, error) {
	if namespace == "" {
		namespace = "hrtask"
	}

	r := &Recorder{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_transitions_total",
			Help:      "Task lifecycle transitions by action and result.",
		}, []string{"action", "result"}),
		ratings: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_rating",
			Help:      "Ratings assigned to completed tasks.",
			Buckets:   []float64{1, 2, 3, 4, 5},
		}, []string{"department"}),
		hoursSpent: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_hours_spent",
			Help:      "Active hours tracked on completed tasks.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 40},
		}, []string{"department"}),
	}

	var err error
	if r.transitions, err = register(reg, r.transitions); err != nil {
		return nil, err
	}
	if r.ratings, err = register(reg, r.ratings); err != nil {
		return nil, err
	}
	if r.hoursSpent, err = register(reg, r.hoursSpent); err != nil {
		return nil, err
	}

	return r, nil
}

// register registers c, reusing an identical collector that is already registered.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register collector: %w", err)
	}
	return c, nil
}

// ObserveTransition counts one transition attempt.
func (r *Recorder) ObserveTransition(action, result string) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(action, result).Inc()
}

// ObserveCompletion records the outcome of a finished task.
func (r *Recorder) ObserveCompletion(department string, rating int, hours float64) {
	if r == nil {
		return
	}
	r.ratings.WithLabelValues(department).Observe(float64(rating))
	r.hoursSpent.WithLabelValues(department).Observe(hours)
}
