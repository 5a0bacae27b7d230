package service

import (
	"time"

	"github.com/mtlprog/hrtask/internal/cache"
	"github.com/mtlprog/hrtask/internal/clock"
	"github.com/mtlprog/hrtask/internal/events"
	"github.com/mtlprog/hrtask/internal/metrics"
)

// DefaultCacheTTL is how long completed task snapshots stay cached.
const DefaultCacheTTL = 10 * time.Minute

// Option configures a TaskService.
type Option func(*TaskService)

// WithClock overrides the system clock.
func WithClock(c clock.Clock) Option {
	return func(s *TaskService) { s.clock = c }
}

// WithCache enables caching of completed task snapshots.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *TaskService) {
		s.cache = c
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithPublisher sets the lifecycle event publisher.
func WithPublisher(p events.Publisher) Option {
	return func(s *TaskService) { s.publisher = p }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *TaskService) { s.metrics = m }
}
