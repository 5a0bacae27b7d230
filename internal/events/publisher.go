// Package events publishes task lifecycle changes to Kafka so reporting
// consumers can follow completions without polling the database.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/mtlprog/hrtask/internal/domain"
)

// LifecycleEvent is the message published for every committed transition.
type LifecycleEvent struct {
	Type              domain.EventType  `json:"type"`
	TaskID            string            `json:"task_id"`
	EmployeeID        string            `json:"employee_id"`
	Department        string            `json:"department"`
	AssignmentDate    string            `json:"assignment_date"`
	OldStatus         domain.TaskStatus `json:"old_status,omitempty"`
	NewStatus         domain.TaskStatus `json:"new_status"`
	TimeAccumulatedMs int64             `json:"time_accumulated_ms"`
	TimeTaken         *string           `json:"time_taken,omitempty"`
	Rating            *int              `json:"rating,omitempty"`
	OccurredAt        time.Time         `json:"occurred_at"`
}

// NewLifecycleEvent builds an event from the task state after the transition.
func NewLifecycleEvent(eventType domain.EventType, oldStatus domain.TaskStatus, task *domain.Task, at time.Time) LifecycleEvent {
	return LifecycleEvent{
		Type:              eventType,
		TaskID:            task.ID,
		EmployeeID:        task.EmployeeID,
		Department:        task.Department,
		AssignmentDate:    task.AssignmentDate.Format(time.DateOnly),
		OldStatus:         oldStatus,
		NewStatus:         task.Status,
		TimeAccumulatedMs: task.TimeAccumulatedMs,
		TimeTaken:         task.TimeTakenFormatted,
		Rating:            task.Rating,
		OccurredAt:        at,
	}
}

// Publisher delivers lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, event LifecycleEvent) error
}

// messageWriter is the subset of *kafka.Writer used by KafkaPublisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes JSON lifecycle events keyed by task ID, so all events
// of one task land on the same partition in order.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher creates a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			BatchTimeout:           50 * time.Millisecond,
		},
	}
}

// NewKafkaPublisherWithWriter wraps an existing writer.
func NewKafkaPublisherWithWriter(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, event LifecycleEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode lifecycle event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.TaskID),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write lifecycle event for task %s: %w", event.TaskID, err)
	}

	slog.Debug("lifecycle event published",
		"task_id", event.TaskID,
		"type", event.Type,
	)

	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Nop discards events. It is used when no brokers are configured.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, LifecycleEvent) error { return nil }

var (
	_ Publisher = (*KafkaPublisher)(nil)
	_ Publisher = Nop{}
)
