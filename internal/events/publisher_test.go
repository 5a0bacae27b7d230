package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/hrtask/internal/domain"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func completedTask() *domain.Task {
	rating := 4
	taken := "1h 20m 0s"
	return &domain.Task{
		ID:                 "7f1c5c1e-8a53-4c1e-9d55-2d4f0f6e7a10",
		EmployeeID:         "emp-42",
		Department:         "Finance",
		AssignmentDate:     time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC),
		Status:             domain.TaskStatusCompleted,
		TimeAccumulatedMs:  4_800_000,
		TimeTakenFormatted: &taken,
		Rating:             &rating,
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := NewKafkaPublisherWithWriter(w)
	at := time.Date(2024, 5, 6, 10, 20, 0, 0, time.UTC)

	event := NewLifecycleEvent(domain.EventTypeFinished, domain.TaskStatusInProgress, completedTask(), at)
	require.NoError(t, p.Publish(context.Background(), event))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "7f1c5c1e-8a53-4c1e-9d55-2d4f0f6e7a10", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "finished", string(msg.Headers[0].Value))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "finished", decoded["type"])
	assert.Equal(t, "IN_PROGRESS", decoded["old_status"])
	assert.Equal(t, "COMPLETED", decoded["new_status"])
	assert.Equal(t, "2024-05-06", decoded["assignment_date"])
	assert.Equal(t, "1h 20m 0s", decoded["time_taken"])
	assert.EqualValues(t, 4, decoded["rating"])
}

func TestKafkaPublisher_OmitsResultBeforeCompletion(t *testing.T) {
	w := &recordingWriter{}
	p := NewKafkaPublisherWithWriter(w)

	task := completedTask()
	task.Status = domain.TaskStatusPaused
	task.Rating = nil
	task.TimeTakenFormatted = nil

	event := NewLifecycleEvent(domain.EventTypePaused, domain.TaskStatusInProgress, task, time.Now())
	require.NoError(t, p.Publish(context.Background(), event))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.NotContains(t, decoded, "rating")
	assert.NotContains(t, decoded, "time_taken")
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker unavailable")}
	p := NewKafkaPublisherWithWriter(w)

	err := p.Publish(context.Background(), NewLifecycleEvent(domain.EventTypeStarted, domain.TaskStatusNotStarted, completedTask(), time.Now()))
	assert.ErrorContains(t, err, "broker unavailable")
}

func TestKafkaPublisher_Close(t *testing.T) {
	w := &recordingWriter{}
	require.NoError(t, NewKafkaPublisherWithWriter(w).Close())
	assert.True(t, w.closed)
}
