package domain

import "time"

// EventType represents the type of task event.
type EventType string

const (
	EventTypeCreated    EventType = "created"
	EventTypeStarted    EventType = "started"
	EventTypePaused     EventType = "paused"
	EventTypeResumed    EventType = "resumed"
	EventTypeFinished   EventType = "finished"
	EventTypeAutoPaused EventType = "auto_paused"
)

// TaskEvent represents an audit log entry for a lifecycle transition.
type TaskEvent struct {
	ID        string
	TaskID    string
	Type      EventType
	OldStatus *TaskStatus
	NewStatus *TaskStatus
	ElapsedMs int64 // active time banked by this transition
	CreatedAt time.Time
}

// IsSystemEvent returns true if the event was produced by a background sweep.
func (e *TaskEvent) IsSystemEvent() bool {
	return e.Type == EventTypeAutoPaused
}
