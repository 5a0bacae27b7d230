package domain

import "time"

// TaskStatus represents the status of a task in the time-tracking state machine.
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "NOT_STARTED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusPaused     TaskStatus = "PAUSED"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// IsTerminal returns true if the status is terminal (no transitions allowed).
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted
}

// IsValid checks if the status is one of the allowed values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusPaused, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// Task is a unit of assigned work tracked through start/pause/resume/finish.
//
// Task values are treated as snapshots: lifecycle transitions return a modified
// copy and never mutate the receiver.
type Task struct {
	ID                string
	EmployeeID        string
	EmployeeName      string
	Department        string
	TaskName          string
	AssignmentDate    time.Time
	TimeRequiredHours float64
	Status            TaskStatus

	// StartTime is set only while Status is IN_PROGRESS.
	StartTime *time.Time

	// TimeAccumulatedMs is active time banked by earlier IN_PROGRESS intervals.
	TimeAccumulatedMs int64

	// Set once, when the task is completed.
	TimeTakenFormatted *string
	Rating             *int
	CompletedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRunning reports whether the task has an open active interval.
func (t *Task) IsRunning() bool {
	return t.Status == TaskStatusInProgress && t.StartTime != nil
}

// ElapsedMs returns the banked time plus the open interval measured at now.
func (t *Task) ElapsedMs(now time.Time) int64 {
	total := t.TimeAccumulatedMs
	if t.IsRunning() {
		if d := now.Sub(*t.StartTime).Milliseconds(); d > 0 {
			total += d
		}
	}
	return total
}
