// Package lifecycle implements the task time-tracking state machine and the
// performance rating computed when a task is finished.
//
// All functions are pure: they take a task snapshot and the current time and
// return a new snapshot. Persisting the result is the caller's job.
package lifecycle

import (
	"fmt"
	"math"
	"time"

	"github.com/mtlprog/hrtask/internal/domain"
)

const msPerHour = 3_600_000

// Result describes a finished task.
type Result struct {
	Rating            int
	TimeTaken         string
	TimeTakenMs       int64
	TimeTakenHours    float64
	TimeRequiredHours float64
	TimeDifference    float64
}

// Start moves a NOT_STARTED or PAUSED task into IN_PROGRESS.
// Starting a task that is already running returns it unchanged.
func Start(task domain.Task, now time.Time) (domain.Task, error) {
	switch task.Status {
	case domain.TaskStatusNotStarted, domain.TaskStatusPaused:
		return run(task, now), nil
	case domain.TaskStatusInProgress:
		return task, nil
	case domain.TaskStatusCompleted:
		return task, fmt.Errorf("%w: task %s is already completed", domain.ErrInvalidState, task.ID)
	default:
		return task, fmt.Errorf("%w: unknown status %s", domain.ErrInvalidStatus, task.Status)
	}
}

// Pause banks the open interval and moves an IN_PROGRESS task into PAUSED.
// It also returns the number of milliseconds banked.
func Pause(task domain.Task, now time.Time) (domain.Task, int64, error) {
	if task.Status != domain.TaskStatusInProgress {
		return task, 0, fmt.Errorf("%w: task %s is in %s status, expected %s",
			domain.ErrInvalidState, task.ID, task.Status, domain.TaskStatusInProgress)
	}

	elapsed := openInterval(task, now)
	task.TimeAccumulatedMs += elapsed
	task.Status = domain.TaskStatusPaused
	task.StartTime = nil
	task.UpdatedAt = now

	return task, elapsed, nil
}

// Resume moves a PAUSED task back into IN_PROGRESS, keeping banked time.
func Resume(task domain.Task, now time.Time) (domain.Task, error) {
	if task.Status != domain.TaskStatusPaused {
		return task, fmt.Errorf("%w: task %s is in %s status, expected %s",
			domain.ErrInvalidState, task.ID, task.Status, domain.TaskStatusPaused)
	}
	return run(task, now), nil
}

// Finish completes an IN_PROGRESS or PAUSED task, fixing its rating and
// formatted duration. A running task has its open interval banked first.
func Finish(task domain.Task, now time.Time) (domain.Task, Result, error) {
	if task.Status != domain.TaskStatusInProgress && task.Status != domain.TaskStatusPaused {
		return task, Result{}, fmt.Errorf("%w: task %s is in %s status, expected %s or %s",
			domain.ErrInvalidState, task.ID, task.Status,
			domain.TaskStatusInProgress, domain.TaskStatusPaused)
	}

	total := task.TimeAccumulatedMs
	if task.Status == domain.TaskStatusInProgress {
		total += openInterval(task, now)
	}

	totalHours := round2(float64(total) / msPerHour)
	diff := round2(task.TimeRequiredHours - totalHours)

	result := Result{
		Rating:            Rate(totalHours, task.TimeRequiredHours),
		TimeTaken:         FormatDuration(total),
		TimeTakenMs:       total,
		TimeTakenHours:    totalHours,
		TimeRequiredHours: task.TimeRequiredHours,
		TimeDifference:    diff,
	}

	completedAt := now
	task.TimeAccumulatedMs = total
	task.Status = domain.TaskStatusCompleted
	task.StartTime = nil
	task.Rating = &result.Rating
	task.TimeTakenFormatted = &result.TimeTaken
	task.CompletedAt = &completedAt
	task.UpdatedAt = now

	return task, result, nil
}

func run(task domain.Task, now time.Time) domain.Task {
	start := now
	task.Status = domain.TaskStatusInProgress
	task.StartTime = &start
	task.UpdatedAt = now
	return task
}

// openInterval returns now - StartTime in ms. A clock that moved backwards
// yields 0 so banked time never decreases.
func openInterval(task domain.Task, now time.Time) int64 {
	if task.StartTime == nil {
		return 0
	}
	elapsed := now.Sub(*task.StartTime).Milliseconds()
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
