package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mtlprog/hrtask/internal/domain"
	"github.com/mtlprog/hrtask/internal/lifecycle"
)

// ActionAutoPause labels pauses issued by the stale-task sweep.
const ActionAutoPause = "auto_pause"

// PauseStaleTasks pauses every IN_PROGRESS task whose timer has been running
// longer than maxActive. Tasks that changed state concurrently are skipped.
// Returns the number of tasks paused.
func (s *TaskService) PauseStaleTasks(ctx context.Context, maxActive time.Duration) (int, error) {
	if maxActive <= 0 {
		return 0, fmt.Errorf("max active duration must be positive, got %s", maxActive)
	}

	cutoff := s.clock.Now().Add(-maxActive)

	tasks, err := s.taskRepo.FindRunningSince(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("find stale tasks: %w", err)
	}

	var (
		paused int
		errs   []error
	)
	for _, task := range tasks {
		_, err := s.transition(ctx, task.ID, ActionAutoPause, domain.EventTypeAutoPaused, lifecycle.Pause)
		switch {
		case err == nil:
			paused++
		case errors.Is(err, domain.ErrInvalidState):
			slog.Info("stale task changed before auto-pause, skipping", "task_id", task.ID)
		default:
			slog.Error("failed to auto-pause task", "task_id", task.ID, "error", err)
			errs = append(errs, fmt.Errorf("task %s: %w", task.ID, err))
		}
	}

	if paused > 0 {
		slog.Info("paused stale tasks", "count", paused, "max_active", maxActive.String())
	}

	return paused, errors.Join(errs...)
}
