package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/hrtask/internal/cache"
	"github.com/mtlprog/hrtask/internal/clock"
	"github.com/mtlprog/hrtask/internal/domain"
	"github.com/mtlprog/hrtask/internal/events"
	"github.com/mtlprog/hrtask/internal/lifecycle"
	"github.com/mtlprog/hrtask/internal/metrics"
	"github.com/mtlprog/hrtask/internal/repository"
)

// Lifecycle action names, used in logs and metrics.
const (
	ActionStart  = "start"
	ActionPause  = "pause"
	ActionResume = "resume"
	ActionFinish = "finish"
)

// sideEffectTimeout bounds post-commit work (event publishing, caching).
const sideEffectTimeout = 2 * time.Second

// TaskService coordinates task persistence and lifecycle transitions.
type TaskService struct {
	pool      *pgxpool.Pool
	taskRepo  *repository.TaskRepository
	eventRepo *repository.TaskEventRepository
	clock     clock.Clock
	cache     cache.Cache
	cacheTTL  time.Duration
	publisher events.Publisher
	metrics   *metrics.Recorder
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	pool *pgxpool.Pool,
	taskRepo *repository.TaskRepository,
	eventRepo *repository.TaskEventRepository,
	opts ...Option,
) *TaskService {
	s := &TaskService{
		pool:      pool,
		taskRepo:  taskRepo,
		eventRepo: eventRepo,
		clock:     clock.Real{},
		cache:     cache.Nop{},
		cacheTTL:  DefaultCacheTTL,
		publisher: events.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// transitionFunc applies one lifecycle step and reports the milliseconds it banked.
type transitionFunc func(task domain.Task, now time.Time) (domain.Task, int64, error)

// transition runs a lifecycle step against the stored task inside one
// transaction: the row is locked, the step is computed, and the update only
// lands if the status is still the one that was read.
func (s *TaskService) transition(
	ctx context.Context,
	taskID string,
	action string,
	eventType domain.EventType,
	apply transitionFunc,
) (*domain.Task, error) {
	task, err := s.runTransition(ctx, taskID, eventType, apply)
	s.metrics.ObserveTransition(action, resultLabel(err))
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) runTransition(
	ctx context.Context,
	taskID string,
	eventType domain.EventType,
	apply transitionFunc,
) (*domain.Task, error) {
	if err := validateTaskID(taskID); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	oldStatus := task.Status

	next, elapsed, err := apply(*task, now)
	if err != nil {
		return nil, err
	}

	// Starting a running task changes nothing
	if next.Status == oldStatus {
		return task, nil
	}

	if err := s.taskRepo.ApplyTransition(ctx, tx, oldStatus, &next); err != nil {
		return nil, err
	}

	newStatus := next.Status
	event := &domain.TaskEvent{
		TaskID:    taskID,
		Type:      eventType,
		OldStatus: &oldStatus,
		NewStatus: &newStatus,
		ElapsedMs: elapsed,
		CreatedAt: now,
	}

	if err := s.createEventAndCommit(ctx, tx, event); err != nil {
		return nil, err
	}

	slog.Info("task status changed",
		"task_id", taskID,
		"event", eventType,
		"old_status", oldStatus,
		"new_status", newStatus,
		"elapsed_ms", elapsed,
		"time_accumulated_ms", next.TimeAccumulatedMs,
	)

	s.invalidate(ctx, taskID)
	s.publish(ctx, events.NewLifecycleEvent(eventType, oldStatus, &next, now))

	return &next, nil
}

// createEventAndCommit persists a task event within the transaction, then commits.
func (s *TaskService) createEventAndCommit(ctx context.Context, tx pgx.Tx, event *domain.TaskEvent) error {
	if err := s.eventRepo.Create(ctx, tx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// invalidate drops the cached snapshot of a task after it changed.
func (s *TaskService) invalidate(ctx context.Context, taskID string) {
	cacheCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if err := s.cache.Delete(cacheCtx, cache.TaskKey(taskID)); err != nil {
		slog.Warn("failed to invalidate cached task", "task_id", taskID, "error", err)
	}
}

// publish delivers a lifecycle event after commit. Failures are logged only:
// the transition is already durable.
func (s *TaskService) publish(ctx context.Context, event events.LifecycleEvent) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, event); err != nil {
		slog.Warn("failed to publish lifecycle event",
			"task_id", event.TaskID,
			"type", event.Type,
			"error", err,
		)
	}
}

// StartTask moves a NOT_STARTED or PAUSED task into IN_PROGRESS.
func (s *TaskService) StartTask(ctx context.Context, taskID string) (*domain.Task, error) {
	return s.transition(ctx, taskID, ActionStart, domain.EventTypeStarted,
		func(task domain.Task, now time.Time) (domain.Task, int64, error) {
			next, err := lifecycle.Start(task, now)
			return next, 0, err
		})
}

// PauseTask banks the running interval of an IN_PROGRESS task.
func (s *TaskService) PauseTask(ctx context.Context, taskID string) (*domain.Task, error) {
	return s.transition(ctx, taskID, ActionPause, domain.EventTypePaused, lifecycle.Pause)
}

// ResumeTask restarts the timer of a PAUSED task.
func (s *TaskService) ResumeTask(ctx context.Context, taskID string) (*domain.Task, error) {
	return s.transition(ctx, taskID, ActionResume, domain.EventTypeResumed,
		func(task domain.Task, now time.Time) (domain.Task, int64, error) {
			next, err := lifecycle.Resume(task, now)
			return next, 0, err
		})
}

// FinishTask completes a task and stores its rating and formatted duration
// in the same update as the status change.
func (s *TaskService) FinishTask(ctx context.Context, taskID string) (*domain.Task, lifecycle.Result, error) {
	var result lifecycle.Result

	task, err := s.transition(ctx, taskID, ActionFinish, domain.EventTypeFinished,
		func(task domain.Task, now time.Time) (domain.Task, int64, error) {
			banked := int64(0)
			if task.IsRunning() {
				banked = task.ElapsedMs(now) - task.TimeAccumulatedMs
			}
			next, res, err := lifecycle.Finish(task, now)
			result = res
			return next, banked, err
		})
	if err != nil {
		return nil, lifecycle.Result{}, err
	}

	s.metrics.ObserveCompletion(task.Department, result.Rating, result.TimeTakenHours)

	return task, result, nil
}

// validateTaskID rejects identifiers that cannot name a stored task.
func validateTaskID(taskID string) error {
	if _, err := uuid.Parse(taskID); err != nil {
		return fmt.Errorf("%w: %q is not a valid task id", domain.ErrTaskNotFound, taskID)
	}
	return nil
}

// rollback rolls back tx unless it was already committed.
func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.Error("failed to rollback transaction", "error", err)
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, domain.ErrTaskNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, domain.ErrInvalidState):
		return metrics.ResultInvalidState
	default:
		return metrics.ResultError
	}
}

// Now returns the service clock's current time.
func (s *TaskService) Now() time.Time {
	return s.clock.Now()
}
