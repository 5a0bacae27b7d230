package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/mtlprog/hrtask/internal/cache"
	"github.com/mtlprog/hrtask/internal/domain"
	"github.com/mtlprog/hrtask/internal/events"
	"github.com/mtlprog/hrtask/internal/repository"
)

// CreateTaskParams holds parameters for task creation.
type CreateTaskParams struct {
	EmployeeID        string
	EmployeeName      string
	Department        string
	TaskName          string
	AssignmentDate    time.Time
	TimeRequiredHours float64
}

// Validate checks the creation parameters.
func (p CreateTaskParams) Validate() error {
	if strings.TrimSpace(p.EmployeeID) == "" {
		return domain.ErrEmptyEmployee
	}
	if strings.TrimSpace(p.TaskName) == "" {
		return domain.ErrEmptyTaskName
	}
	if p.AssignmentDate.IsZero() {
		return domain.ErrInvalidAssignmentDate
	}
	if p.TimeRequiredHours <= 0 || math.IsNaN(p.TimeRequiredHours) || math.IsInf(p.TimeRequiredHours, 0) {
		return fmt.Errorf("%w: got %v", domain.ErrInvalidTimeRequired, p.TimeRequiredHours)
	}
	return nil
}

// CreateTask registers a new NOT_STARTED task with zero accumulated time.
func (s *TaskService) CreateTask(ctx context.Context, params CreateTaskParams) (*domain.Task, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	y, m, d := params.AssignmentDate.Date()
	task, err := s.taskRepo.Create(ctx, tx, &domain.Task{
		EmployeeID:        strings.TrimSpace(params.EmployeeID),
		EmployeeName:      strings.TrimSpace(params.EmployeeName),
		Department:        strings.TrimSpace(params.Department),
		TaskName:          strings.TrimSpace(params.TaskName),
		AssignmentDate:    time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		TimeRequiredHours: params.TimeRequiredHours,
	})
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	newStatus := domain.TaskStatusNotStarted
	event := &domain.TaskEvent{
		TaskID:    task.ID,
		Type:      domain.EventTypeCreated,
		NewStatus: &newStatus,
		CreatedAt: now,
	}

	if err := s.createEventAndCommit(ctx, tx, event); err != nil {
		return nil, err
	}

	slog.Info("task created",
		"task_id", task.ID,
		"employee_id", task.EmployeeID,
		"department", task.Department,
		"time_required_hours", task.TimeRequiredHours,
	)

	s.publish(ctx, events.NewLifecycleEvent(domain.EventTypeCreated, "", task, now))

	return task, nil
}

// GetTask returns a task by ID. Completed tasks never change, so only their
// snapshots are served from the cache.
func (s *TaskService) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	if err := validateTaskID(taskID); err != nil {
		return nil, err
	}

	key := cache.TaskKey(taskID)

	var cached domain.Task
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		slog.Warn("cache read failed", "task_id", taskID, "error", err)
	}
	if hit {
		return &cached, nil
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if task.Status.IsTerminal() {
		if err := s.cache.Set(ctx, key, task, s.cacheTTL); err != nil {
			slog.Warn("cache write failed", "task_id", taskID, "error", err)
		}
	}

	return task, nil
}

// ListTasks returns a filtered page of tasks and the total count.
func (s *TaskService) ListTasks(ctx context.Context, filters repository.TaskListFilters) ([]*domain.Task, int, error) {
	for _, status := range filters.Statuses {
		if !domain.TaskStatus(status).IsValid() {
			return nil, 0, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
		}
	}
	return s.taskRepo.List(ctx, filters)
}

// ListEvents returns the audit trail of a task, oldest first.
func (s *TaskService) ListEvents(ctx context.Context, taskID string) ([]*domain.TaskEvent, error) {
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	return s.eventRepo.GetByTaskID(ctx, taskID)
}
