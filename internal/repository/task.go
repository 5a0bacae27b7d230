package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/hrtask/internal/domain"
)

// taskColumns is the shared list of columns for task queries.
var taskColumns = []string{
	"id", "employee_id", "employee_name", "department", "task_name", "assignment_date",
	"time_required_hours", "status", "start_time", "time_accumulated_ms",
	"time_taken_formatted", "rating", "completed_at", "created_at", "updated_at",
}

// TaskRepository handles database operations for tasks.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// scanTask scans a single row into a Task struct.
func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.EmployeeID,
		&task.EmployeeName,
		&task.Department,
		&task.TaskName,
		&task.AssignmentDate,
		&task.TimeRequiredHours,
		&task.Status,
		&task.StartTime,
		&task.TimeAccumulatedMs,
		&task.TimeTakenFormatted,
		&task.Rating,
		&task.CompletedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &task, nil
}

// scanTasks scans multiple rows into a slice of Task structs.
func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

// GetByID retrieves a task by ID.
func (r *TaskRepository) GetByID(ctx context.Context, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for task: %w", err)
	}

	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves a task by ID with FOR UPDATE lock (within transaction).
func (r *TaskRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for task %s: %w", taskID, err)
	}

	return scanTask(tx.QueryRow(ctx, query, args...))
}

// ApplyTransition writes the timer and result fields of next, provided the
// stored status still equals oldStatus and banked time would not shrink.
// A stale row yields ErrInvalidState.
func (r *TaskRepository) ApplyTransition(
	ctx context.Context,
	tx pgx.Tx,
	oldStatus domain.TaskStatus,
	next *domain.Task,
) error {
	query, args, err := psql.
		Update("tasks").
		Set("status", next.Status).
		Set("start_time", next.StartTime).
		Set("time_accumulated_ms", next.TimeAccumulatedMs).
		Set("time_taken_formatted", next.TimeTakenFormatted).
		Set("rating", next.Rating).
		Set("completed_at", next.CompletedAt).
		Set("updated_at", next.UpdatedAt).
		Where(sq.Eq{
			"id":     next.ID,
			"status": oldStatus,
		}).
		Where(sq.LtOrEq{"time_accumulated_ms": next.TimeAccumulatedMs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build ApplyTransition query for task %s: %w", next.ID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task timer: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: task %s is no longer in %s status", domain.ErrInvalidState, next.ID, oldStatus)
	}

	return nil
}

// FindRunningSince finds IN_PROGRESS tasks whose active interval began before cutoff.
func (r *TaskRepository) FindRunningSince(ctx context.Context, cutoff time.Time) ([]*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"status": domain.TaskStatusInProgress}).
		Where(sq.Lt{"start_time": cutoff}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build FindRunningSince query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query running tasks: %w", err)
	}

	return scanTasks(rows)
}

// Create creates a new task in the database within a transaction.
// Returns the created task with ID, CreatedAt, and UpdatedAt populated.
func (r *TaskRepository) Create(ctx context.Context, tx pgx.Tx, task *domain.Task) (*domain.Task, error) {
	task.Status = domain.TaskStatusNotStarted
	task.StartTime = nil
	task.TimeAccumulatedMs = 0

	query, args, err := psql.
		Insert("tasks").
		Columns(
			"employee_id", "employee_name", "department", "task_name",
			"assignment_date", "time_required_hours", "status", "time_accumulated_ms",
		).
		Values(
			task.EmployeeID,
			task.EmployeeName,
			task.Department,
			task.TaskName,
			task.AssignmentDate,
			task.TimeRequiredHours,
			task.Status,
			task.TimeAccumulatedMs,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for task: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return task, nil
}
