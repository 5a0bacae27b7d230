package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/mtlprog/hrtask/internal/domain"
)

// sortableColumns whitelists ORDER BY fields accepted from callers.
var sortableColumns = map[string]bool{
	"assignment_date":     true,
	"created_at":          true,
	"updated_at":          true,
	"employee_name":       true,
	"task_name":           true,
	"rating":              true,
	"time_required_hours": true,
	"status":              true,
}

// TaskListFilters holds all supported filters for task listing.
type TaskListFilters struct {
	EmployeeID *string    // Optional: filter by owner
	Department *string    // Optional: filter by department
	Statuses   []string   // Optional: filter by status
	From       *time.Time // Optional: assignment_date >= From
	To         *time.Time // Optional: assignment_date <= To
	Sort       []string   // Optional: sort fields (with - prefix for DESC)
	Limit      int        // Required: page size
	Offset     int        // Required: page offset
}

func (f TaskListFilters) apply(qb sq.SelectBuilder) sq.SelectBuilder {
	if f.EmployeeID != nil {
		qb = qb.Where(sq.Eq{"employee_id": *f.EmployeeID})
	}
	if f.Department != nil {
		qb = qb.Where(sq.Eq{"department": *f.Department})
	}
	if len(f.Statuses) > 0 {
		qb = qb.Where(sq.Eq{"status": f.Statuses})
	}
	if f.From != nil {
		qb = qb.Where(sq.GtOrEq{"assignment_date": *f.From})
	}
	if f.To != nil {
		qb = qb.Where(sq.LtOrEq{"assignment_date": *f.To})
	}
	return qb
}

// List retrieves tasks with filters and pagination, plus the unpaginated total.
func (r *TaskRepository) List(ctx context.Context, filters TaskListFilters) ([]*domain.Task, int, error) {
	qb := filters.apply(psql.Select(taskColumns...).From("tasks"))

	qb = orderBy(qb, filters.Sort, sortableColumns, "assignment_date DESC", "created_at DESC")

	qb = qb.Limit(uint64(filters.Limit)).Offset(uint64(filters.Offset))

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query tasks: %w", err)
	}

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := filters.apply(psql.Select("COUNT(*)").From("tasks")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	return tasks, total, nil
}
