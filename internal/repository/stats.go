package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mtlprog/hrtask/internal/domain"
)

// RatingGranularity selects the bucket size of a rating series.
type RatingGranularity string

const (
	GranularityDaily   RatingGranularity = "daily"
	GranularityMonthly RatingGranularity = "monthly"
)

// truncUnit maps a granularity to its date_trunc unit.
func (g RatingGranularity) truncUnit() (string, bool) {
	switch g {
	case GranularityDaily:
		return "day", true
	case GranularityMonthly:
		return "month", true
	default:
		return "", false
	}
}

// StatsFilters holds filters for rating aggregation queries.
type StatsFilters struct {
	Granularity RatingGranularity
	PeriodStart time.Time
	PeriodEnd   time.Time
	EmployeeID  *string // Optional: filter by specific employee
}

// RatingPoint is one bucket of an average-rating series.
type RatingPoint struct {
	Bucket         time.Time
	AverageRating  float64
	TasksCompleted int
}

// EmployeeStatsResult holds completed-task statistics for a single employee.
type EmployeeStatsResult struct {
	EmployeeID     string
	EmployeeName   string
	Department     string
	TasksCompleted int
	TasksOpen      int
	AverageRating  float64
	HoursTracked   float64
}

// GetRatingSeries aggregates average ratings of completed tasks per day or
// month of assignment date.
func (r *TaskRepository) GetRatingSeries(ctx context.Context, filters StatsFilters) ([]RatingPoint, error) {
	unit, ok := filters.Granularity.truncUnit()
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRatingPeriod, filters.Granularity)
	}

	// unit comes from a fixed whitelist
	query := fmt.Sprintf(`
		SELECT
			date_trunc('%s', assignment_date)::date AS bucket,
			AVG(rating)::float8 AS average_rating,
			COUNT(*) AS tasks_completed
		FROM tasks
		WHERE status = $1
		  AND assignment_date >= $2
		  AND assignment_date <= $3
	`, unit)

	args := []interface{}{domain.TaskStatusCompleted, filters.PeriodStart, filters.PeriodEnd}

	if filters.EmployeeID != nil {
		query += " AND employee_id = $4"
		args = append(args, *filters.EmployeeID)
	}

	query += " GROUP BY bucket ORDER BY bucket"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rating series: %w", err)
	}
	defer rows.Close()

	var points []RatingPoint
	for rows.Next() {
		var p RatingPoint
		if err := rows.Scan(&p.Bucket, &p.AverageRating, &p.TasksCompleted); err != nil {
			return nil, fmt.Errorf("scan rating point: %w", err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating rows: %w", err)
	}

	return points, nil
}

// GetEmployeeStats retrieves per-employee completion statistics for tasks
// assigned within the period.
func (r *TaskRepository) GetEmployeeStats(ctx context.Context, filters StatsFilters) ([]EmployeeStatsResult, error) {
	query := `
		SELECT
			employee_id,
			MAX(employee_name) AS employee_name,
			MAX(department) AS department,
			COUNT(CASE WHEN status = 'COMPLETED' THEN 1 END) AS tasks_completed,
			COUNT(CASE WHEN status <> 'COMPLETED' THEN 1 END) AS tasks_open,
			COALESCE(AVG(rating), 0)::float8 AS average_rating,
			COALESCE(SUM(CASE WHEN status = 'COMPLETED' THEN time_accumulated_ms END), 0)::float8 / 3600000.0 AS hours_tracked
		FROM tasks
		WHERE assignment_date >= $1 AND assignment_date <= $2
	`

	args := []interface{}{filters.PeriodStart, filters.PeriodEnd}

	if filters.EmployeeID != nil {
		query += " AND employee_id = $3"
		args = append(args, *filters.EmployeeID)
	}

	query += " GROUP BY employee_id ORDER BY employee_name"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query employee stats: %w", err)
	}
	defer rows.Close()

	var results []EmployeeStatsResult
	for rows.Next() {
		var result EmployeeStatsResult
		err := rows.Scan(
			&result.EmployeeID,
			&result.EmployeeName,
			&result.Department,
			&result.TasksCompleted,
			&result.TasksOpen,
			&result.AverageRating,
			&result.HoursTracked,
		)
		if err != nil {
			return nil, fmt.Errorf("scan employee stats: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employee stats rows: %w", err)
	}

	return results, nil
}
