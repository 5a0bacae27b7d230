package dto

import (
	"strconv"
	"time"

	"github.com/mtlprog/hrtask/internal/domain"
	"github.com/mtlprog/hrtask/internal/lifecycle"
	"github.com/mtlprog/hrtask/internal/repository"
)

// dateLayout is the wire format of calendar dates.
const dateLayout = "2006-01-02"

// StatusResponse acknowledges start, pause and resume.
type StatusResponse struct {
	Status string `json:"status"`
}

// FinishResponse is returned by POST /tasks/{id}/finish.
type FinishResponse struct {
	TimeTaken      string  `json:"timeTaken"`
	TimeTakenHours float64 `json:"timeTakenHours"`
	TimeRequired   float64 `json:"timeRequired"`
	TimeDifference string  `json:"timeDifference"`
	Rating         int     `json:"rating"`
}

// ToFinishResponse converts a finish result, rendering the difference with two decimals.
func ToFinishResponse(result lifecycle.Result) FinishResponse {
	return FinishResponse{
		TimeTaken:      result.TimeTaken,
		TimeTakenHours: result.TimeTakenHours,
		TimeRequired:   result.TimeRequiredHours,
		TimeDifference: strconv.FormatFloat(result.TimeDifference, 'f', 2, 64),
		Rating:         result.Rating,
	}
}

// TaskDetail represents the full task object.
type TaskDetail struct {
	ID                 string     `json:"id"`
	EmployeeID         string     `json:"employee_id"`
	EmployeeName       string     `json:"employee_name"`
	Department         string     `json:"department"`
	TaskName           string     `json:"task_name"`
	AssignmentDate     string     `json:"assignment_date"`
	TimeRequiredHours  float64    `json:"time_required_hours"`
	Status             string     `json:"status"`
	StartTime          *time.Time `json:"start_time"`
	TimeAccumulatedMs  int64      `json:"time_accumulated_ms"`
	ElapsedMs          int64      `json:"elapsed_ms"`
	TimeTakenFormatted *string    `json:"time_taken_formatted"`
	Rating             *int       `json:"rating"`
	CompletedAt        *time.Time `json:"completed_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ToTaskDetail converts a domain task. ElapsedMs includes the running
// interval as of now so clients can render a live timer.
func ToTaskDetail(task *domain.Task, now time.Time) TaskDetail {
	return TaskDetail{
		ID:                 task.ID,
		EmployeeID:         task.EmployeeID,
		EmployeeName:       task.EmployeeName,
		Department:         task.Department,
		TaskName:           task.TaskName,
		AssignmentDate:     task.AssignmentDate.Format(dateLayout),
		TimeRequiredHours:  task.TimeRequiredHours,
		Status:             string(task.Status),
		StartTime:          task.StartTime,
		TimeAccumulatedMs:  task.TimeAccumulatedMs,
		ElapsedMs:          task.ElapsedMs(now),
		TimeTakenFormatted: task.TimeTakenFormatted,
		Rating:             task.Rating,
		CompletedAt:        task.CompletedAt,
		CreatedAt:          task.CreatedAt,
		UpdatedAt:          task.UpdatedAt,
	}
}

// TasksListResponse represents the response for GET /tasks.
type TasksListResponse struct {
	Tasks  []TaskDetail `json:"tasks"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// TaskDetailResponse represents full task details with events.
type TaskDetailResponse struct {
	Task   TaskDetail      `json:"task"`
	Events []TaskEventInfo `json:"events"`
}

// TaskEventInfo represents one entry of the task audit trail.
type TaskEventInfo struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	OldStatus *string   `json:"old_status"`
	NewStatus *string   `json:"new_status"`
	ElapsedMs int64     `json:"elapsed_ms"`
	System    bool      `json:"system"`
	CreatedAt time.Time `json:"created_at"`
}

// ToTaskEventInfo converts a domain event.
func ToTaskEventInfo(event *domain.TaskEvent) TaskEventInfo {
	var oldStatus, newStatus *string
	if event.OldStatus != nil {
		s := string(*event.OldStatus)
		oldStatus = &s
	}
	if event.NewStatus != nil {
		s := string(*event.NewStatus)
		newStatus = &s
	}

	return TaskEventInfo{
		ID:        event.ID,
		Type:      string(event.Type),
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ElapsedMs: event.ElapsedMs,
		System:    event.IsSystemEvent(),
		CreatedAt: event.CreatedAt,
	}
}

// RatingReportResponse represents the response for GET /reports/ratings.
type RatingReportResponse struct {
	Granularity string              `json:"granularity"`
	From        string              `json:"from"`
	To          string              `json:"to"`
	Points      []RatingPointInfo   `json:"points"`
	Employees   []EmployeeStatsInfo `json:"employees"`
}

// RatingPointInfo is one bucket of the rating series.
type RatingPointInfo struct {
	Bucket         string  `json:"bucket"`
	AverageRating  float64 `json:"average_rating"`
	TasksCompleted int     `json:"tasks_completed"`
}

// EmployeeStatsInfo represents statistics for a single employee.
type EmployeeStatsInfo struct {
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name"`
	Department     string  `json:"department"`
	TasksCompleted int     `json:"tasks_completed"`
	TasksOpen      int     `json:"tasks_open"`
	AverageRating  float64 `json:"average_rating"`
	HoursTracked   float64 `json:"hours_tracked"`
}

// ToRatingReport converts reporting rows.
func ToRatingReport(
	granularity repository.RatingGranularity,
	from, to time.Time,
	points []repository.RatingPoint,
	employees []repository.EmployeeStatsResult,
) RatingReportResponse {
	resp := RatingReportResponse{
		Granularity: string(granularity),
		From:        from.Format(dateLayout),
		To:          to.Format(dateLayout),
		Points:      make([]RatingPointInfo, len(points)),
		Employees:   make([]EmployeeStatsInfo, len(employees)),
	}

	for i, p := range points {
		resp.Points[i] = RatingPointInfo{
			Bucket:         p.Bucket.Format(dateLayout),
			AverageRating:  p.AverageRating,
			TasksCompleted: p.TasksCompleted,
		}
	}

	for i, e := range employees {
		resp.Employees[i] = EmployeeStatsInfo{
			EmployeeID:     e.EmployeeID,
			EmployeeName:   e.EmployeeName,
			Department:     e.Department,
			TasksCompleted: e.TasksCompleted,
			TasksOpen:      e.TasksOpen,
			AverageRating:  e.AverageRating,
			HoursTracked:   e.HoursTracked,
		}
	}

	return resp
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
