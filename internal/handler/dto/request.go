package dto

// CreateTaskRequest represents the request body for POST /tasks.
type CreateTaskRequest struct {
	EmployeeID        string  `json:"employee_id"`
	EmployeeName      string  `json:"employee_name"`
	Department        string  `json:"department"`
	TaskName          string  `json:"task_name"`
	AssignmentDate    string  `json:"assignment_date"` // YYYY-MM-DD
	TimeRequiredHours float64 `json:"time_required_hours"`
}
