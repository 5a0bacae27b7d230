package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Task errors
	ErrTaskNotFound = errors.New("task not found")
	ErrInvalidState = errors.New("invalid task state for this action")

	// Validation errors
	ErrInvalidStatus         = errors.New("invalid task status")
	ErrInvalidTimeRequired   = errors.New("time required must be a positive number of hours")
	ErrEmptyEmployee         = errors.New("employee id is required")
	ErrEmptyTaskName         = errors.New("task name is required")
	ErrInvalidAssignmentDate = errors.New("assignment date is required")
	ErrInvalidRatingPeriod   = errors.New("invalid rating period")
)
