package repository

import "errors"

// Common repository errors
var (
	// ErrTaskNotFound is returned when an update or delete matches no task
	ErrTaskNotFound = errors.New("task not found")

	// ErrSprintNotFound is returned when an update matches no sprint
	ErrSprintNotFound = errors.New("sprint not found")
)
