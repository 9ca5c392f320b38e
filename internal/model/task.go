package model

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	StatusPlanning  TaskStatus = "Planning"
	StatusExecution TaskStatus = "Execution"
	StatusReview    TaskStatus = "Review"
)

// TaskStatuses lists the board columns in display order.
var TaskStatuses = []TaskStatus{StatusPlanning, StatusExecution, StatusReview}

// Valid reports whether s is one of the board columns.
func (s TaskStatus) Valid() bool {
	for _, status := range TaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Terminal reports whether tasks in this status count as done.
func (s TaskStatus) Terminal() bool {
	return s == StatusReview
}

type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

type Task struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string       `gorm:"not null"`
	Description string
	Status      TaskStatus   `gorm:"not null;default:'Planning';index"`
	Priority    TaskPriority `gorm:"not null;default:'low'"`
	AssignedTo  *uuid.UUID   `gorm:"type:uuid;index"`
	SprintID    uuid.UUID    `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Assignee *User   `gorm:"foreignKey:AssignedTo"`
	Sprint   *Sprint `gorm:"foreignKey:SprintID"`
}
