package model

import (
	"time"

	"github.com/google/uuid"
)

type SprintStatus string

const (
	SprintPending   SprintStatus = "Pending"
	SprintActive    SprintStatus = "Active"
	SprintCompleted SprintStatus = "Completed"
)

type Sprint struct {
	ID        uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string       `gorm:"not null"`
	StartDate time.Time    `gorm:"not null"`
	EndDate   time.Time    `gorm:"not null;index"`
	Status    SprintStatus `gorm:"not null;default:'Pending'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the sprint's end date lies before now.
func (s *Sprint) Expired(now time.Time) bool {
	return s.EndDate.Before(now)
}
