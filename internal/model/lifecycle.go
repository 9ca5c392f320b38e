package model

import "time"

// LifecycleFlag is a named, set-once marker for board-wide lifecycle events.
type LifecycleFlag struct {
	Name  string    `gorm:"primaryKey"`
	SetAt time.Time `gorm:"not null"`
}

// FlagFirstSprintPromoted is claimed by the sprint that becomes the board's first Active sprint.
const FlagFirstSprintPromoted = "first_sprint_promoted"
