package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Username       string    `gorm:"uniqueIndex;not null"`
	Email          string    `gorm:"not null"`
	HashedPassword string    `gorm:"not null"`
	Role           Role      `gorm:"not null;default:'employee'"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}
