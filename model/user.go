package model

import (
	"encoding/json"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID            string `gorm:"primaryKey"`
	Email         string `gorm:"uniqueIndex;not null"`
	Username      string `gorm:"uniqueIndex;not null"`
	Password      string
	Role          string `gorm:"not null;default:user"`
	Bio           string
	AvatarURL     string
	TechStack     json.RawMessage `gorm:"type:text"`
	LearningGoals json.RawMessage `gorm:"type:text"`
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
