package model

import "time"

type Task struct {
	ID            string `gorm:"primaryKey"`
	UserID        string `gorm:"index;not null"`
	Name          string `gorm:"not null"`
	Description   string
	Difficulty    string `gorm:"not null"` // easy | medium | hard
	EstimatedTime int    `gorm:"not null"` // minutes
	ActualTime    int    // minutes, supplied on completion
	Status        string `gorm:"not null;default:pending;index"`
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
