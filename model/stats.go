package model

import "time"

// UserStats is the per-user progression state. Mutated exclusively by the
// progression service; Version backs the optimistic compare-and-swap on
// every persist. Level is never stored, always derived from XP.
type UserStats struct {
	ID               string `gorm:"primaryKey"`
	UserID           string `gorm:"uniqueIndex;not null"`
	XP               int    `gorm:"not null;default:0"`
	Coins            int    `gorm:"not null;default:0"`
	Streak           int    `gorm:"not null;default:0"`
	LastActivityDate *time.Time
	TasksCompleted   int     `gorm:"not null;default:0"`
	TotalHoursCoded  float64 `gorm:"not null;default:0"`
	Version          int64   `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
