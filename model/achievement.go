package model

import "time"

// Achievement mirrors one catalog entry into the database so unlock records
// can join against display text. The catalog file is the source of truth;
// rows are upserted by criteria at startup.
type Achievement struct {
	ID              string `gorm:"primaryKey"`
	Criteria        string `gorm:"uniqueIndex;not null"`
	Name            string `gorm:"not null"`
	Description     string
	ThresholdMetric string `gorm:"not null"`
	ThresholdValue  int    `gorm:"not null"`
	SortOrder       int    `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UserAchievement is the per-user unlock record, created lazily on first
// evaluation. Unlocked flips false→true exactly once; UnlockedAt is never
// overwritten after that.
type UserAchievement struct {
	ID         string `gorm:"primaryKey"`
	UserID     string `gorm:"index:idx_user_criteria,unique;not null"`
	Criteria   string `gorm:"index:idx_user_criteria,unique;not null"`
	Unlocked   bool   `gorm:"not null;default:false"`
	UnlockedAt *time.Time
	Progress   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
