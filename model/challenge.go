package model

import "time"

// Challenge is a daily coding challenge. One challenge is active per
// calendar day; Date is the day it belongs to (YYYY-MM-DD).
type Challenge struct {
	ID          string `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string
	Difficulty  string `gorm:"not null"`
	Date        string `gorm:"uniqueIndex;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserChallenge records one user's completion of a challenge, at most once.
type UserChallenge struct {
	ID          string `gorm:"primaryKey"`
	UserID      string `gorm:"index:idx_user_challenge,unique;not null"`
	ChallengeID string `gorm:"index:idx_user_challenge,unique;not null"`
	CompletedAt time.Time
	CreatedAt   time.Time
}
