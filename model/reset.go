package model

import "time"

// PasswordResetCode is a single-use 6-digit code mailed to the user.
// Issuing a new code invalidates the user's earlier ones.
type PasswordResetCode struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index;not null"`
	Code      string `gorm:"index;not null"`
	ExpiresAt time.Time
	Used      bool `gorm:"not null;default:false"`
	CreatedAt time.Time
}
