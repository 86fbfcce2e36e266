package dto

import "time"

type ChallengeResponse struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  string     `json:"difficulty"`
	XPBonus     int        `json:"xpBonus"`
	CoinBonus   int        `json:"coinBonus"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// ChallengeCompletionResponse mirrors the socket challengeCompleted payload.
type ChallengeCompletionResponse struct {
	Challenge        ChallengeResponse     `json:"challenge"`
	User             StatsResponse         `json:"user"`
	XPGained         int                   `json:"xpGained"`
	CoinsGained      int                   `json:"coinsGained"`
	LeveledUp        bool                  `json:"leveledUp"`
	NewlyUnlocked    []AchievementResponse `json:"newlyUnlocked"`
	MilestoneMessage string                `json:"milestoneMessage,omitempty"`
}
