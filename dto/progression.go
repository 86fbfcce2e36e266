package dto

import (
	"fmt"
	"time"
)

// StatsResponse is the engine-owned stats snapshot. Level fields are always
// derived from XP server-side; clients never compute them independently.
type StatsResponse struct {
	XP               int        `json:"xp"`
	Coins            int        `json:"coins"`
	Streak           int        `json:"streak"`
	TasksCompleted   int        `json:"tasksCompleted"`
	TotalHoursCoded  float64    `json:"totalHoursCoded"`
	Level            int        `json:"level"`
	XPIntoLevel      int        `json:"xpIntoLevel"`
	XPToNextLevel    int        `json:"xpToNextLevel"`
	LastActivityDate *time.Time `json:"lastActivityDate,omitempty"`
}

type AchievementResponse struct {
	Criteria    string     `json:"criteria"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
	Progress    string     `json:"progress,omitempty"`
}

// ProgressString renders the "current/total" display for a locked
// achievement.
func ProgressString(current, total int) string {
	return fmt.Sprintf("%d/%d", current, total)
}

// AchievementStatsResponse backs GET /achievements/stats.
type AchievementStatsResponse struct {
	Stats        StatsResponse         `json:"stats"`
	Achievements []AchievementResponse `json:"achievements"`
}

// CompletionResponse is the ProgressionResult of one completion event, both
// the HTTP response body and the payload pushed over the socket.
type CompletionResponse struct {
	Task             *TaskResponse         `json:"task,omitempty"`
	User             StatsResponse         `json:"user"`
	XPGained         int                   `json:"xpGained"`
	CoinsGained      int                   `json:"coinsGained"`
	LeveledUp        bool                  `json:"leveledUp"`
	NewlyUnlocked    []AchievementResponse `json:"newlyUnlocked"`
	MilestoneMessage string                `json:"milestoneMessage,omitempty"`
}
