package dto

type LeaderboardEntry struct {
	Rank           int    `json:"rank"`
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	AvatarURL      string `json:"avatar,omitempty"`
	XP             int    `json:"xp"`
	Level          int    `json:"level"`
	Streak         int    `json:"streak"`
	TasksCompleted int    `json:"tasksCompleted"`
}

type LeaderboardResponse struct {
	Timeframe   string             `json:"timeframe"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	UserRank    *LeaderboardEntry  `json:"userRank,omitempty"`
}
