package shared

const (
	UserID    = "user_id"
	SessionID = "session_id"

	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"

	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"

	TimeframeWeekly  = "weekly"
	TimeframeMonthly = "monthly"
	TimeframeAllTime = "all-time"
)
