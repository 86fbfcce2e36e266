package dto

import "time"

type ProfileResponse struct {
	ID            string    `json:"_id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Bio           string    `json:"bio,omitempty"`
	Avatar        string    `json:"avatar,omitempty"`
	TechStack     []string  `json:"techStack"`
	LearningGoals []string  `json:"learningGoals"`
	CreatedAt     time.Time `json:"createdAt"`
}

type UpdateProfileRequest struct {
	Username      string   `json:"username" validate:"omitempty,min=3,max=20,alphanum"`
	Bio           string   `json:"bio" validate:"max=500"`
	TechStack     []string `json:"techStack" validate:"max=20"`
	LearningGoals []string `json:"learningGoals" validate:"max=20"`
}

func (r UpdateProfileRequest) Validate() error {
	return GetValidator().Struct(r)
}

// ProfileStatsResponse backs GET /profile/stats. Level and rank are derived,
// never stored.
type ProfileStatsResponse struct {
	Level          int     `json:"level"`
	XP             int     `json:"xp"`
	XPIntoLevel    int     `json:"xpIntoLevel"`
	XPToNextLevel  int     `json:"xpToNextLevel"`
	Streak         int     `json:"streak"`
	Rank           string  `json:"rank"`
	TasksCompleted int     `json:"tasksCompleted"`
	HoursCoded     float64 `json:"hoursCoded"`
	Achievements   int     `json:"achievements"`
}

type AvatarResponse struct {
	Avatar string `json:"avatar"`
}
