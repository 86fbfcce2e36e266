package handlers

import (
	"context"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/dev-quest/quest_api/dto"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(req dto.LoginRequest) (*dto.AuthResponse, error)
	ForgotPassword(req dto.ForgotPasswordRequest) error
	ResetPassword(req dto.ResetPasswordRequest) error
	RequiredAuth() fiber.Handler
	RequireRole(role string) fiber.Handler
}

type TaskServiceInterface interface {
	CreateTask(userID string, req dto.CreateTaskRequest) (*dto.TaskResponse, error)
	GetTasks(userID string, limit int) ([]dto.TaskResponse, error)
	GetTask(userID, taskID string) (*dto.TaskResponse, error)
	UpdateTask(userID, taskID string, req dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	DeleteTask(userID, taskID string) error
	CompleteTask(userID, taskID string, req dto.CompleteTaskRequest) (*dto.CompletionResponse, error)
}

type ProgressionServiceInterface interface {
	GetStatsSnapshot(userID string) (*dto.StatsResponse, error)
	GetAchievementStats(userID string) (*dto.AchievementStatsResponse, error)
}

type ChallengeServiceInterface interface {
	GetDaily(userID string) (*dto.ChallengeResponse, error)
	Complete(userID, challengeID string) (*dto.ChallengeCompletionResponse, error)
}

type LeaderboardServiceInterface interface {
	GetLeaderboard(ctx context.Context, userID, timeframe string) (*dto.LeaderboardResponse, error)
}

type UserServiceInterface interface {
	GetProfile(userID string) (*dto.ProfileResponse, error)
	UpdateProfile(userID string, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	GetProfileStats(userID string) (*dto.ProfileStatsResponse, error)
}

type MediaServiceInterface interface {
	UploadAvatar(userID string, file *multipart.FileHeader) (*dto.AvatarResponse, error)
}
