package services

import (
	"errors"
	"fmt"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/dev-quest/quest_api/dto"
	"github.com/dev-quest/quest_api/model"
	"github.com/dev-quest/quest_api/progression"
	"github.com/dev-quest/quest_api/shared"
)

type UserService struct {
	context.DefaultService

	sqlSvc *SqlService
}

const USER_SVC = "user_svc"

func (svc UserService) Id() string {
	return USER_SVC
}

func (svc *UserService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	return nil
}

func (svc *UserService) GetProfile(userID string) (*dto.ProfileResponse, error) {
	user, err := svc.sqlSvc.GetUserByID(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := userToProfile(user)
	return &resp, nil
}

func (svc *UserService) UpdateProfile(userID string, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed")
	}

	updates := map[string]interface{}{}

	if req.Username != "" {
		taken, err := svc.sqlSvc.IsUsernameTaken(req.Username, userID)
		if err != nil {
			return nil, svc.sqlSvc.HandleError(err)
		}
		if taken {
			return nil, shared.NewConflictError(errors.New("username taken"), "Username is already taken")
		}
		updates["username"] = req.Username
	}

	if req.Bio != "" {
		updates["bio"] = req.Bio
	}

	if req.TechStack != nil {
		raw, err := shared.JSONMarshal(req.TechStack)
		if err != nil {
			return nil, shared.NewBadRequestError(err, "Invalid tech stack")
		}
		updates["tech_stack"] = raw
	}

	if req.LearningGoals != nil {
		raw, err := shared.JSONMarshal(req.LearningGoals)
		if err != nil {
			return nil, shared.NewBadRequestError(err, "Invalid learning goals")
		}
		updates["learning_goals"] = raw
	}

	if len(updates) > 0 {
		if err := svc.sqlSvc.UpdateUser(userID, updates); err != nil {
			return nil, svc.sqlSvc.HandleError(err)
		}
	}

	return svc.GetProfile(userID)
}

// GetProfileStats aggregates the profile screen numbers: derived level, global
// rank and the unlocked achievement count.
func (svc *UserService) GetProfileStats(userID string) (*dto.ProfileStatsResponse, error) {
	stats, err := svc.sqlSvc.GetUserStats(userID)
	if err != nil {
		if errors.Is(err, progression.ErrUserNotFound) {
			return nil, shared.NewNotFoundError(err, "User stats not found")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	level, err := progression.ResolveLevel(stats.XP)
	if err != nil {
		return nil, shared.NewInternalError(err, "Stored XP is invalid")
	}

	rank, err := svc.sqlSvc.GetUserRank(userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Failed to resolve rank")
		rank = 0
	}

	unlocked, err := svc.sqlSvc.CountUnlockedAchievements(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	return &dto.ProfileStatsResponse{
		Level:          level.Level,
		XP:             stats.XP,
		XPIntoLevel:    level.XPIntoLevel,
		XPToNextLevel:  level.XPToNext,
		Streak:         stats.Streak,
		Rank:           fmt.Sprintf("#%d", rank),
		TasksCompleted: stats.TasksCompleted,
		HoursCoded:     stats.TotalHoursCoded,
		Achievements:   int(unlocked),
	}, nil
}

func (svc *UserService) SetAvatarURL(userID, url string) error {
	if err := svc.sqlSvc.UpdateUser(userID, map[string]interface{}{"avatar_url": url}); err != nil {
		return svc.sqlSvc.HandleError(err)
	}
	return nil
}

func userToProfile(user *model.User) dto.ProfileResponse {
	resp := dto.ProfileResponse{
		ID:            user.ID,
		Username:      user.Username,
		Email:         user.Email,
		Bio:           user.Bio,
		Avatar:        user.AvatarURL,
		TechStack:     []string{},
		LearningGoals: []string{},
		CreatedAt:     user.CreatedAt,
	}

	if len(user.TechStack) > 0 {
		_ = shared.JSONUnmarshal(user.TechStack, &resp.TechStack)
	}
	if len(user.LearningGoals) > 0 {
		_ = shared.JSONUnmarshal(user.LearningGoals, &resp.LearningGoals)
	}

	return resp
}
