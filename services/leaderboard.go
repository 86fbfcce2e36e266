package services

import (
	stdContext "context"
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/dev-quest/quest_api/dto"
	"github.com/dev-quest/quest_api/progression"
	"github.com/dev-quest/quest_api/shared"
)

// LeaderboardService ranks users by cumulative XP. Boards are cached in
// Redis briefly; the caller's own rank is always computed fresh so a user
// sees their latest completion reflected immediately.
type LeaderboardService struct {
	context.DefaultService

	sqlSvc   *SqlService
	redisSvc *RedisService
}

const LEADERBOARD_SVC = "leaderboard_svc"

const (
	leaderboardSize     = 50
	leaderboardCacheTTL = 60 * time.Second
)

func (svc LeaderboardService) Id() string {
	return LEADERBOARD_SVC
}

func (svc *LeaderboardService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// GetLeaderboard returns the board for the timeframe plus the caller's own
// entry when they fall outside the visible top.
func (svc *LeaderboardService) GetLeaderboard(ctx stdContext.Context, userID, timeframe string) (*dto.LeaderboardResponse, error) {
	if timeframe == "" {
		timeframe = shared.TimeframeAllTime
	}

	since, err := timeframeSince(timeframe, time.Now())
	if err != nil {
		return nil, shared.NewBadRequestError(err, "Invalid timeframe")
	}

	entries, err := svc.boardEntries(ctx, timeframe, since)
	if err != nil {
		return nil, err
	}

	resp := &dto.LeaderboardResponse{
		Timeframe:   timeframe,
		Leaderboard: entries,
	}

	for i := range entries {
		if entries[i].UserID == userID {
			resp.UserRank = &entries[i]
			return resp, nil
		}
	}

	if own, err := svc.ownEntry(userID); err == nil {
		resp.UserRank = own
	} else {
		log.WithError(err).WithField("user_id", userID).Debug("No leaderboard entry for caller")
	}

	return resp, nil
}

func (svc *LeaderboardService) boardEntries(ctx stdContext.Context, timeframe string, since *time.Time) ([]dto.LeaderboardEntry, error) {
	cacheKey := fmt.Sprintf("leaderboard:%s", timeframe)

	var cached []dto.LeaderboardEntry
	if hit, err := svc.redisSvc.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	} else if err != nil {
		log.WithError(err).Warn("Leaderboard cache read failed")
	}

	rows, err := svc.sqlSvc.TopStats(leaderboardSize, since)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	userIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		userIDs = append(userIDs, row.UserID)
	}
	users, err := svc.sqlSvc.GetUsersByIDs(userIDs)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	entries := make([]dto.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		level, _ := progression.ResolveLevel(row.XP)
		entry := dto.LeaderboardEntry{
			Rank:           i + 1,
			UserID:         row.UserID,
			XP:             row.XP,
			Level:          level.Level,
			Streak:         row.Streak,
			TasksCompleted: row.TasksCompleted,
		}
		if user, ok := users[row.UserID]; ok {
			entry.Username = user.Username
			entry.AvatarURL = user.AvatarURL
		}
		entries = append(entries, entry)
	}

	if err := svc.redisSvc.Set(ctx, cacheKey, entries, leaderboardCacheTTL); err != nil {
		log.WithError(err).Warn("Leaderboard cache write failed")
	}

	return entries, nil
}

func (svc *LeaderboardService) ownEntry(userID string) (*dto.LeaderboardEntry, error) {
	rank, err := svc.sqlSvc.GetUserRank(userID)
	if err != nil {
		return nil, err
	}

	stats, err := svc.sqlSvc.GetUserStats(userID)
	if err != nil {
		return nil, err
	}

	user, err := svc.sqlSvc.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	level, _ := progression.ResolveLevel(stats.XP)
	return &dto.LeaderboardEntry{
		Rank:           rank,
		UserID:         userID,
		Username:       user.Username,
		AvatarURL:      user.AvatarURL,
		XP:             stats.XP,
		Level:          level.Level,
		Streak:         stats.Streak,
		TasksCompleted: stats.TasksCompleted,
	}, nil
}

// timeframeSince maps a timeframe to the start of its activity window.
// All-time boards have no window.
func timeframeSince(timeframe string, now time.Time) (*time.Time, error) {
	switch timeframe {
	case shared.TimeframeWeekly:
		since := now.AddDate(0, 0, -7)
		return &since, nil
	case shared.TimeframeMonthly:
		since := now.AddDate(0, -1, 0)
		return &since, nil
	case shared.TimeframeAllTime, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown timeframe %q", timeframe)
	}
}
