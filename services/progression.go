package services

import (
	"errors"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/dev-quest/quest_api/dto"
	"github.com/dev-quest/quest_api/model"
	"github.com/dev-quest/quest_api/progression"
	"github.com/dev-quest/quest_api/shared"
)

// ProgressionService owns the single mutation path for user stats. Every
// XP-bearing action, whatever its transport, funnels through ApplyCompletion.
type ProgressionService struct {
	context.DefaultService

	sqlSvc        *SqlService
	catalogSvc    *CatalogService
	monitoringSvc *MonitoringService

	clock progression.Clock

	// Serializes completions per user within this process. The version
	// check in the stats update guards against other writers.
	userLocks sync.Map
}

const PROGRESSION_SVC = "progression_svc"

const maxConflictRetries = 3

// CompletionEvent describes one finished XP-bearing action. BonusCoins is
// for actions that pay more than the plain difficulty reward.
type CompletionEvent struct {
	Difficulty  string
	ActualTime  int // minutes
	BonusCoins  int
	CompletedAt time.Time
}

// CompletionOutcome is what one applied completion produced.
type CompletionOutcome struct {
	Stats            *model.UserStats
	Reward           progression.Reward
	Level            progression.LevelInfo
	LeveledUp        bool
	StreakBroken     bool
	NewlyUnlocked    []progression.AchievementDef
	MilestoneMessage string
}

func (svc ProgressionService) Id() string {
	return PROGRESSION_SVC
}

func (svc *ProgressionService) Configure(ctx *context.Context) error {
	svc.clock = progression.SystemClock{}
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressionService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.catalogSvc = svc.Service(CATALOG_SVC).(*CatalogService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	return nil
}

func (svc *ProgressionService) lockUser(userID string) *sync.Mutex {
	mu, _ := svc.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// ApplyCompletion validates, computes and atomically persists the full effect
// of one completion: reward, streak, derived level and achievement unlocks.
// Extra writes that must commit with the stats (the task row, a challenge
// record) ride along via withTx. On version conflict the whole computation is
// retried against fresh stats.
func (svc *ProgressionService) ApplyCompletion(userID string, event CompletionEvent, withTx ...func(tx *gorm.DB) error) (*CompletionOutcome, error) {
	reward, err := progression.CalculateReward(event.Difficulty)
	if err != nil {
		return nil, shared.NewBadRequestError(err, "Invalid difficulty")
	}

	completedAt := event.CompletedAt
	if completedAt.IsZero() {
		completedAt = svc.clock.Now()
	}

	mu := svc.lockUser(userID)
	mu.Lock()
	defer mu.Unlock()

	var outcome *CompletionOutcome
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		outcome, err = svc.applyOnce(userID, event, reward, completedAt, withTx)
		if errors.Is(err, progression.ErrConcurrentModification) {
			svc.monitoringSvc.RecordConflictRetry()
			log.WithFields(log.Fields{"user_id": userID, "attempt": attempt + 1}).
				Warn("Stats version conflict, retrying completion")
			continue
		}
		break
	}
	if err != nil {
		if errors.Is(err, progression.ErrUserNotFound) {
			return nil, shared.NewNotFoundError(err, "User stats not found")
		}
		if errors.Is(err, progression.ErrInvalidTimestamp) {
			return nil, shared.NewBadRequestError(err, "Completion timestamp precedes last activity")
		}
		if errors.Is(err, progression.ErrConcurrentModification) {
			return nil, shared.NewConflictError(err, "Stats are being updated, please retry")
		}
		if _, ok := shared.GetAppError(err); ok {
			return nil, err
		}
		return nil, shared.NewInternalError(err, "Failed to apply completion")
	}

	svc.monitoringSvc.RecordCompletion(event.Difficulty, outcome.LeveledUp, outcome.StreakBroken, len(outcome.NewlyUnlocked))
	return outcome, nil
}

func (svc *ProgressionService) applyOnce(userID string, event CompletionEvent, reward progression.Reward, completedAt time.Time, withTx []func(tx *gorm.DB) error) (*CompletionOutcome, error) {
	stats, err := svc.sqlSvc.GetUserStats(userID)
	if err != nil {
		return nil, err
	}

	streak, err := progression.AdvanceStreak(stats.Streak, stats.LastActivityDate, completedAt)
	if err != nil {
		return nil, err
	}

	before, err := progression.ResolveLevel(stats.XP)
	if err != nil {
		return nil, err
	}

	expectedVersion := stats.Version
	prevStreak := stats.Streak

	stats.XP += reward.XP
	stats.Coins += reward.Coins + event.BonusCoins
	stats.TasksCompleted++
	stats.TotalHoursCoded += float64(event.ActualTime) / 60.0
	stats.Streak = streak.NewStreak
	activity := progression.DayOf(completedAt)
	stats.LastActivityDate = &activity

	after, err := progression.ResolveLevel(stats.XP)
	if err != nil {
		return nil, err
	}
	leveledUp := after.Level > before.Level

	records, err := svc.sqlSvc.GetUserAchievements(userID)
	if err != nil {
		return nil, err
	}

	eval := progression.Evaluate(
		progression.StatsView{
			XP:              stats.XP,
			Coins:           stats.Coins,
			Streak:          stats.Streak,
			TasksCompleted:  stats.TasksCompleted,
			TotalHoursCoded: stats.TotalHoursCoded,
		},
		svc.catalogSvc.Snapshot(),
		toUnlockRecords(records),
		completedAt,
	)

	err = svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		if err := svc.sqlSvc.UpdateUserStatsCAS(tx, stats, expectedVersion); err != nil {
			return err
		}
		if err := svc.sqlSvc.SaveUserAchievements(tx, toUserAchievements(userID, eval.UpdatedRecords)); err != nil {
			return err
		}
		for _, fn := range withTx {
			if err := fn(tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CompletionOutcome{
		Stats:            stats,
		Reward:           reward,
		Level:            after,
		LeveledUp:        leveledUp,
		StreakBroken:     streak.Broken,
		NewlyUnlocked:    eval.NewlyUnlocked,
		MilestoneMessage: progression.ComposeMilestone(leveledUp, after.Level, prevStreak, streak.NewStreak),
	}, nil
}

// GetStatsSnapshot returns the user's stats with the derived level fields
// attached.
func (svc *ProgressionService) GetStatsSnapshot(userID string) (*dto.StatsResponse, error) {
	stats, err := svc.sqlSvc.GetUserStats(userID)
	if err != nil {
		if errors.Is(err, progression.ErrUserNotFound) {
			return nil, shared.NewNotFoundError(err, "User stats not found")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := StatsToResponse(stats)
	return &resp, nil
}

// GetAchievementStats composes the achievements screen: the full catalog with
// the user's unlock state and live progress strings. Display only; unlocks
// happen exclusively inside ApplyCompletion.
func (svc *ProgressionService) GetAchievementStats(userID string) (*dto.AchievementStatsResponse, error) {
	stats, err := svc.sqlSvc.GetUserStats(userID)
	if err != nil {
		if errors.Is(err, progression.ErrUserNotFound) {
			return nil, shared.NewNotFoundError(err, "User stats not found")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	records, err := svc.sqlSvc.GetUserAchievements(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	byCriteria := make(map[string]model.UserAchievement, len(records))
	for _, rec := range records {
		byCriteria[rec.Criteria] = rec
	}

	view := progression.StatsView{
		XP:              stats.XP,
		Coins:           stats.Coins,
		Streak:          stats.Streak,
		TasksCompleted:  stats.TasksCompleted,
		TotalHoursCoded: stats.TotalHoursCoded,
	}

	catalog := svc.catalogSvc.Snapshot()
	achievements := make([]dto.AchievementResponse, 0, len(catalog))
	for _, def := range catalog {
		entry := dto.AchievementResponse{
			Criteria:    def.Criteria,
			Name:        def.Name,
			Description: def.Description,
		}

		if rec, ok := byCriteria[def.Criteria]; ok && rec.Unlocked {
			entry.Unlocked = true
			entry.UnlockedAt = rec.UnlockedAt
			entry.Progress = "Completed"
		} else if current, ok := view.Metric(def.ThresholdMetric); ok {
			entry.Progress = dto.ProgressString(current, def.ThresholdValue)
		}

		achievements = append(achievements, entry)
	}

	return &dto.AchievementStatsResponse{
		Stats:        StatsToResponse(stats),
		Achievements: achievements,
	}, nil
}

// StatsToResponse attaches the derived level fields to a stats row.
func StatsToResponse(stats *model.UserStats) dto.StatsResponse {
	level, err := progression.ResolveLevel(stats.XP)
	if err != nil {
		// Stored XP can't go negative through the engine; surface zero
		// rather than failing a read.
		log.WithField("user_id", stats.UserID).WithError(err).Error("Stored XP is invalid")
		level, _ = progression.ResolveLevel(0)
	}

	return dto.StatsResponse{
		XP:               stats.XP,
		Coins:            stats.Coins,
		Streak:           stats.Streak,
		TasksCompleted:   stats.TasksCompleted,
		TotalHoursCoded:  stats.TotalHoursCoded,
		Level:            level.Level,
		XPIntoLevel:      level.XPIntoLevel,
		XPToNextLevel:    level.XPToNext,
		LastActivityDate: stats.LastActivityDate,
	}
}

// AchievementsToResponses maps newly unlocked catalog entries for the wire.
func AchievementsToResponses(defs []progression.AchievementDef, unlockedAt time.Time) []dto.AchievementResponse {
	out := make([]dto.AchievementResponse, 0, len(defs))
	for _, def := range defs {
		at := unlockedAt
		out = append(out, dto.AchievementResponse{
			Criteria:    def.Criteria,
			Name:        def.Name,
			Description: def.Description,
			Unlocked:    true,
			UnlockedAt:  &at,
			Progress:    "Completed",
		})
	}
	return out
}

func toUnlockRecords(records []model.UserAchievement) []progression.UnlockRecord {
	out := make([]progression.UnlockRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, progression.UnlockRecord{
			Criteria:   rec.Criteria,
			Unlocked:   rec.Unlocked,
			UnlockedAt: rec.UnlockedAt,
			Progress:   rec.Progress,
		})
	}
	return out
}

func toUserAchievements(userID string, records []progression.UnlockRecord) []model.UserAchievement {
	out := make([]model.UserAchievement, 0, len(records))
	for _, rec := range records {
		id, _ := uuid.NewV7()
		out = append(out, model.UserAchievement{
			ID:         id.String(),
			UserID:     userID,
			Criteria:   rec.Criteria,
			Unlocked:   rec.Unlocked,
			UnlockedAt: rec.UnlockedAt,
			Progress:   rec.Progress,
		})
	}
	return out
}
