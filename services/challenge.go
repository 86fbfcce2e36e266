package services

import (
	"errors"
	"hash/fnv"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/dev-quest/quest_api/dto"
	"github.com/dev-quest/quest_api/model"
	"github.com/dev-quest/quest_api/progression"
	"github.com/dev-quest/quest_api/shared"
)

// ChallengeService serves the daily challenge. Challenges are materialized
// lazily: the first request of a day creates the row from a rotating
// template list, keyed deterministically so every instance picks the same
// challenge for the same date.
type ChallengeService struct {
	context.DefaultService

	sqlSvc         *SqlService
	progressionSvc *ProgressionService
	socketSvc      *SocketService
}

const CHALLENGE_SVC = "challenge_svc"

// ChallengeCoinBonus is awarded on top of the difficulty reward.
const ChallengeCoinBonus = 10

type challengeTemplate struct {
	Title       string
	Description string
	Difficulty  string
}

var challengeTemplates = []challengeTemplate{
	{"Refactor Sprint", "Refactor one gnarly function until it reads cleanly", shared.DifficultyEasy},
	{"Test Drive", "Write tests for a module that has none", shared.DifficultyMedium},
	{"Bug Safari", "Hunt down and fix a bug from your backlog", shared.DifficultyMedium},
	{"Doc Day", "Document a public API you shipped without docs", shared.DifficultyEasy},
	{"Perf Patrol", "Profile a hot path and shave 20% off it", shared.DifficultyHard},
	{"Dependency Diet", "Remove or upgrade one stale dependency", shared.DifficultyEasy},
	{"Feature Blitz", "Ship one small feature end to end", shared.DifficultyHard},
}

func (svc ChallengeService) Id() string {
	return CHALLENGE_SVC
}

func (svc *ChallengeService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.progressionSvc = svc.Service(PROGRESSION_SVC).(*ProgressionService)
	svc.socketSvc = svc.Service(SOCKET_SVC).(*SocketService)
	return nil
}

// GetDaily returns today's challenge with the caller's completion state.
func (svc *ChallengeService) GetDaily(userID string) (*dto.ChallengeResponse, error) {
	today := svc.progressionSvc.clock.Now()
	date := today.Format("2006-01-02")

	challenge, err := svc.sqlSvc.GetChallengeByDate(date)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		challenge, err = svc.materialize(date)
	}
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp, err := svc.toResponse(userID, challenge)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Complete applies the challenge reward once per user per challenge. The
// dedup record commits in the same transaction as the stats update.
func (svc *ChallengeService) Complete(userID, challengeID string) (*dto.ChallengeCompletionResponse, error) {
	challenge, err := svc.sqlSvc.GetChallengeByID(challengeID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	if existing, err := svc.sqlSvc.GetUserChallenge(userID, challengeID); err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	} else if existing != nil {
		return nil, shared.NewConflictError(errors.New("challenge already completed"), "Challenge is already completed")
	}

	completedAt := svc.progressionSvc.clock.Now()
	event := CompletionEvent{
		Difficulty:  challenge.Difficulty,
		BonusCoins:  ChallengeCoinBonus,
		CompletedAt: completedAt,
	}

	outcome, err := svc.progressionSvc.ApplyCompletion(userID, event, func(tx *gorm.DB) error {
		id, _ := uuid.NewV7()
		record := &model.UserChallenge{
			ID:          id.String(),
			UserID:      userID,
			ChallengeID: challengeID,
			CompletedAt: completedAt,
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}

	challengeResp := dto.ChallengeResponse{
		ID:          challenge.ID,
		Title:       challenge.Title,
		Description: challenge.Description,
		Difficulty:  challenge.Difficulty,
		XPBonus:     outcome.Reward.XP,
		CoinBonus:   ChallengeCoinBonus,
		Completed:   true,
		CompletedAt: &completedAt,
	}

	resp := &dto.ChallengeCompletionResponse{
		Challenge:        challengeResp,
		User:             StatsToResponse(outcome.Stats),
		XPGained:         outcome.Reward.XP,
		CoinsGained:      outcome.Reward.Coins + ChallengeCoinBonus,
		LeveledUp:        outcome.LeveledUp,
		NewlyUnlocked:    AchievementsToResponses(outcome.NewlyUnlocked, completedAt),
		MilestoneMessage: outcome.MilestoneMessage,
	}

	svc.socketSvc.Emit(userID, EventChallengeCompleted, resp)
	svc.socketSvc.Emit(userID, EventStatsUpdated, resp.User)
	for _, unlocked := range resp.NewlyUnlocked {
		svc.socketSvc.Emit(userID, EventAchievementUnlocked, unlocked)
	}

	log.WithFields(log.Fields{
		"user_id":      userID,
		"challenge_id": challengeID,
		"difficulty":   challenge.Difficulty,
	}).Info("Challenge completed")

	return resp, nil
}

func (svc *ChallengeService) materialize(date string) (*model.Challenge, error) {
	tpl := challengeTemplates[templateIndex(date)]

	id, _ := uuid.NewV7()
	challenge := &model.Challenge{
		ID:          id.String(),
		Title:       tpl.Title,
		Description: tpl.Description,
		Difficulty:  tpl.Difficulty,
		Date:        date,
	}

	if err := svc.sqlSvc.CreateChallenge(challenge); err != nil {
		// A concurrent request may have created it; fall back to a read.
		if existing, readErr := svc.sqlSvc.GetChallengeByDate(date); readErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return challenge, nil
}

func templateIndex(date string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(date))
	return int(h.Sum32() % uint32(len(challengeTemplates)))
}

func (svc *ChallengeService) toResponse(userID string, challenge *model.Challenge) (*dto.ChallengeResponse, error) {
	reward, err := progression.CalculateReward(challenge.Difficulty)
	if err != nil {
		return nil, shared.NewInternalError(err, "Challenge has invalid difficulty")
	}

	resp := &dto.ChallengeResponse{
		ID:          challenge.ID,
		Title:       challenge.Title,
		Description: challenge.Description,
		Difficulty:  challenge.Difficulty,
		XPBonus:     reward.XP,
		CoinBonus:   ChallengeCoinBonus,
	}

	record, err := svc.sqlSvc.GetUserChallenge(userID, challenge.ID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	if record != nil {
		resp.Completed = true
		resp.CompletedAt = &record.CompletedAt
	}

	return resp, nil
}
