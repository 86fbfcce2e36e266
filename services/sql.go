package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dev-quest/quest_api/model"
	"github.com/dev-quest/quest_api/progression"
	"github.com/dev-quest/quest_api/shared"
)

type SqlService struct {
	context.DefaultService
	db *gorm.DB

	driver string
	dsn    string
}

const SQL_SVC = "sql_svc"

func (ds SqlService) Id() string {
	return SQL_SVC
}

// Db Access to raw db handle
func (ds SqlService) Db() *gorm.DB {
	return ds.db
}

func (ds *SqlService) Configure(ctx *context.Context) error {
	ds.driver = os.Getenv("DB_DRIVER")
	if ds.driver == "" {
		ds.driver = "sqlite"
	}

	switch ds.driver {
	case "sqlite":
		ds.dsn = os.Getenv("DB_DATABASE")
		if ds.dsn == "" {
			ds.dsn = "quest.db"
		}
	case "postgres":
		ds.dsn = os.Getenv("DATABASE_URL")
		if ds.dsn == "" {
			host := envOr("DB_HOST", "localhost")
			port := envOr("DB_PORT", "5432")
			user := envOr("DB_USER", "postgres")
			password := envOr("DB_PASSWORD", "postgres")
			dbname := envOr("DB_NAME", "quest_api")
			sslmode := envOr("DB_SSLMODE", "disable")

			ds.dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
				host, user, password, dbname, port, sslmode)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", ds.driver)
	}

	return ds.DefaultService.Configure(ctx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Start opens the connection and migrates any tables that changed since last
// runtime.
func (ds *SqlService) Start() (err error) {
	var dialector gorm.Dialector
	if ds.driver == "postgres" {
		dialector = postgres.Open(ds.dsn)
	} else {
		dialector = sqlite.Open(ds.dsn)
	}

	ds.db, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return err
	}

	models := []interface{}{
		&model.User{},
		&model.UserStats{},
		&model.Task{},
		&model.Achievement{},
		&model.UserAchievement{},
		&model.Challenge{},
		&model.UserChallenge{},
		&model.PasswordResetCode{},
	}

	if err = ds.db.AutoMigrate(models...); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *SqlService) Shutdown() {
}

func (ds *SqlService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError
		errorType = "TRANSACTION_ERROR"
	default:
		if strings.Contains(err.Error(), "UNIQUE constraint failed") ||
			strings.Contains(err.Error(), "duplicate key value") {
			statusCode = http.StatusConflict
			errorType = "UNIQUE_CONSTRAINT"
		} else {
			statusCode = http.StatusInternalServerError
			errorType = "INTERNAL_ERROR"
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return shared.NewAppError(statusCode, err, errorType)
}

// ==================== USERS ====================

func (ds *SqlService) CreateUser(user *model.User) error {
	return ds.db.Create(user).Error
}

func (ds *SqlService) GetUserByID(userID string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *SqlService) GetUserByEmailOrUsername(identifier string) (*model.User, error) {
	var user model.User
	err := ds.db.Where("LOWER(email) = LOWER(?) OR LOWER(username) = LOWER(?)",
		identifier, identifier).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *SqlService) IsUsernameTaken(username, excludeUserID string) (bool, error) {
	var count int64
	err := ds.db.Model(&model.User{}).
		Where("LOWER(username) = LOWER(?) AND id != ?", username, excludeUserID).
		Count(&count).Error
	return count > 0, err
}

func (ds *SqlService) UpdateUser(userID string, updates map[string]interface{}) error {
	return ds.db.Model(&model.User{}).Where("id = ?", userID).Updates(updates).Error
}

func (ds *SqlService) GetUsersByIDs(userIDs []string) (map[string]model.User, error) {
	var users []model.User
	if len(userIDs) == 0 {
		return map[string]model.User{}, nil
	}
	if err := ds.db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}

	byID := make(map[string]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

// CreatePasswordResetCode stores a fresh code and marks any earlier codes
// for the user as used, so only the latest mailed code works.
func (ds *SqlService) CreatePasswordResetCode(userID, code string, expiresAt time.Time) error {
	return ds.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.PasswordResetCode{}).
			Where("user_id = ? AND used = ?", userID, false).
			Update("used", true).Error
		if err != nil {
			return err
		}

		id, _ := uuid.NewV7()
		return tx.Create(&model.PasswordResetCode{
			ID:        id.String(),
			UserID:    userID,
			Code:      code,
			ExpiresAt: expiresAt,
		}).Error
	})
}

func (ds *SqlService) GetPasswordResetCode(code string) (*model.PasswordResetCode, error) {
	var resetCode model.PasswordResetCode
	err := ds.db.Where("code = ? AND used = ?", code, false).First(&resetCode).Error
	if err != nil {
		return nil, err
	}
	return &resetCode, nil
}

func (ds *SqlService) InvalidatePasswordResetCode(tx *gorm.DB, code string) error {
	return tx.Model(&model.PasswordResetCode{}).Where("code = ?", code).Update("used", true).Error
}

func (ds *SqlService) TouchLastLogin(userID string) error {
	now := time.Now()
	return ds.db.Model(&model.User{}).Where("id = ?", userID).
		Update("last_login_at", &now).Error
}

// ==================== USER STATS ====================

func (ds *SqlService) CreateUserStats(stats *model.UserStats) error {
	return ds.db.Create(stats).Error
}

func (ds *SqlService) GetUserStats(userID string) (*model.UserStats, error) {
	var stats model.UserStats
	if err := ds.db.Where("user_id = ?", userID).First(&stats).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, progression.ErrUserNotFound
		}
		return nil, err
	}
	return &stats, nil
}

// UpdateUserStatsCAS persists stats inside tx guarded by the optimistic
// version check. Zero rows affected means another writer got there first.
func (ds *SqlService) UpdateUserStatsCAS(tx *gorm.DB, stats *model.UserStats, expectedVersion int64) error {
	result := tx.Model(&model.UserStats{}).
		Where("user_id = ? AND version = ?", stats.UserID, expectedVersion).
		Updates(map[string]interface{}{
			"xp":                 stats.XP,
			"coins":              stats.Coins,
			"streak":             stats.Streak,
			"last_activity_date": stats.LastActivityDate,
			"tasks_completed":    stats.TasksCompleted,
			"total_hours_coded":  stats.TotalHoursCoded,
			"version":            expectedVersion + 1,
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("%w: %v", progression.ErrPersistenceFailure, result.Error)
	}
	if result.RowsAffected == 0 {
		return progression.ErrConcurrentModification
	}

	stats.Version = expectedVersion + 1
	return nil
}

// ==================== TASKS ====================

func (ds *SqlService) CreateTask(task *model.Task) error {
	return ds.db.Create(task).Error
}

func (ds *SqlService) GetTask(userID, taskID string) (*model.Task, error) {
	var task model.Task
	err := ds.db.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (ds *SqlService) GetUserTasks(userID string, limit int) ([]model.Task, error) {
	var tasks []model.Task
	q := ds.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (ds *SqlService) UpdateTask(task *model.Task) error {
	return ds.db.Save(task).Error
}

func (ds *SqlService) DeleteTask(userID, taskID string) error {
	result := ds.db.Where("id = ? AND user_id = ?", taskID, userID).Delete(&model.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ==================== ACHIEVEMENTS ====================

func (ds *SqlService) UpsertAchievement(entry *model.Achievement) error {
	var existing model.Achievement
	err := ds.db.Where("criteria = ?", entry.Criteria).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ds.db.Create(entry).Error
	}
	if err != nil {
		return err
	}

	existing.Name = entry.Name
	existing.Description = entry.Description
	existing.ThresholdMetric = entry.ThresholdMetric
	existing.ThresholdValue = entry.ThresholdValue
	existing.SortOrder = entry.SortOrder
	return ds.db.Save(&existing).Error
}

func (ds *SqlService) GetAchievements() ([]model.Achievement, error) {
	var achievements []model.Achievement
	if err := ds.db.Order("sort_order ASC").Find(&achievements).Error; err != nil {
		return nil, err
	}
	return achievements, nil
}

func (ds *SqlService) GetUserAchievements(userID string) ([]model.UserAchievement, error) {
	var records []model.UserAchievement
	if err := ds.db.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (ds *SqlService) CountUnlockedAchievements(userID string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.UserAchievement{}).
		Where("user_id = ? AND unlocked = ?", userID, true).
		Count(&count).Error
	return count, err
}

// SaveUserAchievements upserts the per-user unlock records inside tx, keyed
// by (user, criteria).
func (ds *SqlService) SaveUserAchievements(tx *gorm.DB, records []model.UserAchievement) error {
	for i := range records {
		rec := &records[i]
		var existing model.UserAchievement
		err := tx.Where("user_id = ? AND criteria = ?", rec.UserID, rec.Criteria).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := tx.Create(rec).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		existing.Unlocked = rec.Unlocked
		existing.UnlockedAt = rec.UnlockedAt
		existing.Progress = rec.Progress
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
	}
	return nil
}

// ==================== CHALLENGES ====================

func (ds *SqlService) GetChallengeByDate(date string) (*model.Challenge, error) {
	var challenge model.Challenge
	if err := ds.db.Where("date = ?", date).First(&challenge).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (ds *SqlService) GetChallengeByID(challengeID string) (*model.Challenge, error) {
	var challenge model.Challenge
	if err := ds.db.Where("id = ?", challengeID).First(&challenge).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (ds *SqlService) CreateChallenge(challenge *model.Challenge) error {
	return ds.db.Create(challenge).Error
}

// GetUserChallenge returns nil without error when the user has not
// completed the challenge.
func (ds *SqlService) GetUserChallenge(userID, challengeID string) (*model.UserChallenge, error) {
	var record model.UserChallenge
	err := ds.db.Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ==================== LEADERBOARD ====================

// TopStats returns stats rows ordered by XP. A non-nil since restricts the
// board to users active in the window.
func (ds *SqlService) TopStats(limit int, since *time.Time) ([]model.UserStats, error) {
	var rows []model.UserStats
	q := ds.db.Order("xp DESC").Limit(limit)
	if since != nil {
		q = q.Where("last_activity_date >= ?", *since)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (ds *SqlService) GetUserRank(userID string) (int, error) {
	stats, err := ds.GetUserStats(userID)
	if err != nil {
		return 0, err
	}

	var higher int64
	err = ds.db.Model(&model.UserStats{}).Where("xp > ?", stats.XP).Count(&higher).Error
	if err != nil {
		return 0, err
	}
	return int(higher) + 1, nil
}
