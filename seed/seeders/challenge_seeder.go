package seeders

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dev-quest/quest_api/model"
	"github.com/dev-quest/quest_api/shared"
)

// ChallengeSeeder pre-creates a week of daily challenges starting today.
type ChallengeSeeder struct {
	db *gorm.DB
}

func NewChallengeSeeder(db *gorm.DB) *ChallengeSeeder {
	return &ChallengeSeeder{db: db}
}

var seedChallenges = []struct {
	Title       string
	Description string
	Difficulty  string
}{
	{"Refactor Sprint", "Refactor one gnarly function until it reads cleanly", shared.DifficultyEasy},
	{"Test Drive", "Write tests for a module that has none", shared.DifficultyMedium},
	{"Bug Safari", "Hunt down and fix a bug from your backlog", shared.DifficultyMedium},
	{"Doc Day", "Document a public API you shipped without docs", shared.DifficultyEasy},
	{"Perf Patrol", "Profile a hot path and shave 20% off it", shared.DifficultyHard},
	{"Dependency Diet", "Remove or upgrade one stale dependency", shared.DifficultyEasy},
	{"Feature Blitz", "Ship one small feature end to end", shared.DifficultyHard},
}

func (s *ChallengeSeeder) SeedChallenges() error {
	created := 0
	today := time.Now()

	for i, tpl := range seedChallenges {
		date := today.AddDate(0, 0, i).Format("2006-01-02")

		var existing model.Challenge
		err := s.db.Where("date = ?", date).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		id, _ := uuid.NewV7()
		challenge := model.Challenge{
			ID:          id.String(),
			Title:       tpl.Title,
			Description: tpl.Description,
			Difficulty:  tpl.Difficulty,
			Date:        date,
		}
		if err := s.db.Create(&challenge).Error; err != nil {
			return err
		}
		created++
	}

	log.Printf("Seeded %d challenges", created)
	return nil
}
