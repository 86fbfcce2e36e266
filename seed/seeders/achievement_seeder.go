package seeders

import (
	"errors"
	"log"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dev-quest/quest_api/model"
	"github.com/dev-quest/quest_api/services"
)

// AchievementSeeder mirrors the catalog file into the achievements table so
// the API can start against a populated database.
type AchievementSeeder struct {
	db *gorm.DB
}

func NewAchievementSeeder(db *gorm.DB) *AchievementSeeder {
	return &AchievementSeeder{db: db}
}

func (s *AchievementSeeder) SeedAchievements() error {
	path := os.Getenv("ACHIEVEMENTS_CONFIG")
	if path == "" {
		path = "config/achievements.toml"
	}

	defs, err := services.LoadCatalog(path)
	if err != nil {
		return err
	}

	created := 0
	for i, def := range defs {
		var existing model.Achievement
		err := s.db.Where("criteria = ?", def.Criteria).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		id, _ := uuid.NewV7()
		entry := model.Achievement{
			ID:              id.String(),
			Criteria:        def.Criteria,
			Name:            def.Name,
			Description:     def.Description,
			ThresholdMetric: def.ThresholdMetric,
			ThresholdValue:  def.ThresholdValue,
			SortOrder:       i,
		}
		if err := s.db.Create(&entry).Error; err != nil {
			return err
		}
		created++
	}

	log.Printf("Seeded %d achievements (%d already present)", created, len(defs)-created)
	return nil
}
