package services

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/BurntSushi/toml"
	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/dev-quest/quest_api/model"
	"github.com/dev-quest/quest_api/progression"
)

// CatalogService loads the achievement catalog once at process start and
// hands out immutable snapshots, so in-flight evaluations never see a
// half-reloaded catalog.
type CatalogService struct {
	context.DefaultService

	sqlSvc *SqlService

	path     string
	snapshot atomic.Pointer[[]progression.AchievementDef]
}

const CATALOG_SVC = "catalog_svc"

type catalogFile struct {
	Achievements []progression.AchievementDef `toml:"achievements"`
}

func (svc CatalogService) Id() string {
	return CATALOG_SVC
}

func (svc *CatalogService) Configure(ctx *context.Context) error {
	svc.path = os.Getenv("ACHIEVEMENTS_CONFIG")
	if svc.path == "" {
		svc.path = "config/achievements.toml"
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *CatalogService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)

	defs, err := LoadCatalog(svc.path)
	if err != nil {
		return err
	}
	svc.snapshot.Store(&defs)

	// Mirror the catalog into the database so unlock records can join
	// against display text.
	for i, def := range defs {
		id, _ := uuid.NewV7()
		entry := &model.Achievement{
			ID:              id.String(),
			Criteria:        def.Criteria,
			Name:            def.Name,
			Description:     def.Description,
			ThresholdMetric: def.ThresholdMetric,
			ThresholdValue:  def.ThresholdValue,
			SortOrder:       i,
		}
		if err := svc.sqlSvc.UpsertAchievement(entry); err != nil {
			return fmt.Errorf("failed to sync achievement %s: %w", def.Criteria, err)
		}
	}

	log.WithField("count", len(defs)).Info("Achievement catalog loaded")
	return nil
}

// Snapshot returns the catalog in declared order. The returned slice must be
// treated as read-only.
func (svc *CatalogService) Snapshot() []progression.AchievementDef {
	defs := svc.snapshot.Load()
	if defs == nil {
		return nil
	}
	return *defs
}

// LoadCatalog parses and validates a catalog file. Criteria keys must be
// unique and every threshold metric must be one the evaluator understands.
func LoadCatalog(path string) ([]progression.AchievementDef, error) {
	var file catalogFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to parse achievement catalog %s: %w", path, err)
	}

	seen := make(map[string]bool, len(file.Achievements))
	for _, def := range file.Achievements {
		if def.Criteria == "" {
			return nil, fmt.Errorf("achievement catalog: entry %q has no criteria key", def.Name)
		}
		if seen[def.Criteria] {
			return nil, fmt.Errorf("achievement catalog: duplicate criteria %q", def.Criteria)
		}
		seen[def.Criteria] = true

		if _, ok := (progression.StatsView{}).Metric(def.ThresholdMetric); !ok {
			return nil, fmt.Errorf("achievement catalog: %s has unknown metric %q",
				def.Criteria, def.ThresholdMetric)
		}
		if def.ThresholdValue <= 0 {
			return nil, fmt.Errorf("achievement catalog: %s has non-positive threshold %d",
				def.Criteria, def.ThresholdValue)
		}
	}

	return file.Achievements, nil
}
