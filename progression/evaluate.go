package progression

import (
	"fmt"
	"math"
	"time"
)

// Threshold metrics an achievement criterion may read.
const (
	MetricStreak         = "streak"
	MetricTasksCompleted = "tasksCompleted"
	MetricXP             = "xp"
	MetricTotalHours     = "totalHoursCoded"
	MetricCoins          = "coins"
)

// AchievementDef is one immutable catalog entry. Criteria is the primary key
// and must be unique across the catalog.
type AchievementDef struct {
	Criteria        string `json:"criteria" toml:"criteria"`
	Name            string `json:"name" toml:"name"`
	Description     string `json:"description" toml:"description"`
	ThresholdMetric string `json:"threshold_metric" toml:"threshold_metric"`
	ThresholdValue  int    `json:"threshold_value" toml:"threshold_value"`
}

// StatsView is the read-only projection of a user's stats the evaluator
// inspects after every mutation.
type StatsView struct {
	XP              int
	Coins           int
	Streak          int
	TasksCompleted  int
	TotalHoursCoded float64
}

// Metric returns the stat value the given threshold metric reads, floored to
// an integer for threshold comparison and progress display.
func (s StatsView) Metric(metric string) (int, bool) {
	switch metric {
	case MetricStreak:
		return s.Streak, true
	case MetricTasksCompleted:
		return s.TasksCompleted, true
	case MetricXP:
		return s.XP, true
	case MetricTotalHours:
		return int(math.Floor(s.TotalHoursCoded)), true
	case MetricCoins:
		return s.Coins, true
	default:
		return 0, false
	}
}

// UnlockRecord is the per-user unlock state for one catalog entry.
type UnlockRecord struct {
	Criteria   string     `json:"criteria"`
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
	Progress   string     `json:"progress,omitempty"`
}

// EvalResult carries the achievements newly satisfied by the latest stat
// mutation plus the full updated record set.
type EvalResult struct {
	NewlyUnlocked  []AchievementDef
	UpdatedRecords []UnlockRecord
}

// Evaluate scans the catalog in declared order and unlocks every entry whose
// threshold the stats now clear. Entries already unlocked are passed through
// untouched, so a second call with the updated records yields an empty
// NewlyUnlocked batch. Locked entries get a "current/total" progress string.
func Evaluate(stats StatsView, catalog []AchievementDef, records []UnlockRecord, now time.Time) EvalResult {
	byCriteria := make(map[string]UnlockRecord, len(records))
	for _, rec := range records {
		byCriteria[rec.Criteria] = rec
	}

	result := EvalResult{
		NewlyUnlocked:  []AchievementDef{},
		UpdatedRecords: make([]UnlockRecord, 0, len(catalog)),
	}

	for _, def := range catalog {
		rec, ok := byCriteria[def.Criteria]
		if !ok {
			// Unlock records are created lazily on first evaluation.
			rec = UnlockRecord{Criteria: def.Criteria}
		}

		if rec.Unlocked {
			result.UpdatedRecords = append(result.UpdatedRecords, rec)
			continue
		}

		current, ok := stats.Metric(def.ThresholdMetric)
		if !ok {
			// Unknown metric in the catalog; leave the record locked.
			result.UpdatedRecords = append(result.UpdatedRecords, rec)
			continue
		}

		if current >= def.ThresholdValue {
			unlockedAt := now
			rec.Unlocked = true
			rec.UnlockedAt = &unlockedAt
			rec.Progress = "Completed"
			result.NewlyUnlocked = append(result.NewlyUnlocked, def)
		} else {
			rec.Progress = fmt.Sprintf("%d/%d", current, def.ThresholdValue)
		}
		result.UpdatedRecords = append(result.UpdatedRecords, rec)
	}

	return result
}
