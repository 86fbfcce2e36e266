package progression

import (
	"testing"
	"time"
)

func testCatalog() []AchievementDef {
	return []AchievementDef{
		{Criteria: "tasks_1", Name: "First Quest", ThresholdMetric: MetricTasksCompleted, ThresholdValue: 1},
		{Criteria: "streak_3", Name: "Sprinter", ThresholdMetric: MetricStreak, ThresholdValue: 3},
		{Criteria: "xp_500", Name: "XP Hunter", ThresholdMetric: MetricXP, ThresholdValue: 500},
		{Criteria: "hours_10", Name: "Deep Worker", ThresholdMetric: MetricTotalHours, ThresholdValue: 10},
		{Criteria: "coins_100", Name: "Collector", ThresholdMetric: MetricCoins, ThresholdValue: 100},
	}
}

func TestEvaluate_UnlocksClearedThresholds(t *testing.T) {
	now := day(2025, time.June, 1)
	stats := StatsView{XP: 25, Coins: 5, Streak: 1, TasksCompleted: 1, TotalHoursCoded: 0.5}

	result := Evaluate(stats, testCatalog(), nil, now)

	if len(result.NewlyUnlocked) != 1 || result.NewlyUnlocked[0].Criteria != "tasks_1" {
		t.Fatalf("NewlyUnlocked = %+v, want exactly tasks_1", result.NewlyUnlocked)
	}
	if len(result.UpdatedRecords) != len(testCatalog()) {
		t.Fatalf("UpdatedRecords len = %d, want %d", len(result.UpdatedRecords), len(testCatalog()))
	}

	for _, rec := range result.UpdatedRecords {
		switch rec.Criteria {
		case "tasks_1":
			if !rec.Unlocked || rec.UnlockedAt == nil || !rec.UnlockedAt.Equal(now) {
				t.Errorf("tasks_1 record = %+v, want unlocked at %v", rec, now)
			}
		case "streak_3":
			if rec.Unlocked || rec.Progress != "1/3" {
				t.Errorf("streak_3 record = %+v, want locked with progress 1/3", rec)
			}
		case "xp_500":
			if rec.Progress != "25/500" {
				t.Errorf("xp_500 progress = %q, want 25/500", rec.Progress)
			}
		case "hours_10":
			if rec.Progress != "0/10" {
				t.Errorf("hours_10 progress = %q, want 0/10", rec.Progress)
			}
		}
	}
}

func TestEvaluate_BatchUnlock(t *testing.T) {
	// A single completion can clear several thresholds at once.
	stats := StatsView{XP: 600, Coins: 120, Streak: 3, TasksCompleted: 12, TotalHoursCoded: 11}
	result := Evaluate(stats, testCatalog(), nil, day(2025, time.June, 1))

	if len(result.NewlyUnlocked) != len(testCatalog()) {
		t.Errorf("NewlyUnlocked = %d entries, want %d in one batch",
			len(result.NewlyUnlocked), len(testCatalog()))
	}

	// Batch preserves catalog order.
	for i, def := range testCatalog() {
		if result.NewlyUnlocked[i].Criteria != def.Criteria {
			t.Errorf("NewlyUnlocked[%d] = %s, want %s", i, result.NewlyUnlocked[i].Criteria, def.Criteria)
		}
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	stats := StatsView{XP: 150, TasksCompleted: 2, Streak: 1}
	now := day(2025, time.June, 1)

	first := Evaluate(stats, testCatalog(), nil, now)
	if len(first.NewlyUnlocked) == 0 {
		t.Fatal("first evaluation unlocked nothing, test needs a cleared threshold")
	}

	later := day(2025, time.June, 2)
	second := Evaluate(stats, testCatalog(), first.UpdatedRecords, later)
	if len(second.NewlyUnlocked) != 0 {
		t.Errorf("second evaluation NewlyUnlocked = %+v, want empty", second.NewlyUnlocked)
	}

	// UnlockedAt must not be overwritten on re-evaluation.
	for _, rec := range second.UpdatedRecords {
		if rec.Criteria == "tasks_1" && !rec.UnlockedAt.Equal(now) {
			t.Errorf("tasks_1 UnlockedAt = %v, want original %v", rec.UnlockedAt, now)
		}
	}
}

func TestEvaluate_UnknownMetricStaysLocked(t *testing.T) {
	catalog := []AchievementDef{{Criteria: "odd", ThresholdMetric: "reputation", ThresholdValue: 1}}
	result := Evaluate(StatsView{XP: 1000}, catalog, nil, day(2025, time.June, 1))
	if len(result.NewlyUnlocked) != 0 {
		t.Errorf("unknown metric unlocked %+v, want none", result.NewlyUnlocked)
	}
}
