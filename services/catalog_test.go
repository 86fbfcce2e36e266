package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "achievements.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}
	return path
}

func TestLoadCatalogValid(t *testing.T) {
	path := writeCatalogFile(t, `
[[achievements]]
criteria = "tasks_1"
name = "First Quest"
description = "Complete your first quest"
threshold_metric = "tasksCompleted"
threshold_value = 1

[[achievements]]
criteria = "streak_7"
name = "Streak Starter"
description = "Code seven days in a row"
threshold_metric = "streak"
threshold_value = 7
`)

	defs, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("got %d entries, want 2", len(defs))
	}
	// Declared order is catalog order.
	if defs[0].Criteria != "tasks_1" || defs[1].Criteria != "streak_7" {
		t.Errorf("order = %s, %s", defs[0].Criteria, defs[1].Criteria)
	}
}

func TestLoadCatalogRejectsDuplicateCriteria(t *testing.T) {
	path := writeCatalogFile(t, `
[[achievements]]
criteria = "tasks_1"
name = "First Quest"
threshold_metric = "tasksCompleted"
threshold_value = 1

[[achievements]]
criteria = "tasks_1"
name = "First Quest Again"
threshold_metric = "tasksCompleted"
threshold_value = 2
`)

	_, err := LoadCatalog(path)
	if err == nil {
		t.Fatal("expected error for duplicate criteria")
	}
	if !strings.Contains(err.Error(), "duplicate criteria") {
		t.Errorf("err = %v, want duplicate criteria", err)
	}
}

func TestLoadCatalogRejectsUnknownMetric(t *testing.T) {
	path := writeCatalogFile(t, `
[[achievements]]
criteria = "rep_100"
name = "Reputable"
threshold_metric = "reputation"
threshold_value = 100
`)

	_, err := LoadCatalog(path)
	if err == nil {
		t.Fatal("expected error for unknown metric")
	}
	if !strings.Contains(err.Error(), "unknown metric") {
		t.Errorf("err = %v, want unknown metric", err)
	}
}

func TestLoadCatalogRejectsNonPositiveThreshold(t *testing.T) {
	path := writeCatalogFile(t, `
[[achievements]]
criteria = "xp_0"
name = "Freeloader"
threshold_metric = "xp"
threshold_value = 0
`)

	_, err := LoadCatalog(path)
	if err == nil {
		t.Fatal("expected error for non-positive threshold")
	}
	if !strings.Contains(err.Error(), "non-positive threshold") {
		t.Errorf("err = %v, want non-positive threshold", err)
	}
}

func TestLoadCatalogRejectsMissingCriteria(t *testing.T) {
	path := writeCatalogFile(t, `
[[achievements]]
name = "Anonymous"
threshold_metric = "xp"
threshold_value = 10
`)

	_, err := LoadCatalog(path)
	if err == nil {
		t.Fatal("expected error for missing criteria key")
	}
}

func TestShippedCatalogLoads(t *testing.T) {
	defs, err := LoadCatalog("../config/achievements.toml")
	if err != nil {
		t.Fatalf("shipped catalog failed validation: %v", err)
	}
	if len(defs) == 0 {
		t.Fatal("shipped catalog is empty")
	}
}
