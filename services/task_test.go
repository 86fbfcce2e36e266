package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/dev-quest/quest_api/dto"
	"github.com/dev-quest/quest_api/model"
	"github.com/dev-quest/quest_api/shared"
)

func newTestTask(sqlSvc *SqlService, prog *ProgressionService) *TaskService {
	return &TaskService{
		sqlSvc:         sqlSvc,
		progressionSvc: prog,
		socketSvc:      &SocketService{},
	}
}

func TestTaskLifecycle(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	ds := newTestSql(t)
	svc := newTestTask(ds, newTestProgression(ds, newTestCatalog(nil), now))

	userID := seedTestUser(t, ds, model.UserStats{})

	created, err := svc.CreateTask(userID, dto.CreateTaskRequest{
		Name:          "Build REST API",
		Description:   "CRUD endpoints for the quest log",
		Difficulty:    shared.DifficultyMedium,
		EstimatedTime: 90,
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if created.Status != shared.TaskStatusPending {
		t.Errorf("status = %q, want pending", created.Status)
	}

	updated, err := svc.UpdateTask(userID, created.ID, dto.UpdateTaskRequest{Name: "Build REST API v2"})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if updated.Name != "Build REST API v2" {
		t.Errorf("name = %q after update", updated.Name)
	}
	if updated.Difficulty != shared.DifficultyMedium {
		t.Errorf("difficulty changed to %q by partial update", updated.Difficulty)
	}

	listed, err := svc.GetTasks(userID, 0)
	if err != nil {
		t.Fatalf("GetTasks failed: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("got %d tasks, want 1", len(listed))
	}

	if err := svc.DeleteTask(userID, created.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if _, err := svc.GetTask(userID, created.ID); err == nil {
		t.Error("GetTask succeeded after delete")
	}
}

func TestCompleteTaskAppliesReward(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	ds := newTestSql(t)
	svc := newTestTask(ds, newTestProgression(ds, newTestCatalog(nil), now))

	userID := seedTestUser(t, ds, model.UserStats{})

	created, err := svc.CreateTask(userID, dto.CreateTaskRequest{
		Name:          "Fix flaky test",
		Difficulty:    shared.DifficultyHard,
		EstimatedTime: 120,
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	resp, err := svc.CompleteTask(userID, created.ID, dto.CompleteTaskRequest{ActualTime: 90})
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}

	if resp.XPGained != 100 || resp.CoinsGained != 20 {
		t.Errorf("reward = %d XP %d coins, want 100/20", resp.XPGained, resp.CoinsGained)
	}
	if !resp.LeveledUp {
		t.Error("100 XP from zero should level up")
	}
	if resp.Task.Status != shared.TaskStatusCompleted {
		t.Errorf("task status = %q, want completed", resp.Task.Status)
	}
	if resp.Task.ActualTime != 90 {
		t.Errorf("actualTime = %d, want 90", resp.Task.ActualTime)
	}
	if resp.User.XP != 100 {
		t.Errorf("user XP = %d, want 100", resp.User.XP)
	}

	// The task row must be committed alongside the stats.
	stored, err := ds.GetTask(userID, created.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if stored.Status != shared.TaskStatusCompleted || stored.CompletedAt == nil {
		t.Errorf("stored task = %+v, want completed with timestamp", stored)
	}
}

func TestCompleteTaskTwiceConflicts(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	ds := newTestSql(t)
	svc := newTestTask(ds, newTestProgression(ds, newTestCatalog(nil), now))

	userID := seedTestUser(t, ds, model.UserStats{})

	created, err := svc.CreateTask(userID, dto.CreateTaskRequest{
		Name:          "Write changelog",
		Difficulty:    shared.DifficultyEasy,
		EstimatedTime: 15,
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if _, err := svc.CompleteTask(userID, created.ID, dto.CompleteTaskRequest{ActualTime: 10}); err != nil {
		t.Fatalf("first completion failed: %v", err)
	}

	_, err = svc.CompleteTask(userID, created.ID, dto.CompleteTaskRequest{ActualTime: 10})
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusConflict {
		t.Fatalf("second completion err = %v, want 409", err)
	}

	// No double reward.
	stats, _ := ds.GetUserStats(userID)
	if stats.XP != 25 {
		t.Errorf("XP = %d after duplicate completion attempt, want 25", stats.XP)
	}
}

func TestUpdateCompletedTaskRejected(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	ds := newTestSql(t)
	svc := newTestTask(ds, newTestProgression(ds, newTestCatalog(nil), now))

	userID := seedTestUser(t, ds, model.UserStats{})

	created, err := svc.CreateTask(userID, dto.CreateTaskRequest{
		Name:          "Tidy imports",
		Difficulty:    shared.DifficultyEasy,
		EstimatedTime: 10,
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if _, err := svc.CompleteTask(userID, created.ID, dto.CompleteTaskRequest{ActualTime: 5}); err != nil {
		t.Fatalf("completion failed: %v", err)
	}

	_, err = svc.UpdateTask(userID, created.ID, dto.UpdateTaskRequest{Name: "Tidy imports again"})
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusConflict {
		t.Errorf("update of completed task err = %v, want 409", err)
	}
}

func TestTasksAreScopedToOwner(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	ds := newTestSql(t)
	svc := newTestTask(ds, newTestProgression(ds, newTestCatalog(nil), now))

	owner := seedTestUser(t, ds, model.UserStats{})
	other := seedTestUser(t, ds, model.UserStats{})

	created, err := svc.CreateTask(owner, dto.CreateTaskRequest{
		Name:          "Private quest",
		Difficulty:    shared.DifficultyEasy,
		EstimatedTime: 30,
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if _, err := svc.GetTask(other, created.ID); err == nil {
		t.Error("another user could read the task")
	}
	if _, err := svc.CompleteTask(other, created.ID, dto.CompleteTaskRequest{ActualTime: 5}); err == nil {
		t.Error("another user could complete the task")
	}
	if err := svc.DeleteTask(other, created.ID); err == nil {
		t.Error("another user could delete the task")
	}
}
