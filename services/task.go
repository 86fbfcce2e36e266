package services

import (
	"errors"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/dev-quest/quest_api/dto"
	"github.com/dev-quest/quest_api/model"
	"github.com/dev-quest/quest_api/shared"
)

type TaskService struct {
	context.DefaultService

	sqlSvc         *SqlService
	progressionSvc *ProgressionService
	socketSvc      *SocketService
}

const TASK_SVC = "task_svc"

func (svc TaskService) Id() string {
	return TASK_SVC
}

func (svc *TaskService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.progressionSvc = svc.Service(PROGRESSION_SVC).(*ProgressionService)
	svc.socketSvc = svc.Service(SOCKET_SVC).(*SocketService)
	return nil
}

func (svc *TaskService) CreateTask(userID string, req dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed")
	}

	id, _ := uuid.NewV7()
	task := &model.Task{
		ID:            id.String(),
		UserID:        userID,
		Name:          req.Name,
		Description:   req.Description,
		Difficulty:    req.Difficulty,
		EstimatedTime: req.EstimatedTime,
		Status:        shared.TaskStatusPending,
	}

	if err := svc.sqlSvc.CreateTask(task); err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := TaskToResponse(task)
	svc.socketSvc.Emit(userID, EventTaskCreated, resp)
	return &resp, nil
}

func (svc *TaskService) GetTasks(userID string, limit int) ([]dto.TaskResponse, error) {
	tasks, err := svc.sqlSvc.GetUserTasks(userID, limit)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	out := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, TaskToResponse(&tasks[i]))
	}
	return out, nil
}

func (svc *TaskService) GetTask(userID, taskID string) (*dto.TaskResponse, error) {
	task, err := svc.sqlSvc.GetTask(userID, taskID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := TaskToResponse(task)
	return &resp, nil
}

func (svc *TaskService) UpdateTask(userID, taskID string, req dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed")
	}

	task, err := svc.sqlSvc.GetTask(userID, taskID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	if task.Status == shared.TaskStatusCompleted {
		return nil, shared.NewConflictError(errors.New("task already completed"), "Completed quests cannot be edited")
	}

	if req.Name != "" {
		task.Name = req.Name
	}
	if req.Description != "" {
		task.Description = req.Description
	}
	if req.Difficulty != "" {
		task.Difficulty = req.Difficulty
	}
	if req.EstimatedTime > 0 {
		task.EstimatedTime = req.EstimatedTime
	}

	if err := svc.sqlSvc.UpdateTask(task); err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := TaskToResponse(task)
	svc.socketSvc.Emit(userID, EventTaskUpdated, resp)
	return &resp, nil
}

func (svc *TaskService) DeleteTask(userID, taskID string) error {
	if err := svc.sqlSvc.DeleteTask(userID, taskID); err != nil {
		return svc.sqlSvc.HandleError(err)
	}

	svc.socketSvc.Emit(userID, EventTaskDeleted, map[string]string{"_id": taskID})
	return nil
}

// CompleteTask marks the task done and applies its reward through the
// progression pipeline. The task row commits in the same transaction as the
// stats, so a version conflict retry never leaves a completed task without
// its reward. Socket events fire only after the commit.
func (svc *TaskService) CompleteTask(userID, taskID string, req dto.CompleteTaskRequest) (*dto.CompletionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed")
	}

	task, err := svc.sqlSvc.GetTask(userID, taskID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	if task.Status == shared.TaskStatusCompleted {
		return nil, shared.NewConflictError(errors.New("task already completed"), "Quest is already completed")
	}

	completedAt := svc.progressionSvc.clock.Now()
	event := CompletionEvent{
		Difficulty:  task.Difficulty,
		ActualTime:  req.ActualTime,
		CompletedAt: completedAt,
	}

	outcome, err := svc.progressionSvc.ApplyCompletion(userID, event, func(tx *gorm.DB) error {
		result := tx.Model(&model.Task{}).
			Where("id = ? AND user_id = ? AND status = ?", task.ID, userID, shared.TaskStatusPending).
			Updates(map[string]interface{}{
				"status":       shared.TaskStatusCompleted,
				"actual_time":  req.ActualTime,
				"completed_at": completedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewConflictError(gorm.ErrRecordNotFound, "Quest is already completed")
		}
		task.Status = shared.TaskStatusCompleted
		task.ActualTime = req.ActualTime
		task.CompletedAt = &completedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	taskResp := TaskToResponse(task)
	resp := &dto.CompletionResponse{
		Task:             &taskResp,
		User:             StatsToResponse(outcome.Stats),
		XPGained:         outcome.Reward.XP,
		CoinsGained:      outcome.Reward.Coins,
		LeveledUp:        outcome.LeveledUp,
		NewlyUnlocked:    AchievementsToResponses(outcome.NewlyUnlocked, completedAt),
		MilestoneMessage: outcome.MilestoneMessage,
	}

	svc.socketSvc.Emit(userID, EventTaskCompleted, resp)
	svc.socketSvc.Emit(userID, EventStatsUpdated, resp.User)
	for _, unlocked := range resp.NewlyUnlocked {
		svc.socketSvc.Emit(userID, EventAchievementUnlocked, unlocked)
	}

	log.WithFields(log.Fields{
		"user_id":    userID,
		"task_id":    taskID,
		"difficulty": task.Difficulty,
		"xp_gained":  outcome.Reward.XP,
		"leveled_up": outcome.LeveledUp,
	}).Info("Quest completed")

	return resp, nil
}

func TaskToResponse(task *model.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:            task.ID,
		Name:          task.Name,
		Description:   task.Description,
		Difficulty:    task.Difficulty,
		EstimatedTime: task.EstimatedTime,
		ActualTime:    task.ActualTime,
		Status:        task.Status,
		CompletedAt:   task.CompletedAt,
		CreatedAt:     task.CreatedAt,
	}
}
