package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/dev-quest/quest_api/dto"
	"github.com/dev-quest/quest_api/shared"
)

type TaskHandler struct {
	taskSvc TaskServiceInterface
}

func NewTaskHandler(taskSvc TaskServiceInterface) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc}
}

// @Summary Create a quest
// @Tags tasks
// @Accept json
// @Produce json
// @Security Bearer
// @Param createTaskRequest body dto.CreateTaskRequest true "Quest details"
// @Success 201 {object} shared.Response{data=dto.TaskResponse}
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	resp, err := h.taskSvc.CreateTask(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Quest created", resp)
}

// @Summary List quests
// @Tags tasks
// @Produce json
// @Security Bearer
// @Param limit query int false "Maximum number of quests to return"
// @Success 200 {object} shared.Response{data=[]dto.TaskResponse}
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	limit, _ := strconv.Atoi(c.Query("limit"))

	resp, err := h.taskSvc.GetTasks(userID, limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Quests retrieved", resp)
}

// @Summary Get a quest
// @Tags tasks
// @Produce json
// @Security Bearer
// @Param id path string true "Quest ID"
// @Success 200 {object} shared.Response{data=dto.TaskResponse}
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.taskSvc.GetTask(userID, c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Quest retrieved", resp)
}

// @Summary Update a quest
// @Tags tasks
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Quest ID"
// @Param updateTaskRequest body dto.UpdateTaskRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=dto.TaskResponse}
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	resp, err := h.taskSvc.UpdateTask(userID, c.Params("id"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Quest updated", resp)
}

// @Summary Delete a quest
// @Tags tasks
// @Produce json
// @Security Bearer
// @Param id path string true "Quest ID"
// @Success 200 {object} shared.Response
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	if err := h.taskSvc.DeleteTask(userID, c.Params("id")); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Quest deleted", nil)
}

// @Summary Complete a quest
// @Description Apply the quest reward: XP, coins, streak and achievement unlocks in one atomic update
// @Tags tasks
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Quest ID"
// @Param completeTaskRequest body dto.CompleteTaskRequest true "Actual time spent in minutes"
// @Success 200 {object} shared.Response{data=dto.CompletionResponse}
// @Router /api/v1/tasks/{id}/complete [put]
func (h *TaskHandler) CompleteTask(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CompleteTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	resp, err := h.taskSvc.CompleteTask(userID, c.Params("id"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Quest completed", resp)
}
