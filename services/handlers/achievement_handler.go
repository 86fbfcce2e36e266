package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dev-quest/quest_api/shared"
)

type AchievementHandler struct {
	progressionSvc ProgressionServiceInterface
}

func NewAchievementHandler(progressionSvc ProgressionServiceInterface) *AchievementHandler {
	return &AchievementHandler{progressionSvc: progressionSvc}
}

// @Summary Get achievement stats
// @Description The full catalog with the caller's unlock state and live progress
// @Tags achievements
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.AchievementStatsResponse}
// @Router /api/v1/achievements/stats [get]
func (h *AchievementHandler) GetAchievementStats(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.progressionSvc.GetAchievementStats(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Achievement stats retrieved", resp)
}

// @Summary Get user stats
// @Description The caller's stats snapshot with derived level fields
// @Tags achievements
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.StatsResponse}
// @Router /api/v1/stats [get]
func (h *AchievementHandler) GetStats(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.progressionSvc.GetStatsSnapshot(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Stats retrieved", resp)
}
