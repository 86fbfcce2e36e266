package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dev-quest/quest_api/shared"
)

type LeaderboardHandler struct {
	leaderboardSvc LeaderboardServiceInterface
}

func NewLeaderboardHandler(leaderboardSvc LeaderboardServiceInterface) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardSvc: leaderboardSvc}
}

// @Summary Get the leaderboard
// @Description Top users by cumulative XP with the caller's own rank
// @Tags leaderboard
// @Produce json
// @Security Bearer
// @Param timeframe query string false "weekly | monthly | all-time" default(all-time)
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Router /api/v1/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.leaderboardSvc.GetLeaderboard(c.Context(), userID, c.Query("timeframe"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Leaderboard retrieved", resp)
}
