package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dev-quest/quest_api/shared"
)

type ChallengeHandler struct {
	challengeSvc ChallengeServiceInterface
}

func NewChallengeHandler(challengeSvc ChallengeServiceInterface) *ChallengeHandler {
	return &ChallengeHandler{challengeSvc: challengeSvc}
}

// @Summary Get the daily challenge
// @Tags challenges
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.ChallengeResponse}
// @Router /api/v1/challenges/daily [get]
func (h *ChallengeHandler) GetDaily(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.challengeSvc.GetDaily(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Daily challenge retrieved", resp)
}

// @Summary Complete a challenge
// @Description Apply the challenge reward once per user per challenge
// @Tags challenges
// @Produce json
// @Security Bearer
// @Param id path string true "Challenge ID"
// @Success 200 {object} shared.Response{data=dto.ChallengeCompletionResponse}
// @Router /api/v1/challenges/{id}/complete [put]
func (h *ChallengeHandler) Complete(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.challengeSvc.Complete(userID, c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Challenge completed", resp)
}
