package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dev-quest/quest_api/dto"
	"github.com/dev-quest/quest_api/shared"
)

type ProfileHandler struct {
	userSvc  UserServiceInterface
	mediaSvc MediaServiceInterface
}

func NewProfileHandler(userSvc UserServiceInterface, mediaSvc MediaServiceInterface) *ProfileHandler {
	return &ProfileHandler{
		userSvc:  userSvc,
		mediaSvc: mediaSvc,
	}
}

// @Summary Get profile
// @Tags profile
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.ProfileResponse}
// @Router /api/v1/profile [get]
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.userSvc.GetProfile(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Profile retrieved", resp)
}

// @Summary Update profile
// @Tags profile
// @Accept json
// @Produce json
// @Security Bearer
// @Param updateProfileRequest body dto.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=dto.ProfileResponse}
// @Router /api/v1/profile [put]
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	resp, err := h.userSvc.UpdateProfile(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Profile updated", resp)
}

// @Summary Get profile stats
// @Description Level, rank, streak and achievement count for the profile screen
// @Tags profile
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.ProfileStatsResponse}
// @Router /api/v1/profile/stats [get]
func (h *ProfileHandler) GetProfileStats(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.userSvc.GetProfileStats(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Profile stats retrieved", resp)
}

// @Summary Upload avatar
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param avatar formData file true "Avatar image (JPG, PNG, WEBP, max 2MB)"
// @Success 200 {object} shared.Response{data=dto.AvatarResponse}
// @Router /api/v1/profile/avatar [put]
func (h *ProfileHandler) UploadAvatar(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	file, err := c.FormFile("avatar")
	if err != nil {
		return shared.NewBadRequestError(err, "Avatar file is required")
	}

	resp, err := h.mediaSvc.UploadAvatar(userID, file)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Avatar uploaded", resp)
}
