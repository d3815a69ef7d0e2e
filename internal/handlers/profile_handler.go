package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tenderhub/insight-api/internal/models"
	"tenderhub/insight-api/internal/repositories"
)

type ProfileHandler struct {
	profiles repositories.ProfileRepository
}

func NewProfileHandler(profiles repositories.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// HandleSave handles POST /profile
func (h *ProfileHandler) HandleSave(c *fiber.Ctx) error {
	var profile models.CompanyProfile
	if err := c.BodyParser(&profile); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	profile.UserID = PrincipalFrom(c).UserID
	if err := h.profiles.Upsert(c.UserContext(), &profile); err != nil {
		return err
	}
	return c.JSON(profile)
}

// HandleGet handles GET /profile
func (h *ProfileHandler) HandleGet(c *fiber.Ctx) error {
	profile, err := h.profiles.FindByUserID(c.UserContext(), PrincipalFrom(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}
