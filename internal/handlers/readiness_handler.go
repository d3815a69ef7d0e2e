package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"tenderhub/insight-api/internal/apperrors"
	"tenderhub/insight-api/internal/models"
	"tenderhub/insight-api/internal/repositories"
	"tenderhub/insight-api/internal/services"
)

type ReadinessHandler struct {
	readiness services.ReadinessService
	profiles  repositories.ProfileRepository
}

func NewReadinessHandler(readiness services.ReadinessService, profiles repositories.ProfileRepository) *ReadinessHandler {
	return &ReadinessHandler{readiness: readiness, profiles: profiles}
}

// HandleCheck handles POST /readiness/check
func (h *ReadinessHandler) HandleCheck(c *fiber.Ctx) error {
	var req models.ReadinessRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if req.TenderID == "" {
		return badRequest(c, "tender_id is required")
	}

	id, err := parseTenderID(req.TenderID)
	if err != nil {
		return err
	}

	var profile models.CompanyProfile
	if req.Profile != nil {
		profile = *req.Profile
	} else {
		saved, err := h.profiles.FindByUserID(c.UserContext(), PrincipalFrom(c).UserID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return badRequest(c, "profile is required (no saved company profile)")
			}
			return err
		}
		profile = *saved
	}

	result, err := h.readiness.Check(c.UserContext(), id, profile)
	if err != nil {
		return err
	}

	return c.JSON(models.ReadinessResponse{
		Score:          result.Score,
		Checklist:      result.Checklist,
		Recommendation: result.Recommendation,
	})
}

// HandleLatest handles GET /readiness/:tender_id
func (h *ReadinessHandler) HandleLatest(c *fiber.Ctx) error {
	id, err := tenderIDParam(c)
	if err != nil {
		return err
	}

	result, err := h.readiness.Latest(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
