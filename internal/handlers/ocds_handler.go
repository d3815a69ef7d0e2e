package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tenderhub/insight-api/internal/services"
)

type OCDSHandler struct {
	ocds services.OCDSService
}

func NewOCDSHandler(ocds services.OCDSService) *OCDSHandler {
	return &OCDSHandler{ocds: ocds}
}

// HandleReleases handles GET /ocds/releases
func (h *OCDSHandler) HandleReleases(c *fiber.Ctx) error {
	releases, err := h.ocds.Releases(c.UserContext(), c.Query("keyword"), c.QueryInt("limit", 0))
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(releases)
}
