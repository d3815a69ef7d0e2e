package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tenderhub/insight-api/internal/services"
)

type AnalyticsHandler struct {
	analytics services.AnalyticsService
}

func NewAnalyticsHandler(analytics services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// HandleSpendByBuyer handles GET /analytics/spend-by-buyer
func (h *AnalyticsHandler) HandleSpendByBuyer(c *fiber.Ctx) error {
	rows, err := h.analytics.SpendByBuyer(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(rows)
}

// HandleEnrichedReleases handles GET /analytics/enriched-releases
func (h *AnalyticsHandler) HandleEnrichedReleases(c *fiber.Ctx) error {
	rows, err := h.analytics.EnrichedReleases(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(rows)
}
