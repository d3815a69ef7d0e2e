package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"tenderhub/insight-api/internal/apperrors"
	"tenderhub/insight-api/internal/models"
	"tenderhub/insight-api/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type TenderHandler struct {
	tenders services.TenderService
	export  services.ExportService
	now     func() time.Time
}

func NewTenderHandler(tenders services.TenderService, export services.ExportService) *TenderHandler {
	return &TenderHandler{tenders: tenders, export: export, now: time.Now}
}

// HandleList handles GET /tenders
func (h *TenderHandler) HandleList(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)
	if limit < 0 || offset < 0 {
		return badRequest(c, "limit and offset must not be negative")
	}

	items, err := h.tenders.List(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// HandleSummary handles GET /summary/:tender_id
func (h *TenderHandler) HandleSummary(c *fiber.Ctx) error {
	id, err := tenderIDParam(c)
	if err != nil {
		return err
	}

	summary, err := h.tenders.Summary(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// HandleStats handles GET /stats
func (h *TenderHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.tenders.Stats(c.UserContext(), h.now())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// HandleSearch handles POST /search
func (h *TenderHandler) HandleSearch(c *fiber.Ctx) error {
	var req models.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	hits, err := h.tenders.Search(c.UserContext(), req.Keywords, req.Limit)
	if err != nil {
		return err
	}
	return c.JSON(hits)
}

// HandleExport handles GET /tenders/export
func (h *TenderHandler) HandleExport(c *fiber.Ctx) error {
	data, err := h.export.ExportXLSX(c.UserContext())
	if err != nil {
		return err
	}

	c.Attachment("tenders.xlsx")
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(data)
}

// tenderIDParam reads :tender_id. Identifiers that are not UUIDs cannot name a
// stored tender, so they are reported as not found.
func tenderIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	return parseTenderID(c.Params("tender_id"))
}

func parseTenderID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("tender %q: %w", raw, apperrors.ErrNotFound)
	}
	return id, nil
}
