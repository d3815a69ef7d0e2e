package handlers

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tenderhub/insight-api/internal/logger"
	"tenderhub/insight-api/internal/models"
	"tenderhub/insight-api/internal/services"
)

type UploadHandler struct {
	tenders     services.TenderService
	maxFileSize int64
	log         *zap.Logger
}

func NewUploadHandler(tenders services.TenderService, maxFileSize int64, log *zap.Logger) *UploadHandler {
	return &UploadHandler{
		tenders:     tenders,
		maxFileSize: maxFileSize,
		log:         logger.OrNop(log),
	}
}

// HandleUpload handles POST /upload
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}

	if h.maxFileSize > 0 && file.Size > h.maxFileSize {
		return badRequest(c, fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize))
	}

	budget, err := parseBudget(c.FormValue("budget"))
	if err != nil {
		return badRequest(c, "budget must be a number")
	}
	deadline, err := parseDeadline(c.FormValue("deadline"))
	if err != nil {
		return badRequest(c, "deadline must be a date (YYYY-MM-DD)")
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}

	req := services.IngestRequest{
		FileName: file.Filename,
		Data:     data,
		Title:    c.FormValue("title"),
		Buyer:    c.FormValue("buyer"),
		Province: c.FormValue("province"),
		Budget:   budget,
		Deadline: deadline,
	}
	if principal := PrincipalFrom(c); !principal.Anonymous {
		uploader := principal.UserID
		req.UploadedBy = &uploader
	}

	result, err := h.tenders.Ingest(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.JSON(models.UploadResponse{
		TenderID:  result.Tender.ID.String(),
		Summary:   result.Summary.Text,
		Duplicate: result.Duplicate,
	})
}

func parseBudget(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseDeadline(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognised date %q", raw)
}
