package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tenderhub/insight-api/internal/models"
	"tenderhub/insight-api/internal/services"
)

type WorkspaceHandler struct {
	workspace services.WorkspaceService
}

func NewWorkspaceHandler(workspace services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspace: workspace}
}

// HandleList handles GET /workspace
func (h *WorkspaceHandler) HandleList(c *fiber.Ctx) error {
	status := models.WorkspaceStatus(c.Query("status"))

	items, err := h.workspace.List(c.UserContext(), PrincipalFrom(c).TeamID, status)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// HandleUpdateStatus handles PUT /workspace/:tender_id/status
func (h *WorkspaceHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	id, err := tenderIDParam(c)
	if err != nil {
		return err
	}

	var req models.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	record, err := h.workspace.UpdateStatus(c.UserContext(), PrincipalFrom(c), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(record)
}

// HandleAddNote handles POST /workspace/:tender_id/notes
func (h *WorkspaceHandler) HandleAddNote(c *fiber.Ctx) error {
	id, err := tenderIDParam(c)
	if err != nil {
		return err
	}

	var req models.NoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	note, err := h.workspace.AddNote(c.UserContext(), PrincipalFrom(c), id, req.Note)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

// HandleNotes handles GET /workspace/:tender_id/notes
func (h *WorkspaceHandler) HandleNotes(c *fiber.Ctx) error {
	id, err := tenderIDParam(c)
	if err != nil {
		return err
	}

	notes, err := h.workspace.Notes(c.UserContext(), PrincipalFrom(c).TeamID, id)
	if err != nil {
		return err
	}
	return c.JSON(notes)
}
