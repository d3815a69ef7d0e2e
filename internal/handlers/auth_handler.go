package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tenderhub/insight-api/internal/models"
	"tenderhub/insight-api/internal/services"
)

type AuthHandler struct {
	auth services.AuthService
}

func NewAuthHandler(auth services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// HandleRegister handles POST /auth/register
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	user, err := h.auth.Register(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      user.ID,
		"email":   user.Email,
		"team_id": user.TeamID,
	})
}

// HandleToken handles POST /token with form fields username and password.
func (h *AuthHandler) HandleToken(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		return badRequest(c, "username and password are required")
	}

	token, err := h.auth.Login(c.UserContext(), username, password)
	if err != nil {
		return err
	}
	return c.JSON(token)
}
