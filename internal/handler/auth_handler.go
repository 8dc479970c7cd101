package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/surya-pratap-s/notes-saas/internal/handler/middleware"
	"github.com/surya-pratap-s/notes-saas/internal/service"
	"github.com/surya-pratap-s/notes-saas/pkg/validator"
)

type AuthHandler struct {
	authService *service.AuthService
	validator   *validator.Validator
}

func NewAuthHandler(authService *service.AuthService, validator *validator.Validator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
	}
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	resp, err := h.authService.Login(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"token":   resp.Token,
		"user":    resp.User,
	})
}

// Me returns the current principal and tenant
// GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal := middleware.Principal(c)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"user":    service.NewUserDTO(principal.User),
		"tenant":  principal.Tenant,
	})
}

// Logout revokes the current bearer token
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.Context(), middleware.Token(c)); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}
