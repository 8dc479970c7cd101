package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/surya-pratap-s/notes-saas/internal/handler/middleware"
	"github.com/surya-pratap-s/notes-saas/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns all users of the admin's tenant
// GET /api/auth/users
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListByTenant(c.Context(), middleware.Principal(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"users":   users,
	})
}

// ToggleStatus flips a user's activation flag
// PATCH /api/auth/:userId/toggle-status
func (h *UserHandler) ToggleStatus(c *fiber.Ctx) error {
	user, err := h.userService.ToggleStatus(c.Context(), middleware.Principal(c), c.Params("userId"))
	if err != nil {
		return fail(c, err)
	}

	message := "User deactivated successfully"
	if user.IsActive {
		message = "User activated successfully"
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"user":    user,
	})
}
