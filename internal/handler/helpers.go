package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/surya-pratap-s/notes-saas/internal/service"
)

// statusFromError maps a service error to its HTTP status. Unknown errors are
// internal failures.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrSelfToggle),
		errors.Is(err, service.ErrInvitationInvalid):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountInactive),
		errors.Is(err, service.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTenantNotFound),
		errors.Is(err, service.ErrNoteNotFound),
		errors.Is(err, service.ErrInvitationNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrSlugTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrQuotaExceeded):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes the error envelope. Internal errors get a generic message so
// storage details never leak to clients.
func fail(c *fiber.Ctx, err error) error {
	status := statusFromError(err)

	message := err.Error()
	if status == fiber.StatusInternalServerError {
		message = "Server error"
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// badRequest writes a 400 with the given message.
func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
