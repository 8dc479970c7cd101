package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/surya-pratap-s/notes-saas/internal/handler/middleware"
	"github.com/surya-pratap-s/notes-saas/internal/service"
	"github.com/surya-pratap-s/notes-saas/pkg/validator"
)

type InvitationHandler struct {
	invitationService *service.InvitationService
	validator         *validator.Validator
}

func NewInvitationHandler(invitationService *service.InvitationService, validator *validator.Validator) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
		validator:         validator,
	}
}

// Invite creates a member invitation and mails the referral code
// POST /api/invitations/invite
func (h *InvitationHandler) Invite(c *fiber.Ctx) error {
	var req service.InviteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	invitation, err := h.invitationService.Invite(c.Context(), middleware.Principal(c), req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"message":    "Invitation sent",
		"invitation": invitation,
	})
}

// List returns the tenant's invitations, newest first
// GET /api/invitations
func (h *InvitationHandler) List(c *fiber.Ctx) error {
	invitations, err := h.invitationService.List(c.Context(), middleware.Principal(c))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":     true,
		"invitations": invitations,
	})
}

// Resend refreshes an unused invitation's expiry and re-sends the email
// POST /api/invitations/:id/resend
func (h *InvitationHandler) Resend(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, service.ErrInvalidID)
	}

	if err := h.invitationService.Resend(c.Context(), middleware.Principal(c), id); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Invitation resent",
	})
}

// Cancel deletes an unused invitation
// DELETE /api/invitations/:id
func (h *InvitationHandler) Cancel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, service.ErrInvalidID)
	}

	if err := h.invitationService.Cancel(c.Context(), middleware.Principal(c), id); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Invitation cancelled",
	})
}

// Redeem registers a new member from a referral code
// POST /api/invitations/member
func (h *InvitationHandler) Redeem(c *fiber.Ctx) error {
	var req service.RedeemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.invitationService.Redeem(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"user":    user,
	})
}
