package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/surya-pratap-s/notes-saas/internal/handler/middleware"
	"github.com/surya-pratap-s/notes-saas/internal/service"
	"github.com/surya-pratap-s/notes-saas/pkg/validator"
)

type TenantHandler struct {
	tenantService *service.TenantService
	validator     *validator.Validator
}

func NewTenantHandler(tenantService *service.TenantService, validator *validator.Validator) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
		validator:     validator,
	}
}

// Register creates a tenant and its first admin
// POST /api/auth/register
func (h *TenantHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	resp, err := h.tenantService.Register(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"token":   resp.Token,
		"user":    resp.User,
	})
}

// Me returns the principal's tenant
// GET /api/tenants/me
func (h *TenantHandler) Me(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"tenant":  middleware.Principal(c).Tenant,
	})
}

// Upgrade flips the principal's tenant to the pro plan
// POST /api/tenants/:slug/upgrade
func (h *TenantHandler) Upgrade(c *fiber.Ctx) error {
	tenant, err := h.tenantService.Upgrade(c.Context(), middleware.Principal(c).Tenant.ID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Tenant upgraded to Pro successfully",
		"tenant":  tenant,
	})
}

// List returns the public tenant directory
// GET /api/tenants
func (h *TenantHandler) List(c *fiber.Ctx) error {
	tenants, err := h.tenantService.ListAll(c.Context())
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"count":   len(tenants),
		"tenants": tenants,
	})
}
