package handler

import (
	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(
	app *fiber.App,
	authHandler *AuthHandler,
	tenantHandler *TenantHandler,
	invitationHandler *InvitationHandler,
	noteHandler *NoteHandler,
	userHandler *UserHandler,
	healthHandler *HealthHandler,
	authMiddleware fiber.Handler,
	requireAdmin fiber.Handler,
) {
	// Health check (public)
	app.Get("/health", healthHandler.Health)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", tenantHandler.Register)
	auth.Post("/logout", authMiddleware, authHandler.Logout)
	auth.Get("/me", authMiddleware, authHandler.Me)
	auth.Get("/users", authMiddleware, requireAdmin, userHandler.ListUsers)
	auth.Patch("/:userId/toggle-status", authMiddleware, requireAdmin, userHandler.ToggleStatus)

	// Invitation routes
	invitations := api.Group("/invitations")
	invitations.Post("/invite", authMiddleware, requireAdmin, invitationHandler.Invite)
	invitations.Get("/", authMiddleware, requireAdmin, invitationHandler.List)
	invitations.Post("/:id/resend", authMiddleware, requireAdmin, invitationHandler.Resend)
	invitations.Delete("/:id", authMiddleware, requireAdmin, invitationHandler.Cancel)
	// Member registration with a referral code (public)
	invitations.Post("/member", invitationHandler.Redeem)

	// Tenant routes
	tenants := api.Group("/tenants")
	tenants.Get("/me", authMiddleware, tenantHandler.Me)
	tenants.Post("/:slug/upgrade", authMiddleware, requireAdmin, tenantHandler.Upgrade)
	// Public tenant directory
	tenants.Get("/", tenantHandler.List)

	// Note CRUD
	notes := api.Group("/notes", authMiddleware)
	notes.Post("/", noteHandler.Create)
	notes.Get("/", noteHandler.List)
	notes.Get("/:id", noteHandler.Get)
	notes.Put("/:id", noteHandler.Update)
	notes.Delete("/:id", noteHandler.Delete)
}
