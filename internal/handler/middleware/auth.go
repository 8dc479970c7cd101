package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/surya-pratap-s/notes-saas/internal/domain"
	"github.com/surya-pratap-s/notes-saas/internal/service"
)

const (
	// PrincipalKey is the fiber.Locals key holding the resolved principal.
	PrincipalKey = "principal"
	// TokenKey is the fiber.Locals key holding the raw bearer token.
	TokenKey = "token"
)

// AuthMiddleware is the request authorization gate: it parses the bearer
// token, resolves it into a Principal (re-fetching user and tenant from
// storage) and attaches the result to the request. This is the only place
// token parsing happens.
func AuthMiddleware(authService *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "No token provided",
			})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid authorization header format",
			})
		}

		token := parts[1]

		principal, err := authService.Resolve(c.Context(), token)
		if err != nil {
			message := "Unauthorized"
			if errors.Is(err, service.ErrAccountInactive) {
				message = "Account is inactive"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": message,
			})
		}

		c.Locals(PrincipalKey, principal)
		c.Locals(TokenKey, token)

		return c.Next()
	}
}

// RequireAdmin rejects requests whose principal is not an admin. It must run
// after AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := c.Locals(PrincipalKey).(*domain.Principal)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized",
			})
		}

		if !principal.User.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Forbidden: requires admin",
			})
		}

		return c.Next()
	}
}

// Principal returns the principal attached by AuthMiddleware.
func Principal(c *fiber.Ctx) *domain.Principal {
	principal, _ := c.Locals(PrincipalKey).(*domain.Principal)
	return principal
}

// Token returns the raw bearer token attached by AuthMiddleware.
func Token(c *fiber.Ctx) string {
	token, _ := c.Locals(TokenKey).(string)
	return token
}
