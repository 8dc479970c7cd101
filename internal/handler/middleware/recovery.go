package middleware

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RecoveryMiddleware recovers from panics and returns a generic 500. The
// panic value never reaches the client.
func RecoveryMiddleware(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()),
				)

				if err := c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"message": "Server error",
				}); err != nil {
					log.Error("failed to send panic response", zap.Error(err))
				}
			}
		}()

		return c.Next()
	}
}
