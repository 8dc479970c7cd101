package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORSMiddleware restricts browser access to the configured client origin
func CORSMiddleware(clientURL string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: clientURL,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	})
}
