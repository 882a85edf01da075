package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"carbonwise_backend/internals/middlewares/logger"
)

// SetupMiddlewares mounts the base middleware chain for the whole app.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
