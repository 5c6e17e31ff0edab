package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bhumingasorofficial/psb-bhumingasor/internals/middlewares/logger"
)

// SetupMiddlewares memasang middleware global dengan urutan:
// recovery paling luar, lalu CORS, logger, dan rate limiter.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
