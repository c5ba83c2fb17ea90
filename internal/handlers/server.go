package handlers

import (
	"healthtrack/internal/app"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewServer builds the fiber application with its middleware stack and all
// routes registered.
func NewServer(app *app.App) (*fiber.App, error) {
	server := fiber.New(fiber.Config{
		AppName:      "healthtrack " + app.Config.GeneralVersion,
		ErrorHandler: ErrorHandler,
	})

	server.Use(recover.New())
	server.Use(corsMiddleware(app.Config.ServerCorsOrigins))
	if !app.Config.IsProduction() {
		server.Use(fiberlogger.New())
	}

	if err := Router(server, app); err != nil {
		return nil, err
	}

	return server, nil
}

// corsMiddleware allows credentials only for explicit origins; fiber rejects
// credentials with a wildcard.
func corsMiddleware(origins string) fiber.Handler {
	if origins == "" || origins == "*" {
		return cors.New()
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowCredentials: true,
	})
}
