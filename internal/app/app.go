// Package app assembles the Fiber application from its dependencies.
package app

import (
	"log/slog"

	"productapi/internal/handlers"
	"productapi/internal/middleware"
	"productapi/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// Dependencies are the collaborators the HTTP layer needs.
type Dependencies struct {
	ProductService *services.ProductService
	// DB is pinged by the health endpoint; nil when running on the in-memory store.
	DB     handlers.Pinger
	Logger *slog.Logger
}

// New builds the Fiber app with middleware, error handling and all routes.
// Used by main and by the HTTP tests.
func New(deps Dependencies) *fiber.App {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	app := fiber.New(fiber.Config{
		AppName:               "productapi",
		ErrorHandler:          handlers.NewErrorHandler(logger),
		DisableStartupMessage: true,
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogger(logger))
	app.Use(recover.New())

	handlers.NewHealthHandler(deps.DB, logger).RegisterRoutes(app)

	api := app.Group("/api")
	handlers.NewProductHandler(deps.ProductService, logger).RegisterRoutes(api)

	return app
}
