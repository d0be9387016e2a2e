package httpapi

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// AppOptions configures NewApp.
type AppOptions struct {
	// AllowOrigins is the CORS allow list; empty or "*" allows any origin.
	AllowOrigins string
	// AccessLog enables the fiber request logger.
	AccessLog bool
}

// NewApp creates the Fiber app with the service middleware and API routes.
func NewApp(h *Handler, opts AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "weather-service",
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			h.logger.Error("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"status", code,
				"error", err)
			return c.Status(code).JSON(ErrorResponse{Error: errorMessage(c, code, err)})
		},
	})

	origins := opts.AllowOrigins
	if origins == "" {
		origins = "*"
	}

	// Global middleware
	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	RegisterRoutes(app, h)
	return app
}

// errorMessage hides internal detail behind the route's fixed message for 5xx.
func errorMessage(c *fiber.Ctx, code int, err error) string {
	if code < fiber.StatusInternalServerError {
		return err.Error()
	}
	if c.Route().Path == historyPath {
		return MsgHistoryFailed
	}
	return MsgSubmitFailed
}
