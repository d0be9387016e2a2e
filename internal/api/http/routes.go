package httpapi

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/i474232898/weather-history-dashboard/internal/metrics"
	"github.com/i474232898/weather-history-dashboard/internal/weather"
)

// Fixed client-facing failure messages, one per route.
const (
	MsgSubmitFailed  = "Something went wrong!"
	MsgHistoryFailed = "Could not get weather history"
)

const historyPath = "/weather/:city"

var validate = validator.New()

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthReporter exposes the result of the background store probe.
type HealthReporter interface {
	Healthy() bool
	LastCheck() time.Time
}

// Handler carries the service context shared by all routes.
type Handler struct {
	service *weather.Service
	logger  *slog.Logger
	metrics *metrics.Metrics
	health  HealthReporter
}

// NewHandler builds the route handler. metrics and health may be nil.
func NewHandler(service *weather.Service, logger *slog.Logger, m *metrics.Metrics, health HealthReporter) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger, metrics: m, health: health}
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, h *Handler) {
	app.Post("/weather", h.submit)
	app.Get(historyPath, h.history)
	app.Get("/health", h.healthz)
	if h.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(h.metrics.Handler()))
	}
}

// submitRequest is the POST /weather body.
type submitRequest struct {
	City string `json:"city" validate:"required"`
}

func (h *Handler) submit(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return h.rejectSubmit(c, err)
	}
	req.City = strings.TrimSpace(req.City)
	if err := validate.Struct(req); err != nil {
		return h.rejectSubmit(c, err)
	}

	rec, err := h.service.Submit(c.UserContext(), req.City)
	if err != nil {
		// Already logged by the service with its kind.
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: MsgSubmitFailed})
	}
	return c.JSON(rec)
}

// rejectSubmit answers an unusable submit body. The route has a single
// failure status, so validation errors share it.
func (h *Handler) rejectSubmit(c *fiber.Ctx, cause error) error {
	err := weather.NewError(weather.KindValidation, "submit", cause)
	h.metrics.RecordFailure(weather.KindValidation.String())
	h.metrics.ObserveSubmit(false)
	h.logger.Warn("weather operation failed",
		"op", "submit",
		"kind", weather.KindValidation.String(),
		"error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: MsgSubmitFailed})
}

func (h *Handler) history(c *fiber.Ctx) error {
	recs, err := h.service.History(c.UserContext(), h.cityParam(c.Params("city")))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: MsgHistoryFailed})
	}
	return c.JSON(recs)
}

// cityParam decodes the :city path segment. A segment that is not valid
// percent-encoding is matched as sent.
func (h *Handler) cityParam(raw string) string {
	city, err := url.PathUnescape(raw)
	if err != nil {
		h.logger.Warn("city parameter is not valid percent-encoding, using it as sent",
			"city", raw,
			"error", err)
		return raw
	}
	return city
}

func (h *Handler) healthz(c *fiber.Ctx) error {
	resp := fiber.Map{
		"status":  "ok",
		"service": "weather-service",
	}
	if h.health == nil {
		return c.JSON(resp)
	}

	if h.health.Healthy() {
		resp["store"] = "up"
	} else {
		resp["status"] = "degraded"
		resp["store"] = "down"
	}
	if ts := h.health.LastCheck(); !ts.IsZero() {
		resp["checkedAt"] = ts
	}

	if !h.health.Healthy() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
