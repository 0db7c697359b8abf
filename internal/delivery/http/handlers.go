package http

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/floodwatch/backend/internal/domain"
	"github.com/floodwatch/backend/internal/service"
	"github.com/floodwatch/backend/internal/view"
)

// SessionCookie carries the dashboard session id.
const SessionCookie = "fw_session"

const (
	defaultPredictionLimit = 20
	maxPredictionLimit     = 100
)

// Handler contains all HTTP handlers
type Handler struct {
	sessions    *service.SessionRegistry
	predictions *service.PredictionService
	renderer    *view.Renderer
	logger      *slog.Logger
}

// NewHandler creates a new handler
func NewHandler(sessions *service.SessionRegistry, predictions *service.PredictionService, renderer *view.Renderer, logger *slog.Logger) *Handler {
	return &Handler{
		sessions:    sessions,
		predictions: predictions,
		renderer:    renderer,
		logger:      logger,
	}
}

type queryRequest struct {
	Query string `json:"query"`
}

// dashboard resolves the caller's session, issuing a new cookie when needed.
// Request strings alias fasthttp buffers, so anything the registry keeps is copied.
func (h *Handler) dashboard(c *fiber.Ctx) *service.DashboardService {
	id := utils.CopyString(c.Cookies(SessionCookie))
	dash, sessionID := h.sessions.Get(id)
	if sessionID != id {
		c.Cookie(&fiber.Cookie{
			Name:     SessionCookie,
			Value:    sessionID,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return dash
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	database := "up"
	if err := h.predictions.Health(c.Context()); err != nil {
		h.logger.Warn("prediction log store unhealthy", "error", err)
		database = "down"
	}

	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "floodwatch",
		"version":  "1.0.0",
		"database": database,
		"sessions": h.sessions.Len(),
	})
}

// Page renders the dashboard for the caller's session
func (h *Handler) Page(c *fiber.Ctx) error {
	state := h.dashboard(c).Snapshot()

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	c.Set(fiber.HeaderCacheControl, "no-store")
	if err := h.renderer.Render(c, view.Build(state)); err != nil {
		h.logger.Error("failed to render dashboard", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to render dashboard")
	}
	return nil
}

// SubmitForm runs an analysis from the search form and redirects back to the page.
// A failure is shown by the page as a notice.
func (h *Handler) SubmitForm(c *fiber.Ctx) error {
	dash := h.dashboard(c)

	if _, err := dash.Submit(c.Context(), utils.CopyString(c.FormValue("location"))); err != nil && !errors.Is(err, domain.ErrEmptyQuery) {
		h.logger.Warn("form analysis failed", "error", err)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// DismissNotice closes the failure notice and redirects back to the page
func (h *Handler) DismissNotice(c *fiber.Ctx) error {
	h.dashboard(c).DismissNotice()
	return c.Redirect("/", fiber.StatusSeeOther)
}

// GetDashboard returns the session's committed state
func (h *Handler) GetDashboard(c *fiber.Ctx) error {
	state := h.dashboard(c).Snapshot()

	return c.JSON(fiber.Map{
		"success": true,
		"phase":   state.Phase(),
		"data":    state,
	})
}

// SubmitQuery runs an analysis and returns the resulting state
func (h *Handler) SubmitQuery(c *fiber.Ctx) error {
	dash := h.dashboard(c)

	var req queryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	state, err := dash.Submit(c.Context(), req.Query)
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		return fiber.NewError(fiber.StatusBadRequest, "Query must not be empty")
	case err != nil:
		h.logger.Warn("api analysis failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"message": state.Notice,
			"phase":   state.Phase(),
			"data":    state,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"phase":   state.Phase(),
		"data":    state,
	})
}

// GetPredictions returns the newest logged backend predictions
func (h *Handler) GetPredictions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultPredictionLimit)
	if limit < 1 || limit > maxPredictionLimit {
		limit = defaultPredictionLimit
	}

	data, err := h.predictions.RecentPredictions(c.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list predictions", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch prediction history")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"count":   len(data),
	})
}

// Predict serves the flood prediction backend. The body is the bare payload so
// any predictor client can consume it.
func (h *Handler) Predict(c *fiber.Ctx) error {
	var req domain.PredictionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	payload, err := h.predictions.Predict(c.Context(), req)
	if errors.Is(err, domain.ErrEmptyQuery) {
		return fiber.NewError(fiber.StatusBadRequest, "Location must not be empty")
	}
	if err != nil {
		h.logger.Error("prediction failed", "location", req.Location, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to get prediction")
	}

	return c.JSON(payload)
}

// ErrorHandler renders errors as JSON for API routes and as plain text elsewhere.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}

		if strings.HasPrefix(c.Path(), "/api/") || strings.HasSuffix(c.Path(), "/predict") || c.Path() == "/health" {
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": message,
			})
		}
		return c.Status(code).SendString(message)
	}
}
