package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, handler *Handler) {
	// Health check and metrics
	app.Get("/health", handler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Dashboard page
	app.Get("/", handler.Page)
	app.Post("/query", handler.SubmitForm)
	app.Post("/notice/dismiss", handler.DismissNotice)

	// Prediction backend
	app.Post("/predict", handler.Predict)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.Get("/dashboard", handler.GetDashboard)
		api.Post("/query", handler.SubmitQuery)
		api.Get("/predictions", handler.GetPredictions)
	}

	app.Post("/api/predict", handler.Predict)
}
