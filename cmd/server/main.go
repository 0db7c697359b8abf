package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/floodwatch/backend/internal/config"
	"github.com/floodwatch/backend/internal/delivery/http"
	"github.com/floodwatch/backend/internal/delivery/kafka"
	"github.com/floodwatch/backend/internal/observability"
	"github.com/floodwatch/backend/internal/repository/postgres"
	"github.com/floodwatch/backend/internal/service"
	"github.com/floodwatch/backend/internal/view"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	// Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg)
	slog.SetDefault(log)
	if envErr != nil {
		log.Info("no .env file found, using system environment")
	}
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	// Database connection
	pool := connectDatabase(cfg, log)
	if pool != nil {
		defer pool.Close()
	}

	// Dependency Injection: Repositories
	var logRepo service.PredictionLogRepository
	if pool != nil {
		repo := postgres.NewPostgresRepository(pool)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Error("failed to prepare database schema", "error", err)
		}
		cancel()
		logRepo = repo
	} else {
		logRepo = postgres.NewMockRepository()
	}

	var publisher service.PredictionPublisher
	var kafkaPublisher *kafka.Publisher
	if cfg.KafkaEnabled() {
		kafkaPublisher = kafka.NewPublisher(cfg, log)
		publisher = kafkaPublisher
		log.Info("publishing predictions to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	// Dependency Injection: Services
	simulator := service.NewSimulator(uint64(time.Now().UnixNano()))
	weatherSvc := service.NewKMAWeatherService(cfg.KMAAPIKey, cfg.KMABaseURL, simulator, clock, log)
	predictionSvc := service.NewPredictionService(weatherSvc, logRepo, publisher, clock, log, metrics)

	geocoder := service.NewNominatimGeocoder(cfg.GeocoderURL, cfg.GeocoderUserAgent, cfg.HTTPClientTimeout, log, metrics)
	predictor := service.NewPredictorClient(cfg.PredictorURL, cfg.HTTPClientTimeout, simulator, log, metrics)
	dashboardOpts := service.DashboardOptions{
		MinLoadingDelay: cfg.MinLoadingDelay,
		DiscardStale:    cfg.DiscardStaleResults,
		Clock:           clock,
	}
	sessions := service.NewSessionRegistry(func() *service.DashboardService {
		return service.NewDashboardService(geocoder, predictor, dashboardOpts, log, metrics)
	}, cfg.SessionIdleTimeout, clock, log, metrics)

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sessions.Run(sweepCtx)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "FloodWatch v1.0",
		Immutable:    true,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: http.ErrorHandler(log),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Routes
	http.SetupRoutes(app, http.NewHandler(sessions, predictionSvc, renderer, log))

	// Graceful shutdown
	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "predictor", cfg.PredictorURL)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	stopSweep()
	predictionSvc.WaitBackground()
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Error("failed to close kafka writer", "error", err)
		}
	}
	log.Info("server exited gracefully")
}

// connectDatabase returns nil when no database is configured or reachable;
// the server then keeps running without a prediction log.
func connectDatabase(cfg *config.Config, log *slog.Logger) *pgxpool.Pool {
	if cfg.DatabaseURL == "" {
		log.Info("DATABASE_URL not set, prediction log disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err == nil {
		err = pool.Ping(ctx)
		if err != nil {
			pool.Close()
		}
	}
	if err != nil {
		log.Warn("could not connect to database, running without prediction log", "error", err)
		return nil
	}

	log.Info("connected to PostgreSQL")
	return pool
}
