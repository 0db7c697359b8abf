package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/floodwatch/backend/internal/domain"
	"github.com/floodwatch/backend/internal/observability"
)

// WeatherSource supplies current conditions for a KMA grid cell.
type WeatherSource interface {
	Current(ctx context.Context, nx, ny int) WeatherReading
}

// PredictionService is the flood prediction backend behind /api/predict.
type PredictionService struct {
	weather   WeatherSource
	repo      PredictionLogRepository
	publisher PredictionPublisher
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics

	wgBg sync.WaitGroup // tracks background goroutines for graceful shutdown
}

// NewPredictionService creates the backend. publisher may be nil.
func NewPredictionService(
	weather WeatherSource,
	repo PredictionLogRepository,
	publisher PredictionPublisher,
	clock clockwork.Clock,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *PredictionService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &PredictionService{
		weather:   weather,
		repo:      repo,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// WaitBackground blocks until all background log/publish goroutines complete.
// Call during graceful shutdown to avoid dropped writes.
func (s *PredictionService) WaitBackground() {
	s.wgBg.Wait()
}

// Predict scores the flood risk for a location from live weather and the district's base depth.
func (s *PredictionService) Predict(ctx context.Context, req domain.PredictionRequest) (domain.PredictionPayload, error) {
	location := strings.TrimSpace(req.Location)
	if location == "" {
		return domain.PredictionPayload{}, domain.ErrEmptyQuery
	}

	district, matched := MatchDistrict(location, req.Lat, req.Lon)
	if matched {
		s.logger.Info("prediction requested", "location", location, "district", district.Name, "nx", district.NX, "ny", district.NY)
	} else {
		s.logger.Info("no district matched, using default grid", "location", location)
	}

	reading := s.weather.Current(ctx, district.NX, district.NY)
	score := CalculateFloodRisk(reading.Rainfall, district.BaseDepth)
	waterLevel := domain.DecimalFromFloat(EstimateWaterLevel(district.BaseDepth, reading.Rainfall), -1)

	payload := domain.PredictionPayload{
		RiskScore:   score,
		WaterLevel:  waterLevel,
		Rainfall:    reading.Rainfall,
		WindSpeed:   reading.WindSpeed,
		Temperature: reading.Temperature,
		Comment:     FloodComment(score, reading.Rainfall, reading.Temperature, location),
	}

	s.metrics.BackendPredictions.WithLabelValues(reading.Source).Inc()
	s.metrics.RiskScore.Observe(float64(score))

	s.record(domain.PredictionLog{
		Location:      location,
		Lat:           req.Lat,
		Lon:           req.Lon,
		District:      district.Name,
		RiskScore:     score,
		WaterLevel:    waterLevel,
		Rainfall:      reading.Rainfall,
		WindSpeed:     reading.WindSpeed,
		Temperature:   reading.Temperature,
		WeatherSource: reading.Source,
		PredictedAt:   s.clock.Now(),
	})

	return payload, nil
}

// RecentPredictions lists the newest logged predictions.
func (s *PredictionService) RecentPredictions(ctx context.Context, limit int) ([]domain.PredictionLog, error) {
	return s.repo.RecentPredictions(ctx, limit)
}

// Health checks the prediction log store.
func (s *PredictionService) Health(ctx context.Context) error {
	return s.repo.Health(ctx)
}

// record persists and publishes a prediction asynchronously (tracked for graceful shutdown).
func (s *PredictionService) record(entry domain.PredictionLog) {
	s.wgBg.Add(1)
	go func() {
		defer s.wgBg.Done()
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.repo.SavePredictionLog(bgCtx, entry); err != nil {
			s.logger.Error("failed to save prediction log", "location", entry.Location, "error", err)
		}
		if s.publisher != nil {
			if err := s.publisher.Publish(bgCtx, entry); err != nil {
				s.logger.Error("failed to publish prediction", "location", entry.Location, "error", err)
			}
		}
	}()
}
