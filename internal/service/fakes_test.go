package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/floodwatch/backend/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubGeocoder resolves only the queries it knows.
type stubGeocoder struct {
	mu     sync.Mutex
	places map[string]domain.Coordinates
	calls  []string
}

func (g *stubGeocoder) Lookup(_ context.Context, query string) (domain.Coordinates, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, query)
	c, ok := g.places[query]
	return c, ok
}

func (g *stubGeocoder) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

// stubPredictor delegates to fn and records every request.
type stubPredictor struct {
	mu    sync.Mutex
	fn    func(ctx context.Context, req domain.PredictionRequest) (domain.PredictionResult, error)
	calls []domain.PredictionRequest
}

func (p *stubPredictor) Predict(ctx context.Context, req domain.PredictionRequest) (domain.PredictionResult, error) {
	p.mu.Lock()
	p.calls = append(p.calls, req)
	fn := p.fn
	p.mu.Unlock()
	return fn(ctx, req)
}

func (p *stubPredictor) requests() []domain.PredictionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.PredictionRequest(nil), p.calls...)
}

func livePayload(score int, waterLevel string) domain.PredictionPayload {
	return domain.PredictionPayload{
		RiskScore:   score,
		WaterLevel:  domain.Decimal(waterLevel),
		Rainfall:    12,
		WindSpeed:   3,
		Temperature: 21,
		Comment:     "ok",
	}
}

// memoryLogRepo is an in-memory PredictionLogRepository.
type memoryLogRepo struct {
	mu      sync.Mutex
	entries []domain.PredictionLog
	saveErr error
}

func (r *memoryLogRepo) SavePredictionLog(_ context.Context, entry domain.PredictionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memoryLogRepo) RecentPredictions(_ context.Context, limit int) ([]domain.PredictionLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit > len(r.entries) {
		limit = len(r.entries)
	}
	return append([]domain.PredictionLog(nil), r.entries[:limit]...), nil
}

func (r *memoryLogRepo) Health(context.Context) error { return nil }

func (r *memoryLogRepo) saved() []domain.PredictionLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.PredictionLog(nil), r.entries...)
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []domain.PredictionLog
}

func (p *recordingPublisher) Publish(_ context.Context, entry domain.PredictionLog) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, entry)
	return nil
}

func (p *recordingPublisher) entries() []domain.PredictionLog {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.PredictionLog(nil), p.published...)
}

// fixedWeather returns the same reading for every grid cell.
type fixedWeather struct {
	reading WeatherReading
	mu      sync.Mutex
	cells   [][2]int
}

func (w *fixedWeather) Current(_ context.Context, nx, ny int) WeatherReading {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cells = append(w.cells, [2]int{nx, ny})
	return w.reading
}
