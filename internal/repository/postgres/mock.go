package postgres

import (
	"context"

	"github.com/floodwatch/backend/internal/domain"
)

// MockRepository implements domain.PredictionLogRepository when no database is configured.
type MockRepository struct{}

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{}
}

// SavePredictionLog is a no-op in mock mode
func (r *MockRepository) SavePredictionLog(ctx context.Context, entry domain.PredictionLog) error {
	return nil
}

// RecentPredictions has nothing to return in mock mode
func (r *MockRepository) RecentPredictions(ctx context.Context, limit int) ([]domain.PredictionLog, error) {
	return []domain.PredictionLog{}, nil
}

// Health always succeeds in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}
