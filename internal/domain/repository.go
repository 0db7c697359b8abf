package domain

import "context"

// Geocoder resolves free text to a single best-match coordinate pair.
// Lookup never fails loudly: any error is reported as not found.
type Geocoder interface {
	Lookup(ctx context.Context, query string) (Coordinates, bool)
}

// RiskPredictor asks the prediction backend for a flood-risk payload.
// Backend failures come back as a simulated result; only unexpected faults
// such as an undecodable success body are returned as errors.
type RiskPredictor interface {
	Predict(ctx context.Context, req PredictionRequest) (PredictionResult, error)
}

// PredictionLogRepository defines the interface for prediction audit persistence.
// This follows the Dependency Inversion Principle - domain defines the interface
type PredictionLogRepository interface {
	// SavePredictionLog persists one backend prediction
	SavePredictionLog(ctx context.Context, entry PredictionLog) error

	// RecentPredictions returns the newest entries first
	RecentPredictions(ctx context.Context, limit int) ([]PredictionLog, error)

	// Health checks database connectivity
	Health(ctx context.Context) error
}

// PredictionPublisher announces backend predictions to downstream consumers.
type PredictionPublisher interface {
	Publish(ctx context.Context, entry PredictionLog) error
}
