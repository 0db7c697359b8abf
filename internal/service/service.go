package service

import (
	"github.com/floodwatch/backend/internal/domain"
)

// PredictionLogRepository is re-exported from domain for convenience
type PredictionLogRepository = domain.PredictionLogRepository

// PredictionPublisher is re-exported from domain for convenience
type PredictionPublisher = domain.PredictionPublisher
