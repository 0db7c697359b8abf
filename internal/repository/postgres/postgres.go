package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/floodwatch/backend/internal/domain"
)

// maxRecentPredictions caps a single RecentPredictions query.
const maxRecentPredictions = 100

const schema = `
	CREATE TABLE IF NOT EXISTS prediction_logs (
		id             BIGSERIAL PRIMARY KEY,
		location       TEXT             NOT NULL,
		lat            DOUBLE PRECISION NOT NULL,
		lon            DOUBLE PRECISION NOT NULL,
		district       TEXT             NOT NULL,
		risk_score     INTEGER          NOT NULL,
		water_level    NUMERIC(6, 2)    NOT NULL,
		rainfall       DOUBLE PRECISION NOT NULL,
		wind_speed     DOUBLE PRECISION NOT NULL,
		temperature    DOUBLE PRECISION NOT NULL,
		weather_source TEXT             NOT NULL,
		predicted_at   TIMESTAMPTZ      NOT NULL
	);
	CREATE INDEX IF NOT EXISTS prediction_logs_predicted_at_idx ON prediction_logs (predicted_at DESC);
`

// PostgresRepository implements domain.PredictionLogRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the prediction_logs table when it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: failed to create schema: %w", err)
	}
	return nil
}

// SavePredictionLog persists one backend prediction to PostgreSQL
func (r *PostgresRepository) SavePredictionLog(ctx context.Context, entry domain.PredictionLog) error {
	query := `
		INSERT INTO prediction_logs (
			location, lat, lon, district, risk_score, water_level,
			rainfall, wind_speed, temperature, weather_source, predicted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.Location, entry.Lat, entry.Lon, entry.District, entry.RiskScore, entry.WaterLevel.String(),
		entry.Rainfall, entry.WindSpeed, entry.Temperature, entry.WeatherSource, entry.PredictedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save prediction log: %w", err)
	}

	return nil
}

// RecentPredictions retrieves the newest prediction logs, newest first
func (r *PostgresRepository) RecentPredictions(ctx context.Context, limit int) ([]domain.PredictionLog, error) {
	if limit <= 0 || limit > maxRecentPredictions {
		limit = maxRecentPredictions
	}

	query := `
		SELECT location, lat, lon, district, risk_score, water_level::text,
			   rainfall, wind_speed, temperature, weather_source, predicted_at
		FROM prediction_logs
		ORDER BY predicted_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query prediction logs: %w", err)
	}
	defer rows.Close()

	results := make([]domain.PredictionLog, 0, limit)
	for rows.Next() {
		var p domain.PredictionLog
		var waterLevel string
		err := rows.Scan(
			&p.Location, &p.Lat, &p.Lon, &p.District, &p.RiskScore, &waterLevel,
			&p.Rainfall, &p.WindSpeed, &p.Temperature, &p.WeatherSource, &p.PredictedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan prediction row: %w", err)
		}
		p.WaterLevel = domain.Decimal(waterLevel)
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to read prediction logs: %w", err)
	}

	return results, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
