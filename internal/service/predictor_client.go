package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/floodwatch/backend/internal/domain"
	"github.com/floodwatch/backend/internal/observability"
)

// PredictorClient handles communication with the flood prediction backend
type PredictorClient struct {
	endpoint   string
	httpClient *http.Client
	simulator  *Simulator
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewPredictorClient creates a new predictor client. A zero timeout leaves
// requests bounded only by their context.
func NewPredictorClient(endpoint string, timeout time.Duration, simulator *Simulator, logger *slog.Logger, metrics *observability.Metrics) *PredictorClient {
	return &PredictorClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		simulator: simulator,
		logger:    logger,
		metrics:   metrics,
	}
}

// Predict calls the prediction backend. Transport failures and non-2xx answers
// yield a simulated result; an undecodable success body is returned as an error.
func (c *PredictorClient) Predict(ctx context.Context, req domain.PredictionRequest) (domain.PredictionResult, error) {
	// Prepare request body
	body, err := json.Marshal(req)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("predictor: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("predictor: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	c.metrics.PredictorDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		// A caller that went away is not a backend outage.
		if ctx.Err() != nil {
			c.metrics.PredictorRequests.WithLabelValues("error").Inc()
			return domain.PredictionResult{}, fmt.Errorf("predictor: request abandoned: %w", ctx.Err())
		}
		c.logger.Warn("prediction backend unreachable, using simulated data",
			"location", req.Location,
			"error", err,
		)
		return c.simulate(), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("prediction backend returned an error status, using simulated data",
			"location", req.Location,
			"status", resp.StatusCode,
		)
		return c.simulate(), nil
	}

	var payload domain.PredictionPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		c.metrics.PredictorRequests.WithLabelValues("error").Inc()
		return domain.PredictionResult{}, fmt.Errorf("predictor: failed to decode response: %w", err)
	}

	c.metrics.PredictorRequests.WithLabelValues("live").Inc()
	return domain.LiveResult(payload), nil
}

func (c *PredictorClient) simulate() domain.PredictionResult {
	c.metrics.PredictorRequests.WithLabelValues("simulated").Inc()
	return domain.SimulatedResult(c.simulator.Payload())
}
