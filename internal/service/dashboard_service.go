package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/floodwatch/backend/internal/domain"
	"github.com/floodwatch/backend/internal/observability"
)

// FailureNotice is shown to the user when an analysis fails outside the predictor's own fallback.
const FailureNotice = "Something went wrong while analyzing this location. Please try again."

// DashboardOptions tune the orchestration behaviour of a DashboardService.
type DashboardOptions struct {
	// MinLoadingDelay keeps the loading indicator visible for at least this long.
	MinLoadingDelay time.Duration

	// DiscardStale drops a completion when a later submission has already committed.
	// When false, whichever submission finishes last wins.
	DiscardStale bool

	Clock clockwork.Clock
}

// DashboardService owns one dashboard's state and sequences a query through
// geocoding, the prediction backend and a single atomic commit.
type DashboardService struct {
	geocoder  domain.Geocoder
	predictor domain.RiskPredictor
	opts      DashboardOptions
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu           sync.Mutex
	state        domain.DashboardState
	inFlight     int
	lastSeq      uint64
	committedSeq uint64
}

// NewDashboardService creates a dashboard in the idle state.
func NewDashboardService(
	geocoder domain.Geocoder,
	predictor domain.RiskPredictor,
	opts DashboardOptions,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *DashboardService {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &DashboardService{
		geocoder:  geocoder,
		predictor: predictor,
		opts:      opts,
		logger:    logger,
		metrics:   metrics,
		state:     domain.NewDashboardState(),
	}
}

// Snapshot returns a copy of the committed state.
func (s *DashboardService) Snapshot() domain.DashboardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Busy reports whether any submission is still in flight.
func (s *DashboardService) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

// DismissNotice clears the failure notification.
func (s *DashboardService) DismissNotice() domain.DashboardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Notice = ""
	return s.state
}

// Submit runs one analysis for query and returns the state after it settled.
// Submissions are independent: nothing is cancelled or de-duplicated.
func (s *DashboardService) Submit(ctx context.Context, query string) (domain.DashboardState, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		s.metrics.QuerySubmissions.WithLabelValues("rejected").Inc()
		return s.Snapshot(), domain.ErrEmptyQuery
	}

	seq := s.begin()

	coords, geocoded := s.geocoder.Lookup(ctx, query)
	if !geocoded {
		coords = s.Snapshot().Coordinates
	}

	if err := s.waitMinimum(ctx); err != nil {
		return s.fail(query, err)
	}

	result, err := s.predictor.Predict(ctx, domain.PredictionRequest{
		Location: query,
		Lat:      coords.Latitude,
		Lon:      coords.Longitude,
	})
	if err != nil {
		return s.fail(query, err)
	}

	return s.commit(seq, query, coords, geocoded, result), nil
}

func (s *DashboardService) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inFlight++
	s.lastSeq++
	s.state.Flags.Loading = true
	s.state.Notice = ""
	return s.lastSeq
}

func (s *DashboardService) waitMinimum(ctx context.Context) error {
	if s.opts.MinLoadingDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.opts.Clock.After(s.opts.MinLoadingDelay):
		return nil
	}
}

// commit replaces coordinates, weather, risk and flags in one step.
func (s *DashboardService) commit(seq uint64, query string, coords domain.Coordinates, geocoded bool, result domain.PredictionResult) domain.DashboardState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inFlight--

	if s.opts.DiscardStale && seq < s.committedSeq {
		s.state.Flags.Loading = s.inFlight > 0
		s.metrics.QuerySubmissions.WithLabelValues("stale").Inc()
		s.logger.Info("discarding stale analysis", "query", query, "seq", seq, "committed_seq", s.committedSeq)
		return s.state
	}

	weather, risk := result.Payload.Split(query)

	next := s.state
	if geocoded {
		next.Coordinates = coords
	}
	next.Query = query
	next.Weather = weather
	next.Risk = risk
	next.Flags = domain.SessionFlags{
		Loading:    s.inFlight > 0,
		Analyzed:   true,
		IsLiveMode: result.IsLive(),
	}
	next.Revision++
	next.UpdatedAt = s.opts.Clock.Now()

	s.state = next
	s.committedSeq = seq

	s.metrics.QuerySubmissions.WithLabelValues("analyzed").Inc()
	s.logger.Info("analysis committed",
		"query", query,
		"risk_score", risk.RiskScore,
		"provenance", result.Provenance,
		"geocoded", geocoded,
	)
	return s.state
}

// fail clears this submission's loading flag and raises the notice; no data is committed.
func (s *DashboardService) fail(query string, cause error) (domain.DashboardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inFlight--
	s.state.Flags.Loading = s.inFlight > 0
	s.state.Notice = FailureNotice

	s.metrics.QuerySubmissions.WithLabelValues("failed").Inc()
	s.logger.Error("analysis failed", "query", query, "error", cause)
	return s.state, fmt.Errorf("dashboard: analysis of %q failed: %w", query, cause)
}
