package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/floodwatch/backend/internal/domain"
	"github.com/floodwatch/backend/internal/observability"
)

var errNoMatch = errors.New("geocoder: no match")

// NominatimGeocoder implements domain.Geocoder against a Nominatim-compatible search API.
type NominatimGeocoder struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewNominatimGeocoder creates a geocoder. A zero timeout leaves requests bounded only by their context.
func NewNominatimGeocoder(baseURL, userAgent string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *NominatimGeocoder {
	return &NominatimGeocoder{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// nominatimPlace is one search hit; coordinates arrive as strings.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Lookup returns the first match for query. Failures are logged and reported as not found.
func (g *NominatimGeocoder) Lookup(ctx context.Context, query string) (domain.Coordinates, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Coordinates{}, false
	}

	coords, err := g.search(ctx, query)
	switch {
	case errors.Is(err, errNoMatch):
		g.metrics.GeocodeRequests.WithLabelValues("not_found").Inc()
		g.logger.Info("no geocoding match", "query", query)
		return domain.Coordinates{}, false
	case err != nil:
		g.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		g.logger.Warn("geocoding failed", "query", query, "error", err)
		return domain.Coordinates{}, false
	}

	g.metrics.GeocodeRequests.WithLabelValues("found").Inc()
	g.logger.Debug("geocoded location", "query", query, "lat", coords.Latitude, "lon", coords.Longitude)
	return coords, true
}

func (g *NominatimGeocoder) search(ctx context.Context, query string) (domain.Coordinates, error) {
	params := url.Values{
		"format": {"json"},
		"limit":  {"1"},
		"q":      {query},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocoder: failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocoder: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinates{}, fmt.Errorf("geocoder: status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&places); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocoder: failed to decode response: %w", err)
	}
	if len(places) == 0 {
		return domain.Coordinates{}, errNoMatch
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(places[0].Lat), 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocoder: invalid latitude %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(places[0].Lon), 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocoder: invalid longitude %q: %w", places[0].Lon, err)
	}

	return domain.Coordinates{Latitude: lat, Longitude: lon}, nil
}
