package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "floodwatch"

// Metrics holds the Prometheus counters and histograms for the dashboard and prediction backend.
type Metrics struct {
	// Dashboard orchestration.
	QuerySubmissions *prometheus.CounterVec // labels: outcome={analyzed,rejected,failed,stale}
	ActiveSessions   prometheus.Gauge

	// Outbound clients.
	GeocodeRequests   *prometheus.CounterVec // labels: outcome={found,not_found,error}
	PredictorRequests *prometheus.CounterVec // labels: mode={live,simulated,error}
	PredictorDuration prometheus.Histogram

	// Prediction backend.
	BackendPredictions *prometheus.CounterVec // labels: weather_source={kma,fallback,default,simulated}
	RiskScore          prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := NewMetricsForTesting()

	prometheus.MustRegister(
		m.QuerySubmissions,
		m.ActiveSessions,
		m.GeocodeRequests,
		m.PredictorRequests,
		m.PredictorDuration,
		m.BackendPredictions,
		m.RiskScore,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		QuerySubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_submissions_total",
			Help:      "Dashboard query submissions by outcome.",
		}, []string{"outcome"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Dashboard sessions currently held in memory.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding lookups by outcome.",
		}, []string{"outcome"}),
		PredictorRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictor_requests_total",
			Help:      "Prediction calls by result mode.",
		}, []string{"mode"}),
		PredictorDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "predictor_request_duration_seconds",
			Help:      "Prediction endpoint round-trip duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		BackendPredictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_predictions_total",
			Help:      "Predictions served by the backend, by weather source.",
		}, []string{"weather_source"}),
		RiskScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_risk_score",
			Help:      "Distribution of risk scores served by the backend.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
	}
}
