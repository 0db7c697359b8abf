package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

const (
	defaultGeocoderURL = "https://nominatim.openstreetmap.org/search"
	defaultKMABaseURL  = "http://apis.data.go.kr/1360000/VilageFcstInfoService_2.0/getUltraSrtNcst"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	DatabaseURL string

	// Outbound clients used by the dashboard.
	GeocoderURL       string
	GeocoderUserAgent string
	PredictorURL      string
	HTTPClientTimeout time.Duration

	// Dashboard behaviour.
	MinLoadingDelay     time.Duration
	DiscardStaleResults bool
	SessionIdleTimeout  time.Duration

	// Prediction backend.
	KMAAPIKey  string
	KMABaseURL string

	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	port := sharedcfg.EnvOrDefault("PORT", "8080")
	if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", port)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}
	minLoadingDelay, err := parseDuration("MIN_LOADING_DELAY", "800ms")
	if err != nil {
		return nil, err
	}
	clientTimeout, err := parseDuration("HTTP_CLIENT_TIMEOUT", "0s")
	if err != nil {
		return nil, err
	}
	idleTimeout, err := parsePositiveDuration("SESSION_IDLE_TIMEOUT", "30m")
	if err != nil {
		return nil, err
	}

	discardStale := false
	if v := os.Getenv("DISCARD_STALE_RESULTS"); v != "" {
		discardStale, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DISCARD_STALE_RESULTS: %q", v)
		}
	}

	cfg := &Config{
		Port:            port,
		Env:             sharedcfg.EnvOrDefault("GO_ENV", "development"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DatabaseURL: os.Getenv("DATABASE_URL"),

		GeocoderURL:       sharedcfg.EnvOrDefault("GEOCODER_URL", defaultGeocoderURL),
		GeocoderUserAgent: sharedcfg.EnvOrDefault("GEOCODER_USER_AGENT", "floodwatch/1.0"),
		PredictorURL:      sharedcfg.EnvOrDefault("PREDICTOR_URL", "http://localhost:"+port+"/api/predict"),
		HTTPClientTimeout: clientTimeout,

		MinLoadingDelay:     minLoadingDelay,
		DiscardStaleResults: discardStale,
		SessionIdleTimeout:  idleTimeout,

		KMAAPIKey:  os.Getenv("KMA_API_KEY"),
		KMABaseURL: sharedcfg.EnvOrDefault("KMA_BASE_URL", defaultKMABaseURL),

		KafkaBrokers: sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "flood-predictions"),
	}

	if cfg.GeocoderURL == "" {
		return nil, errors.New("GEOCODER_URL is required")
	}
	if cfg.PredictorURL == "" {
		return nil, errors.New("PREDICTOR_URL is required")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// KafkaEnabled reports whether prediction events should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parseDuration(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, defaultValue))
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveDuration(key, defaultValue string) (time.Duration, error) {
	d, err := parseDuration(key, defaultValue)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
