package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kmaSample = `{
  "response": {
    "header": {"resultCode": "00", "resultMsg": "NORMAL_SERVICE"},
    "body": {"items": {"item": [
      {"category": "PTY", "obsrValue": "1"},
      {"category": "RN1", "obsrValue": "12.5"},
      {"category": "T1H", "obsrValue": 23.4},
      {"category": "WSD", "obsrValue": "3.1"}
    ]}}
  }
}`

func TestObservationBase(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		wantDate string
		wantTime string
	}{
		{"after publication", time.Date(2026, 7, 1, 10, 50, 0, 0, kst), "20260701", "1000"},
		{"before publication", time.Date(2026, 7, 1, 10, 44, 0, 0, kst), "20260701", "0900"},
		{"rolls back past midnight", time.Date(2026, 7, 1, 0, 10, 0, 0, kst), "20260630", "2300"},
		{"converts from UTC", time.Date(2026, 7, 1, 1, 50, 0, 0, time.UTC), "20260701", "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, hour := observationBase(tt.now)
			assert.Equal(t, tt.wantDate, date)
			assert.Equal(t, tt.wantTime, hour)
		})
	}
}

func TestKMAWeatherService_Current(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(kmaSample))
	}))
	defer srv.Close()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 7, 1, 14, 50, 0, 0, kst))
	svc := NewKMAWeatherService("secret", srv.URL, NewSimulator(1), clock, testLogger())

	reading := svc.Current(context.Background(), 61, 126)

	assert.Equal(t, WeatherReading{Rainfall: 12.5, Temperature: 23.4, WindSpeed: 3.1, Source: WeatherSourceKMA}, reading)
	assert.Equal(t, "secret", got.Get("serviceKey"))
	assert.Equal(t, "JSON", got.Get("dataType"))
	assert.Equal(t, "20260701", got.Get("base_date"))
	assert.Equal(t, "1400", got.Get("base_time"))
	assert.Equal(t, "61", got.Get("nx"))
	assert.Equal(t, "126", got.Get("ny"))
}

func TestKMAWeatherService_Fallbacks(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantSource string
	}{
		{
			name: "error status uses defaults",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			wantSource: WeatherSourceDefault,
		},
		{
			name: "malformed body uses fallback",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<OpenAPI_ServiceResponse>`))
			},
			wantSource: WeatherSourceFallback,
		},
		{
			name: "no observations uses fallback",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"response":{"header":{"resultCode":"03","resultMsg":"NO_DATA"},"body":{"items":{"item":[]}}}}`))
			},
			wantSource: WeatherSourceFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			svc := NewKMAWeatherService("secret", srv.URL, NewSimulator(1), clockwork.NewFakeClock(), testLogger())
			reading := svc.Current(context.Background(), 60, 127)
			assert.Equal(t, tt.wantSource, reading.Source)
		})
	}
}

func TestKMAWeatherService_DefaultValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewKMAWeatherService("secret", srv.URL, NewSimulator(1), nil, testLogger())
	reading := svc.Current(context.Background(), 60, 127)
	assert.Equal(t, WeatherReading{Rainfall: 0, Temperature: 20, WindSpeed: 5, Source: WeatherSourceDefault}, reading)
}

func TestKMAWeatherService_NoKeySkipsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	svc := NewKMAWeatherService("", srv.URL, NewSimulator(1), nil, testLogger())
	reading := svc.Current(context.Background(), 60, 127)

	require.False(t, called)
	assert.Equal(t, WeatherSourceSimulated, reading.Source)
	assert.LessOrEqual(t, reading.Rainfall, 4.0)
}
