package domain

import "time"

// SimulatedComment accompanies every payload synthesized while the prediction backend is unreachable.
const SimulatedComment = "The prediction server is unreachable. Showing simulated data for reference only."

// Provenance records where a prediction payload came from.
type Provenance string

const (
	ProvenanceLive      Provenance = "live"
	ProvenanceSimulated Provenance = "simulated"
)

// PredictionRequest is the body posted to the prediction endpoint.
type PredictionRequest struct {
	Location string  `json:"location"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

// PredictionPayload is the prediction endpoint's response body.
type PredictionPayload struct {
	RiskScore   int     `json:"riskScore"`
	WaterLevel  Decimal `json:"waterLevel"`
	Rainfall    float64 `json:"rainfall"`
	WindSpeed   float64 `json:"windSpeed"`
	Temperature float64 `json:"temperature"`
	Comment     string  `json:"comment,omitempty"`
}

// Split normalizes the payload into the two committed state slices.
func (p PredictionPayload) Split(location string) (WeatherSnapshot, RiskAssessment) {
	weather := WeatherSnapshot{
		Rainfall:    p.Rainfall,
		WindSpeed:   p.WindSpeed,
		Temperature: p.Temperature,
	}
	risk := RiskAssessment{
		Location:   location,
		RiskScore:  p.RiskScore,
		WaterLevel: p.WaterLevel,
		Comment:    p.Comment,
	}
	return weather, risk
}

// PredictionResult is either a live backend answer or a simulated stand-in.
// Callers branch on Provenance; there is no implicit fallback.
type PredictionResult struct {
	Provenance Provenance
	Payload    PredictionPayload
}

// LiveResult wraps a payload returned by the real backend.
func LiveResult(p PredictionPayload) PredictionResult {
	return PredictionResult{Provenance: ProvenanceLive, Payload: p}
}

// SimulatedResult wraps a synthesized payload.
func SimulatedResult(p PredictionPayload) PredictionResult {
	return PredictionResult{Provenance: ProvenanceSimulated, Payload: p}
}

// IsLive reports whether the payload came from the real backend.
func (r PredictionResult) IsLive() bool {
	return r.Provenance == ProvenanceLive
}

// PredictionLog is one backend prediction as recorded for auditing.
type PredictionLog struct {
	Location      string    `json:"location"`
	Lat           float64   `json:"lat"`
	Lon           float64   `json:"lon"`
	District      string    `json:"district"`
	RiskScore     int       `json:"risk_score"`
	WaterLevel    Decimal   `json:"water_level"`
	Rainfall      float64   `json:"rainfall"`
	WindSpeed     float64   `json:"wind_speed"`
	Temperature   float64   `json:"temperature"`
	WeatherSource string    `json:"weather_source"`
	PredictedAt   time.Time `json:"predicted_at"`
}
