package service

import (
	"math/rand/v2"
	"sync"

	"github.com/floodwatch/backend/internal/domain"
)

// Simulator produces bounded pseudo-random stand-ins for unavailable upstream data.
// It is safe for concurrent use.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator creates a simulator with a deterministic seed.
func NewSimulator(seed uint64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Payload synthesizes a prediction payload for when the prediction backend is unreachable.
//
//	riskScore   50..89
//	waterLevel  1.0..4.0 m, one decimal
//	rainfall    50..149 mm
//	windSpeed   5..24 m/s
//	temperature 10..24 °C
func (s *Simulator) Payload() domain.PredictionPayload {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.PredictionPayload{
		RiskScore:   50 + s.rng.IntN(40),
		WaterLevel:  domain.DecimalFromFloat(1+s.rng.Float64()*3, 1),
		Rainfall:    float64(50 + s.rng.IntN(100)),
		WindSpeed:   float64(5 + s.rng.IntN(20)),
		Temperature: float64(10 + s.rng.IntN(15)),
		Comment:     domain.SimulatedComment,
	}
}

// Weather synthesizes a light-rain observation for when the weather service fails.
func (s *Simulator) Weather() WeatherReading {
	s.mu.Lock()
	defer s.mu.Unlock()

	return WeatherReading{
		Rainfall:    float64(s.rng.IntN(5)),
		Temperature: float64(15 + s.rng.IntN(10)),
		WindSpeed:   float64(1 + s.rng.IntN(9)),
		Source:      WeatherSourceFallback,
	}
}
