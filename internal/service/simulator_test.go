package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floodwatch/backend/internal/domain"
)

func TestSimulator_PayloadRanges(t *testing.T) {
	sim := NewSimulator(42)

	for i := 0; i < 2000; i++ {
		p := sim.Payload()

		assert.GreaterOrEqual(t, p.RiskScore, 50)
		assert.LessOrEqual(t, p.RiskScore, 89)

		level := p.WaterLevel.Float64()
		assert.GreaterOrEqual(t, level, 1.0)
		assert.LessOrEqual(t, level, 4.0)
		require.Regexp(t, `^\d\.\d$`, p.WaterLevel.String())

		assert.GreaterOrEqual(t, p.Rainfall, 50.0)
		assert.LessOrEqual(t, p.Rainfall, 149.0)
		assert.GreaterOrEqual(t, p.WindSpeed, 5.0)
		assert.LessOrEqual(t, p.WindSpeed, 24.0)
		assert.GreaterOrEqual(t, p.Temperature, 10.0)
		assert.LessOrEqual(t, p.Temperature, 24.0)
		assert.Equal(t, domain.SimulatedComment, p.Comment)
	}
}

func TestSimulator_SameSeedSameSequence(t *testing.T) {
	a, b := NewSimulator(7), NewSimulator(7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Payload(), b.Payload())
	}
}

func TestSimulator_WeatherRanges(t *testing.T) {
	sim := NewSimulator(1)
	for i := 0; i < 500; i++ {
		w := sim.Weather()
		assert.GreaterOrEqual(t, w.Rainfall, 0.0)
		assert.LessOrEqual(t, w.Rainfall, 4.0)
		assert.GreaterOrEqual(t, w.Temperature, 15.0)
		assert.LessOrEqual(t, w.Temperature, 24.0)
		assert.GreaterOrEqual(t, w.WindSpeed, 1.0)
		assert.LessOrEqual(t, w.WindSpeed, 9.0)
		assert.Equal(t, WeatherSourceFallback, w.Source)
	}
}
