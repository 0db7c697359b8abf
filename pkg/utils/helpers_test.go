package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	assert.InDelta(t, 0, Haversine(37.5665, 126.9780, 37.5665, 126.9780), 1e-9)

	// Seoul City Hall to Busan City Hall is roughly 325 km.
	assert.InDelta(t, 325, Haversine(37.5665, 126.9780, 35.1798, 129.0750), 10)

	// One hundredth of a degree of latitude is about 1.11 km.
	assert.InDelta(t, 1.11, Haversine(37.0, 127.0, 37.01, 127.0), 0.01)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-3, 0, 99))
	assert.Equal(t, 99.0, Clamp(120, 0, 99))
	assert.Equal(t, 42.5, Clamp(42.5, 0, 99))
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 0.62, RoundTo(0.6200000001, 2))
	assert.Equal(t, 2.5, RoundTo(2.45, 1))
	assert.Equal(t, 3.0, RoundTo(2.6, 0))
}

func TestLerp(t *testing.T) {
	assert.Equal(t, 5.0, Lerp(5, 10, 0))
	assert.Equal(t, 10.0, Lerp(5, 10, 1))
	assert.Equal(t, 7.5, Lerp(5, 10, 0.5))
}
