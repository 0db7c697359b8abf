package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDashboardState_Idle(t *testing.T) {
	s := NewDashboardState()

	assert.Equal(t, PhaseIdle, s.Phase())
	assert.Equal(t, DefaultCoordinates, s.Coordinates)
	assert.False(t, s.Flags.Analyzed)
}

func TestDashboardState_Phase(t *testing.T) {
	s := NewDashboardState()

	s.Flags.Loading = true
	assert.Equal(t, PhaseLoading, s.Phase())

	s.Flags.Loading = false
	s.Flags.Analyzed = true
	assert.Equal(t, PhaseAnalyzed, s.Phase())

	s.Notice = "prediction response could not be read"
	assert.Equal(t, PhaseError, s.Phase())
}

func TestCoordinates_BoundingBox(t *testing.T) {
	c := Coordinates{Latitude: 37.5172, Longitude: 127.0474}
	box := c.BoundingBox(MapBoxDelta)

	assert.InDelta(t, 127.0374, box.West, 1e-9)
	assert.InDelta(t, 37.5072, box.South, 1e-9)
	assert.InDelta(t, 127.0574, box.East, 1e-9)
	assert.InDelta(t, 37.5272, box.North, 1e-9)
}
