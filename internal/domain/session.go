package domain

import (
	"errors"
	"time"
)

// ErrEmptyQuery is returned when a submission carries no location text.
var ErrEmptyQuery = errors.New("domain: empty query")

// Phase is the orchestrator state a dashboard is in.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseLoading  Phase = "loading"
	PhaseAnalyzed Phase = "analyzed"
	PhaseError    Phase = "error"
)

// SessionFlags are the dashboard's visibility and mode flags.
type SessionFlags struct {
	Loading    bool `json:"loading"`
	Analyzed   bool `json:"analyzed"`
	IsLiveMode bool `json:"is_live_mode"`
}

// DashboardState is everything the presentation layer renders from.
// It is always copied whole; a renderer never observes a partially applied commit.
type DashboardState struct {
	Query       string          `json:"query"`
	Coordinates Coordinates     `json:"coordinates"`
	Weather     WeatherSnapshot `json:"weather"`
	Risk        RiskAssessment  `json:"risk"`
	Flags       SessionFlags    `json:"flags"`
	Notice      string          `json:"notice,omitempty"`
	Revision    uint64          `json:"revision"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewDashboardState returns the idle state of a fresh session.
func NewDashboardState() DashboardState {
	return DashboardState{Coordinates: DefaultCoordinates}
}

// Phase derives the orchestrator phase from the flags and the pending notice.
func (s DashboardState) Phase() Phase {
	switch {
	case s.Flags.Loading:
		return PhaseLoading
	case s.Notice != "":
		return PhaseError
	case s.Flags.Analyzed:
		return PhaseAnalyzed
	default:
		return PhaseIdle
	}
}
