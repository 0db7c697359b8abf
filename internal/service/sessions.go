package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/floodwatch/backend/internal/observability"
)

// SessionRegistry keeps one DashboardService per browser session, in memory only.
type SessionRegistry struct {
	newDashboard func() *DashboardService
	idleTimeout  time.Duration
	clock        clockwork.Clock
	logger       *slog.Logger
	metrics      *observability.Metrics

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	dashboard *DashboardService
	lastSeen  time.Time
}

// NewSessionRegistry creates a registry that builds dashboards with newDashboard.
func NewSessionRegistry(
	newDashboard func() *DashboardService,
	idleTimeout time.Duration,
	clock clockwork.Clock,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *SessionRegistry {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SessionRegistry{
		newDashboard: newDashboard,
		idleTimeout:  idleTimeout,
		clock:        clock,
		logger:       logger,
		metrics:      metrics,
		sessions:     make(map[string]*session),
	}
}

// Get returns the dashboard for id, creating an idle one when id is unknown or malformed.
// The returned id is the one the caller should keep using.
func (r *SessionRegistry) Get(id string) (*DashboardService, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	if _, err := uuid.Parse(id); err == nil {
		if sess, ok := r.sessions[id]; ok {
			sess.lastSeen = now
			return sess.dashboard, id
		}
	} else {
		id = uuid.NewString()
	}

	// The id may share memory with a reused request buffer.
	id = strings.Clone(id)
	sess := &session{dashboard: r.newDashboard(), lastSeen: now}
	r.sessions[id] = sess
	r.metrics.ActiveSessions.Set(float64(len(r.sessions)))
	return sess.dashboard, id
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the idle timeout and returns how many were dropped.
// Sessions with a submission in flight are kept.
func (r *SessionRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.clock.Now().Add(-r.idleTimeout)
	dropped := 0
	for id, sess := range r.sessions {
		if sess.lastSeen.Before(cutoff) && !sess.dashboard.Busy() {
			delete(r.sessions, id)
			dropped++
		}
	}
	r.metrics.ActiveSessions.Set(float64(len(r.sessions)))
	return dropped
}

// Run sweeps idle sessions until ctx is cancelled.
func (r *SessionRegistry) Run(ctx context.Context) {
	interval := r.idleTimeout / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := r.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if n := r.Sweep(); n > 0 {
				r.logger.Debug("dropped idle sessions", "count", n, "remaining", r.Len())
			}
		}
	}
}
