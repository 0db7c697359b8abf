package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floodwatch/backend/internal/observability"
)

func newTestRegistry(clock clockwork.Clock, idle time.Duration) (*SessionRegistry, *observability.Metrics) {
	m := observability.NewMetricsForTesting()
	factory := func() *DashboardService {
		return NewDashboardService(&stubGeocoder{}, liveAlways(10, "0.5"), DashboardOptions{Clock: clock}, testLogger(), m)
	}
	return NewSessionRegistry(factory, idle, clock, testLogger(), m), m
}

func TestSessionRegistry_Get(t *testing.T) {
	reg, m := newTestRegistry(clockwork.NewFakeClock(), time.Minute)

	dash, id := reg.Get("")
	require.NotNil(t, dash)
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	again, sameID := reg.Get(id)
	assert.Same(t, dash, again)
	assert.Equal(t, id, sameID)

	other, otherID := reg.Get("not-a-uuid")
	assert.NotSame(t, dash, other)
	assert.NotEqual(t, "not-a-uuid", otherID)

	known := uuid.NewString()
	_, keptID := reg.Get(known)
	assert.Equal(t, known, keptID)

	assert.Equal(t, 3, reg.Len())
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ActiveSessions))
}

func TestSessionRegistry_SessionsAreIsolated(t *testing.T) {
	reg, _ := newTestRegistry(clockwork.NewFakeClock(), time.Minute)

	a, _ := reg.Get("")
	b, _ := reg.Get("")

	_, err := a.Submit(context.Background(), "Seoul")
	require.NoError(t, err)

	assert.True(t, a.Snapshot().Flags.Analyzed)
	assert.False(t, b.Snapshot().Flags.Analyzed)
}

func TestSessionRegistry_Sweep(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg, m := newTestRegistry(clock, 10*time.Minute)

	_, stale := reg.Get("")
	clock.Advance(6 * time.Minute)
	_, fresh := reg.Get("")
	clock.Advance(6 * time.Minute)

	assert.Equal(t, 1, reg.Sweep())
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveSessions))

	_, id := reg.Get(fresh)
	assert.Equal(t, fresh, id)
	_, id = reg.Get(stale)
	assert.Equal(t, stale, id, "an expired id starts a new idle session under the same id")
	assert.Equal(t, 2, reg.Len())
}

func TestSessionRegistry_Run(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg, _ := newTestRegistry(clock, 10*time.Minute)
	reg.Get("")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reg.Run(ctx)
		close(done)
	}()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))

	clock.Advance(11 * time.Minute)
	assert.Eventually(t, func() bool { return reg.Len() == 0 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
