package playback

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/fleet-dispatch/internal/models"
)

func TestRunnerDrivesRouteToCompletion(t *testing.T) {
	var completed atomic.Bool
	e := NewEngine(0.5, func(string, models.Route) { completed.Store(true) })

	var ticks atomic.Int64
	r := NewRunner(e, time.Millisecond, func(snap Snapshot) { ticks.Add(1) })

	route := simpleRoute([2]float64{0, 0}, [2]float64{1, 1})
	require.NoError(t, e.Start("T001", route))
	r.Start(context.Background())

	require.Eventually(t, completed.Load, time.Second, 5*time.Millisecond)
	r.Stop()

	assert.GreaterOrEqual(t, ticks.Load(), int64(2))
	snap := e.Snapshot()
	assert.False(t, snap.Active)
	assert.Equal(t, 1.0, snap.Cursor)
}

func TestRunnerStopIsIdempotent(t *testing.T) {
	e := NewEngine(0.02, nil)
	r := NewRunner(e, time.Millisecond, nil)

	r.Stop()

	route := simpleRoute([2]float64{0, 0}, [2]float64{1, 1})
	require.NoError(t, e.Start("T001", route))
	r.Start(context.Background())
	r.Stop()
	r.Stop()
}

func TestRunnerStopsOnContextCancel(t *testing.T) {
	e := NewEngine(0.0001, nil)
	var ticks atomic.Int64
	r := NewRunner(e, time.Millisecond, func(Snapshot) { ticks.Add(1) })

	route := simpleRoute([2]float64{0, 0}, [2]float64{1, 1})
	require.NoError(t, e.Start("T001", route))

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)

	require.Eventually(t, func() bool { return ticks.Load() > 0 }, time.Second, time.Millisecond)
	cancel()
	r.Stop()

	seen := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, seen, ticks.Load())
}

func TestRunnerRestartReplacesLoop(t *testing.T) {
	e := NewEngine(0.0001, nil)
	r := NewRunner(e, time.Millisecond, nil)

	route := simpleRoute([2]float64{0, 0}, [2]float64{1, 1})
	require.NoError(t, e.Start("T001", route))

	r.Start(context.Background())
	r.Start(context.Background())
	r.Stop()
}

func TestRunnerDefaultInterval(t *testing.T) {
	r := NewRunner(NewEngine(0.02, nil), 0, nil)
	assert.Equal(t, DefaultTickInterval, r.interval)
}
