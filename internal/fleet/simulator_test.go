package fleet

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/fleet-dispatch/internal/models"
	"github.com/ukydev/fleet-dispatch/internal/playback"
	"github.com/ukydev/fleet-dispatch/internal/publisher"
)

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *recordingBroadcaster) Broadcast(event string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBroadcaster) seen(event string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.events {
		if e == event {
			return true
		}
	}
	return false
}

type countingPublisher struct {
	positions atomic.Int64
	events    atomic.Int64
}

func (p *countingPublisher) PublishPosition(publisher.PositionMessage) error {
	p.positions.Add(1)
	return nil
}

func (p *countingPublisher) PublishEvent(publisher.Event) error {
	p.events.Add(1)
	return nil
}

func (p *countingPublisher) Close() {}

func newTestSimulator(t *testing.T, step float64, interval time.Duration) (*Simulator, *State, *recordingBroadcaster, *countingPublisher) {
	t.Helper()
	state := NewState(DefaultWarehouses(), DefaultTrucks(), DefaultDemandHistory(), rand.New(rand.NewSource(1)))
	hub := &recordingBroadcaster{}
	pub := &countingPublisher{}
	sim := NewSimulator(context.Background(), state, step, interval, pub, hub, nil)
	t.Cleanup(sim.Shutdown)
	return sim, state, hub, pub
}

func TestSimulatorRunToCompletion(t *testing.T) {
	sim, state, hub, pub := newTestSimulator(t, 0.25, time.Millisecond)
	route := testRoute()
	state.SaveRoute(route)

	require.NoError(t, sim.Start("T001", route.ID))

	require.Eventually(t, func() bool {
		truck, err := state.TruckByID("T001")
		return err == nil && truck.Status == models.TruckCompleted
	}, 2*time.Second, 5*time.Millisecond)

	truck, err := state.TruckByID("T001")
	require.NoError(t, err)
	assert.Equal(t, 3, truck.CompletedStops)
	assert.Equal(t, route.Waypoints[2].Lat, truck.Lat)
	assert.Greater(t, truck.FuelSaved, 0.0)

	assert.True(t, hub.seen("position_update"))
	assert.True(t, hub.seen("route_completed"))
	assert.Greater(t, pub.positions.Load(), int64(0))
	assert.Greater(t, pub.events.Load(), int64(0))
	assert.False(t, sim.Snapshot().Active)
}

func TestSimulatorRejectsSecondStart(t *testing.T) {
	sim, state, _, _ := newTestSimulator(t, 0.02, time.Hour)
	route := testRoute()
	state.SaveRoute(route)

	require.NoError(t, sim.Start("T001", route.ID))
	err := sim.Start("T002", route.ID)
	assert.ErrorIs(t, err, playback.ErrSimulationActive)

	// The rejected truck stays idle.
	truck, _ := state.TruckByID("T002")
	assert.Equal(t, models.TruckIdle, truck.Status)
}

func TestSimulatorStartUnknownRoute(t *testing.T) {
	sim, state, _, _ := newTestSimulator(t, 0.02, time.Hour)

	err := sim.Start("T001", "missing")
	assert.ErrorIs(t, err, ErrRouteNotFound)

	truck, _ := state.TruckByID("T001")
	assert.Equal(t, models.TruckIdle, truck.Status)
}

func TestSimulatorStop(t *testing.T) {
	sim, state, hub, _ := newTestSimulator(t, 0.02, time.Hour)
	route := testRoute()
	state.SaveRoute(route)
	require.NoError(t, sim.Start("T001", route.ID))

	sim.Stop()

	truck, _ := state.TruckByID("T001")
	assert.Equal(t, models.TruckIdle, truck.Status)
	assert.True(t, hub.seen("simulation_stopped"))
	assert.False(t, sim.Snapshot().Active)

	// A second stop with nothing active is harmless.
	sim.Stop()
}

func TestSimulatorReset(t *testing.T) {
	sim, state, hub, _ := newTestSimulator(t, 0.02, time.Hour)
	route := testRoute()
	state.SaveRoute(route)
	require.NoError(t, sim.Start("T001", route.ID))

	sim.Reset()

	truck, _ := state.TruckByID("T001")
	assert.Equal(t, models.TruckIdle, truck.Status)
	assert.Zero(t, truck.FuelSaved)
	assert.True(t, hub.seen("simulation_reset"))

	_, err := state.RouteByID(route.ID)
	assert.ErrorIs(t, err, ErrRouteNotFound)
}

func TestSimulatorStartBest(t *testing.T) {
	sim, state, _, _ := newTestSimulator(t, 0.02, time.Hour)
	route := testRoute()
	state.SaveRoute(route)

	truckID, err := sim.StartBest(route.ID)
	require.NoError(t, err)
	assert.Equal(t, "T001", truckID)

	truck, _ := state.TruckByID("T001")
	assert.Equal(t, models.TruckEnRoute, truck.Status)
}

func TestSimulatorSingleWaypointRoute(t *testing.T) {
	sim, state, hub, _ := newTestSimulator(t, 0.02, time.Hour)
	route := models.Route{
		ID:        "route_short",
		Waypoints: []models.Waypoint{{Lat: 30.0, Lng: -97.0}},
	}
	state.SaveRoute(route)

	require.NoError(t, sim.Start("T003", route.ID))

	// The route completes before Start returns and the engine is free.
	assert.False(t, sim.Snapshot().Active)
	truck, _ := state.TruckByID("T003")
	assert.Equal(t, models.TruckCompleted, truck.Status)
	assert.Equal(t, 30.0, truck.Lat)
	assert.True(t, hub.seen("route_completed"))

	other := testRoute()
	state.SaveRoute(other)
	require.NoError(t, sim.Start("T001", other.ID))
}
