// Package playback animates a truck along a route by advancing a fractional
// cursor over the route's waypoint sequence on each tick. The cursor lives in
// [0, len(waypoints)-1]; position is derived by linear interpolation between
// the two waypoints the cursor falls between. At most one truck is animated
// at a time.
package playback

import (
	"errors"
	"math"
	"sync"

	"github.com/ukydev/fleet-dispatch/internal/models"
)

var (
	// ErrSimulationActive is returned when Start is called while another
	// simulation is running. Callers are expected to reject the request,
	// mirroring a disabled start control.
	ErrSimulationActive = errors.New("a simulation is already active")

	// ErrEmptyRoute is returned for routes with no waypoints at all.
	ErrEmptyRoute = errors.New("route has no waypoints")
)

// DefaultStep is the cursor advance per tick: 0.02 of one waypoint segment.
const DefaultStep = 0.02

// CompletionFunc is invoked exactly once when the cursor reaches the final
// waypoint of the active route.
type CompletionFunc func(truckID string, route models.Route)

// Snapshot is a read-only view of the engine taken at a tick boundary.
type Snapshot struct {
	Active   bool
	Done     bool // true only on the tick that completed the route
	Cursor   float64
	Progress float64 // cursor normalized to 0..1
	TruckID  string
	RouteID  string
	Position models.Location
}

// Engine owns the playback cursor for the currently active truck. All state
// changes happen under one mutex so a timer goroutine and command handlers
// can share it safely.
type Engine struct {
	mu         sync.Mutex
	step       float64
	active     bool
	cursor     float64
	truckID    string
	route      models.Route
	onComplete CompletionFunc
}

// NewEngine returns an engine advancing the cursor by step per tick. A zero
// or negative step falls back to DefaultStep.
func NewEngine(step float64, onComplete CompletionFunc) *Engine {
	if step <= 0 {
		step = DefaultStep
	}
	return &Engine{step: step, onComplete: onComplete}
}

// Start begins playback of route for the given truck. It rejects the request
// if a simulation is already active. A route with a single waypoint
// degenerates to an immediately-complete animation: the completion callback
// fires before Start returns and the engine stays inactive.
func (e *Engine) Start(truckID string, route models.Route) error {
	e.mu.Lock()
	if e.active {
		e.mu.Unlock()
		return ErrSimulationActive
	}
	if len(route.Waypoints) == 0 {
		e.mu.Unlock()
		return ErrEmptyRoute
	}
	e.cursor = 0
	e.truckID = truckID
	e.route = route
	if len(route.Waypoints) < 2 {
		done := e.onComplete
		e.active = false
		e.mu.Unlock()
		if done != nil {
			done(truckID, route)
		}
		return nil
	}
	e.active = true
	e.mu.Unlock()
	return nil
}

// Tick advances the cursor by one step and returns the resulting snapshot.
// When the cursor reaches the final waypoint it is clamped there, the engine
// deactivates and the completion callback fires exactly once. Ticks while
// inactive are no-ops.
func (e *Engine) Tick() Snapshot {
	e.mu.Lock()
	if !e.active {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		return snap
	}
	e.cursor += e.step
	end := float64(len(e.route.Waypoints) - 1)
	if e.cursor >= end {
		e.cursor = end
		e.active = false
		snap := e.snapshotLocked()
		snap.Done = true
		truckID, route, done := e.truckID, e.route, e.onComplete
		e.mu.Unlock()
		if done != nil {
			done(truckID, route)
		}
		return snap
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()
	return snap
}

// Stop deactivates playback without touching the cursor. The per-truck state
// left behind is the caller's concern.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.active = false
	e.mu.Unlock()
}

// Reset deactivates playback and clears the cursor and selected truck/route.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.active = false
	e.cursor = 0
	e.truckID = ""
	e.route = models.Route{}
	e.mu.Unlock()
}

// Active reports whether a simulation is currently running.
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Snapshot returns the current engine state for read-only display queries.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	progress := 0.0
	if end := float64(len(e.route.Waypoints) - 1); end > 0 {
		progress = e.cursor / end
	}
	return Snapshot{
		Active:   e.active,
		Cursor:   e.cursor,
		Progress: progress,
		TruckID:  e.truckID,
		RouteID:  e.route.ID,
		Position: PositionAt(e.cursor, e.route.Waypoints),
	}
}

// PositionAt interpolates a coordinate along the waypoint sequence for a
// fractional cursor. Latitude and longitude are lerped independently between
// the bracketing waypoints; this is planar interpolation, not great-circle,
// which is fine at visualization fidelity. Cursors at or past the last
// waypoint return the last waypoint's coordinate exactly.
func PositionAt(cursor float64, wps []models.Waypoint) models.Location {
	if len(wps) == 0 {
		return models.Location{}
	}
	if cursor <= 0 {
		return wps[0].Location()
	}
	last := len(wps) - 1
	idx := int(math.Floor(cursor))
	if idx >= last {
		return wps[last].Location()
	}
	frac := cursor - float64(idx)
	a, b := wps[idx], wps[idx+1]
	return models.Location{
		Lat: a.Lat + (b.Lat-a.Lat)*frac,
		Lng: a.Lng + (b.Lng-a.Lng)*frac,
	}
}
