package fleet

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-dispatch/internal/metrics"
	"github.com/ukydev/fleet-dispatch/internal/models"
	"github.com/ukydev/fleet-dispatch/internal/playback"
	"github.com/ukydev/fleet-dispatch/internal/publisher"
)

// Broadcaster pushes realtime updates to attached UI clients.
type Broadcaster interface {
	Broadcast(event string, data any)
}

// Simulator couples the playback engine to the fleet state. It is the only
// entry point the transport layer gets into the animation: Start, Stop,
// Reset and the read-only Snapshot.
type Simulator struct {
	mu      sync.Mutex
	baseCtx context.Context
	state   *State
	engine  *playback.Engine
	runner  *playback.Runner
	pub     publisher.Publisher
	hub     Broadcaster
	metrics *metrics.Collector
}

// NewSimulator wires a simulator around the given state. The runner
// goroutine is parented on ctx, which must outlive every playback; tying it
// to anything shorter-lived (a request context, say) kills the animation as
// soon as that context is cancelled. pub, hub and collector may each be nil
// when the corresponding output is not wanted.
func NewSimulator(ctx context.Context, state *State, step float64, interval time.Duration, pub publisher.Publisher, hub Broadcaster, collector *metrics.Collector) *Simulator {
	if ctx == nil {
		ctx = context.Background()
	}
	s := &Simulator{
		baseCtx: ctx,
		state:   state,
		pub:     pub,
		hub:     hub,
		metrics: collector,
	}
	s.engine = playback.NewEngine(step, s.handleComplete)
	s.runner = playback.NewRunner(s.engine, interval, s.handleTick)
	return s
}

// Start begins playback of a previously planned route with the given truck.
// The request is rejected if any simulation is already active or the truck
// is not idle.
func (s *Simulator) Start(truckID, routeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine.Active() {
		if s.metrics != nil {
			s.metrics.SimulationsRejected.Inc()
		}
		return playback.ErrSimulationActive
	}

	route, err := s.state.RouteByID(routeID)
	if err != nil {
		return err
	}
	if err := s.state.MarkEnRoute(truckID, route); err != nil {
		return err
	}
	if err := s.engine.Start(truckID, route); err != nil {
		// Roll the truck back; the engine never took the route.
		_ = s.state.StopActive(truckID)
		if s.metrics != nil && err == playback.ErrSimulationActive {
			s.metrics.SimulationsRejected.Inc()
		}
		return err
	}

	if s.metrics != nil {
		s.metrics.SimulationsStarted.Inc()
	}
	log.WithFields(log.Fields{
		"truck_id": truckID,
		"route_id": routeID,
		"stops":    len(route.Waypoints),
	}).Info("Simulation started")

	// A single-waypoint route completes inside engine.Start; only a real
	// animation needs the ticker.
	if s.engine.Active() {
		if s.metrics != nil {
			s.metrics.ActiveSimulations.Set(1)
		}
		s.runner.Start(s.baseCtx)
	}
	return nil
}

// StartBest dispatches the idle truck with the highest efficiency rating
// onto the route and returns its ID.
func (s *Simulator) StartBest(routeID string) (string, error) {
	truck, err := s.state.BestIdleTruck()
	if err != nil {
		return "", err
	}
	if err := s.Start(truck.ID, routeID); err != nil {
		return "", err
	}
	return truck.ID, nil
}

// Stop halts the active playback, returning the truck to idle. Its
// accumulated fuel/CO2 figures stay put; only Reset clears those.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.engine.Snapshot()
	s.engine.Stop()
	s.runner.Stop()
	if !snap.Active {
		return
	}

	_ = s.state.StopActive(snap.TruckID)
	if s.metrics != nil {
		s.metrics.SimulationsStopped.Inc()
		s.metrics.ActiveSimulations.Set(0)
	}
	s.publishEvent("simulation_stopped", snap.TruckID, snap.RouteID)
	s.broadcast("simulation_stopped", map[string]any{"truck_id": snap.TruckID, "route_id": snap.RouteID})
	log.WithField("truck_id", snap.TruckID).Info("Simulation stopped")
}

// Reset cancels any active playback and restores the fleet to its initial
// idle state with zeroed statistics.
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.engine.Reset()
	s.runner.Stop()
	s.state.Reset()
	if s.metrics != nil {
		s.metrics.ActiveSimulations.Set(0)
	}
	s.publishEvent("simulation_reset", "", "")
	s.broadcast("simulation_reset", map[string]any{"trucks": s.state.Trucks()})
	log.Info("Simulation reset")
}

// Shutdown releases the tick timer on service teardown.
func (s *Simulator) Shutdown() {
	s.engine.Stop()
	s.runner.Stop()
}

// Snapshot exposes the engine state for read-only display queries.
func (s *Simulator) Snapshot() playback.Snapshot {
	return s.engine.Snapshot()
}

// handleTick runs on the runner goroutine for every effective tick.
func (s *Simulator) handleTick(snap playback.Snapshot) {
	if snap.TruckID == "" {
		return
	}
	start := time.Now()

	s.state.UpdatePosition(snap.TruckID, snap.Position)
	if s.pub != nil {
		msg := publisher.PositionMessage{
			TruckID:   snap.TruckID,
			RouteID:   snap.RouteID,
			Timestamp: time.Now(),
			Lat:       snap.Position.Lat,
			Lng:       snap.Position.Lng,
			Cursor:    snap.Cursor,
			Progress:  snap.Progress,
		}
		if err := s.pub.PublishPosition(msg); err != nil {
			log.WithError(err).Warn("Failed to publish position")
			if s.metrics != nil {
				s.metrics.PublishErrs.Inc()
			}
		} else if s.metrics != nil {
			s.metrics.PositionsPublished.Inc()
		}
	}
	s.broadcast("position_update", map[string]any{
		"truck_id": snap.TruckID,
		"route_id": snap.RouteID,
		"lat":      snap.Position.Lat,
		"lng":      snap.Position.Lng,
		"cursor":   snap.Cursor,
		"progress": snap.Progress,
	})
	if s.metrics != nil {
		s.metrics.Ticks.Inc()
		s.metrics.TickDuration.Observe(time.Since(start).Seconds())
	}
}

// handleComplete fires exactly once per finished route, on whichever
// goroutine drove the final tick.
func (s *Simulator) handleComplete(truckID string, route models.Route) {
	truck, err := s.state.CompleteRoute(truckID, route)
	if err != nil {
		log.WithError(err).WithField("truck_id", truckID).Error("Failed to finalize route")
		return
	}
	if s.metrics != nil {
		s.metrics.SimulationsCompleted.Inc()
		s.metrics.ActiveSimulations.Set(0)
	}
	s.publishEvent("route_completed", truckID, route.ID)
	s.broadcast("route_completed", map[string]any{
		"truck":   truck,
		"metrics": s.state.Metrics(),
	})
	log.WithFields(log.Fields{
		"truck_id": truckID,
		"route_id": route.ID,
		"stops":    truck.CompletedStops,
	}).Info("Route completed")
}

func (s *Simulator) publishEvent(kind, truckID, routeID string) {
	if s.pub == nil {
		return
	}
	evt := publisher.Event{
		Type:      kind,
		TruckID:   truckID,
		RouteID:   routeID,
		Timestamp: time.Now(),
	}
	if err := s.pub.PublishEvent(evt); err != nil {
		log.WithError(err).Warn("Failed to publish event")
		if s.metrics != nil {
			s.metrics.PublishErrs.Inc()
		}
	}
}

func (s *Simulator) broadcast(event string, data any) {
	if s.hub != nil {
		s.hub.Broadcast(event, data)
	}
}
