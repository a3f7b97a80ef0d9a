// Package fleet holds the mutable simulation state: the truck fleet,
// warehouse network, planned routes and aggregate metrics. All access goes
// through State so tests can drive the system without any rendering or
// transport attached.
package fleet

import (
	"errors"
	"maps"
	"math/rand"
	"sync"

	"github.com/ukydev/fleet-dispatch/internal/models"
)

var (
	ErrTruckNotFound     = errors.New("truck not found")
	ErrTruckNotIdle      = errors.New("truck is not available")
	ErrNoIdleTrucks      = errors.New("no available trucks for dispatch")
	ErrWarehouseNotFound = errors.New("warehouse not found")
	ErrRouteNotFound     = errors.New("route not found")
)

// Cosmetic savings ranges credited on route completion. These are display
// figures, not outputs of a fuel model; tests assert ranges only.
const (
	fuelSavedMin   = 5.0
	fuelSavedSpan  = 15.0 // [5, 20)
	co2ReducedMin  = 20.0
	co2ReducedSpan = 50.0 // [20, 70)
	efficiencyMin  = 95.0
	efficiencySpan = 5.0 // [95, 100)
)

// State is the single owner of fleet simulation data. The zero value is not
// usable; construct with NewState.
type State struct {
	mu         sync.Mutex
	warehouses []models.Warehouse
	trucks     []models.Truck
	initial    []models.Truck
	routes     map[string]models.Route
	metrics    models.FleetMetrics
	history    map[string]map[string][]int
	rng        *rand.Rand
}

// NewState builds a state holder around the given reference data. The rand
// source feeds the cosmetic completion statistics and is injectable so tests
// can fix a seed.
func NewState(warehouses []models.Warehouse, trucks []models.Truck, history map[string]map[string][]int, rng *rand.Rand) *State {
	initial := make([]models.Truck, len(trucks))
	copy(initial, trucks)
	working := make([]models.Truck, len(trucks))
	copy(working, trucks)
	return &State{
		warehouses: warehouses,
		trucks:     working,
		initial:    initial,
		routes:     make(map[string]models.Route),
		history:    history,
		rng:        rng,
	}
}

// Warehouses returns a copy of the warehouse list. Inventory maps are
// cloned so callers can serialize them outside the lock.
func (s *State) Warehouses() []models.Warehouse {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Warehouse, len(s.warehouses))
	copy(out, s.warehouses)
	for i := range out {
		out[i].Inventory = maps.Clone(out[i].Inventory)
	}
	return out
}

// WarehouseByID looks up a warehouse by numeric ID.
func (s *State) WarehouseByID(id int) (models.Warehouse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.warehouses {
		if w.ID == id {
			w.Inventory = maps.Clone(w.Inventory)
			return w, nil
		}
	}
	return models.Warehouse{}, ErrWarehouseNotFound
}

// Trucks returns a copy of the fleet.
func (s *State) Trucks() []models.Truck {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Truck, len(s.trucks))
	copy(out, s.trucks)
	return out
}

// TruckByID looks up a truck by ID.
func (s *State) TruckByID(id string) (models.Truck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.trucks {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Truck{}, ErrTruckNotFound
}

// BestIdleTruck returns the idle truck with the highest efficiency rating,
// the same selection rule the dispatcher uses.
func (s *State) BestIdleTruck() (models.Truck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	best := -1
	for i, t := range s.trucks {
		if t.Status != models.TruckIdle {
			continue
		}
		if best < 0 || t.Efficiency > s.trucks[best].Efficiency {
			best = i
		}
	}
	if best < 0 {
		return models.Truck{}, ErrNoIdleTrucks
	}
	return s.trucks[best], nil
}

// SaveRoute registers a planned route so it can be dispatched later.
func (s *State) SaveRoute(route models.Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[route.ID] = route
}

// RouteByID looks up a previously planned route.
func (s *State) RouteByID(id string) (models.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	route, ok := s.routes[id]
	if !ok {
		return models.Route{}, ErrRouteNotFound
	}
	return route, nil
}

// MarkEnRoute transitions an idle truck onto a route. The truck picks up the
// route's waypoints and stop count and the active-route gauge increments.
func (s *State) MarkEnRoute(truckID string, route models.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.truckLocked(truckID)
	if t == nil {
		return ErrTruckNotFound
	}
	if t.Status != models.TruckIdle {
		return ErrTruckNotIdle
	}
	t.Status = models.TruckEnRoute
	t.Route = route.Waypoints
	t.TotalStops = len(route.Waypoints)
	t.CompletedStops = 0
	s.metrics.ActiveRoutes++
	return nil
}

// UpdatePosition moves a truck to the interpolated playback position.
func (s *State) UpdatePosition(truckID string, loc models.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.truckLocked(truckID); t != nil {
		t.Lat = loc.Lat
		t.Lng = loc.Lng
	}
}

// CompleteRoute finalizes a finished playback: the truck is marked completed
// at the route's last waypoint with all stops done, credited with random
// fuel/CO2 savings in their fixed ranges, and the aggregate metrics absorb
// the route distance plus a refreshed overall efficiency figure. Returns the
// updated truck.
func (s *State) CompleteRoute(truckID string, route models.Route) (models.Truck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.truckLocked(truckID)
	if t == nil {
		return models.Truck{}, ErrTruckNotFound
	}

	t.Status = models.TruckCompleted
	t.CompletedStops = len(route.Waypoints)
	t.TotalStops = len(route.Waypoints)
	if n := len(route.Waypoints); n > 0 {
		last := route.Waypoints[n-1]
		t.Lat = last.Lat
		t.Lng = last.Lng
	}

	fuel := fuelSavedMin + s.rng.Float64()*fuelSavedSpan
	co2 := co2ReducedMin + s.rng.Float64()*co2ReducedSpan
	t.FuelSaved += fuel
	t.CO2Reduced += co2

	s.metrics.TotalDistance += route.DistanceMiles()
	s.metrics.FuelSaved += fuel
	s.metrics.CO2Reduced += co2
	s.metrics.Efficiency = efficiencyMin + s.rng.Float64()*efficiencySpan
	if s.metrics.ActiveRoutes > 0 {
		s.metrics.ActiveRoutes--
	}
	return *t, nil
}

// StopActive returns a truck to idle without completing its route. The
// truck's accumulated fuel/CO2 figures are deliberately left in place; only
// a full reset clears them.
func (s *State) StopActive(truckID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.truckLocked(truckID)
	if t == nil {
		return ErrTruckNotFound
	}
	if t.Status != models.TruckEnRoute {
		return nil
	}
	t.Status = models.TruckIdle
	t.Route = nil
	t.TotalStops = 0
	t.CompletedStops = 0
	if s.metrics.ActiveRoutes > 0 {
		s.metrics.ActiveRoutes--
	}
	return nil
}

// Reset restores every truck to its initial snapshot, clears planned routes
// and zeroes the aggregate metrics.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trucks = make([]models.Truck, len(s.initial))
	copy(s.trucks, s.initial)
	s.routes = make(map[string]models.Route)
	s.metrics = models.FleetMetrics{}
}

// Metrics returns the current aggregate metrics.
func (s *State) Metrics() models.FleetMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics
}

// MetricsSummary combines aggregate metrics with fleet and warehouse
// utilization for the dashboard metrics endpoint.
type MetricsSummary struct {
	TotalDistance        float64 `json:"total_distance"`
	FuelSaved            float64 `json:"fuel_saved"`
	CO2Reduced           float64 `json:"co2_reduced"`
	Efficiency           float64 `json:"efficiency"`
	ActiveRoutes         int     `json:"active_routes"`
	TotalInventory       int     `json:"total_inventory"`
	WarehouseUtilization float64 `json:"warehouse_utilization"`
	FleetUtilization     float64 `json:"fleet_utilization"`
}

// Summary computes the dashboard metrics from current state.
func (s *State) Summary() MetricsSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	totalInventory := 0
	totalCapacity := 0
	for _, w := range s.warehouses {
		totalInventory += w.TotalInventory()
		totalCapacity += w.Capacity
	}

	active := 0
	fuel := 0.0
	co2 := 0.0
	for _, t := range s.trucks {
		if t.Status != models.TruckIdle {
			active++
		}
		fuel += t.FuelSaved
		co2 += t.CO2Reduced
	}

	sum := MetricsSummary{
		TotalDistance:  s.metrics.TotalDistance,
		FuelSaved:      fuel,
		CO2Reduced:     co2,
		Efficiency:     s.metrics.Efficiency,
		ActiveRoutes:   active,
		TotalInventory: totalInventory,
	}
	if totalCapacity > 0 {
		sum.WarehouseUtilization = float64(totalInventory) / float64(totalCapacity) * 100
	}
	if len(s.trucks) > 0 {
		sum.FleetUtilization = float64(active) / float64(len(s.trucks)) * 100
	}
	return sum
}

func (s *State) truckLocked(id string) *models.Truck {
	for i := range s.trucks {
		if s.trucks[i].ID == id {
			return &s.trucks[i]
		}
	}
	return nil
}
