// Package publisher pushes playback updates to an MQTT broker so external
// dashboards can follow truck movement without polling the API.
package publisher

import (
	"time"
)

// PositionMessage is published on every playback tick.
type PositionMessage struct {
	TruckID   string    `json:"truck_id"`
	RouteID   string    `json:"route_id"`
	Timestamp time.Time `json:"timestamp"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Cursor    float64   `json:"cursor"`
	Progress  float64   `json:"progress"` // 0..1 along the route
}

// Event marks a playback lifecycle transition.
type Event struct {
	Type      string    `json:"type"` // "route_completed", "simulation_stopped", "simulation_reset"
	TruckID   string    `json:"truck_id,omitempty"`
	RouteID   string    `json:"route_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers playback updates to an external transport.
type Publisher interface {
	PublishPosition(msg PositionMessage) error
	PublishEvent(evt Event) error
	Close()
}
