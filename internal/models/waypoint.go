package models

// WaypointKind classifies the role a stop plays within a route.
type WaypointKind string

const (
	WaypointStart    WaypointKind = "start"
	WaypointPickup   WaypointKind = "pickup"
	WaypointDelivery WaypointKind = "delivery"
	WaypointEnd      WaypointKind = "end"
)

// Waypoint is a single geographic stop in a route. Waypoint sequences are
// immutable once a route has been built.
type Waypoint struct {
	Lat    float64      `json:"lat"`
	Lng    float64      `json:"lng"`
	Kind   WaypointKind `json:"type"`
	Name   string       `json:"name"`
	Action string       `json:"action"`
}

// Location returns the waypoint's coordinates.
func (w Waypoint) Location() Location {
	return Location{Lat: w.Lat, Lng: w.Lng}
}
