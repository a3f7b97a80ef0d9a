package models

// TruckStatus represents a truck's place in the dispatch lifecycle.
type TruckStatus string

const (
	TruckIdle      TruckStatus = "idle"
	TruckEnRoute   TruckStatus = "en-route"
	TruckCompleted TruckStatus = "completed"
)

// Truck represents a delivery truck and its live simulation state. Position
// and the savings figures are mutated by the playback engine; everything else
// is set at dispatch time.
type Truck struct {
	ID             string      `json:"id"`
	Driver         string      `json:"driver"`
	Capacity       int         `json:"capacity"`
	CurrentLoad    int         `json:"current_load"`
	Lat            float64     `json:"lat"`
	Lng            float64     `json:"lng"`
	Status         TruckStatus `json:"status"`
	Efficiency     float64     `json:"efficiency"`
	FuelSaved      float64     `json:"fuel_saved"`
	CO2Reduced     float64     `json:"co2_reduced"`
	CompletedStops int         `json:"completed_stops"`
	TotalStops     int         `json:"total_stops"`
	Route          []Waypoint  `json:"route,omitempty"`
}

// Location returns the truck's current coordinates.
func (t Truck) Location() Location {
	return Location{Lat: t.Lat, Lng: t.Lng}
}
