// Package planner builds delivery routes from warehouse and delivery request
// data. It is display-grade planning: straight-line distances, a flat speed
// assumption for the duration estimate, and a distance-based efficiency
// score. There is no real road routing here.
package planner

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ukydev/fleet-dispatch/internal/models"
)

// ErrNoDeliveries is returned when a route is requested without any delivery stops.
var ErrNoDeliveries = errors.New("no delivery requests provided")

const (
	earthRadiusMiles = 3958.8
	avgSpeedMph      = 45.0
)

// DeliveryRequest is one requested delivery stop.
type DeliveryRequest struct {
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Quantity int     `json:"quantity"`
	Priority string  `json:"priority"`
}

// HaversineMiles returns the great-circle distance between two locations in miles.
func HaversineMiles(a, b models.Location) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	s := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
	return earthRadiusMiles * c
}

// OptimizeRoute assembles a delivery route starting and ending at the origin
// warehouse, visiting each requested stop in order. Distance is the summed
// leg length, the time estimate assumes 45 mph, and efficiency is
// 100 - distance/10 clamped to [85, 99]. Routes with more than three
// deliveries are marked high priority.
func OptimizeRoute(origin models.Warehouse, deliveries []DeliveryRequest) (models.Route, error) {
	if len(deliveries) == 0 {
		return models.Route{}, ErrNoDeliveries
	}

	waypoints := make([]models.Waypoint, 0, len(deliveries)+2)
	waypoints = append(waypoints, models.Waypoint{
		Lat:    origin.Lat,
		Lng:    origin.Lng,
		Kind:   models.WaypointStart,
		Name:   origin.Name,
		Action: fmt.Sprintf("Load inventory at %s", origin.Name),
	})
	for _, d := range deliveries {
		action := fmt.Sprintf("Deliver %d units to %s", d.Quantity, d.Name)
		if d.Quantity <= 0 {
			action = fmt.Sprintf("Deliver items to %s", d.Name)
		}
		waypoints = append(waypoints, models.Waypoint{
			Lat:    d.Lat,
			Lng:    d.Lng,
			Kind:   models.WaypointDelivery,
			Name:   d.Name,
			Action: action,
		})
	}
	waypoints = append(waypoints, models.Waypoint{
		Lat:    origin.Lat,
		Lng:    origin.Lng,
		Kind:   models.WaypointEnd,
		Name:   origin.Name,
		Action: fmt.Sprintf("Return to %s", origin.Name),
	})

	distance := totalDistanceMiles(waypoints)
	priority := models.PriorityMedium
	if len(deliveries) > 3 {
		priority = models.PriorityHigh
	}

	return models.Route{
		ID:            newRouteID("route"),
		Name:          fmt.Sprintf("Optimized Route - %d stops", len(waypoints)),
		Waypoints:     waypoints,
		Distance:      formatMiles(distance),
		EstimatedTime: formatDuration(distance / avgSpeedMph),
		Efficiency:    efficiencyScore(distance),
		Priority:      priority,
	}, nil
}

// TransferRoute builds a direct pickup-and-deliver route moving product from
// a source warehouse to a target warehouse, used for emergency restocks.
func TransferRoute(source, target models.Warehouse, product string, quantity int) models.Route {
	waypoints := []models.Waypoint{
		{
			Lat:    source.Lat,
			Lng:    source.Lng,
			Kind:   models.WaypointPickup,
			Name:   source.Name,
			Action: fmt.Sprintf("Pick up %d units of %s", quantity, product),
		},
		{
			Lat:    target.Lat,
			Lng:    target.Lng,
			Kind:   models.WaypointDelivery,
			Name:   target.Name,
			Action: fmt.Sprintf("Deliver %d units of %s", quantity, product),
		},
	}
	distance := totalDistanceMiles(waypoints)
	return models.Route{
		ID:            newRouteID("restock"),
		Name:          fmt.Sprintf("Emergency Restock: %s to %s", source.Name, target.Name),
		Waypoints:     waypoints,
		Distance:      formatMiles(distance),
		EstimatedTime: formatDuration(distance / avgSpeedMph),
		Efficiency:    efficiencyScore(distance),
		Priority:      models.PriorityHigh,
	}
}

func totalDistanceMiles(wps []models.Waypoint) float64 {
	total := 0.0
	for i := 0; i+1 < len(wps); i++ {
		total += HaversineMiles(wps[i].Location(), wps[i+1].Location())
	}
	return total
}

// newRouteID builds a wall-clock route identifier. Nanosecond resolution
// keeps back-to-back plans from colliding in the route store.
func newRouteID(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func efficiencyScore(distanceMiles float64) float64 {
	return math.Max(85, math.Min(99, 100-distanceMiles/10))
}

func formatMiles(miles float64) string {
	return fmt.Sprintf("%.1f mi", miles)
}

func formatDuration(hours float64) string {
	h := int(hours)
	m := int((hours - float64(h)) * 60)
	return fmt.Sprintf("%dh %dm", h, m)
}
