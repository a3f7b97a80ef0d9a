package planner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/fleet-dispatch/internal/models"
)

var dallas = models.Warehouse{
	ID: 1, Name: "Dallas DC", Lat: 32.7767, Lng: -96.7970,
}

var sanAntonio = models.Warehouse{
	ID: 5, Name: "San Antonio Hub", Lat: 29.4241, Lng: -98.4936,
}

func TestHaversineMiles(t *testing.T) {
	// Dallas to San Antonio is roughly 250 miles as the crow flies.
	d := HaversineMiles(dallas.Location(), sanAntonio.Location())
	assert.InDelta(t, 250, d, 15)

	assert.Zero(t, HaversineMiles(dallas.Location(), dallas.Location()))
}

func TestOptimizeRoute(t *testing.T) {
	deliveries := []DeliveryRequest{
		{Name: "Plano Store", Lat: 33.0198, Lng: -96.6989, Quantity: 40},
		{Name: "Irving Store", Lat: 32.8140, Lng: -96.9489, Quantity: 25},
	}

	route, err := OptimizeRoute(dallas, deliveries)
	require.NoError(t, err)

	require.Len(t, route.Waypoints, 4)
	assert.Equal(t, models.WaypointStart, route.Waypoints[0].Kind)
	assert.Equal(t, models.WaypointDelivery, route.Waypoints[1].Kind)
	assert.Equal(t, models.WaypointDelivery, route.Waypoints[2].Kind)
	assert.Equal(t, models.WaypointEnd, route.Waypoints[3].Kind)

	// The run starts and ends at the origin warehouse.
	assert.Equal(t, dallas.Lat, route.Waypoints[0].Lat)
	assert.Equal(t, dallas.Lat, route.Waypoints[3].Lat)

	assert.True(t, strings.HasPrefix(route.ID, "route_"))
	assert.True(t, strings.HasSuffix(route.Distance, " mi"))
	assert.Regexp(t, `^\d+h \d+m$`, route.EstimatedTime)
	assert.Equal(t, models.PriorityMedium, route.Priority)

	assert.Contains(t, route.Waypoints[1].Action, "40 units")
	assert.Contains(t, route.Waypoints[0].Action, "Load inventory")
}

func TestOptimizeRouteHighPriority(t *testing.T) {
	deliveries := make([]DeliveryRequest, 4)
	for i := range deliveries {
		deliveries[i] = DeliveryRequest{Name: "Store", Lat: 33.0, Lng: -96.7, Quantity: 10}
	}
	route, err := OptimizeRoute(dallas, deliveries)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, route.Priority)
}

func TestRouteIDsUnique(t *testing.T) {
	deliveries := []DeliveryRequest{{Name: "Store", Lat: 33.0, Lng: -96.7, Quantity: 10}}

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		route, err := OptimizeRoute(dallas, deliveries)
		require.NoError(t, err)
		assert.False(t, seen[route.ID], "duplicate route ID %s", route.ID)
		seen[route.ID] = true
	}
}

func TestOptimizeRouteNoDeliveries(t *testing.T) {
	_, err := OptimizeRoute(dallas, nil)
	assert.ErrorIs(t, err, ErrNoDeliveries)
}

func TestOptimizeRouteEfficiencyClamped(t *testing.T) {
	// A short hop scores near the ceiling.
	short, err := OptimizeRoute(dallas, []DeliveryRequest{
		{Name: "Near", Lat: 32.78, Lng: -96.80, Quantity: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, 99.0, short.Efficiency)

	// A cross-country run bottoms out at the floor.
	long, err := OptimizeRoute(dallas, []DeliveryRequest{
		{Name: "Far", Lat: 40.7128, Lng: -74.0060, Quantity: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, 85.0, long.Efficiency)
}

func TestTransferRoute(t *testing.T) {
	route := TransferRoute(dallas, sanAntonio, "cereal", 200)

	require.Len(t, route.Waypoints, 2)
	assert.Equal(t, models.WaypointPickup, route.Waypoints[0].Kind)
	assert.Equal(t, models.WaypointDelivery, route.Waypoints[1].Kind)
	assert.Equal(t, models.PriorityHigh, route.Priority)
	assert.True(t, strings.HasPrefix(route.ID, "restock_"))
	assert.Contains(t, route.Name, "Dallas DC")
	assert.Contains(t, route.Name, "San Antonio Hub")
	assert.Contains(t, route.Waypoints[0].Action, "200 units of cereal")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "4h 30m", formatDuration(4.5))
	assert.Equal(t, "0h 0m", formatDuration(0))
	assert.Equal(t, "1h 0m", formatDuration(1.0))
}

func TestMapsLink(t *testing.T) {
	wps := []models.Waypoint{
		{Lat: 32.7767, Lng: -96.797},
		{Lat: 33.0198, Lng: -96.6989},
	}
	link := MapsLink(wps)
	assert.Equal(t, "https://www.google.com/maps/dir/32.776700,-96.797000/33.019800,-96.698900", link)

	assert.Empty(t, MapsLink(nil))
}
