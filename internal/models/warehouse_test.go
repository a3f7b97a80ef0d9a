package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWarehouseTotals(t *testing.T) {
	w := Warehouse{
		Capacity:  2000,
		Inventory: map[string]int{"cereal": 500, "milk": 300, "bread": 200},
	}
	assert.Equal(t, 1000, w.TotalInventory())
	assert.Equal(t, 50.0, w.Utilization())
}

func TestWarehouseUtilizationZeroCapacity(t *testing.T) {
	w := Warehouse{Inventory: map[string]int{"cereal": 10}}
	assert.Zero(t, w.Utilization())
}

func TestWaypointLocation(t *testing.T) {
	wp := Waypoint{Lat: 30.5, Lng: -97.5, Kind: WaypointPickup}
	assert.Equal(t, Location{Lat: 30.5, Lng: -97.5}, wp.Location())
}
