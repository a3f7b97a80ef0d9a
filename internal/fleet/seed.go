package fleet

import "github.com/ukydev/fleet-dispatch/internal/models"

// DefaultWarehouses returns the Texas distribution network the demo ships with.
func DefaultWarehouses() []models.Warehouse {
	return []models.Warehouse{
		{ID: 1, Name: "Dallas DC", Lat: 32.7767, Lng: -96.7970, Type: models.WarehouseMain,
			Inventory: map[string]int{"cereal": 1250, "milk": 890, "juice": 650, "bread": 420}, Capacity: 2000},
		{ID: 2, Name: "Houston DC", Lat: 29.7604, Lng: -95.3698, Type: models.WarehouseMain,
			Inventory: map[string]int{"cereal": 890, "milk": 1100, "juice": 300, "bread": 380}, Capacity: 2000},
		{ID: 3, Name: "Austin DC", Lat: 30.2672, Lng: -97.7431, Type: models.WarehouseMain,
			Inventory: map[string]int{"cereal": 650, "milk": 480, "juice": 720, "bread": 290}, Capacity: 1500},
		{ID: 4, Name: "Fort Worth Hub", Lat: 32.7555, Lng: -97.3308, Type: models.WarehousePickup,
			Inventory: map[string]int{"cereal": 320, "milk": 240, "juice": 180, "bread": 150}, Capacity: 800},
		{ID: 5, Name: "San Antonio Hub", Lat: 29.4241, Lng: -98.4936, Type: models.WarehouseDelivery,
			Inventory: map[string]int{"cereal": 180, "milk": 160, "juice": 140, "bread": 120}, Capacity: 600},
	}
}

// DefaultTrucks returns the demo fleet, all idle at their home warehouses.
func DefaultTrucks() []models.Truck {
	return []models.Truck{
		{ID: "T001", Driver: "John Smith", Capacity: 100, Lat: 32.7767, Lng: -96.7970, Status: models.TruckIdle, Efficiency: 98.5},
		{ID: "T002", Driver: "Sarah Johnson", Capacity: 120, Lat: 29.7604, Lng: -95.3698, Status: models.TruckIdle, Efficiency: 97.2},
		{ID: "T003", Driver: "Mike Wilson", Capacity: 110, Lat: 30.2672, Lng: -97.7431, Status: models.TruckIdle, Efficiency: 96.8},
		{ID: "T004", Driver: "Lisa Brown", Capacity: 95, Lat: 32.7555, Lng: -97.3308, Status: models.TruckIdle, Efficiency: 98.0},
	}
}

// DefaultDemandHistory returns per-region weekly demand samples, oldest first.
func DefaultDemandHistory() map[string]map[string][]int {
	return map[string]map[string][]int{
		"Dallas": {
			"cereal": {120, 140, 160, 180, 200},
			"milk":   {200, 220, 240, 260, 280},
			"juice":  {80, 90, 100, 110, 120},
			"bread":  {150, 160, 170, 180, 190},
		},
		"Houston": {
			"cereal": {100, 110, 120, 130, 140},
			"milk":   {180, 190, 200, 210, 220},
			"juice":  {70, 75, 80, 85, 90},
			"bread":  {140, 145, 150, 155, 160},
		},
		"Austin": {
			"cereal": {80, 85, 90, 95, 100},
			"milk":   {120, 125, 130, 135, 140},
			"juice":  {90, 95, 100, 105, 110},
			"bread":  {100, 105, 110, 115, 120},
		},
	}
}
