package models

// WarehouseType distinguishes distribution centers from pickup and delivery hubs.
type WarehouseType string

const (
	WarehouseMain     WarehouseType = "main"
	WarehousePickup   WarehouseType = "pickup"
	WarehouseDelivery WarehouseType = "delivery"
)

// Warehouse is a fixed facility holding product inventory.
type Warehouse struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Lat       float64        `json:"lat"`
	Lng       float64        `json:"lng"`
	Type      WarehouseType  `json:"type"`
	Inventory map[string]int `json:"inventory"`
	Capacity  int            `json:"capacity"`
}

// Location returns the warehouse's coordinates.
func (w Warehouse) Location() Location {
	return Location{Lat: w.Lat, Lng: w.Lng}
}

// TotalInventory sums all product quantities held at the warehouse.
func (w Warehouse) TotalInventory() int {
	total := 0
	for _, qty := range w.Inventory {
		total += qty
	}
	return total
}

// Utilization returns stored inventory as a percentage of capacity.
func (w Warehouse) Utilization() float64 {
	if w.Capacity == 0 {
		return 0
	}
	return float64(w.TotalInventory()) / float64(w.Capacity) * 100
}
