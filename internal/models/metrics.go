package models

// FleetMetrics aggregates simulation-wide performance figures. The savings
// numbers are cosmetic outputs of the playback engine, not a physical model.
type FleetMetrics struct {
	TotalDistance float64 `json:"total_distance"` // miles
	FuelSaved     float64 `json:"fuel_saved"`     // liters
	CO2Reduced    float64 `json:"co2_reduced"`    // kilograms
	Efficiency    float64 `json:"efficiency"`     // percent
	ActiveRoutes  int     `json:"active_routes"`
}

// ProductForecast is a per-product demand projection.
type ProductForecast struct {
	PredictedDemand int     `json:"predicted_demand"`
	Confidence      float64 `json:"confidence"`
	Trend           string  `json:"trend"` // "increasing", "decreasing", "stable", "insufficient_data"
}

// RestockRecommendation flags a low-stock product at a warehouse.
type RestockRecommendation struct {
	Warehouse          string   `json:"warehouse"`
	Product            string   `json:"product"`
	CurrentStock       int      `json:"current_stock"`
	RecommendedRestock int      `json:"recommended_restock"`
	Priority           Priority `json:"priority"`
}

// WarehouseAnalysis summarizes the inventory health of one warehouse.
type WarehouseAnalysis struct {
	WarehouseID   int            `json:"warehouse_id"`
	Name          string         `json:"name"`
	CurrentStock  map[string]int `json:"current_stock"`
	Status        string         `json:"status"` // "normal" or "needs_restock"
	LowStockItems []string       `json:"low_stock_items,omitempty"`
}
