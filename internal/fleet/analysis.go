package fleet

import (
	"errors"
	"maps"
	"math"

	"github.com/ukydev/fleet-dispatch/internal/models"
	"github.com/ukydev/fleet-dispatch/internal/planner"
)

// ErrUnknownRegion is returned when forecasting a region with no history.
var ErrUnknownRegion = errors.New("no historical data for region")

// ErrNoSourceWarehouse is returned when no warehouse holds enough stock to
// cover an emergency restock.
var ErrNoSourceWarehouse = errors.New("no warehouse holds sufficient stock")

// Inventory thresholds: below lowStockThreshold a product needs restocking;
// below criticalStockThreshold the recommendation is high priority.
const (
	lowStockThreshold      = 50
	criticalStockThreshold = 20
	recommendedRestockQty  = 200

	// A warehouse qualifies as a restock source only with a comfortable
	// surplus of the product.
	restockSourceMinStock = 100
)

// AnalyzeInventory scans every warehouse for low-stock products and returns
// per-warehouse health plus restock recommendations.
func (s *State) AnalyzeInventory() ([]models.WarehouseAnalysis, []models.RestockRecommendation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	analyses := make([]models.WarehouseAnalysis, 0, len(s.warehouses))
	var recs []models.RestockRecommendation

	for _, w := range s.warehouses {
		a := models.WarehouseAnalysis{
			WarehouseID:  w.ID,
			Name:         w.Name,
			CurrentStock: maps.Clone(w.Inventory),
			Status:       "normal",
		}
		for product, qty := range w.Inventory {
			if qty >= lowStockThreshold {
				continue
			}
			a.LowStockItems = append(a.LowStockItems, product)
			priority := models.PriorityMedium
			if qty < criticalStockThreshold {
				priority = models.PriorityHigh
			}
			recs = append(recs, models.RestockRecommendation{
				Warehouse:          w.Name,
				Product:            product,
				CurrentStock:       qty,
				RecommendedRestock: recommendedRestockQty,
				Priority:           priority,
			})
		}
		if len(a.LowStockItems) > 0 {
			a.Status = "needs_restock"
		}
		analyses = append(analyses, a)
	}
	return analyses, recs
}

// ForecastDemand projects demand per product for a region using a 3-point
// moving average plus linear trend. Products with fewer than three history
// samples fall back to their last observation at reduced confidence.
func (s *State) ForecastDemand(region string) (map[string]models.ProductForecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.history[region]
	if !ok {
		return nil, ErrUnknownRegion
	}

	forecasts := make(map[string]models.ProductForecast, len(history))
	for product, samples := range history {
		if len(samples) < 3 {
			last := 0
			if len(samples) > 0 {
				last = samples[len(samples)-1]
			}
			forecasts[product] = models.ProductForecast{
				PredictedDemand: last,
				Confidence:      0.5,
				Trend:           "insufficient_data",
			}
			continue
		}
		n := len(samples)
		recentAvg := float64(samples[n-1]+samples[n-2]+samples[n-3]) / 3
		trend := float64(samples[n-1]-samples[n-3]) / 2
		predicted := math.Max(0, recentAvg+trend)

		label := "stable"
		if trend > 0 {
			label = "increasing"
		} else if trend < 0 {
			label = "decreasing"
		}
		forecasts[product] = models.ProductForecast{
			PredictedDemand: int(math.Round(predicted)),
			Confidence:      0.85,
			Trend:           label,
		}
	}
	return forecasts, nil
}

// RestockPlan is the outcome of an emergency restock request: which
// warehouse ships the product and the transfer route to run.
type RestockPlan struct {
	Warehouse string       `json:"warehouse"`
	Product   string       `json:"product"`
	Quantity  int          `json:"quantity"`
	Source    string       `json:"source"`
	Route     models.Route `json:"route"`
}

// PlanEmergencyRestock picks the nearest warehouse holding a surplus of the
// product and plans a transfer route to the depleted warehouse.
func (s *State) PlanEmergencyRestock(warehouseID int, product string) (RestockPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var target *models.Warehouse
	for i := range s.warehouses {
		if s.warehouses[i].ID == warehouseID {
			target = &s.warehouses[i]
			break
		}
	}
	if target == nil {
		return RestockPlan{}, ErrWarehouseNotFound
	}

	var source *models.Warehouse
	bestDist := math.MaxFloat64
	for i := range s.warehouses {
		w := &s.warehouses[i]
		if w.ID == warehouseID || w.Inventory[product] <= restockSourceMinStock {
			continue
		}
		d := planner.HaversineMiles(w.Location(), target.Location())
		if d < bestDist {
			bestDist = d
			source = w
		}
	}
	if source == nil {
		return RestockPlan{}, ErrNoSourceWarehouse
	}

	route := planner.TransferRoute(*source, *target, product, recommendedRestockQty)
	s.routes[route.ID] = route
	return RestockPlan{
		Warehouse: target.Name,
		Product:   product,
		Quantity:  recommendedRestockQty,
		Source:    source.Name,
		Route:     route,
	}, nil
}
