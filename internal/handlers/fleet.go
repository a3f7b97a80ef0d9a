// Package handlers exposes the dispatch service over HTTP.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-dispatch/internal/fleet"
	"github.com/ukydev/fleet-dispatch/internal/planner"
	"github.com/ukydev/fleet-dispatch/internal/playback"
	"github.com/ukydev/fleet-dispatch/internal/ws"
)

const serviceVersion = "1.0.0"

// FleetHandler serves the fleet dashboard API.
type FleetHandler struct {
	state *fleet.State
	sim   *fleet.Simulator
	hub   *ws.Hub
}

// NewFleetHandler wires the API around the shared state and simulator.
// hub may be nil when websockets are disabled.
func NewFleetHandler(state *fleet.State, sim *fleet.Simulator, hub *ws.Hub) *FleetHandler {
	return &FleetHandler{state: state, sim: sim, hub: hub}
}

// Register attaches all routes to the router.
func (h *FleetHandler) Register(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/status", h.Status)
	api.GET("/warehouses", h.Warehouses)
	api.GET("/trucks", h.Trucks)
	api.GET("/metrics", h.Metrics)
	api.POST("/analyze", h.Analyze)
	api.POST("/optimize-route", h.OptimizeRoute)
	api.POST("/forecast-demand", h.ForecastDemand)
	api.POST("/emergency-restock", h.EmergencyRestock)
	api.POST("/dispatch-truck", h.DispatchTruck)

	sim := api.Group("/simulation")
	sim.POST("/start", h.StartSimulation)
	sim.POST("/stop", h.StopSimulation)
	sim.POST("/reset", h.ResetSimulation)

	if h.hub != nil {
		r.GET("/ws", func(c *gin.Context) {
			h.hub.HandleConnection(c.Writer, c.Request)
		})
	}
}

// Health reports service liveness.
func (h *FleetHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"system":    "Fleet Dispatch",
		"version":   serviceVersion,
	})
}

// Status returns a full snapshot of warehouses, fleet and playback state.
func (h *FleetHandler) Status(c *gin.Context) {
	warehouses := h.state.Warehouses()
	trucks := h.state.Trucks()

	totalInventory := 0
	for _, w := range warehouses {
		totalInventory += w.TotalInventory()
	}
	active := 0
	avgEfficiency := 0.0
	for _, t := range trucks {
		if t.Status != "idle" {
			active++
		}
		avgEfficiency += t.Efficiency
	}
	if len(trucks) > 0 {
		avgEfficiency /= float64(len(trucks))
	}

	snap := h.sim.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"timestamp":     time.Now().Format(time.RFC3339),
		"system_status": "operational",
		"warehouses": gin.H{
			"total":           len(warehouses),
			"total_inventory": totalInventory,
			"details":         warehouses,
		},
		"fleet": gin.H{
			"total_trucks":       len(trucks),
			"active_trucks":      active,
			"idle_trucks":        len(trucks) - active,
			"average_efficiency": avgEfficiency,
			"details":            trucks,
		},
		"simulation": gin.H{
			"active":   snap.Active,
			"truck_id": snap.TruckID,
			"route_id": snap.RouteID,
			"progress": snap.Progress,
		},
		"performance_metrics": h.state.Metrics(),
	})
}

// Warehouses lists all warehouses with utilization figures.
func (h *FleetHandler) Warehouses(c *gin.Context) {
	warehouses := h.state.Warehouses()
	out := make([]gin.H, 0, len(warehouses))
	for _, w := range warehouses {
		out = append(out, gin.H{
			"id":          w.ID,
			"name":        w.Name,
			"lat":         w.Lat,
			"lng":         w.Lng,
			"type":        w.Type,
			"inventory":   w.Inventory,
			"capacity":    w.Capacity,
			"utilization": w.Utilization(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"warehouses": out})
}

// Trucks lists the fleet.
func (h *FleetHandler) Trucks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"trucks": h.state.Trucks()})
}

// Metrics returns the dashboard aggregate figures.
func (h *FleetHandler) Metrics(c *gin.Context) {
	sum := h.state.Summary()
	c.JSON(http.StatusOK, gin.H{
		"total_distance":        sum.TotalDistance,
		"fuel_saved":            sum.FuelSaved,
		"co2_reduced":           sum.CO2Reduced,
		"efficiency":            sum.Efficiency,
		"active_routes":         sum.ActiveRoutes,
		"total_inventory":       sum.TotalInventory,
		"warehouse_utilization": sum.WarehouseUtilization,
		"fleet_utilization":     sum.FleetUtilization,
		"timestamp":             time.Now().Format(time.RFC3339),
	})
}

// Analyze runs the inventory analysis across all warehouses.
func (h *FleetHandler) Analyze(c *gin.Context) {
	h.broadcast("analysis_started", gin.H{"message": "Analyzing supply chain..."})

	analyses, recommendations := h.state.AnalyzeInventory()
	result := gin.H{
		"timestamp":               time.Now().Format(time.RFC3339),
		"warehouses":              analyses,
		"restock_recommendations": recommendations,
	}

	h.broadcast("analysis_complete", result)
	c.JSON(http.StatusOK, result)
}

type optimizeRouteRequest struct {
	OriginWarehouseID   int                       `json:"origin_warehouse_id" binding:"required"`
	DestinationRequests []planner.DeliveryRequest `json:"destination_requests" binding:"required"`
}

// OptimizeRoute plans a delivery route from a warehouse and stores it for
// later dispatch.
func (h *FleetHandler) OptimizeRoute(c *gin.Context) {
	var req optimizeRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	origin, err := h.state.WarehouseByID(req.OriginWarehouseID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	h.broadcast("route_optimization_started", gin.H{
		"message": "Optimizing route from " + origin.Name,
	})

	route, err := planner.OptimizeRoute(origin, req.DestinationRequests)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.state.SaveRoute(route)

	result := gin.H{
		"route":           route,
		"google_maps_url": planner.MapsLink(route.Waypoints),
	}
	h.broadcast("route_optimization_complete", result)
	c.JSON(http.StatusOK, result)
}

type forecastRequest struct {
	Region    string `json:"region" binding:"required"`
	DaysAhead int    `json:"days_ahead"`
}

// ForecastDemand projects product demand for a region.
func (h *FleetHandler) ForecastDemand(c *gin.Context) {
	var req forecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.broadcast("demand_forecast_started", gin.H{
		"message": "Forecasting demand for " + req.Region,
	})

	forecasts, err := h.state.ForecastDemand(req.Region)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	result := gin.H{
		"region":    req.Region,
		"forecasts": forecasts,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	h.broadcast("demand_forecast_complete", result)
	c.JSON(http.StatusOK, result)
}

type restockRequest struct {
	WarehouseID int    `json:"warehouse_id" binding:"required"`
	Product     string `json:"product" binding:"required"`
	Urgency     string `json:"urgency"`
}

// EmergencyRestock plans a stock transfer to a depleted warehouse.
func (h *FleetHandler) EmergencyRestock(c *gin.Context) {
	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.broadcast("emergency_alert", gin.H{
		"message": "Emergency restock initiated",
		"urgency": req.Urgency,
	})

	plan, err := h.state.PlanEmergencyRestock(req.WarehouseID, req.Product)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, fleet.ErrWarehouseNotFound):
			status = http.StatusNotFound
		case errors.Is(err, fleet.ErrNoSourceWarehouse):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	h.broadcast("emergency_response", plan)
	c.JSON(http.StatusOK, plan)
}

type dispatchRequest struct {
	TruckID string `json:"truck_id"`
	RouteID string `json:"route_id" binding:"required"`
}

// DispatchTruck starts route playback for a truck. When no truck is named
// the idle truck with the best efficiency is chosen.
func (h *FleetHandler) DispatchTruck(c *gin.Context) {
	var req dispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	truckID := req.TruckID
	var err error
	if truckID == "" {
		truckID, err = h.sim.StartBest(req.RouteID)
	} else {
		err = h.sim.Start(truckID, req.RouteID)
	}
	if err != nil {
		h.simError(c, err)
		return
	}

	truck, _ := h.state.TruckByID(truckID)
	h.broadcast("truck_dispatched", gin.H{
		"truck_id": truckID,
		"route_id": req.RouteID,
		"driver":   truck.Driver,
	})
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Truck " + truckID + " dispatched successfully",
		"truck_id": truckID,
		"status":   truck.Status,
	})
}

type startSimulationRequest struct {
	TruckID string `json:"truck_id" binding:"required"`
	RouteID string `json:"route_id" binding:"required"`
}

// StartSimulation begins playback of a stored route with a named truck.
func (h *FleetHandler) StartSimulation(c *gin.Context) {
	var req startSimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.sim.Start(req.TruckID, req.RouteID); err != nil {
		h.simError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"truck_id": req.TruckID,
		"route_id": req.RouteID,
	})
}

// StopSimulation halts the active playback.
func (h *FleetHandler) StopSimulation(c *gin.Context) {
	h.sim.Stop()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ResetSimulation restores the fleet to its initial state.
func (h *FleetHandler) ResetSimulation(c *gin.Context) {
	h.sim.Reset()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"trucks":  h.state.Trucks(),
	})
}

func (h *FleetHandler) simError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, playback.ErrSimulationActive):
		status = http.StatusConflict
	case errors.Is(err, fleet.ErrTruckNotFound), errors.Is(err, fleet.ErrRouteNotFound):
		status = http.StatusNotFound
	case errors.Is(err, fleet.ErrTruckNotIdle), errors.Is(err, fleet.ErrNoIdleTrucks), errors.Is(err, playback.ErrEmptyRoute):
		status = http.StatusBadRequest
	}
	log.WithError(err).Warn("Simulation request rejected")
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *FleetHandler) broadcast(event string, data any) {
	if h.hub != nil {
		h.hub.Broadcast(event, data)
	}
}
