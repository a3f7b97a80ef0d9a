package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Store is a retail delivery destination.
type Store struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Texas retail locations served by the distribution centers.
var stores = []Store{
	{Name: "Plano Store", Lat: 33.0198, Lng: -96.6989},
	{Name: "Irving Store", Lat: 32.8140, Lng: -96.9489},
	{Name: "Garland Store", Lat: 32.9126, Lng: -96.6389},
	{Name: "Katy Store", Lat: 29.7858, Lng: -95.8245},
	{Name: "Pearland Store", Lat: 29.5636, Lng: -95.2860},
	{Name: "Round Rock Store", Lat: 30.5083, Lng: -97.6789},
	{Name: "Cedar Park Store", Lat: 30.5052, Lng: -97.8203},
	{Name: "New Braunfels Store", Lat: 29.7030, Lng: -98.1245},
}

var regions = []string{"Dallas", "Houston", "Austin"}

var products = []string{"cereal", "milk", "juice", "bread"}

var client = &http.Client{Timeout: 10 * time.Second}

func postJSON(url string, payload any) (map[string]any, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return out, fmt.Errorf("request failed with status %d: %v", resp.StatusCode, out["error"])
	}
	return out, nil
}

func getJSON(url string) (map[string]any, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return out, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return out, nil
}

// pickDeliveries draws n distinct stores with random order quantities.
func pickDeliveries(n int, r *rand.Rand) []map[string]any {
	if n > len(stores) {
		n = len(stores)
	}
	perm := r.Perm(len(stores))
	deliveries := make([]map[string]any, 0, n)
	for _, idx := range perm[:n] {
		s := stores[idx]
		deliveries = append(deliveries, map[string]any{
			"name":     s.Name,
			"lat":      s.Lat,
			"lng":      s.Lng,
			"quantity": 10 + r.Intn(50),
		})
	}
	return deliveries
}

func routeID(result map[string]any) string {
	route, ok := result["route"].(map[string]any)
	if !ok {
		return ""
	}
	id, _ := route["id"].(string)
	return id
}

// waitForCompletion polls the status endpoint until the playback finishes
// or the timeout expires.
func waitForCompletion(apiURL string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		status, err := getJSON(apiURL + "/status")
		if err != nil {
			log.WithError(err).Warn("Status poll failed")
			time.Sleep(time.Second)
			continue
		}
		sim, ok := status["simulation"].(map[string]any)
		if !ok {
			return false
		}
		active, _ := sim["active"].(bool)
		if !active {
			return true
		}
		if progress, ok := sim["progress"].(float64); ok {
			log.WithField("progress", fmt.Sprintf("%.0f%%", progress*100)).Debug("Route in progress")
		}
		time.Sleep(500 * time.Millisecond)
	}
	return false
}

func runScenario(apiURL string, r *rand.Rand) {
	warehouseID := 1 + r.Intn(3) // one of the main DCs

	result, err := postJSON(apiURL+"/optimize-route", map[string]any{
		"origin_warehouse_id":  warehouseID,
		"destination_requests": pickDeliveries(2+r.Intn(3), r),
	})
	if err != nil {
		log.WithError(err).Error("Route optimization failed")
		return
	}
	id := routeID(result)
	if id == "" {
		log.Error("Route optimization returned no route ID")
		return
	}
	log.WithFields(log.Fields{"route_id": id, "warehouse_id": warehouseID}).Info("Route planned")

	dispatch, err := postJSON(apiURL+"/dispatch-truck", map[string]any{"route_id": id})
	if err != nil {
		log.WithError(err).Error("Dispatch failed")
		return
	}
	log.WithField("truck_id", dispatch["truck_id"]).Info("Truck dispatched")

	if !waitForCompletion(apiURL, 2*time.Minute) {
		log.Warn("Route did not complete in time, stopping playback")
		if _, err := postJSON(apiURL+"/simulation/stop", map[string]any{}); err != nil {
			log.WithError(err).Error("Stop failed")
		}
		return
	}

	metrics, err := getJSON(apiURL + "/metrics")
	if err != nil {
		log.WithError(err).Error("Metrics fetch failed")
		return
	}
	log.WithFields(log.Fields{
		"total_distance": metrics["total_distance"],
		"fuel_saved":     metrics["fuel_saved"],
		"co2_reduced":    metrics["co2_reduced"],
	}).Info("Route completed")

	region := regions[r.Intn(len(regions))]
	if forecast, err := postJSON(apiURL+"/forecast-demand", map[string]any{"region": region}); err != nil {
		log.WithError(err).Error("Forecast failed")
	} else {
		log.WithFields(log.Fields{"region": region, "forecasts": forecast["forecasts"]}).Info("Demand forecast")
	}

	// Occasionally exercise the emergency restock path.
	if r.Intn(3) == 0 {
		product := products[r.Intn(len(products))]
		if plan, err := postJSON(apiURL+"/emergency-restock", map[string]any{
			"warehouse_id": 5,
			"product":      product,
		}); err != nil {
			log.WithError(err).Warn("Emergency restock failed")
		} else {
			log.WithFields(log.Fields{"product": product, "source": plan["source"]}).Info("Emergency restock planned")
		}
	}
}

func main() {
	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8000/api"
	}

	pause := 5 * time.Second
	if v := os.Getenv("SIM_PAUSE_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			pause = time.Duration(n) * time.Second
		}
	}

	runs := 0
	if v := os.Getenv("SIM_RUNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			runs = n
		}
	}

	log.WithFields(log.Fields{
		"api_url": apiURL,
		"pause":   pause,
	}).Info("Starting dispatch scenario driver")

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; runs == 0 || i < runs; i++ {
		runScenario(apiURL, r)
		time.Sleep(pause)
	}
}
