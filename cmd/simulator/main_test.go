package main

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickDeliveries(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	deliveries := pickDeliveries(3, r)
	require.Len(t, deliveries, 3)

	seen := map[string]bool{}
	for _, d := range deliveries {
		name, ok := d["name"].(string)
		require.True(t, ok)
		assert.False(t, seen[name], "store %s picked twice", name)
		seen[name] = true

		qty, ok := d["quantity"].(int)
		require.True(t, ok)
		assert.GreaterOrEqual(t, qty, 10)
		assert.Less(t, qty, 60)
	}
}

func TestPickDeliveriesClampsToStoreCount(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	deliveries := pickDeliveries(100, r)
	assert.Len(t, deliveries, len(stores))
}

func TestRouteID(t *testing.T) {
	result := map[string]any{"route": map[string]any{"id": "route_123"}}
	assert.Equal(t, "route_123", routeID(result))

	assert.Empty(t, routeID(map[string]any{}))
	assert.Empty(t, routeID(map[string]any{"route": "not-a-map"}))
}

func TestWaitForCompletion(t *testing.T) {
	var polls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		active := polls.Add(1) < 3
		json.NewEncoder(w).Encode(map[string]any{
			"simulation": map[string]any{"active": active, "progress": 0.5},
		})
	}))
	defer srv.Close()

	done := waitForCompletion(srv.URL, 10*time.Second)
	assert.True(t, done)
	assert.GreaterOrEqual(t, polls.Load(), int64(3))
}

func TestWaitForCompletionTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"simulation": map[string]any{"active": true},
		})
	}))
	defer srv.Close()

	done := waitForCompletion(srv.URL, 600*time.Millisecond)
	assert.False(t, done)
}

func TestPostJSONSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{"error": "simulation already active"})
	}))
	defer srv.Close()

	_, err := postJSON(srv.URL, map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
	assert.Contains(t, err.Error(), "simulation already active")
}
