package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, req)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	return string(body)
}

func TestCollectorExposesMetrics(t *testing.T) {
	c := NewCollector(200*time.Millisecond, 0.02)

	c.SimulationsStarted.Inc()
	c.SimulationsCompleted.Inc()
	c.ActiveSimulations.Set(1)
	c.Ticks.Add(50)

	body := scrape(t, c)
	assert.Contains(t, body, "fleet_simulations_started_total 1")
	assert.Contains(t, body, "fleet_simulations_completed_total 1")
	assert.Contains(t, body, "fleet_active_simulations 1")
	assert.Contains(t, body, "fleet_ticks_total 50")
	assert.Contains(t, body, "fleet_tick_interval_seconds 0.2")
	assert.Contains(t, body, "fleet_cursor_step 0.02")
}

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewCollector(time.Second, 0.5)
	b := NewCollector(time.Second, 0.5)

	a.SimulationsStarted.Inc()

	assert.Contains(t, scrape(t, a), "fleet_simulations_started_total 1")
	assert.Contains(t, scrape(t, b), "fleet_simulations_started_total 0")
}
