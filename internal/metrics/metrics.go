// Package metrics exposes Prometheus counters for the simulation service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Collector bundles the service's Prometheus metrics on a private registry.
type Collector struct {
	reg *prometheus.Registry

	ActiveSimulations    prometheus.Gauge
	SimulationsStarted   prometheus.Counter
	SimulationsCompleted prometheus.Counter
	SimulationsRejected  prometheus.Counter
	SimulationsStopped   prometheus.Counter

	Ticks        prometheus.Counter
	TickDuration prometheus.Histogram

	PositionsPublished prometheus.Counter
	PublishErrs        prometheus.Counter

	WSClients prometheus.Gauge
}

// NewCollector registers all metrics and records the configured tick settings.
func NewCollector(tickInterval time.Duration, step float64) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		ActiveSimulations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleet_active_simulations",
			Help: "Number of route playbacks currently running (0 or 1).",
		}),
		SimulationsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_simulations_started_total",
			Help: "Total route playbacks started.",
		}),
		SimulationsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_simulations_completed_total",
			Help: "Total route playbacks that reached the final waypoint.",
		}),
		SimulationsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_simulations_rejected_total",
			Help: "Start requests rejected because a simulation was already active.",
		}),
		SimulationsStopped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_simulations_stopped_total",
			Help: "Total route playbacks stopped before completion.",
		}),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_ticks_total",
			Help: "Total playback engine ticks processed.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fleet_tick_duration_seconds",
			Help:    "Duration of per-tick state updates and publishing.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		PositionsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_positions_published_total",
			Help: "Total position messages handed to the publisher.",
		}),
		PublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_publish_errors_total",
			Help: "Total publisher errors.",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleet_websocket_clients",
			Help: "Currently connected websocket clients.",
		}),
	}

	reg.MustRegister(
		c.ActiveSimulations,
		c.SimulationsStarted, c.SimulationsCompleted, c.SimulationsRejected, c.SimulationsStopped,
		c.Ticks, c.TickDuration,
		c.PositionsPublished, c.PublishErrs,
		c.WSClients,
	)

	interval := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleet_tick_interval_seconds",
		Help: "Configured playback tick interval in seconds.",
	})
	stepGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleet_cursor_step",
		Help: "Configured cursor advance per tick.",
	})
	reg.MustRegister(interval, stepGauge)
	interval.Set(tickInterval.Seconds())
	stepGauge.Set(step)

	return c
}

// Handler returns an HTTP handler serving the registry in Prometheus format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// Serve starts an HTTP server exposing /metrics on addr and returns it so the
// caller can shut it down.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Metrics server error")
		}
	}()
	log.WithField("addr", addr).Info("Metrics server listening")
	return srv
}
