package main

import (
	"context"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-dispatch/internal/config"
	"github.com/ukydev/fleet-dispatch/internal/fleet"
	"github.com/ukydev/fleet-dispatch/internal/handlers"
	"github.com/ukydev/fleet-dispatch/internal/metrics"
	"github.com/ukydev/fleet-dispatch/internal/publisher"
	"github.com/ukydev/fleet-dispatch/internal/ws"
)

func main() {
	cfg := config.Load()
	log.SetLevel(cfg.LogLevel)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	state := fleet.NewState(fleet.DefaultWarehouses(), fleet.DefaultTrucks(), fleet.DefaultDemandHistory(), rng)

	collector := metrics.NewCollector(cfg.TickInterval, cfg.CursorStep)

	var pub publisher.Publisher
	if cfg.MQTTBrokerURL != "" {
		mqttPub, err := publisher.NewMQTTPublisher(cfg.MQTTBrokerURL, cfg.MQTTClientID)
		if err != nil {
			log.WithError(err).Warn("MQTT broker unreachable, logging positions instead")
			pub = publisher.NewLogPublisher()
		} else {
			pub = mqttPub
		}
	} else {
		pub = publisher.NewLogPublisher()
	}
	defer pub.Close()

	var sim *fleet.Simulator
	hub := ws.NewHub(func() any {
		status := map[string]any{
			"metrics": state.Summary(),
			"trucks":  state.Trucks(),
		}
		if sim != nil {
			status["simulation_active"] = sim.Snapshot().Active
		}
		return status
	}, collector.WSClients)

	sim = fleet.NewSimulator(ctx, state, cfg.CursorStep, cfg.TickInterval, pub, hub, collector)
	defer sim.Shutdown()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))
	handlers.NewFleetHandler(state, sim, hub).Register(router)

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		metricsSrv = collector.Serve(cfg.MetricsAddr)
	}

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: router}
	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("Fleet dispatch API listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server error")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP shutdown error")
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Metrics shutdown error")
		}
	}
}
