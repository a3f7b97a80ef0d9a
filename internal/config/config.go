// Package config loads service settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds every runtime setting of the dispatch service.
type Config struct {
	ListenAddr  string
	MetricsAddr string

	TickInterval time.Duration
	CursorStep   float64

	CORSOrigins []string

	MQTTBrokerURL string
	MQTTClientID  string

	LogLevel log.Level
}

// Load reads a .env file if present and then the environment. Missing or
// malformed values fall back to defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Failed to load .env file")
	}

	cfg := Config{
		ListenAddr:    envString("LISTEN_ADDR", ":8000"),
		MetricsAddr:   envString("METRICS_ADDR", ""),
		TickInterval:  time.Duration(envInt("TICK_INTERVAL_MS", 200)) * time.Millisecond,
		CursorStep:    envFloat("STEP_PER_TICK", 0.02),
		MQTTBrokerURL: envString("MQTT_BROKER_URL", ""),
		MQTTClientID:  envString("MQTT_CLIENT_ID", "fleet-dispatch"),
	}

	origins := envString("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	level, err := log.ParseLevel(envString("LOG_LEVEL", "info"))
	if err != nil {
		log.WithError(err).Warn("Invalid LOG_LEVEL, using info")
		level = log.InfoLevel
	}
	cfg.LogLevel = level

	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 200 * time.Millisecond
	}
	if cfg.CursorStep <= 0 {
		cfg.CursorStep = 0.02
	}
	return cfg
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.WithFields(log.Fields{"key": key, "value": v}).Warn("Invalid integer setting")
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.WithFields(log.Fields{"key": key, "value": v}).Warn("Invalid float setting")
		return fallback
	}
	return f
}
