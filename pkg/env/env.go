// package env contains the getters for the configuration shared by the
// geoserver and the photon CLI. Everything is read from environment variables.
package env

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/manzanit0/photon/pkg/logger"
	"github.com/manzanit0/photon/pkg/photon"
)

type Config struct {
	// PhotonURL is the base URL of the Photon instance, without /api.
	PhotonURL string
	Port      string

	// DatabaseURL is optional. Without it the places registry is disabled.
	DatabaseURL string

	HTTPTimeout time.Duration
	LogLevel    slog.Level
	Debug       bool
}

func Load() (Config, error) {
	cfg := Config{
		PhotonURL:   getOr("PHOTON_URL", photon.DefaultBaseURL),
		Port:        getOr("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		HTTPTimeout: 10 * time.Second,
		LogLevel:    logger.ParseLevel(os.Getenv("LOG_LEVEL")),
	}

	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse HTTP_TIMEOUT as duration: %s", err.Error())
		}
		cfg.HTTPTimeout = d
	}

	if v := os.Getenv("DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse DEBUG as boolean: %s", err.Error())
		}
		cfg.Debug = debug
	}

	return cfg, nil
}

func getOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
