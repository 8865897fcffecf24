// Package config loads runtime settings from the environment, with a .env
// file as the dev-time source. Every knob has a default that works for a
// local run against a frames directory.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string        // COACH_ADDR
	FramesDir       string        // COACH_FRAMES_DIR
	CatalogPath     string        // COACH_CATALOG
	TemplatesDir    string        // COACH_TEMPLATES_DIR, "" disables icon matching
	SidecarURL      string        // COACH_SIDECAR_URL, "" disables object detection
	DatabaseURL     string        // DATABASE_URL, "" disables persistence
	CycleInterval   time.Duration // COACH_CYCLE_INTERVAL, 0 disables the poll loop
	DetectorBudget  time.Duration // COACH_DETECTOR_BUDGET
	ConfidenceFloor float64       // COACH_CONFIDENCE_FLOOR
	HistorySize     int           // COACH_HISTORY
	Debug           bool          // COACH_DEBUG
}

// Load reads .env if present (missing is fine, real env wins either way)
// and resolves every setting.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:         envStr("COACH_ADDR", ":8080"),
		FramesDir:    envStr("COACH_FRAMES_DIR", "frames"),
		CatalogPath:  envStr("COACH_CATALOG", "data/catalog.yaml"),
		TemplatesDir: os.Getenv("COACH_TEMPLATES_DIR"),
		SidecarURL:   os.Getenv("COACH_SIDECAR_URL"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		Debug:        os.Getenv("COACH_DEBUG") == "true",
	}

	var err error
	if cfg.CycleInterval, err = envDuration("COACH_CYCLE_INTERVAL", 2*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.DetectorBudget, err = envDuration("COACH_DETECTOR_BUDGET", 800*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.ConfidenceFloor, err = envFloat("COACH_CONFIDENCE_FLOOR", 0.5); err != nil {
		return Config{}, err
	}
	if cfg.HistorySize, err = envInt("COACH_HISTORY", 50); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
