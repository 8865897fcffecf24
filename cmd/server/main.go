package main

import (
	"context"
	"net/http"

	"github.com/DoyleJ11/tft-coach-backend/internal/catalog"
	"github.com/DoyleJ11/tft-coach-backend/internal/coach"
	"github.com/DoyleJ11/tft-coach-backend/internal/config"
	"github.com/DoyleJ11/tft-coach-backend/internal/decision"
	"github.com/DoyleJ11/tft-coach-backend/internal/detect"
	"github.com/DoyleJ11/tft-coach-backend/internal/fusion"
	"github.com/DoyleJ11/tft-coach-backend/internal/httpapi"
	"github.com/DoyleJ11/tft-coach-backend/internal/store"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := buildLogger(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatal("catalog load failed", zap.String("path", cfg.CatalogPath), zap.Error(err))
	}
	log.Info("catalog loaded", zap.String("path", cfg.CatalogPath), zap.Int("entries", cat.Size()))

	frames, err := detect.NewDirFrameSource(cfg.FramesDir)
	if err != nil {
		log.Fatal("frame source failed", zap.String("dir", cfg.FramesDir), zap.Error(err))
	}

	detectors := []detect.Detector{
		detect.NewTextDetector(log),
		detect.NewTierDetector(log),
	}
	if cfg.TemplatesDir != "" {
		icon, err := detect.NewIconDetector(cfg.TemplatesDir, log)
		if err != nil {
			log.Fatal("icon templates failed", zap.String("dir", cfg.TemplatesDir), zap.Error(err))
		}
		detectors = append(detectors, icon)
	}
	if cfg.SidecarURL != "" {
		detectors = append(detectors, detect.NewObjectDetector(cfg.SidecarURL, nil, log))
	}

	var recorder coach.Recorder
	if cfg.DatabaseURL != "" {
		st, err := store.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("store open failed", zap.Error(err))
		}
		recorder = st
		log.Info("persistence enabled")
	}

	ctx := context.Background()
	session := coach.NewSession(ctx, coach.Config{
		Frames:   frames,
		Runner:   detect.NewRunner(detectors, cfg.DetectorBudget, log),
		Fuser:    fusion.NewEngine(cat, cfg.ConfidenceFloor, log),
		Decider:  decision.NewEngine(cat),
		Interval: cfg.CycleInterval,
		History:  cfg.HistorySize,
		Recorder: recorder,
		Log:      log,
	})

	// Build the router *with* the session injected
	handler := httpapi.SetupRoutes(session)

	log.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
