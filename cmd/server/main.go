package main

import (
	"net/http"
	"os"

	"airline_ops/internal/api"
	"airline_ops/internal/company"
	"airline_ops/internal/config"
	"airline_ops/pkg/logger"
	"airline_ops/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewZeroLog("production").Error("invalid configuration", logger.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}

	log := logger.NewZeroLog(cfg.AppEnv)
	m := metrics.NewMetrics("airline_ops")

	engine := company.New(company.Options{
		Name: cfg.CompanyName,
		Policy: company.Policy{
			InactivityWindowDays:   cfg.InactivityWindowDays,
			MaintenanceSessionDays: cfg.MaintenanceSessionDays,
		},
		Logger:  log,
		Metrics: m,
	})

	engine.SetSavePath(cfg.SnapshotPath)
	if err := engine.LoadState(cfg.SnapshotPath); err == nil {
		log.Info("loaded snapshot", logger.Field{Key: "path", Value: cfg.SnapshotPath})
	} else {
		engine.SeedDemo()
		log.Info("seeded demo company", logger.Field{Key: "name", Value: cfg.CompanyName})
	}

	handler := api.New(engine)

	log.Info("server listening", logger.Field{Key: "port", Value: cfg.Port})
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Error("server stopped", logger.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
}
