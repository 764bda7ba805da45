package main

import (
	"log"
	"time"

	"parley/internal/pkg/logger"
	"parley/internal/platform/config"
	"parley/internal/platform/database"
	"parley/internal/platform/repositories"
	"parley/internal/workers"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	globalDB, err := database.NewGlobalDB(cfg.Database.Global)
	if err != nil {
		log.Fatalf("Failed to connect to global DB: %v", err)
	}
	defer globalDB.Close()

	storePool := database.NewStorePool(cfg.Database.Tenant)
	defer storePool.CloseAll()

	tenantRepo := repositories.NewTenantRepository(globalDB)
	runner := workers.NewRunner(tenantRepo, storePool, cfg.Workers.DeliveryRetention)

	pruneInterval := cfg.Workers.PruneInterval
	if pruneInterval <= 0 {
		pruneInterval = time.Hour
	}

	log.Println("Starting parley background workers...")

	go runPruneWorker(runner, pruneInterval)
	go runReportWorker(runner)

	// Keep process alive
	select {}
}

func runPruneWorker(runner *workers.Runner, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		runner.PruneDeliveries()
	}
}

func runReportWorker(runner *workers.Runner) {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		runner.ReportDeliveryCounts()
	}
}
