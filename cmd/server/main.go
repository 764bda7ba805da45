package main

import (
	"fmt"
	"log"
	"net/http"

	"parley/internal/api"
	"parley/internal/api/handlers"
	"parley/internal/api/middleware"
	"parley/internal/engine/notify"
	"parley/internal/pkg/logger"
	"parley/internal/platform/audit"
	"parley/internal/platform/auth"
	"parley/internal/platform/config"
	"parley/internal/platform/database"
	"parley/internal/platform/repositories"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	// Database connections
	globalDB, err := database.NewGlobalDB(cfg.Database.Global)
	if err != nil {
		log.Fatalf("Failed to connect to global DB: %v", err)
	}
	defer globalDB.Close()

	globalDBWrapper := database.NewGlobalDBWrapper(globalDB)

	storePool := database.NewStorePool(cfg.Database.Tenant)
	defer storePool.CloseAll()

	// Repositories
	tenantRepo := repositories.NewTenantRepository(globalDB)
	userRepo := repositories.NewUserRepository(globalDB)
	keyRepo := repositories.NewAPIKeyRepository(globalDB)

	// Services
	tokenSvc := auth.NewTokenService(cfg.JWT)
	auditLogger := audit.NewLogger(globalDB)

	statusPolicy := notify.IgnoreStatus
	if cfg.Slack.StrictStatus {
		statusPolicy = notify.StrictStatus
	}
	transport := notify.NewSlackTransport(cfg.Slack.Timeout, statusPolicy)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, tokenSvc)
	tenantHandler := handlers.NewTenantHandler(tenantRepo, userRepo, cfg.Database.Tenant.BasePath)
	slackHandler := handlers.NewSlackHandler(tenantRepo, transport, auditLogger)
	eventHandler := handlers.NewEventHandler(transport, cfg.Cache.EntityTTL, cfg.Cache.MaxEntries)
	entitiesHandler := handlers.NewEntitiesHandler()
	deliveryHandler := handlers.NewDeliveryHandler()
	apiKeyHandler := handlers.NewAPIKeyHandler(keyRepo)
	healthHandler := handlers.NewHealthHandler(globalDBWrapper)
	metricsHandler := handlers.NewMetricsHandler()

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc)
	tenantMiddleware := middleware.NewTenantMiddleware(tenantRepo, storePool)
	apiKeyMiddleware := middleware.NewAPIKeyMiddleware(keyRepo, tenantRepo, storePool)

	deps := &api.Dependencies{
		AuthHandler:      authHandler,
		TenantHandler:    tenantHandler,
		SlackHandler:     slackHandler,
		EventHandler:     eventHandler,
		EntitiesHandler:  entitiesHandler,
		DeliveryHandler:  deliveryHandler,
		APIKeyHandler:    apiKeyHandler,
		HealthHandler:    healthHandler,
		MetricsHandler:   metricsHandler,
		AuthMiddleware:   authMiddleware,
		TenantMiddleware: tenantMiddleware,
		APIKeyMiddleware: apiKeyMiddleware,
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
