package main

import (
	"context"
	"fmt"
	"os"

	"budgettool/internal/cache"
	"budgettool/internal/config"
	"budgettool/internal/database"
	"budgettool/internal/logger"
	"budgettool/internal/server"
	"budgettool/internal/services"
	"budgettool/internal/validator"
)

// @title           Budget Tool API
// @version         1.0
// @description     Multi-tenant vendor budget tracking: vendors, annual budgets per category and dated charges.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig(appConfig)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	vendorCache := cache.NewMemory()
	if appConfig.RedisURL != "" {
		vendorCache, err = cache.NewRedis(context.Background(), appConfig.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Infow("Vendor list cache backed by redis")
	}

	validator.Register()

	db := dbManager.DB()
	router := server.NewRouter(server.Services{
		Users:      services.NewUserService(db),
		Vendors:    services.NewVendorService(db, vendorCache, appConfig.CacheTTL),
		Budgets:    services.NewBudgetService(db),
		Charges:    services.NewChargeService(db),
		BudgetYear: func() int { return appConfig.BudgetYear },
	})

	log.Infof("Starting budget tool backend on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
