package main

import (
	"fmt"
	"os"

	"navtracker/internal/config"
	"navtracker/internal/currency"
	"navtracker/internal/database"
	"navtracker/internal/logger"
	"navtracker/internal/metrics"
	"navtracker/internal/pricing"
	"navtracker/internal/server"
	"navtracker/internal/validator"
)

// @title           navtracker API
// @version         1.0
// @description     Personal net asset value tracker: asset groups, assets with price history, debts and NAV snapshots.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	appConfig, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.InitWithOptions(logger.Options{
		Env:       appConfig.Env,
		File:      appConfig.LogFile,
		MaxSizeMB: appConfig.LogMaxSizeMB,
	})
	defer logger.Sync()

	if err := run(appConfig); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run(appConfig *config.Config) error {
	log := logger.Get()

	// Currency table
	rates := currency.Default()
	if appConfig.CurrenciesFile != "" {
		loaded, err := currency.LoadFile(appConfig.CurrenciesFile)
		if err != nil {
			return fmt.Errorf("failed to load currency table: %w", err)
		}
		rates = loaded
	}
	validator.SetCurrencies(rates)
	validator.Register()

	// Database
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Price source, shared by every request so they all go through one throttle
	m := metrics.New()
	prices := pricing.NewCoinGeckoClient(pricing.Options{
		BaseURL:     appConfig.CoinGeckoBaseURL,
		APIKey:      appConfig.CoinGeckoAPIKey,
		MinInterval: appConfig.PriceMinInterval,
		Timeout:     appConfig.PriceRequestTimeout,
		Metrics:     m,
	})

	svc := server.NewServices(dbManager.DB(), rates, prices, m)
	router := server.NewRouter(svc, server.Options{
		Rates:         rates,
		Metrics:       m,
		MetricsAPIKey: appConfig.MetricsAPIKey,
	})

	log.Infow("Starting navtracker server",
		"port", appConfig.Port,
		"driver", appConfig.DBDriver,
		"base_currency", rates.Base(),
		"price_min_interval", appConfig.PriceMinInterval.String(),
	)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
