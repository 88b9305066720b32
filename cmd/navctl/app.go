package main

import (
	"flag"
	"fmt"
	"os"

	"navtracker/internal/config"
	"navtracker/internal/currency"
	"navtracker/internal/database"
	"navtracker/internal/logger"
	"navtracker/internal/models"
	"navtracker/internal/pricing"
	"navtracker/internal/report"
	"navtracker/internal/server"
)

var (
	style = flag.String("style", "auto", "glamour style used to render output (auto, dark, light, notty)")
	width = flag.Int("width", 100, "word wrap width of rendered output")
)

// app holds what every subcommand needs: configuration, the services and
// the database connection backing them.
type app struct {
	cfg   *config.Config
	rates *currency.Table
	svc   *server.Services
	db    *database.Manager
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	logger.InitWithOptions(logger.Options{Env: "production", File: cfg.LogFile, MaxSizeMB: cfg.LogMaxSizeMB})

	rates := currency.Default()
	if cfg.CurrenciesFile != "" {
		if rates, err = currency.LoadFile(cfg.CurrenciesFile); err != nil {
			return nil, err
		}
	}

	db, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}

	prices := pricing.NewCoinGeckoClient(pricing.Options{
		BaseURL:     cfg.CoinGeckoBaseURL,
		APIKey:      cfg.CoinGeckoAPIKey,
		MinInterval: cfg.PriceMinInterval,
		Timeout:     cfg.PriceRequestTimeout,
	})

	return &app{
		cfg:   cfg,
		rates: rates,
		svc:   server.NewServices(db.DB(), rates, prices, nil),
		db:    db,
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing database: %v\n", err)
	}
	logger.Sync()
}

func (a *app) user(username string) (*models.User, error) {
	if username == "" {
		return nil, fmt.Errorf("a username is required (-u)")
	}
	return a.svc.User.GetUserByUsername(username)
}

func printMarkdown(md string) {
	out, err := report.Render(md, *style, *width)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering output: %v\n", err)
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
