package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "PRICE_MIN_INTERVAL", "JWT_EXPIRES_IN", "COINGECKO_BASE_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("expected default driver postgres, got %s", cfg.DBDriver)
	}
	if cfg.PriceMinInterval != 2*time.Second {
		t.Errorf("expected 2s min interval, got %s", cfg.PriceMinInterval)
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("expected 24h JWT expiry, got %s", cfg.JWTExpirationDur)
	}
	if cfg.CoinGeckoBaseURL != "https://api.coingecko.com/api/v3" {
		t.Errorf("unexpected base URL %s", cfg.CoinGeckoBaseURL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("PRICE_MIN_INTERVAL", "5s")
	t.Setenv("PRICE_REQUEST_TIMEOUT", "not-a-duration")
	t.Setenv("LOG_MAX_SIZE_MB", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DBDriver != "sqlite" {
		t.Errorf("expected sqlite driver, got %s", cfg.DBDriver)
	}
	if cfg.PriceMinInterval != 5*time.Second {
		t.Errorf("expected 5s, got %s", cfg.PriceMinInterval)
	}
	if cfg.PriceRequestTimeout != 30*time.Second {
		t.Errorf("expected fallback 30s for invalid value, got %s", cfg.PriceRequestTimeout)
	}
	if cfg.LogMaxSizeMB != 10 {
		t.Errorf("expected 10, got %d", cfg.LogMaxSizeMB)
	}
}
