// Package pricing fetches token prices in USD from CoinGecko.
//
// All outbound calls pass through a shared Throttle. Failures never surface
// as errors: a token without a usable price is simply absent from the result.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"navtracker/internal/logger"
	"navtracker/internal/metrics"
)

const (
	// DefaultBaseURL is the public CoinGecko API root.
	DefaultBaseURL = "https://api.coingecko.com/api/v3"

	// DefaultTimeout bounds a single outbound request.
	DefaultTimeout = 30 * time.Second

	apiKeyHeader = "x-cg-demo-api-key"
)

// Options configures a CoinGeckoClient. Zero values fall back to defaults.
type Options struct {
	BaseURL     string
	APIKey      string
	MinInterval time.Duration
	Timeout     time.Duration
	HTTPClient  *http.Client
	Clock       Clock
	Throttle    *Throttle
	Metrics     *metrics.Metrics
}

// CoinGeckoClient fetches USD prices from the CoinGecko simple price endpoint.
type CoinGeckoClient struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	apiKey     string
	throttle   *Throttle
	metrics    *metrics.Metrics
}

// NewCoinGeckoClient creates a client. One client should be shared by the
// whole process so every caller goes through the same throttle.
func NewCoinGeckoClient(opts Options) *CoinGeckoClient {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	throttle := opts.Throttle
	if throttle == nil {
		throttle = NewThrottle(opts.MinInterval, opts.Clock, opts.Metrics)
	}
	return &CoinGeckoClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     opts.APIKey,
		throttle:   throttle,
		metrics:    opts.Metrics,
	}
}

// Name returns the provider's display name.
func (c *CoinGeckoClient) Name() string { return "CoinGecko" }

// GetPrice returns the USD price of one token, or false when none is available.
func (c *CoinGeckoClient) GetPrice(ctx context.Context, tokenID string) (decimal.Decimal, bool) {
	prices := c.GetPrices(ctx, []string{tokenID})
	p, ok := prices[normalizeID(tokenID)]
	return p, ok
}

// GetPrices returns USD prices for the given tokens in a single request.
// Tokens without a price are absent from the map.
func (c *CoinGeckoClient) GetPrices(ctx context.Context, tokenIDs []string) map[string]decimal.Decimal {
	result := make(map[string]decimal.Decimal)

	ids := uniqueIDs(tokenIDs)
	if len(ids) == 0 {
		return result
	}

	log := logger.Get()
	if err := c.throttle.Wait(ctx); err != nil {
		log.Warnw("Price request abandoned while throttled", "tokens", len(ids), "error", err)
		return result
	}

	endpoint := fmt.Sprintf("%s/simple/price?%s", c.baseURL, url.Values{
		"ids":           {strings.Join(ids, ",")},
		"vs_currencies": {"usd"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Errorw("Failed to build price request", "error", err)
		c.metrics.ObservePriceRequest(metrics.OutcomeTransport)
		return result
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warnw("Price request failed", "tokens", ids, "error", err)
		c.metrics.ObservePriceRequest(metrics.OutcomeTransport)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warnw("Price source returned non-success status", "status", resp.StatusCode, "tokens", ids)
		c.metrics.ObservePriceRequest(metrics.OutcomeHTTPError)
		return result
	}

	var body map[string]struct {
		USD *decimal.Decimal `json:"usd"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Warnw("Malformed price payload", "tokens", ids, "error", err)
		c.metrics.ObservePriceRequest(metrics.OutcomeMalformed)
		return result
	}
	c.metrics.ObservePriceRequest(metrics.OutcomeOK)

	for _, id := range ids {
		entry, ok := body[id]
		if !ok || entry.USD == nil || entry.USD.IsNegative() {
			continue
		}
		result[id] = *entry.USD
	}
	if missing := len(ids) - len(result); missing > 0 {
		log.Debugw("Price source omitted tokens", "requested", len(ids), "missing", missing)
	}
	return result
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func uniqueIDs(tokenIDs []string) []string {
	seen := make(map[string]struct{}, len(tokenIDs))
	ids := make([]string, 0, len(tokenIDs))
	for _, raw := range tokenIDs {
		id := normalizeID(raw)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
