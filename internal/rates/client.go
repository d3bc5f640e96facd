// Package rates fetches currency exchange rate tables from an
// upstream provider, substituting deterministic fallback data when the
// provider is unavailable so conversions can still proceed.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/tagsnap/tagsnap/internal/model"
)

const defaultBaseURL = "https://api.freecurrencyapi.com/v1/latest"

// Config holds rate client configuration.
type Config struct {
	BaseURL  string
	APIKey   string
	CacheTTL time.Duration
	Timeout  time.Duration
}

// Client fetches rate tables, caching them per base currency.
//
// Upstream failure is recovered here, not propagated: the caller
// always receives a valid table. Correctness is traded for
// availability when the fallback data is served; the substitution is
// logged so it can be spotted.
type Client struct {
	httpClient *http.Client
	cache      *tableCache
	baseURL    string
	apiKey     string
}

// NewClient creates a rate client. An empty API key puts the client in
// offline mode: every fetch serves the static fallback table.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		cache:   newTableCache(cfg.CacheTTL),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchRates returns the rate table for the given base currency. The
// table always contains the base currency mapped to exactly 1.
func (c *Client) FetchRates(ctx context.Context, base string) (model.RateTable, error) {
	if base == "" {
		return nil, fmt.Errorf("base currency is required")
	}

	if table, ok := c.cache.get(base); ok {
		return table, nil
	}

	table, err := c.fetchLive(ctx, base)
	if err != nil {
		slog.Warn("rate source unavailable, using fallback rates",
			"base", base,
			"error", err)
		table = FallbackRates(base)
	}

	c.cache.set(base, table)
	return table, nil
}

// fetchLive queries the upstream provider for live rates.
func (c *Client) fetchLive(ctx context.Context, base string) (model.RateTable, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("no API key configured")
	}

	endpoint := fmt.Sprintf("%s?apikey=%s&base_currency=%s",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(base))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response struct {
		Data map[string]float64 `json:"data"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Data) == 0 {
		return nil, fmt.Errorf("rate API returned no rates")
	}

	return model.RateTable(response.Data).Normalize(base), nil
}

// Close releases the cache's background resources.
func (c *Client) Close() {
	c.cache.Close()
}
