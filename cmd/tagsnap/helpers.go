package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/tagsnap/tagsnap/internal/compare"
	"github.com/tagsnap/tagsnap/internal/config"
	"github.com/tagsnap/tagsnap/internal/rates"
	"github.com/tagsnap/tagsnap/internal/service"
	"github.com/tagsnap/tagsnap/internal/storage"
	"github.com/tagsnap/tagsnap/internal/vision"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initVision builds the detection client from configuration. Without a
// provider it falls back to the deterministic mock.
func initVision() (vision.Client, error) {
	return vision.NewClient(vision.Config{
		Provider:    viper.GetString("vision.provider"),
		Model:       viper.GetString("vision.model"),
		APIKey:      viper.GetString("vision.api_key"),
		Temperature: viper.GetFloat64("vision.temperature"),
		MaxTokens:   viper.GetInt("vision.max_tokens"),
	})
}

// initRates builds the rate client. An empty API key means offline
// mode, serving the static fallback table.
func initRates() *rates.Client {
	ttl := viper.GetDuration("rates.cache_ttl")
	if ttl == 0 {
		ttl = time.Hour
	}
	return rates.NewClient(rates.Config{
		BaseURL:  viper.GetString("rates.base_url"),
		APIKey:   viper.GetString("rates.api_key"),
		CacheTTL: ttl,
	})
}

// initCompare builds the best-effort comparison client.
func initCompare() (compare.Client, error) {
	client, err := compare.NewClient(compare.Config{
		Provider: viper.GetString("compare.provider"),
		Model:    viper.GetString("compare.model"),
		APIKey:   viper.GetString("compare.api_key"),
	})
	if err != nil {
		return nil, err
	}
	return compare.BestEffort(client), nil
}

// defaultTarget returns the configured target currency, defaulting to USD.
func defaultTarget() string {
	if target := viper.GetString("currency.target"); target != "" {
		return target
	}
	return "USD"
}
