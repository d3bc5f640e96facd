// Package compare looks up alternative offers for a scanned product.
// Comparison is best-effort: failures degrade to an empty result list
// rather than a user-facing error.
package compare

import (
	"context"
	"log/slog"

	"github.com/tagsnap/tagsnap/internal/model"
)

// Client defines the interface for comparison providers.
type Client interface {
	Compare(ctx context.Context, productName string, price float64, currency string) ([]model.Comparison, error)
}

// Config holds comparison provider configuration.
type Config struct {
	Provider string
	Model    string
	APIKey   string
}

// NewClient creates a comparison client based on the provided configuration.
func NewClient(cfg Config) (Client, error) {
	switch cfg.Provider {
	case "openai":
		return newOpenAIClient(cfg)
	default:
		return NewMockClient(), nil
	}
}

// BestEffort wraps a client so that any failure resolves to an empty
// list. The underlying error is logged, never propagated.
func BestEffort(client Client) Client {
	return &bestEffortClient{inner: client}
}

type bestEffortClient struct {
	inner Client
}

func (c *bestEffortClient) Compare(ctx context.Context, productName string, price float64, currency string) ([]model.Comparison, error) {
	results, err := c.inner.Compare(ctx, productName, price, currency)
	if err != nil {
		slog.Warn("comparison lookup failed",
			"product", productName,
			"error", err)
		return nil, nil
	}
	return results, nil
}
