// Package vision provides clients for extracting prices, currencies,
// and structured line items from captured images via a
// vision-language-model provider.
package vision

import (
	"context"

	"github.com/tagsnap/tagsnap/internal/model"
)

// Client defines the interface for detection providers.
type Client interface {
	// Detect extracts pricing information from an image. An empty
	// Currency in the result means the provider could not identify
	// the currency and the user must be asked.
	Detect(ctx context.Context, image []byte, mode model.DetectMode) (model.DetectionResult, error)
}

// Config holds detection provider configuration.
type Config struct {
	Provider    string
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
}
