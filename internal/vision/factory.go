package vision

import (
	"fmt"
	"strings"
)

// NewClient creates a detection client based on the provided configuration.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAIClient(cfg)
	case "mock", "":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unsupported detection provider: %s", cfg.Provider)
	}
}
