// Package export provides Google Sheets export of the purchase history.
package export

import (
	"fmt"
	"os"

	"github.com/tagsnap/tagsnap/internal/common"
)

// Config holds the configuration for the Google Sheets writer.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	TimeZone           string
	EnableFormatting   bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnableFormatting: true,
		TimeZone:         "UTC",
		SpreadsheetName:  "Travel Purchases",
	}
}

// LoadFromEnv fills unset fields from GOOGLE_SHEETS_* environment
// variables. Fields already populated (from the config file) win.
func (c *Config) LoadFromEnv() {
	if c.ClientID == "" {
		c.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if c.ClientSecret == "" {
		c.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if c.RefreshToken == "" {
		c.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	}
	if c.ServiceAccountPath == "" {
		c.ServiceAccountPath = os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")
	}
	if c.SpreadsheetID == "" {
		c.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")
	}
	if name := os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"); name != "" && c.SpreadsheetName == DefaultConfig().SpreadsheetName {
		c.SpreadsheetName = name
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	hasOAuth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	hasServiceAccount := c.ServiceAccountPath != ""

	if !hasOAuth && !hasServiceAccount {
		return fmt.Errorf("%w: no authentication method configured", common.ErrMissingConfig)
	}

	if hasOAuth && hasServiceAccount {
		return fmt.Errorf("%w: multiple authentication methods configured; use either OAuth2 or service account", common.ErrInvalidConfig)
	}

	return nil
}
