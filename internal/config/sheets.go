package config

import (
	"github.com/spf13/viper"

	"github.com/tagsnap/tagsnap/internal/export"
)

// LoadExportConfig loads Google Sheets export configuration.
// Precedence:
// 1. Viper configuration (from config file or TAGSNAP_ env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. Default values
func LoadExportConfig() (*export.Config, error) {
	config := export.DefaultConfig()

	if v := viper.GetString("export.service_account_path"); v != "" {
		config.ServiceAccountPath = ExpandPath(v)
	}
	if v := viper.GetString("export.client_id"); v != "" {
		config.ClientID = v
	}
	if v := viper.GetString("export.client_secret"); v != "" {
		config.ClientSecret = v
	}
	if v := viper.GetString("export.refresh_token"); v != "" {
		config.RefreshToken = v
	}
	if v := viper.GetString("export.spreadsheet_id"); v != "" {
		config.SpreadsheetID = v
	}
	if v := viper.GetString("export.spreadsheet_name"); v != "" {
		config.SpreadsheetName = v
	}

	config.LoadFromEnv()
	if config.ServiceAccountPath != "" {
		config.ServiceAccountPath = ExpandPath(config.ServiceAccountPath)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
