package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/branch-pulse/internal/sheets"
)

// LoadSheetsConfig loads Google Sheets configuration with this precedence:
// 1. Viper configuration (config file or PULSE_ env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*, PULSE_*)
// 3. Default values
func LoadSheetsConfig() (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	if v := viper.GetString("sheets.service_account_path"); v != "" {
		config.ServiceAccountPath = ExpandPath(v)
	}
	if v := viper.GetString("sheets.client_id"); v != "" {
		config.ClientID = v
	}
	if v := viper.GetString("sheets.client_secret"); v != "" {
		config.ClientSecret = v
	}
	if v := viper.GetString("sheets.refresh_token"); v != "" {
		config.RefreshToken = v
	}
	if v := viper.GetString("sheets.feed_spreadsheet_id"); v != "" {
		config.FeedSpreadsheetID = v
	}
	if v := viper.GetString("sheets.feed_sheet_name"); v != "" {
		config.FeedSheetName = v
	}
	if v := viper.GetString("sheets.registry_spreadsheet_id"); v != "" {
		config.RegistrySheetID = v
	}
	if v := viper.GetString("sheets.registry_sheet_name"); v != "" {
		config.RegistrySheetName = v
	}
	if viper.IsSet("sheets.enable_formatting") {
		config.EnableFormatting = viper.GetBool("sheets.enable_formatting")
	}
	if v := viper.GetInt("sheets.batch_size"); v > 0 {
		config.BatchSize = v
	}

	// Fall back to direct environment variables.
	if config.ServiceAccountPath == "" {
		if v := os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"); v != "" {
			config.ServiceAccountPath = ExpandPath(v)
		}
	}
	if config.ClientID == "" {
		config.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if config.ClientSecret == "" {
		config.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if config.RefreshToken == "" {
		config.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	}
	if config.FeedSpreadsheetID == "" {
		config.FeedSpreadsheetID = os.Getenv("PULSE_FEED_SPREADSHEET_ID")
	}
	if config.RegistrySheetID == "" {
		config.RegistrySheetID = os.Getenv("PULSE_REGISTRY_SPREADSHEET_ID")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
