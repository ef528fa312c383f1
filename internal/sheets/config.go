// Package sheets provides the Google Sheets integration: the transaction
// feed reader and the branch registry reader/writer.
package sheets

import (
	"fmt"
	"os"
	"time"

	"github.com/branch-pulse/internal/common"
)

// Config holds the configuration for the Google Sheets clients.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	FeedSpreadsheetID  string
	FeedSheetName      string
	RegistrySheetID    string
	RegistrySheetName  string
	TimeZone           string
	BatchSize          int
	RetryAttempts      int
	RetryDelay         time.Duration
	EnableFormatting   bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		FeedSheetName:     "Transactions",
		RegistrySheetName: "Branches",
		TimeZone:          "Asia/Manila",
		BatchSize:         1000,
		RetryAttempts:     3,
		RetryDelay:        time.Second,
		EnableFormatting:  true,
	}
}

// LoadFromEnv loads the configuration from environment variables.
func (c *Config) LoadFromEnv() error {
	c.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	c.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	c.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")

	// Service account path (alternative to OAuth2)
	c.ServiceAccountPath = os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")

	c.FeedSpreadsheetID = os.Getenv("PULSE_FEED_SPREADSHEET_ID")
	c.RegistrySheetID = os.Getenv("PULSE_REGISTRY_SPREADSHEET_ID")

	if name := os.Getenv("PULSE_FEED_SHEET_NAME"); name != "" {
		c.FeedSheetName = name
	}
	if name := os.Getenv("PULSE_REGISTRY_SHEET_NAME"); name != "" {
		c.RegistrySheetName = name
	}

	if c.ServiceAccountPath == "" && (c.ClientID == "" || c.ClientSecret == "" || c.RefreshToken == "") {
		return fmt.Errorf("%w: provide either a service account path or OAuth2 credentials", common.ErrMissingConfig)
	}

	return nil
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

	if c.FeedSheetName == "" {
		return fmt.Errorf("%w: feed sheet name must not be empty", common.ErrInvalidConfig)
	}

	if c.RegistrySheetName == "" {
		return fmt.Errorf("%w: registry sheet name must not be empty", common.ErrInvalidConfig)
	}

	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive", common.ErrInvalidConfig)
	}

	if c.RetryAttempts < 0 {
		return fmt.Errorf("%w: retry attempts cannot be negative", common.ErrInvalidConfig)
	}

	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: retry delay cannot be negative", common.ErrInvalidConfig)
	}

	return nil
}
