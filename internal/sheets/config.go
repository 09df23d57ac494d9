// Package sheets exports a period report to Google Sheets.
package sheets

import (
	"errors"
	"fmt"
	"os"
)

// DefaultSheetName names spreadsheets created without an explicit name.
const DefaultSheetName = "Finance Report"

// Configuration errors.
var (
	ErrNoAuth       = errors.New("no authentication method configured")
	ErrMultipleAuth = errors.New("multiple authentication methods configured; use either OAuth2 or service account")
	ErrBadBatchSize = errors.New("batch size must be positive")
)

// Config holds the configuration for the Google Sheets writer.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	TokenFile          string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	TimeZone           string
	CurrencyPattern    string
	BatchSize          int
	EnableFormatting   bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName:  DefaultSheetName,
		EnableFormatting: true,
		TimeZone:         "America/Sao_Paulo",
		CurrencyPattern:  `"R$" #,##0.00`,
		BatchSize:        1000,
	}
}

// LoadFromEnv fills unset credentials from GOOGLE_SHEETS_* variables.
func (c *Config) LoadFromEnv() {
	setIfEmpty(&c.ClientID, "GOOGLE_SHEETS_CLIENT_ID")
	setIfEmpty(&c.ClientSecret, "GOOGLE_SHEETS_CLIENT_SECRET")
	setIfEmpty(&c.RefreshToken, "GOOGLE_SHEETS_REFRESH_TOKEN")
	setIfEmpty(&c.ServiceAccountPath, "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")
	setIfEmpty(&c.SpreadsheetID, "GOOGLE_SHEETS_SPREADSHEET_ID")
	if c.SpreadsheetName == "" || c.SpreadsheetName == DefaultSheetName {
		if v := os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"); v != "" {
			c.SpreadsheetName = v
		}
	}
}

func setIfEmpty(dst *string, env string) {
	if *dst == "" {
		*dst = os.Getenv(env)
	}
}

// hasOAuth reports whether OAuth2 client credentials plus a refresh token
// (inline or in TokenFile) are configured.
func (c *Config) hasOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != "" && (c.RefreshToken != "" || c.TokenFile != "")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	hasServiceAccount := c.ServiceAccountPath != ""

	if !c.hasOAuth() && !hasServiceAccount {
		return ErrNoAuth
	}
	if c.hasOAuth() && hasServiceAccount {
		return ErrMultipleAuth
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrBadBatchSize, c.BatchSize)
	}
	return nil
}
