package config

import (
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/Veraticus/fintrack/internal/sheets"
)

// DefaultSheetsTokenFile is where `export sheets auth` stores the OAuth2 token.
func DefaultSheetsTokenFile() string {
	return filepath.Join(ConfigDir(), "sheets-token.json")
}

// LoadSheetsConfig loads Google Sheets configuration. Precedence: viper
// (config file or FINTRACK_ env vars), then GOOGLE_SHEETS_* variables, then defaults.
// A token file written by `export sheets auth` is used when no refresh token is configured.
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	if s := v.GetString("sheets.service_account_path"); s != "" {
		config.ServiceAccountPath = ExpandPath(s)
	}
	setString(v, "sheets.client_id", &config.ClientID)
	setString(v, "sheets.client_secret", &config.ClientSecret)
	setString(v, "sheets.refresh_token", &config.RefreshToken)
	setString(v, "sheets.spreadsheet_id", &config.SpreadsheetID)
	setString(v, "sheets.spreadsheet_name", &config.SpreadsheetName)
	setString(v, "sheets.time_zone", &config.TimeZone)
	setString(v, "sheets.currency_pattern", &config.CurrencyPattern)
	if n := v.GetInt("sheets.batch_size"); n > 0 {
		config.BatchSize = n
	}
	if v.IsSet("sheets.formatting") {
		config.EnableFormatting = v.GetBool("sheets.formatting")
	}

	config.LoadFromEnv()
	config.ServiceAccountPath = ExpandPath(config.ServiceAccountPath)

	if config.RefreshToken == "" && config.ServiceAccountPath == "" {
		tokenFile := ExpandPath(v.GetString("sheets.token_file"))
		if tokenFile == "" {
			tokenFile = DefaultSheetsTokenFile()
		}
		if fileExists(tokenFile) {
			config.TokenFile = tokenFile
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func setString(v *viper.Viper, key string, dst *string) {
	if s := v.GetString(key); s != "" {
		*dst = s
	}
}
