package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/sheets"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("FINTRACK_TEST_DIR", "/srv/data")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "tilde", in: "~", want: home},
		{name: "tilde path", in: "~/fintrack.db", want: filepath.Join(home, "fintrack.db")},
		{name: "env var", in: "$FINTRACK_TEST_DIR/fintrack.db", want: "/srv/data/fintrack.db"},
		{name: "absolute", in: "/tmp/x.db", want: "/tmp/x.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	s, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, api.DefaultBaseURL, s.APIBaseURL)
	assert.Equal(t, api.DefaultTimeout, s.APITimeout)
	assert.Equal(t, "R$", s.Display.CurrencySymbol)
	assert.Equal(t, ",", s.Display.DecimalSeparator)
	assert.Equal(t, "info", s.LogLevel)
	assert.True(t, filepath.IsAbs(s.StoragePath))
}

func TestReadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `api:
  base_url: https://finance.example.com/api
  timeout: 5s
display:
  currency_symbol: "$"
  thousands_separator: ","
  decimal_separator: "."
storage:
  path: ` + filepath.Join(dir, "db.sqlite") + `
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	v := viper.New()
	require.NoError(t, Read(v, path))

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "https://finance.example.com/api", s.APIBaseURL)
	assert.Equal(t, 5*time.Second, s.APITimeout)
	assert.Equal(t, "$", s.Display.CurrencySymbol)
	assert.Equal(t, ".", s.Display.DecimalSeparator)
	assert.Equal(t, filepath.Join(dir, "db.sqlite"), s.StoragePath)
}

func TestReadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  timeout: 10s\n"), 0600))
	t.Setenv("FINTRACK_API_BASE_URL", "http://10.0.0.2:5001/api")

	v := viper.New()
	require.NoError(t, Read(v, path))

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.2:5001/api", s.APIBaseURL)
	assert.Equal(t, 10*time.Second, s.APITimeout)
}

func TestReadMissingExplicitFile(t *testing.T) {
	v := viper.New()
	require.Error(t, Read(v, filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestLoadMissingBaseURL(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("api.base_url", "")

	_, err := Load(v)
	require.ErrorIs(t, err, ErrMissing)
}

func TestLoadSheetsConfig(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "")
	t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "")

	t.Run("no auth", func(t *testing.T) {
		v := viper.New()
		v.Set("sheets.token_file", filepath.Join(t.TempDir(), "absent.json"))
		_, err := LoadSheetsConfig(v)
		require.ErrorIs(t, err, sheets.ErrNoAuth)
	})

	t.Run("token file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "token.json")
		require.NoError(t, os.WriteFile(tokenFile, []byte(`{"refresh_token":"r"}`), 0600))

		v := viper.New()
		v.Set("sheets.client_id", "id")
		v.Set("sheets.client_secret", "secret")
		v.Set("sheets.token_file", tokenFile)
		v.Set("sheets.batch_size", 50)

		cfg, err := LoadSheetsConfig(v)
		require.NoError(t, err)
		assert.Equal(t, tokenFile, cfg.TokenFile)
		assert.Equal(t, 50, cfg.BatchSize)
		assert.True(t, cfg.EnableFormatting)
	})

	t.Run("service account", func(t *testing.T) {
		v := viper.New()
		v.Set("sheets.service_account_path", "/keys/sa.json")
		v.Set("sheets.spreadsheet_id", "abc")
		v.Set("sheets.formatting", false)

		cfg, err := LoadSheetsConfig(v)
		require.NoError(t, err)
		assert.Equal(t, "/keys/sa.json", cfg.ServiceAccountPath)
		assert.Equal(t, "abc", cfg.SpreadsheetID)
		assert.False(t, cfg.EnableFormatting)
		assert.Empty(t, cfg.TokenFile)
	})
}
