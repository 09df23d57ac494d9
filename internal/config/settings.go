package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Veraticus/fintrack/internal/aggregate"
	"github.com/Veraticus/fintrack/internal/api"
)

// EnvPrefix prefixes environment overrides, e.g. FINTRACK_API_BASE_URL.
const EnvPrefix = "FINTRACK"

// Settings is the resolved application configuration.
type Settings struct {
	APIBaseURL  string
	StoragePath string
	LogLevel    string
	LogFormat   string
	Display     aggregate.Formatter
	APITimeout  time.Duration
}

// SetDefaults registers the default value of every known key.
func SetDefaults(v *viper.Viper) {
	f := aggregate.DefaultFormatter()

	v.SetDefault("api.base_url", api.DefaultBaseURL)
	v.SetDefault("api.timeout", api.DefaultTimeout)
	v.SetDefault("storage.path", "~/.local/share/fintrack/fintrack.db")
	v.SetDefault("display.currency_symbol", f.CurrencySymbol)
	v.SetDefault("display.thousands_separator", f.ThousandsSeparator)
	v.SetDefault("display.decimal_separator", f.DecimalSeparator)
	v.SetDefault("display.date_layout", f.DateLayout)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Read loads .env files, then the config file (explicit path or
// ~/.config/fintrack/config.yaml) and FINTRACK_ environment variables into v.
// A missing config file is not an error.
func Read(v *viper.Viper, cfgFile string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// Load resolves Settings from v.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		APIBaseURL:  v.GetString("api.base_url"),
		APITimeout:  v.GetDuration("api.timeout"),
		StoragePath: ExpandPath(v.GetString("storage.path")),
		LogLevel:    v.GetString("logging.level"),
		LogFormat:   v.GetString("logging.format"),
		Display: aggregate.Formatter{
			CurrencySymbol:     v.GetString("display.currency_symbol"),
			ThousandsSeparator: v.GetString("display.thousands_separator"),
			DecimalSeparator:   v.GetString("display.decimal_separator"),
			DateLayout:         v.GetString("display.date_layout"),
		},
	}

	if s.APIBaseURL == "" {
		return Settings{}, fmt.Errorf("api.base_url: %w", ErrMissing)
	}
	if s.StoragePath == "" {
		return Settings{}, fmt.Errorf("storage.path: %w", ErrMissing)
	}
	if s.APITimeout <= 0 {
		s.APITimeout = api.DefaultTimeout
	}
	if s.Display.DecimalSeparator == "" {
		s.Display.DecimalSeparator = aggregate.DefaultFormatter().DecimalSeparator
	}
	if s.Display.DateLayout == "" {
		s.Display.DateLayout = aggregate.DefaultFormatter().DateLayout
	}
	return s, nil
}

// ErrMissing reports a required setting with no value.
var ErrMissing = errors.New("required setting is empty")

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
