package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port string

	// Store connection.
	StoreDriver string // sqlite, mysql or memory
	StoreDSN    string

	// Provider selection and credentials.
	Provider          string // openweather or weatherapi
	OpenWeatherAPIKey string
	WeatherAPIKey     string
	ProviderTimeout   time.Duration

	// FrontendURL is the allowed cross-origin client URL ("*" allows any).
	FrontendURL string

	// ServiceURL is where the browser dashboard sends its API calls.
	ServiceURL string

	StoreProbeInterval time.Duration
	ShutdownTimeout    time.Duration

	LogLevel string
}

// Load reads configuration from the environment (and .env if present) with
// sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Info("no usable .env file", "error", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "5000")

	cfg.StoreDriver = strings.ToLower(getenvDefault("STORE_DRIVER", "sqlite"))
	cfg.StoreDSN = getenvDefault("STORE_DSN", defaultDSN(cfg.StoreDriver))

	cfg.Provider = strings.ToLower(getenvDefault("WEATHER_PROVIDER", "openweather"))
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")

	var err error
	if cfg.ProviderTimeout, err = getenvDuration("PROVIDER_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.StoreProbeInterval, err = getenvDuration("STORE_PROBE_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	cfg.FrontendURL = getenvDefault("FRONTEND_URL", "*")
	cfg.ServiceURL = strings.TrimRight(getenvDefault("SERVICE_URL", "http://localhost:"+cfg.Port), "/")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks option values that cannot be defaulted.
func (c *AppConfig) Validate() error {
	switch c.StoreDriver {
	case "sqlite", "memory":
	case "mysql":
		if c.StoreDSN == "" {
			return fmt.Errorf("STORE_DSN is required for the mysql store")
		}
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.Provider {
	case "openweather", "weatherapi":
	default:
		return fmt.Errorf("invalid WEATHER_PROVIDER %q", c.Provider)
	}

	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive")
	}
	return nil
}

// ProviderAPIKey returns the credential of the selected provider.
func (c *AppConfig) ProviderAPIKey() string {
	if c.Provider == "weatherapi" {
		return c.WeatherAPIKey
	}
	return c.OpenWeatherAPIKey
}

func defaultDSN(driver string) string {
	if driver == "sqlite" {
		return "weather.db"
	}
	return ""
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
