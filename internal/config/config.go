package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	// APIKey is the OpenWeatherMap credential. It is passed explicitly to
	// lookups and never logged.
	APIKey string

	BaseURL     string        `validate:"required,url"`
	HTTPTimeout time.Duration `validate:"gt=0"`

	// WatchInterval controls how often the watch command repeats a lookup.
	WatchInterval time.Duration `validate:"gt=0"`

	Port string `validate:"required,numeric"`
}

var validate = validator.New()

// Load reads configuration from a local .env file (if any) and the
// environment, with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.APIKey = getenvDefault("API_KEY", os.Getenv("OPENWEATHER_API_KEY"))
	if cfg.APIKey == "" {
		log.Println("WARN: API_KEY is not set, lookups will be rejected by the provider")
	}

	cfg.BaseURL = getenvDefault("OPENWEATHER_BASE_URL", "http://api.openweathermap.org/data/2.5/weather")

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	interval, err := time.ParseDuration(getenvDefault("WATCH_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid WATCH_INTERVAL: %w", err)
	}
	cfg.WatchInterval = interval

	cfg.Port = getenvDefault("PORT", "8080")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
