package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the stock change calculator.
type Config struct {
	// Base URLs for external services (configurable for testing)
	OpenFIGIBaseURL string `mapstructure:"openfigi_base_url"`
	YahooBaseURL    string `mapstructure:"yahoo_base_url"`

	// Optional OpenFIGI API key; raises the anonymous rate limits
	OpenFIGIAPIKey string `mapstructure:"openfigi_api_key"`

	// Per-request HTTP timeout
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`

	// Minimum gaps between calls to the OpenFIGI endpoints
	// (mapping: 25 req/min anonymous; search: 5 req/min plus a buffer)
	MappingDelay time.Duration `mapstructure:"mapping_delay"`
	SearchDelay  time.Duration `mapstructure:"search_delay"`

	// Maximum jobs per mapping request (anonymous limit is 10)
	MappingBatchSize int `mapstructure:"mapping_batch_size"`
}

// Load reads configuration from environment variables and an optional
// config file. Environment variables take precedence over file values.
//
// Recognised environment variables:
//   - OPENFIGI_BASE_URL (optional, defaults to production)
//   - YAHOO_BASE_URL (optional, defaults to production)
//   - OPENFIGI_API_KEY (optional)
func Load() (*Config, error) {
	v := viper.New()

	v.AutomaticEnv()

	// Defaults match the providers' published anonymous limits
	v.SetDefault("openfigi_base_url", "https://api.openfigi.com/v3")
	v.SetDefault("yahoo_base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("http_timeout", "30s")
	v.SetDefault("mapping_delay", "2.5s")
	v.SetDefault("search_delay", "13s")
	v.SetDefault("mapping_batch_size", 10)

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.stockchange")

	_ = v.ReadInConfig()

	v.BindEnv("openfigi_base_url", "OPENFIGI_BASE_URL")
	v.BindEnv("yahoo_base_url", "YAHOO_BASE_URL")
	v.BindEnv("openfigi_api_key", "OPENFIGI_API_KEY")

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.MappingBatchSize < 1 {
		return nil, fmt.Errorf("mapping_batch_size must be at least 1, got %d", config.MappingBatchSize)
	}

	return config, nil
}
