package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Harness HarnessConfig `mapstructure:"harness"`
	Dump    DumpConfig    `mapstructure:"dump"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Web     WebConfig     `mapstructure:"web"`
}

// HarnessConfig selects which test cases the battery runs
type HarnessConfig struct {
	NumSamples    int  `mapstructure:"num_samples"`    // Samples per test buffer
	SingleChannel bool `mapstructure:"single_channel"` // Include single-channel (no-op) cases
	DualChannel   bool `mapstructure:"dual_channel"`   // Include two-channel cases
	Metadata      bool `mapstructure:"metadata"`       // Include metadata-prefix formats
}

// DumpConfig controls diagnostic hex dumping
type DumpConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	Columns   int  `mapstructure:"columns"`
	CellWidth int  `mapstructure:"cell_width"`
	Excerpt   bool `mapstructure:"excerpt"` // Head/tail excerpt of each interleaved buffer
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled    bool             `mapstructure:"enabled"`
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

// PrometheusConfig holds Prometheus metrics configuration
type PrometheusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// WebConfig holds the live observation endpoint configuration
type WebConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// Load loads configuration from file and environment variables
func Load(configFile string) (*Config, error) {
	// Set defaults
	setDefaults()

	// Set config file
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
	}

	// Environment variables
	viper.SetEnvPrefix("IQVERIFY")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found is OK, use defaults
		} else if os.IsNotExist(err) {
			// File explicitly specified but doesn't exist - that's also OK
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal to struct
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Harness defaults match the data path's standard buffer size
	viper.SetDefault("harness.num_samples", 16384)
	viper.SetDefault("harness.single_channel", true)
	viper.SetDefault("harness.dual_channel", true)
	viper.SetDefault("harness.metadata", true)

	// Dump defaults
	viper.SetDefault("dump.enabled", false)
	viper.SetDefault("dump.columns", 8)
	viper.SetDefault("dump.cell_width", 4)
	viper.SetDefault("dump.excerpt", false)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	// Metrics defaults
	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.prometheus.enabled", false)
	viper.SetDefault("metrics.prometheus.port", 9090)
	viper.SetDefault("metrics.prometheus.path", "/metrics")

	// Web defaults
	viper.SetDefault("web.enabled", false)
	viper.SetDefault("web.host", "127.0.0.1")
	viper.SetDefault("web.port", 8080)
}
