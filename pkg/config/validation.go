package config

import (
	"fmt"
)

// validate validates the configuration
func validate(cfg *Config) error {
	// Validate harness config
	if cfg.Harness.NumSamples <= 0 {
		return fmt.Errorf("harness.num_samples must be positive")
	}
	if !cfg.Harness.SingleChannel && !cfg.Harness.DualChannel {
		return fmt.Errorf("harness requires at least one of single_channel or dual_channel")
	}

	// Validate dump config
	if cfg.Dump.Enabled {
		if cfg.Dump.Columns <= 0 {
			return fmt.Errorf("dump.columns must be positive")
		}
		if cfg.Dump.CellWidth <= 0 {
			return fmt.Errorf("dump.cell_width must be positive")
		}
	}

	// Validate metrics config
	if cfg.Metrics.Enabled && cfg.Metrics.Prometheus.Enabled {
		if cfg.Metrics.Prometheus.Port <= 0 || cfg.Metrics.Prometheus.Port > 65535 {
			return fmt.Errorf("metrics.prometheus.port must be between 1 and 65535")
		}
		if cfg.Metrics.Prometheus.Path == "" {
			return fmt.Errorf("metrics.prometheus.path is required when prometheus is enabled")
		}
	}

	// Validate web config
	if cfg.Web.Enabled {
		if cfg.Web.Port <= 0 || cfg.Web.Port > 65535 {
			return fmt.Errorf("web.port must be between 1 and 65535")
		}
	}

	return nil
}
