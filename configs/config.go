package configs

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/cardiosignal/ecg-metrics/pkg/ecg/spectral"
	"github.com/cardiosignal/ecg-metrics/pkg/ludb"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	OutputFormat string `mapstructure:"output_format"`

	// Database access
	Database DatabaseConfig `mapstructure:"database"`

	// Spectral estimation settings
	Spectral SpectralConfig `mapstructure:"spectral"`

	// Batch processing settings
	Batch BatchConfig `mapstructure:"batch"`
}

// DatabaseConfig contains LUDB access settings
type DatabaseConfig struct {
	Dir   string   `mapstructure:"dir"`
	Leads []string `mapstructure:"leads"` // empty means all 12
	Units string   `mapstructure:"units"`
}

// SpectralConfig contains heart-rate estimation settings
type SpectralConfig struct {
	// HRBand is the default heart-rate frequency band in Hz; per-call
	// overrides take precedence.
	HRBand             []float64 `mapstructure:"hr_band"`
	NeighborhoodRadius int       `mapstructure:"neighborhood_radius"`
	SegmentLength      int       `mapstructure:"segment_length"`
	Overlap            float64   `mapstructure:"overlap"`
	Mode               string    `mapstructure:"mode"`
	Layout             string    `mapstructure:"layout"`
}

// BatchConfig contains batch execution settings
type BatchConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxConcurrency  int           `mapstructure:"max_concurrency"`
	ContinueOnError bool          `mapstructure:"continue_on_error"`
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config.Database.Dir == "" {
		return fmt.Errorf("database directory must be set")
	}

	if len(config.Spectral.HRBand) < 2 {
		return fmt.Errorf("spectral hr_band needs at least two bounds")
	}
	for _, b := range config.Spectral.HRBand {
		if b <= 0 {
			return fmt.Errorf("spectral hr_band bounds must be positive, got %g", b)
		}
	}

	if config.Spectral.SegmentLength <= 0 {
		return fmt.Errorf("spectral segment length must be positive")
	}

	if config.Spectral.Overlap < 0 || config.Spectral.Overlap >= 1 {
		return fmt.Errorf("spectral overlap must be in [0, 1)")
	}

	if config.Spectral.NeighborhoodRadius <= 0 {
		return fmt.Errorf("spectral neighborhood radius must be positive")
	}

	if _, err := spectral.ParseMode(config.Spectral.Mode); err != nil {
		return fmt.Errorf("spectral mode: %w", err)
	}
	if _, err := spectral.ParseLayout(config.Spectral.Layout); err != nil {
		return fmt.Errorf("spectral layout: %w", err)
	}
	if _, err := ludb.ParseUnits(config.Database.Units); err != nil {
		return fmt.Errorf("database units: %w", err)
	}

	if config.Batch.MaxConcurrency <= 0 {
		return fmt.Errorf("batch max concurrency must be positive")
	}

	if config.Batch.Timeout <= 0 {
		return fmt.Errorf("batch timeout must be positive")
	}

	return nil
}

// EstimatorConfig converts the spectral section into core estimator settings
func (c *Config) EstimatorConfig() spectral.Config {
	cfg := spectral.DefaultConfig()
	if len(c.Spectral.HRBand) >= 2 {
		low, high := c.Spectral.HRBand[0], c.Spectral.HRBand[0]
		for _, b := range c.Spectral.HRBand {
			low = min(low, b)
			high = max(high, b)
		}
		cfg.HRBand = [2]float64{low, high}
	}
	if c.Spectral.NeighborhoodRadius > 0 {
		cfg.NeighborhoodRadius = c.Spectral.NeighborhoodRadius
	}
	if c.Spectral.SegmentLength > 0 {
		cfg.Welch.SegmentLength = c.Spectral.SegmentLength
	}
	if c.Spectral.Overlap >= 0 && c.Spectral.Overlap < 1 {
		cfg.Welch.Overlap = c.Spectral.Overlap
	}
	return cfg
}
