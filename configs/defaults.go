package configs

import (
	"time"

	"github.com/spf13/viper"
)

// SetDefaults sets default configuration values for all components
func SetDefaults(v *viper.Viper) {
	// Application defaults
	if !v.IsSet("verbose") {
		v.Set("verbose", false)
	}
	if !v.IsSet("log_level") {
		v.Set("log_level", "info")
	}
	if !v.IsSet("output_format") {
		v.Set("output_format", "table")
	}

	// Database defaults
	if !v.IsSet("database.dir") {
		v.Set("database.dir", "./ludb")
	}
	if !v.IsSet("database.leads") {
		v.Set("database.leads", []string{})
	}
	if !v.IsSet("database.units") {
		v.Set("database.units", "mV")
	}

	// Spectral estimation defaults
	if !v.IsSet("spectral.hr_band") {
		v.Set("spectral.hr_band", []float64{0.5, 4.0})
	}
	if !v.IsSet("spectral.neighborhood_radius") {
		v.Set("spectral.neighborhood_radius", 1)
	}
	if !v.IsSet("spectral.segment_length") {
		v.Set("spectral.segment_length", 4096)
	}
	if !v.IsSet("spectral.overlap") {
		v.Set("spectral.overlap", 0.5)
	}
	if !v.IsSet("spectral.mode") {
		v.Set("spectral.mode", "heart_rate")
	}
	if !v.IsSet("spectral.layout") {
		v.Set("spectral.layout", "lead_first")
	}

	// Batch defaults
	if !v.IsSet("batch.timeout") {
		v.Set("batch.timeout", 5*time.Minute)
	}
	if !v.IsSet("batch.max_concurrency") {
		v.Set("batch.max_concurrency", 4)
	}
	if !v.IsSet("batch.continue_on_error") {
		v.Set("batch.continue_on_error", true)
	}
}

// GetDefaultConfig returns a Config struct with all default values set
func GetDefaultConfig() *Config {
	return &Config{
		Verbose:      false,
		LogLevel:     "info",
		OutputFormat: "table",
		Database:     GetDefaultDatabaseConfig(),
		Spectral:     GetDefaultSpectralConfig(),
		Batch:        GetDefaultBatchConfig(),
	}
}

// GetDefaultDatabaseConfig returns default LUDB access settings
func GetDefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Dir:   "./ludb",
		Leads: nil,
		Units: "mV",
	}
}

// GetDefaultSpectralConfig returns default estimation settings covering
// roughly 30-240 bpm
func GetDefaultSpectralConfig() SpectralConfig {
	return SpectralConfig{
		HRBand:             []float64{0.5, 4.0},
		NeighborhoodRadius: 1,
		SegmentLength:      4096,
		Overlap:            0.5,
		Mode:               "heart_rate",
		Layout:             "lead_first",
	}
}

// GetDefaultBatchConfig returns default batch execution settings
func GetDefaultBatchConfig() BatchConfig {
	return BatchConfig{
		Timeout:         5 * time.Minute,
		MaxConcurrency:  4,
		ContinueOnError: true,
	}
}
