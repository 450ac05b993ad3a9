package configs

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfigDefaults(t *testing.T) {
	cfg := GetDefaultConfig()
	assert.NoError(t, ValidateConfig(cfg))
}

func TestValidateConfigRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing database dir", func(c *Config) { c.Database.Dir = "" }},
		{"single band bound", func(c *Config) { c.Spectral.HRBand = []float64{1.0} }},
		{"negative band bound", func(c *Config) { c.Spectral.HRBand = []float64{-1, 2} }},
		{"zero segment length", func(c *Config) { c.Spectral.SegmentLength = 0 }},
		{"overlap of one", func(c *Config) { c.Spectral.Overlap = 1.0 }},
		{"zero radius", func(c *Config) { c.Spectral.NeighborhoodRadius = 0 }},
		{"bad mode", func(c *Config) { c.Spectral.Mode = "bpm" }},
		{"bad layout", func(c *Config) { c.Spectral.Layout = "rows" }},
		{"bad units", func(c *Config) { c.Database.Units = "volts" }},
		{"zero concurrency", func(c *Config) { c.Batch.MaxConcurrency = 0 }},
		{"zero timeout", func(c *Config) { c.Batch.Timeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, ValidateConfig(cfg))
		})
	}
}

func TestSetDefaultsDoesNotOverride(t *testing.T) {
	v := viper.New()
	v.Set("spectral.segment_length", 1024)
	v.Set("batch.timeout", time.Minute)

	SetDefaults(v)

	assert.Equal(t, 1024, v.GetInt("spectral.segment_length"))
	assert.Equal(t, time.Minute, v.GetDuration("batch.timeout"))
	assert.Equal(t, "heart_rate", v.GetString("spectral.mode"))
}

func TestEstimatorConfigBandNormalization(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Spectral.HRBand = []float64{1.5, 0.8, 1.2}

	ec := cfg.EstimatorConfig()
	require.Equal(t, [2]float64{0.8, 1.5}, ec.HRBand)
	assert.Equal(t, cfg.Spectral.SegmentLength, ec.Welch.SegmentLength)
}
