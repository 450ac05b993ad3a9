// Package app wires configuration, logging and the domain components into a
// runnable application.
package app

import (
	"fmt"
	"io"

	"github.com/cardiosignal/ecg-metrics/configs"
	"github.com/cardiosignal/ecg-metrics/internal/batch"
	"github.com/cardiosignal/ecg-metrics/internal/output"
	"github.com/cardiosignal/ecg-metrics/pkg/ecg/spectral"
	"github.com/cardiosignal/ecg-metrics/pkg/logging"
	"github.com/cardiosignal/ecg-metrics/pkg/ludb"
)

// Context holds the application context shared by all commands
type Context struct {
	Config *configs.Config
	Logger logging.Logger
	Out    io.Writer
}

// NewContext builds the application context from loaded configuration
func NewContext(cfg *configs.Config, out io.Writer) (*Context, error) {
	if err := configs.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level := cfg.LogLevel
	if cfg.Verbose {
		level = "debug"
	}
	logger := logging.NewLogger(level)
	logging.SetDefault(logger)

	logger.Debug("Application context initialized", logging.Fields{
		"database_dir":  cfg.Database.Dir,
		"output_format": cfg.OutputFormat,
		"log_level":     level,
	})

	return &Context{
		Config: cfg,
		Logger: logger,
		Out:    out,
	}, nil
}

// Reader returns a database reader over the configured directory
func (c *Context) Reader() *ludb.Reader {
	return ludb.NewReader(c.Config.Database.Dir, c.Logger)
}

// Estimator returns the spectral estimator configured from the spectral
// section, backed by the default Welch PSD
func (c *Context) Estimator() *spectral.Estimator {
	return spectral.NewEstimator(c.Config.EstimatorConfig(), nil, c.Logger)
}

// Renderer returns an output renderer for the configured format
func (c *Context) Renderer() (*output.Renderer, error) {
	format, err := output.ParseFormat(c.Config.OutputFormat)
	if err != nil {
		return nil, err
	}
	return output.NewRenderer(c.Out, format), nil
}

// Mode returns the configured estimation mode
func (c *Context) Mode() (spectral.Mode, error) {
	return spectral.ParseMode(c.Config.Spectral.Mode)
}

// Units returns the configured signal units
func (c *Context) Units() (ludb.Units, error) {
	return ludb.ParseUnits(c.Config.Database.Units)
}

// BatchProcessor returns a worker-pool processor over the configured database
func (c *Context) BatchProcessor() (*batch.Processor, error) {
	mode, err := c.Mode()
	if err != nil {
		return nil, err
	}
	units, err := c.Units()
	if err != nil {
		return nil, err
	}

	cfg := batch.Config{
		Leads:           c.Config.Database.Leads,
		Units:           units,
		Mode:            mode,
		MaxConcurrency:  c.Config.Batch.MaxConcurrency,
		ContinueOnError: c.Config.Batch.ContinueOnError,
	}
	return batch.NewProcessor(c.Reader(), c.Estimator(), cfg, c.Logger), nil
}
