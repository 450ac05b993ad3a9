package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	batchTimeout     time.Duration
	batchConcurrency int
	batchFailFast    bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [records...]",
	Short: "Estimate heart rate across many records",
	Long: `Run the spectral estimator over many records concurrently and report
per-record results together with summary statistics.

Without arguments, every record in the database directory is processed.
Records whose spectra cannot support an estimate are counted as failures
with a typed error code; the run continues unless --fail-fast is set.

Examples:
  # Process the whole database with four workers
  ecg-metrics batch

  # Process selected records with more workers, as JSON
  ecg-metrics batch --concurrency 8 -o json 1 2 3 21

  # Abort at the first failure
  ecg-metrics batch --fail-fast`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 0,
		"overall batch timeout (default from configuration)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0,
		"maximum concurrent records (default from configuration)")
	batchCmd.Flags().BoolVar(&batchFailFast, "fail-fast", false,
		"abort on the first record failure")
}

func runBatch(cmd *cobra.Command, args []string) error {
	appCtx, err := newAppContext()
	if err != nil {
		return err
	}

	if batchConcurrency > 0 {
		appCtx.Config.Batch.MaxConcurrency = batchConcurrency
	}
	if batchFailFast {
		appCtx.Config.Batch.ContinueOnError = false
	}

	records := args
	if len(records) == 0 {
		if records, err = appCtx.Reader().Records(); err != nil {
			return fmt.Errorf("failed to list records: %w", err)
		}
	}
	if len(records) == 0 {
		return fmt.Errorf("no records found in %s", appCtx.Config.Database.Dir)
	}

	timeout := appCtx.Config.Batch.Timeout
	if batchTimeout > 0 {
		timeout = batchTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	processor, err := appCtx.BatchProcessor()
	if err != nil {
		return err
	}

	summary, err := processor.Run(ctx, records)
	if err != nil {
		return fmt.Errorf("batch run failed: %w", err)
	}

	renderer, err := appCtx.Renderer()
	if err != nil {
		return err
	}
	return renderer.BatchSummary(summary)
}
