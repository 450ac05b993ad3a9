package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var wavesLeads []string

// wavesCmd represents the waves command
var wavesCmd = &cobra.Command{
	Use:   "waves [record]",
	Short: "Show wave delineation for a record",
	Long: `Read the per-lead delineation annotations of one record and print the
P wave, QRS complex and T wave boundaries they describe.

Each wave is reported with its onset, peak and offset sample indices and
its duration in milliseconds.

Examples:
  # Show all delineated waves of record 21
  ecg-metrics waves 21

  # Only lead II, as JSON
  ecg-metrics waves --leads ii -o json 21`,
	Args: cobra.ExactArgs(1),
	RunE: runWaves,
}

func init() {
	rootCmd.AddCommand(wavesCmd)

	wavesCmd.Flags().StringSliceVar(&wavesLeads, "leads", nil,
		"leads to include (default all twelve)")
}

func runWaves(cmd *cobra.Command, args []string) error {
	record := args[0]

	appCtx, err := newAppContext()
	if err != nil {
		return err
	}

	leads := wavesLeads
	if len(leads) == 0 {
		leads = appCtx.Config.Database.Leads
	}

	waves, err := appCtx.Reader().LoadAllWaves(record, leads)
	if err != nil {
		return fmt.Errorf("failed to load waves for record %s: %w", record, err)
	}

	renderer, err := appCtx.Renderer()
	if err != nil {
		return err
	}
	return renderer.Waves(record, waves)
}
