package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// recordsCmd represents the records command
var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List the records in the database directory",
	Long: `List every record in the configured database directory.

Records come from the RECORDS index file when one exists, otherwise from
a scan of the header files in the directory.

Examples:
  # List records from the default database directory
  ecg-metrics records

  # List records from an explicit directory
  ecg-metrics records --database /data/ludb`,
	Args: cobra.NoArgs,
	RunE: runRecords,
}

func init() {
	rootCmd.AddCommand(recordsCmd)
}

func runRecords(cmd *cobra.Command, args []string) error {
	appCtx, err := newAppContext()
	if err != nil {
		return err
	}

	records, err := appCtx.Reader().Records()
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	renderer, err := appCtx.Renderer()
	if err != nil {
		return err
	}
	return renderer.Records(appCtx.Config.Database.Dir, records)
}
