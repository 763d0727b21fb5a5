package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/smokeplan/internal/engine"
)

var (
	exportFormat  string
	exportOut     string
	exportArchive bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a week's plan as CSV or JSON",
	Long: `Write the plan as one record per slot (empty slots included) to
plan_uzeni_YYYY_MM_DD.csv or .json in the exports directory or --out.

With --archive a compressed, digest-stamped copy of the plan is also stored
in the configured archive store (or next to the export). Archives are
written once per plan revision.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := eng.Export(cmd.Context(), &engine.ExportRequest{
			Week:    weekFlag,
			Format:  exportFormat,
			OutDir:  exportOut,
			Archive: exportArchive,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), result)
		}

		PrintSuccess(fmt.Sprintf("Exported %s to %s", PrintCount(result.Records, "record", "records"), result.Path))
		PrintLabelValue("Occupied slots", fmt.Sprintf("%d", result.Occupied))
		PrintLabelValue("SHA-256", result.Checksum)
		switch {
		case result.AlreadyArchived:
			PrintInfo(fmt.Sprintf("Archive %s already stored", result.ArchiveKey))
		case result.ArchiveLocation != "":
			PrintSuccess(fmt.Sprintf("Archived to %s", result.ArchiveLocation))
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", engine.FormatCSV, "Output format: csv or json")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output directory (default: $SMOKEPLAN_ROOT/exports)")
	exportCmd.Flags().BoolVar(&exportArchive, "archive", false, "Also store a compressed plan archive")
}
