package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/smokeplan/internal/engine"
)

var (
	prefillDryRun  bool
	prefillReplace bool
)

var prefillCmd = &cobra.Command{
	Use:   "prefill <items-file>",
	Short: "Build a week's plan from an item list",
	Long: `Place an item list onto an empty week grid and save it as the week's plan.

The item file is JSON or YAML (by extension): either a list of items or an
object with "week" and "items". Identical products are merged and placed
largest first on the least-loaded day and smoker, split across slots when
they exceed a slot's capacity. Anything that does not fit is reported.

An existing plan for the week is only overwritten with --replace.`,
	Args: cobra.ExactArgs(1),
	RunE: runPrefill,
}

func init() {
	prefillCmd.Flags().BoolVar(&prefillDryRun, "dry-run", false, "Compute the plan without saving it")
	prefillCmd.Flags().BoolVar(&prefillReplace, "replace", false, "Overwrite an existing plan for the week")
}

func runPrefill(cmd *cobra.Command, args []string) error {
	file, week, err := loadItems(args[0])
	if err != nil {
		return err
	}

	eng, cleanup, err := newEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := eng.Prefill(cmd.Context(), &engine.PrefillRequest{
		Items:   file.Items,
		Week:    week,
		DryRun:  prefillDryRun,
		Replace: prefillReplace,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), result)
	}

	title := "Prefill"
	if prefillDryRun {
		title = "Dry Run: Prefill"
	}
	PrintSection(title)
	PrintLabelValue("Week", result.Week)
	PrintLabelValue("Products", fmt.Sprintf("%d", result.Report.Groups))
	PrintLabelValue("Placements", fmt.Sprintf("%d", result.Report.Placements))
	PrintLabelValue("Placed", formatQty(result.Report.PlacedQty))
	fmt.Println()

	if len(result.Report.Unplaced) > 0 {
		PrintWarning(fmt.Sprintf("%s could not be placed:", PrintCount(len(result.Report.Unplaced), "product", "products")))
		rows := make([][]string, 0, len(result.Report.Unplaced))
		for _, u := range result.Report.Unplaced {
			rows = append(rows, []string{u.Name, u.Unit, formatQty(u.Requested), formatQty(u.Placed), formatQty(u.Remaining)})
		}
		PrintTable([]string{"NAME", "UNIT", "REQUESTED", "PLACED", "REMAINING"}, rows)
		fmt.Println()
	}

	switch {
	case !result.Saved:
		PrintWarning("Run without --dry-run to save the plan")
	case result.Replaced:
		PrintSuccess(fmt.Sprintf("Replaced plan for week %s", result.Week))
	default:
		PrintSuccess(fmt.Sprintf("Saved plan for week %s", result.Week))
	}
	return nil
}
