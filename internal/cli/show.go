package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/smokeplan/internal/engine"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display a week's plan",
	Long: `Display the plan grid of a week: one table per day with smokers as columns
and positions as rows. Split parts are marked pN, annotated slots with *.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := eng.Show(cmd.Context(), &engine.ShowRequest{Week: weekFlag})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), result)
		}

		PrintSection(fmt.Sprintf("Plan for week %s", result.Week))
		fmt.Println(renderPlan(result, eng.Capacity("")))
		fmt.Println()
		PrintLabelValue("Revision", result.Plan.Revision)
		PrintLabelValue("Updated", result.Plan.UpdatedAt.Local().Format("2006-01-02 15:04"))
		if !result.Verified {
			PrintWarning("Plan content does not match its digest; it was changed outside smokeplan")
		}
		if n := len(result.Plan.Unplaced); n > 0 {
			PrintWarning(fmt.Sprintf("%s left unplaced by prefill", PrintCount(n, "product", "products")))
			for _, u := range result.Plan.Unplaced {
				PrintList([]string{fmt.Sprintf("%s: %s %s", u.Name, formatQty(u.Remaining), u.Unit)}, 1)
			}
		}
		return nil
	},
}
