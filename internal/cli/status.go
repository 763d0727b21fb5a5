package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/smokeplan/internal/engine"
)

var statusUnplanned bool

var statusCmd = &cobra.Command{
	Use:   "status <items-file>",
	Short: "Show which items the week's plan contains",
	Long: `Check an item list against the week's plan. An item is planned when its
batch (or a split part of it) occurs anywhere in the plan; the smoking date is
the first day it appears on.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, week, err := loadItems(args[0])
		if err != nil {
			return err
		}

		eng, cleanup, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := eng.Status(cmd.Context(), &engine.StatusRequest{Week: week, Items: file.Items})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), result)
		}

		PrintSection(fmt.Sprintf("Status for week %s", result.Week))
		if !result.PlanFound {
			PrintWarning("No plan saved for this week")
		}
		rows := make([][]string, 0, len(result.Items))
		if statusUnplanned {
			for _, it := range result.Remaining {
				rows = append(rows, []string{it.Name, formatQty(it.Quantity) + it.Unit, "no", ""})
			}
		} else {
			for _, st := range result.Items {
				planned := "no"
				if st.Planned {
					planned = "yes"
				}
				rows = append(rows, []string{st.Item.Name, formatQty(st.Item.Quantity) + st.Item.Unit, planned, st.SmokingDate})
			}
		}
		if len(rows) == 0 {
			PrintEmptyState("Nothing to show")
		} else {
			PrintTable([]string{"NAME", "QUANTITY", "PLANNED", "SMOKING DATE"}, rows)
		}
		fmt.Println()
		PrintLabelValue("Planned", fmt.Sprintf("%d", result.Planned))
		PrintLabelValue("Unplanned", fmt.Sprintf("%d", result.Unplanned))
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusUnplanned, "unplanned", false, "List only unplanned items")
}
