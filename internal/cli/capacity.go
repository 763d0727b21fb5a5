package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var capacityCategory string

var capacityCmd = &cobra.Command{
	Use:   "capacity",
	Short: "Show the slot capacity of each smoker",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		result := eng.Capacity(capacityCategory)
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), result)
		}

		title := "Slot capacity"
		if result.Category != "" {
			title = fmt.Sprintf("Slot capacity for %s", result.Category)
		}
		PrintSection(title)
		rows := make([][]string, 0, len(result.Rows))
		for _, row := range result.Rows {
			c := formatQty(row.Capacity) + " kg"
			if row.Unlimited {
				c = "unlimited"
			}
			note := ""
			if row.Reserved {
				note = "reserved for " + result.ReservedCategory
			}
			rows = append(rows, []string{fmt.Sprintf("%d", row.Unit), c, note})
		}
		PrintTable([]string{"SMOKER", "CAPACITY", ""}, rows)
		return nil
	},
}

func init() {
	capacityCmd.Flags().StringVarP(&capacityCategory, "category", "c", "", "Product category")
}
