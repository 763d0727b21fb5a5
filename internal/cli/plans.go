package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/smokeplan/internal/state"
)

var plansRmForce bool

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Manage saved plans",
	Long:  `List and delete saved weekly plans.`,
}

var plansLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List saved plans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		plans, err := eng.ListPlans(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), map[string][]state.PlanSummary{"plans": plans})
		}

		if len(plans) == 0 {
			PrintEmptyState("No plans saved")
			return nil
		}
		rows := make([][]string, 0, len(plans))
		for _, p := range plans {
			rows = append(rows, []string{p.Week, p.UpdatedAt.Local().Format("2006-01-02 15:04"), p.Revision})
		}
		PrintTable([]string{"WEEK", "UPDATED", "REVISION"}, rows)
		return nil
	},
}

var plansRmCmd = &cobra.Command{
	Use:   "rm <week>",
	Short: "Delete a saved plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		week := args[0]
		if !plansRmForce && !jsonOutput {
			if !promptConfirm(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout(), fmt.Sprintf("Delete plan for week %s?", week)) {
				return fmt.Errorf("deletion cancelled by user")
			}
		}

		eng, cleanup, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		if err := eng.DeletePlan(cmd.Context(), week); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), map[string]any{"success": true, "week": week})
		}
		PrintSuccess(fmt.Sprintf("Deleted plan for week %s", week))
		return nil
	},
}

func init() {
	plansRmCmd.Flags().BoolVarP(&plansRmForce, "force", "f", false, "Delete without confirmation")
	plansCmd.AddCommand(plansLsCmd)
	plansCmd.AddCommand(plansRmCmd)
}
