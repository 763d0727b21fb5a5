package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/smokeplan/internal/engine"
	"github.com/danieljhkim/smokeplan/internal/grid"
)

var doseUnit string

var noteCmd = &cobra.Command{
	Use:   "note <slot> [text...]",
	Short: "Set the note of a slot",
	Long: `Set the note on every item of a slot. Without text the note is cleared.

Slots are written day:smoker:position.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := grid.ParseSlotKey(args[0])
		if err != nil {
			return err
		}

		eng, cleanup, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := eng.SetNote(cmd.Context(), &engine.NoteRequest{
			Week: weekFlag,
			Slot: slot,
			Note: strings.Join(args[1:], " "),
		})
		if err != nil {
			return err
		}
		return printEdit(cmd, result, "Updated note")
	},
}

var doseCmd = &cobra.Command{
	Use:   "dose <slot> <quantity>",
	Short: "Change the quantity of a slot",
	Long: `Change the finished quantity of the first item in a slot. A tracked raw
quantity is scaled along. The new dose must fit the smoker's slot capacity.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := grid.ParseSlotKey(args[0])
		if err != nil {
			return err
		}
		qty, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid quantity %q: %w", args[1], err)
		}

		eng, cleanup, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := eng.SetDose(cmd.Context(), &engine.DoseRequest{
			Week:     weekFlag,
			Slot:     slot,
			Quantity: qty,
			Unit:     doseUnit,
		})
		if err != nil {
			return err
		}
		return printEdit(cmd, result, "Updated dose")
	},
}

func init() {
	doseCmd.Flags().StringVar(&doseUnit, "unit", "", "Replace the unit of measure")
}

func printEdit(cmd *cobra.Command, result *engine.EditResult, msg string) error {
	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), result)
	}
	PrintSuccess(fmt.Sprintf("%s %s (week %s)", msg, result.Slot, result.Week))
	PrintLabelValue(result.Slot.String(), describeItems(result.Items))
	return nil
}
