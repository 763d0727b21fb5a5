package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/smokeplan/internal/engine"
	"github.com/danieljhkim/smokeplan/internal/grid"
	"github.com/danieljhkim/smokeplan/internal/planner"
)

var (
	moveYes   bool
	moveSplit bool
)

var moveCmd = &cobra.Command{
	Use:   "move <src> <dst>",
	Short: "Move or swap the contents of two slots",
	Long: `Move the items of one slot to another. When the destination is occupied the
two slots are swapped. Slots are written day:smoker:position, e.g. 0:1:3 for
Monday, smoker 1, position 3.

Both directions are checked before anything changes. Placing other items on
the reserved smoker asks for confirmation (--yes answers it). A move that
overfills the destination is rejected unless --split keeps the part that fits.`,
	Args: cobra.ExactArgs(2),
	RunE: runMove,
}

func init() {
	moveCmd.Flags().BoolVarP(&moveYes, "yes", "y", false, "Confirm all questions")
	moveCmd.Flags().BoolVar(&moveSplit, "split", false, "Keep the part that fits and drop the rest")
}

func runMove(cmd *cobra.Command, args []string) error {
	src, err := grid.ParseSlotKey(args[0])
	if err != nil {
		return err
	}
	dst, err := grid.ParseSlotKey(args[1])
	if err != nil {
		return err
	}

	eng, cleanup, err := newEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	answers := bufio.NewReader(cmd.InOrStdin())
	confirm := func(question string) bool {
		if moveYes {
			return true
		}
		if jsonOutput {
			return false
		}
		return promptConfirm(answers, cmd.OutOrStdout(), question)
	}

	result, err := eng.Move(cmd.Context(), &engine.MoveRequest{
		Week:       weekFlag,
		Src:        src,
		Dst:        dst,
		Confirm:    confirm,
		AllowSplit: moveSplit,
	})

	if jsonOutput {
		if encErr := outputMoveJSON(cmd.OutOrStdout(), result, err); encErr != nil {
			return encErr
		}
		return err
	}
	if err != nil {
		var v *planner.Violation
		if errors.As(err, &v) {
			PrintError(fmt.Sprintf("%s [%s]", v.Title, v.RuleID))
		}
		return err
	}

	PrintSuccess(fmt.Sprintf("Moved %s -> %s (week %s)", result.Src, result.Dst, result.Week))
	PrintLabelValue(result.Dst.String(), describeItems(result.DstItems))
	PrintLabelValue(result.Src.String(), describeItems(result.SrcItems))
	if result.Dropped > 0 {
		PrintWarning(fmt.Sprintf("Split remainder of %s dropped", formatQty(result.Dropped)))
	}
	return nil
}

// outputMoveJSON writes the move result, or the rejecting violation.
func outputMoveJSON(w io.Writer, result *engine.MoveResult, err error) error {
	output := map[string]any{
		"success": err == nil,
	}
	if result != nil {
		output["result"] = result
	}
	if err != nil {
		output["error"] = err.Error()
		var v *planner.Violation
		if errors.As(err, &v) {
			output["violation"] = v
		}
	}
	return outputJSON(w, output)
}

func describeItems(items []grid.Item) string {
	if len(items) == 0 {
		return "(empty)"
	}
	return cellText(items)
}
