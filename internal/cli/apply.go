package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/assetgate/internal/engine"
	"github.com/danieljhkim/assetgate/internal/planner"
)

var (
	applyForce  bool
	applyDryRun bool
)

var applyCmd = &cobra.Command{
	Use:   "apply [<kind> <asset>]",
	Short: "Bring files under .github/ in line with effective state",
	Long: `Copy enabled assets into .github/ and remove disabled ones, without
changing the enablement file.

With no arguments every asset is reconciled. Naming a single asset copies
it from the catalog whatever its state, which refreshes a stale local copy.
Naming a collection reconciles its members.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("accepts no arguments or <kind> <asset>, received %d", len(args))
		}
		return nil
	},
	ValidArgsFunction: completeKinds,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, ws, err := openWorkspace(cmd, false)
		if err != nil {
			return err
		}

		req := &engine.ApplyRequest{
			Force:  applyForce,
			DryRun: applyDryRun,
		}
		if len(args) == 2 {
			req.Kind, req.Path, err = resolveAssetArgs(eng, ws, args[0], args[1])
			if err != nil {
				return err
			}
		}

		result, err := eng.Apply(ws, req)
		if err != nil {
			if errors.Is(err, engine.ErrConflict) && result != nil && !jsonOutput {
				printConflicts(result.Plan)
			}
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if applyDryRun {
			PrintSection("Dry Run")
			printOperations("Would apply", result.Plan.Operations)
			return nil
		}

		if len(result.Applied) == 0 {
			PrintSuccess("Everything is already in sync")
			return nil
		}
		PrintSuccess(fmt.Sprintf("Applied %s successfully", PrintCount(len(result.Applied), "operation", "operations")))
		printOperations("Operations", result.Applied)
		printBackups(result.BackedUp)
		return nil
	},
}

// printConflicts explains why a plan was refused.
func printConflicts(plan *planner.SyncPlan) {
	if plan == nil || !plan.HasConflicts() {
		return
	}
	PrintSection("Conflicts Detected")
	for _, conflict := range plan.Conflicts {
		PrintError(fmt.Sprintf("%s: %s", conflict.Path, conflict.Reason))
	}
	fmt.Println()
	PrintWarning("Use --force to override conflicts.")
}

// printOperations lists copy/remove operations under a heading.
func printOperations(heading string, ops []planner.Operation) {
	PrintInfo(fmt.Sprintf("%s %s", heading, PrintCount(len(ops), "operation", "operations")))
	if len(ops) == 0 {
		return
	}
	items := make([]string, 0, len(ops))
	for _, op := range ops {
		items = append(items, fmt.Sprintf("%s: %s", op.Type, op.Path))
	}
	PrintList(items, 1)
}

func init() {
	applyCmd.Flags().BoolVarP(&applyForce, "force", "f", false, "Overwrite or delete locally modified files")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Show what would be applied without applying")
}
