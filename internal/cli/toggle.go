package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/engine"
)

var (
	toggleForce  bool
	toggleDryRun bool
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <kind> <asset>",
	Short: "Enable a disabled asset or disable an enabled one",
	Long: `Flip the effective state of one asset and mirror the result into .github/.

The enablement file keeps as few overrides as possible: if the new state is
what the asset would get anyway (from a collection, or by default), its
override is removed rather than written. Toggling a collection changes every
member that has no override of its own.

Locally modified copies under .github/ are never overwritten or deleted
unless --force is given.`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeKinds,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, ws, err := openWorkspace(cmd, false)
		if err != nil {
			return err
		}

		kind, path, err := resolveAssetArgs(eng, ws, args[0], args[1])
		if err != nil {
			return err
		}

		result, err := eng.Toggle(ws, &engine.ToggleRequest{
			Kind:   kind,
			Path:   path,
			Force:  toggleForce,
			DryRun: toggleDryRun,
		})
		if errors.Is(err, engine.ErrPartialSync) {
			// The new state is kept; persist it so apply can finish the mirror.
			if saveErr := saveWorkspace(eng, ws); saveErr != nil {
				return saveErr
			}
			if !jsonOutput {
				printOperations("Applied", result.Applied)
				printBackups(result.BackedUp)
				PrintWarning("Run 'assetgate apply' to finish mirroring files.")
			}
			return err
		}
		if err != nil {
			if errors.Is(err, engine.ErrConflict) && result != nil && !jsonOutput {
				printConflicts(result.Plan)
			}
			return err
		}

		if err := saveWorkspace(eng, ws); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if toggleDryRun {
			PrintSection("Dry Run")
			PrintInfo(describeToggle(result, true))
			if result.Plan != nil {
				printOperations("Would apply", result.Plan.Operations)
			}
			return nil
		}

		if !result.Flipped() {
			PrintWarning(fmt.Sprintf("%s %s is still %s; its override was %s (see toggle.baseline in .assetgate/config.yaml)",
				kind, path, stateLabel(result.View.Effective), result.Change))
			return nil
		}
		PrintSuccess(describeToggle(result, false))
		if kind == catalog.KindCollection {
			printMembers(ws.Session.Resolution(), result.View.Members)
		}
		if len(result.Applied) > 0 {
			printOperations("Applied", result.Applied)
		}
		printBackups(result.BackedUp)
		return nil
	},
}

// describeToggle summarizes a toggle for humans.
func describeToggle(r *engine.ToggleResult, preview bool) string {
	verb := "Disabled"
	if r.View.Effective {
		verb = "Enabled"
	}
	if preview {
		verb = "Would be " + stateLabel(r.View.Effective) + ":"
	}
	return fmt.Sprintf("%s %s %s (override %s)", verb, r.View.Kind, r.View.Path, r.Change)
}

func init() {
	toggleCmd.Flags().BoolVarP(&toggleForce, "force", "f", false, "Overwrite or delete locally modified files")
	toggleCmd.Flags().BoolVar(&toggleDryRun, "dry-run", false, "Show what would change without changing anything")
}
