package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/assetgate/internal/engine"
)

var resetKeepFiles bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear every override",
	Long: `Remove every entry from the enablement file so each asset falls back to
its collection or default state. Mirrored files under .github/ for catalog
assets are deleted too unless --keep-files is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, ws, err := openWorkspace(cmd, false)
		if err != nil {
			return err
		}

		result, err := eng.Reset(ws, &engine.ResetRequest{RemoveLocal: !resetKeepFiles})
		if err != nil {
			return err
		}
		if err := saveWorkspace(eng, ws); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSuccess(fmt.Sprintf("Cleared %s", PrintCount(result.Cleared, "override", "overrides")))
		if len(result.RemovedFiles) > 0 {
			PrintSubsection(fmt.Sprintf("Removed %s:", PrintCount(len(result.RemovedFiles), "file", "files")))
			PrintList(result.RemovedFiles, 1)
		}
		printBackups(result.BackedUp)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetKeepFiles, "keep-files", false, "Leave mirrored files under .github/ in place")
}
