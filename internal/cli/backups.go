package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/assetgate/internal/persist"
)

var backupsPrune int

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List copies of local files replaced by --force",
	Long: `Before a forced toggle, apply or reset overwrites or deletes a file under
.github/ that differs from the catalog, assetgate copies it into
.assetgate/backups/<timestamp>/. This command lists those sets, newest first.

Use --prune N to keep only the newest N sets.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		backups := eng.Backups()

		if cmd.Flags().Changed("prune") {
			if backupsPrune < 0 {
				return fmt.Errorf("--prune must not be negative, got %d", backupsPrune)
			}
			removed, err := backups.Prune(backupsPrune)
			if err != nil {
				return err
			}
			if jsonOutput {
				return outputJSON(map[string][]string{"removed": removed})
			}
			PrintSuccess(fmt.Sprintf("Removed %s", PrintCount(len(removed), "backup", "backups")))
			return nil
		}

		sets, err := backups.List()
		if err != nil {
			return err
		}
		if jsonOutput {
			if sets == nil {
				sets = []persist.BackupSet{}
			}
			return outputJSON(sets)
		}

		if len(sets) == 0 {
			PrintEmptyState("No backups")
			return nil
		}
		PrintSection(fmt.Sprintf("Backups in %s", backups.Root()))
		for _, set := range sets {
			PrintSubsection(fmt.Sprintf("%s (%s)", set.ID, PrintCount(len(set.Files), "file", "files")))
			PrintList(set.Files, 1)
		}
		return nil
	},
}

// printBackups notes where overwritten files were saved.
func printBackups(backedUp []string) {
	if len(backedUp) == 0 {
		return
	}
	PrintSubsection(fmt.Sprintf("Backed up %s:", PrintCount(len(backedUp), "modified file", "modified files")))
	PrintList(backedUp, 1)
}

func init() {
	backupsCmd.Flags().IntVar(&backupsPrune, "prune", 0, "Keep only the newest N backup sets")
}
