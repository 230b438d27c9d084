package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/assetgate/internal/domain"
	"github.com/danieljhkim/assetgate/internal/engine"
)

var orphansClean bool

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List or remove overrides for assets no longer in the catalog",
	Long: `List entries of the enablement file whose path no longer exists in the
catalog, typically after an upstream rename or removal. Orphans do not affect
any asset; --clean removes them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, ws, err := openWorkspace(cmd, false)
		if err != nil {
			return err
		}

		if !orphansClean {
			orphans := ws.Session.Orphans()
			if jsonOutput {
				return outputJSON(&engine.CleanupResult{Orphans: append([]domain.OrphanEntry{}, orphans...)})
			}
			if len(orphans) == 0 {
				PrintSuccess("No orphaned overrides")
				return nil
			}
			PrintSection(fmt.Sprintf("Orphaned overrides (%d)", len(orphans)))
			rows := make([][]string, 0, len(orphans))
			for _, o := range orphans {
				rows = append(rows, []string{o.Kind.String(), o.Path, stateLabel(o.Value)})
			}
			PrintTable([]string{"KIND", "PATH", "VALUE"}, rows)
			fmt.Println()
			PrintInfo("Run 'assetgate orphans --clean' to remove them.")
			return nil
		}

		result := eng.CleanupOrphans(ws)
		if err := saveWorkspace(eng, ws); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}
		if result.Removed == 0 {
			PrintSuccess("No orphaned overrides")
			return nil
		}
		PrintSuccess(fmt.Sprintf("Removed %s", PrintCount(result.Removed, "orphaned override", "orphaned overrides")))
		return nil
	},
}

func init() {
	orphansCmd.Flags().BoolVar(&orphansClean, "clean", false, "Remove orphaned overrides from the enablement file")
}
