package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/domain"
)

var impactCmd = &cobra.Command{
	Use:   "impact <collection>",
	Short: "Preview what toggling a collection would change",
	Long: `Show, for every item of a collection, its state now and after the
collection is toggled. Nothing is written.

Items with their own override keep it; items missing from the catalog are
listed separately.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, ws, err := openWorkspace(cmd, false)
		if err != nil {
			return err
		}

		cwd, err := currentDir()
		if err != nil {
			return err
		}
		path, err := eng.ResolveAsset(ws, catalog.KindCollection, args[0], cwd)
		if err != nil {
			return err
		}

		impact, err := eng.Impact(ws, path)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(impact)
		}

		verb := "Disabling"
		if impact.WillEnable {
			verb = "Enabling"
		}
		PrintSection(fmt.Sprintf("%s %s (%s)", verb, impact.Collection.Name, impact.Collection.ID))

		if len(impact.Members) > 0 {
			rows := make([][]string, 0, len(impact.Members))
			for _, m := range impact.Members {
				note := ""
				if m.Explicit {
					note = "own override"
				}
				rows = append(rows, []string{
					impactLabel(m.Impact),
					m.Kind.String(),
					m.Path,
					fmt.Sprintf("%s -> %s", stateLabel(m.Before), stateLabel(m.After)),
					note,
				})
			}
			PrintTable([]string{"IMPACT", "KIND", "PATH", "STATE", ""}, rows)
		}

		if len(impact.Missing) > 0 {
			fmt.Println()
			PrintWarning(fmt.Sprintf("%s not in the catalog:", PrintCount(len(impact.Missing), "item", "items")))
			missing := make([]string, 0, len(impact.Missing))
			for _, item := range impact.Missing {
				missing = append(missing, fmt.Sprintf("%s %s", item.Kind, item.Path))
			}
			PrintList(missing, 1)
		}

		fmt.Println()
		PrintLabelValue("Will enable", fmt.Sprint(impact.EnableCount))
		PrintLabelValue("Will disable", fmt.Sprint(impact.DisableCount))
		PrintLabelValue("Unchanged", fmt.Sprint(impact.UnchangedCount))
		PrintLabelValue("Total items", fmt.Sprint(impact.TotalMembers))
		return nil
	},
}

func impactLabel(k domain.ImpactKind) string {
	switch k {
	case domain.WillEnable:
		return "enable"
	case domain.WillDisable:
		return "disable"
	default:
		return "-"
	}
}
