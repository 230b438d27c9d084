package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/domain"
	"github.com/danieljhkim/assetgate/internal/engine"
	"github.com/danieljhkim/assetgate/internal/filter"
)

var (
	listSearch string
	listWhere  string
	listStatus bool
)

var listCmd = &cobra.Command{
	Use:   "list [kind]",
	Short: "List catalog assets and their enable state",
	Long: `List every asset in the catalog with its effective state and where that
state comes from (an explicit override, a collection, or the default).

Narrow the listing with --search (case-insensitive keyword) or --where, a
boolean expression over asset fields, for example:

  assetgate list prompts --where 'effective && "review" in tags'
  assetgate list --where 'source == "inherited"'

Fields: kind, path, name, slug, description, tags, apply_to, tools, mode,
collections, effective, explicit, inherited, source, members.`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeKinds,
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds := catalog.Kinds()
		if len(args) > 0 {
			kind, err := catalog.ParseKind(args[0])
			if err != nil {
				return err
			}
			kinds = []catalog.AssetKind{kind}
		}

		var pred *filter.Predicate
		if listWhere != "" {
			p, err := filter.Compile(listWhere)
			if err != nil {
				return err
			}
			pred = p
		}

		eng, ws, err := openWorkspace(cmd, false)
		if err != nil {
			return err
		}

		res := ws.Session.Resolution()
		groups := make(map[catalog.AssetKind][]domain.AssetView, len(kinds))
		var all []domain.AssetView
		for _, kind := range kinds {
			views, err := filter.Apply(res.Views(kind), listSearch, pred)
			if err != nil {
				return err
			}
			groups[kind] = views
			all = append(all, views...)
		}

		if jsonOutput {
			if listStatus {
				return outputJSON(eng.Statuses(ws, all))
			}
			if all == nil {
				all = []domain.AssetView{}
			}
			return outputJSON(all)
		}

		if len(all) == 0 {
			PrintEmptyState("No assets match")
			return nil
		}

		for _, kind := range kinds {
			views := groups[kind]
			if len(views) == 0 {
				continue
			}
			PrintSection(fmt.Sprintf("%s (%d of %d enabled)",
				kind.Label(), res.EnabledCount(kind), len(res.Views(kind))))

			headers := []string{"STATE", "NAME", "PATH", "SOURCE"}
			if listStatus {
				headers = append(headers, "LOCAL")
			}
			var statuses []engine.AssetStatus
			if listStatus {
				statuses = eng.Statuses(ws, views)
			}

			rows := make([][]string, 0, len(views))
			for i := range views {
				v := &views[i]
				row := []string{stateLabel(v.Effective), v.Name, v.Path, sourceLabel(v)}
				if listStatus {
					row = append(row, localLabel(statuses[i]))
				}
				rows = append(rows, row)
			}
			PrintTable(headers, rows)
		}

		if listStatus {
			fmt.Println()
			PrintEmptyState("* local copy disagrees with effective state; run 'assetgate apply' to reconcile")
		}
		if n := len(ws.Session.Orphans()); n > 0 && len(args) == 0 && listSearch == "" && listWhere == "" {
			fmt.Println()
			PrintWarning(fmt.Sprintf("%s in the enablement file no longer match the catalog (see 'assetgate orphans')",
				PrintCount(n, "override", "overrides")))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Only show assets matching a keyword")
	listCmd.Flags().StringVarP(&listWhere, "where", "w", "", "Only show assets matching an expression")
	listCmd.Flags().BoolVar(&listStatus, "status", false, "Show the state of each mirrored file under .github/")
}
