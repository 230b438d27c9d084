package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/domain"
)

var showCmd = &cobra.Command{
	Use:   "show <kind> <asset>",
	Short: "Show details for one asset",
	Long: `Show an asset's metadata, its effective state and how it was resolved.

<asset> may be the catalog path, the path without its kind directory, the
path of the mirrored copy under .github/, the slug, or a collection id.`,
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
		res := ws.Session.Resolution()
		view, ok := res.Find(kind, path)
		if !ok {
			return fmt.Errorf("%w: %s %s", domain.ErrAssetNotFound, kind, path)
		}
		status := eng.Statuses(ws, []domain.AssetView{*view})[0]

		if jsonOutput {
			return outputJSON(status)
		}

		PrintSection(view.Name)
		PrintLabelValue("Kind", kind.String())
		PrintLabelValue("Path", view.Path)
		PrintLabelValue("Slug", view.Slug)
		if view.CollectionID != "" {
			PrintLabelValue("ID", view.CollectionID)
		}
		if view.Description != "" {
			PrintLabelValue("Description", view.Description)
		}
		if len(view.Tags) > 0 {
			PrintLabelValue("Tags", strings.Join(view.Tags, ", "))
		}
		if len(view.ApplyTo) > 0 {
			PrintLabelValue("Applies to", strings.Join(view.ApplyTo, ", "))
		}
		if view.Mode != "" {
			PrintLabelValue("Mode", view.Mode)
		}
		if len(view.Tools) > 0 {
			PrintLabelValue("Tools", strings.Join(view.Tools, ", "))
		}

		fmt.Println()
		PrintLabelValueWithColor("State", stateLabel(view.Effective), stateColor(view.Effective))
		PrintLabelValue("Source", sourceLabel(view))
		if view.Explicit != nil {
			PrintLabelValue("Override", stateLabel(*view.Explicit))
		}
		if view.Inherited != nil {
			PrintLabelValue("Inherited", fmt.Sprintf("%s from %s", stateLabel(view.Inherited.Value), view.Inherited.Collection.ID))
		}
		if kind != catalog.KindCollection {
			PrintLabelValue("Local copy", localLabel(status))
			if status.Error != "" {
				PrintWarning(status.Error)
			}
		}

		if len(view.Collections) > 0 {
			PrintSubsection("Collections:")
			items := make([]string, 0, len(view.Collections))
			for _, c := range view.Collections {
				coll, _ := res.Find(catalog.KindCollection, c.Path)
				state := "?"
				if coll != nil {
					state = stateLabel(coll.Effective)
				}
				items = append(items, fmt.Sprintf("%s (%s) [%s]", c.Name, c.ID, state))
			}
			PrintList(items, 1)
		}

		if kind == catalog.KindCollection {
			printMembers(res, view.Members)
		}
		return nil
	},
}

// printMembers lists a collection's items with their current state.
func printMembers(res *domain.Resolution, members []catalog.CollectionItem) {
	PrintSubsection(fmt.Sprintf("Members (%d):", len(members)))
	if len(members) == 0 {
		PrintEmptyState("This collection lists no items")
		return
	}
	rows := make([][]string, 0, len(members))
	for _, item := range members {
		v, ok := res.Find(item.Kind, item.Path)
		if !ok {
			rows = append(rows, []string{"missing", item.Kind.String(), item.Path, ""})
			continue
		}
		rows = append(rows, []string{stateLabel(v.Effective), item.Kind.String(), item.Path, sourceLabel(v)})
	}
	PrintTable([]string{"STATE", "KIND", "PATH", "SOURCE"}, rows)
}
