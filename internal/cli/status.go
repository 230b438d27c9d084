package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/engine"
)

// statusReport is the JSON shape of the status command.
type statusReport struct {
	Root       string           `json:"root"`
	ContentDir string           `json:"content_dir"`
	Commit     string           `json:"commit,omitempty"`
	FetchedAt  *time.Time       `json:"fetched_at,omitempty"`
	Kinds      []engine.Summary `json:"kinds"`
	Overrides  int              `json:"overrides"`
	Orphans    int              `json:"orphans"`
	OutOfSync  []string         `json:"out_of_sync"`
	Warnings   []string         `json:"warnings,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize enabled assets and mirror health",
	Long: `Show where the catalog came from, how many assets of each kind are
enabled, and which mirrored files under .github/ disagree with effective
state.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, ws, err := openWorkspace(cmd, false)
		if err != nil {
			return err
		}

		report := buildStatusReport(eng, ws)

		if jsonOutput {
			return outputJSON(report)
		}

		PrintSection("Repository")
		PrintLabelValue("Root", report.Root)
		PrintLabelValue("Catalog", report.ContentDir)
		if report.Commit != "" {
			PrintLabelValue("Commit", report.Commit)
			PrintLabelValue("Fetched", report.FetchedAt.Local().Format(time.RFC1123))
		}

		PrintSection("Assets")
		rows := make([][]string, 0, len(report.Kinds))
		for _, s := range report.Kinds {
			rows = append(rows, []string{s.Kind.Label(), fmt.Sprint(s.Enabled), fmt.Sprint(s.Total)})
		}
		PrintTable([]string{"KIND", "ENABLED", "TOTAL"}, rows)

		fmt.Println()
		PrintLabelValue("Overrides", fmt.Sprint(report.Overrides))
		if report.Orphans > 0 {
			PrintLabelValueWithColor("Orphans", fmt.Sprint(report.Orphans), warningColor)
		}

		if len(report.OutOfSync) == 0 {
			PrintSuccess("Mirrored files are in sync")
			return nil
		}
		PrintWarning(fmt.Sprintf("%s out of sync (run 'assetgate apply'):",
			PrintCount(len(report.OutOfSync), "file is", "files are")))
		PrintList(report.OutOfSync, 1)
		return nil
	},
}

func buildStatusReport(eng *engine.Engine, ws *engine.Workspace) *statusReport {
	report := &statusReport{
		Root:       eng.Paths().Root,
		ContentDir: ws.ContentDir,
		Commit:     ws.Commit,
		Kinds:      eng.Summarize(ws),
		Overrides:  ws.Session.Overrides().Len(),
		Orphans:    len(ws.Session.Orphans()),
		OutOfSync:  []string{},
		Warnings:   ws.Warnings,
	}
	if !ws.FetchedAt.IsZero() {
		fetched := ws.FetchedAt
		report.FetchedAt = &fetched
	}

	res := ws.Session.Resolution()
	for _, kind := range catalog.Kinds() {
		if kind == catalog.KindCollection {
			continue
		}
		for _, st := range eng.Statuses(ws, res.Views(kind)) {
			if !st.InSync() {
				detail := st.Local.String()
				if st.Error != "" {
					detail = st.Error
				}
				report.OutOfSync = append(report.OutOfSync, fmt.Sprintf("%s (%s, %s)", st.View.Path, stateLabel(st.View.Effective), detail))
			}
		}
	}
	return report
}
