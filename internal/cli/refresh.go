package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/assetgate/internal/engine"
	"github.com/danieljhkim/assetgate/internal/upstream"
)

// refreshReport is the JSON shape of the refresh command.
type refreshReport struct {
	Commit     string               `json:"commit"`
	FetchedAt  time.Time            `json:"fetched_at"`
	ContentDir string               `json:"content_dir"`
	Warnings   []string             `json:"warnings,omitempty"`
	Cached     []*upstream.Snapshot `json:"cached"`
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch the latest upstream catalog snapshot",
	Long: `Fetch the configured upstream ref even if the cached snapshot is still
fresh, then prune the cache to the configured number of snapshots.

If the remote cannot be reached the newest cached snapshot is used and a
warning is printed. Nothing is fetched when content_dir is configured.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		settings := eng.Settings()
		if settings.ContentDir != "" {
			PrintInfo(fmt.Sprintf("Using local content directory %s; nothing to fetch", settings.ContentDir))
			return nil
		}

		ws, err := eng.Open(cmd.Context(), &engine.OpenRequest{Refresh: true})
		if err != nil {
			return err
		}

		cached, err := newSnapshotManager(eng.Paths(), settings).Cached()
		if err != nil {
			return err
		}

		if jsonOutput {
			if cached == nil {
				cached = []*upstream.Snapshot{}
			}
			return outputJSON(&refreshReport{
				Commit:     ws.Commit,
				FetchedAt:  ws.FetchedAt,
				ContentDir: ws.ContentDir,
				Warnings:   ws.Warnings,
				Cached:     cached,
			})
		}

		printWarnings(ws.Warnings)
		PrintSuccess(fmt.Sprintf("Catalog at %s (%s)", shortCommit(ws.Commit), settings.Upstream.Ref))
		PrintLabelValue("Source", settings.Upstream.URL)
		PrintLabelValue("Fetched", ws.FetchedAt.Local().Format(time.RFC1123))
		for _, s := range eng.Summarize(ws) {
			PrintLabelValue(s.Kind.Label(), fmt.Sprint(s.Total))
		}

		if len(cached) > 0 {
			PrintSubsection(fmt.Sprintf("Cached snapshots (keeping %d):", settings.Upstream.Keep))
			items := make([]string, 0, len(cached))
			for _, snap := range cached {
				items = append(items, fmt.Sprintf("%s  %s", shortCommit(snap.Commit), snap.FetchedAt.Local().Format(time.DateTime)))
			}
			PrintList(items, 1)
		}
		return nil
	},
}

func shortCommit(commit string) string {
	if len(commit) > 12 {
		return commit[:12]
	}
	return commit
}
