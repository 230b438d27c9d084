package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/assetgate/internal/engine"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-resolve whenever the enablement file or catalog changes",
	Long: `Watch .assetgate/enablement.json and the catalog content and print a fresh
summary after every change, for example when the file is edited by hand or
another assetgate process saves it. Stop with Ctrl-C.

With --json each summary is written as one JSON document.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, ws, err := openWorkspace(cmd, false)
		if err != nil {
			return err
		}

		report := func(ws *engine.Workspace) {
			if jsonOutput {
				_ = outputJSON(buildStatusReport(eng, ws))
				return
			}
			PrintInfo(fmt.Sprintf("[%s] %s", time.Now().Format(time.TimeOnly), summaryLine(eng, ws)))
		}

		if !jsonOutput {
			PrintInfo(fmt.Sprintf("Watching %s (Ctrl-C to stop)", ws.ContentDir))
		}
		report(ws)

		return eng.Watch(cmd.Context(), ws, watchDebounce, func(next *engine.Workspace, err error) {
			if err != nil {
				logger.Warn("reload failed", "error", err)
				if !jsonOutput {
					PrintError(fmt.Sprintf("reload failed: %v", err))
				}
				return
			}
			printWarnings(next.Warnings)
			report(next)
		})
	},
}

// summaryLine renders per-kind enabled counts on one line.
func summaryLine(eng *engine.Engine, ws *engine.Workspace) string {
	parts := []string{}
	for _, s := range eng.Summarize(ws) {
		parts = append(parts, fmt.Sprintf("%s %d/%d", strings.ToLower(s.Kind.Label()), s.Enabled, s.Total))
	}
	if n := len(ws.Session.Orphans()); n > 0 {
		parts = append(parts, PrintCount(n, "orphan", "orphans"))
	}
	return strings.Join(parts, ", ")
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", engine.DefaultWatchDebounce, "Wait this long after the last change before reloading")
}
