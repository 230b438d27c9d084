package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/clock"
	"github.com/danieljhkim/assetgate/internal/config"
	"github.com/danieljhkim/assetgate/internal/engine"
	"github.com/danieljhkim/assetgate/internal/fsops"
	"github.com/danieljhkim/assetgate/internal/gitx"
	"github.com/danieljhkim/assetgate/internal/hash"
	"github.com/danieljhkim/assetgate/internal/state"
	"github.com/danieljhkim/assetgate/internal/upstream"
)

// EnvLogLevel sets the log level (debug, info, warn, error).
const EnvLogLevel = "ASSETGATE_LOG"

// logger is replaced by the root command's pre-run hook.
var logger = slog.New(slog.DiscardHandler)

// newLogger builds the text logger used for one invocation. Every record
// carries a run id so interleaved output from concurrent runs can be told
// apart.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if v := os.Getenv(EnvLogLevel); v != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(v)); err == nil {
			level = parsed
		}
	}
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("run", uuid.NewString())
}

// discoverPaths locates the repository and lays out assetgate's paths in it.
func discoverPaths() (*config.Paths, error) {
	cwd, err := currentDir()
	if err != nil {
		return nil, err
	}
	root, err := config.DiscoverRoot(repoFlag, cwd, gitx.NewRealRepo())
	if err != nil {
		return nil, err
	}
	return config.NewPaths(root), nil
}

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine() (*engine.Engine, error) {
	paths, err := discoverPaths()
	if err != nil {
		return nil, err
	}

	// Ensure directories exist
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	settings, err := config.LoadSettings(paths.Settings)
	if err != nil {
		return nil, err
	}

	// Create real implementations
	fs := fsops.NewRealFS()
	hasher := hash.NewSHA256Hasher()
	clk := &clock.RealClock{}
	stateStore := state.NewFileStore(fs, clk, paths.Enablement, paths.Lock)

	var snapshots engine.SnapshotProvider
	if settings.ContentDir == "" {
		snapshots = newSnapshotManager(paths, settings)
	}

	logger.Debug("engine ready", "root", paths.Root, "content_dir", settings.ContentDir)

	// Create engine
	return engine.New(paths, settings, stateStore, snapshots, fs, hasher, clk, logger), nil
}

// newSnapshotManager creates the upstream snapshot cache for paths.
func newSnapshotManager(paths *config.Paths, settings *config.Settings) *upstream.Manager {
	return upstream.NewManager(
		fsops.NewRealFS(),
		&clock.RealClock{},
		upstream.NewGitFetcher(),
		paths.Cache,
		upstream.Options{
			URL:       settings.Upstream.URL,
			Ref:       settings.Upstream.Ref,
			Freshness: settings.Upstream.Freshness,
			Keep:      settings.Upstream.Keep,
		},
		logger,
	)
}

// openWorkspace builds the engine and loads the catalog and overrides.
// Load warnings are printed (or logged in JSON mode) but never fatal.
func openWorkspace(cmd *cobra.Command, refresh bool) (*engine.Engine, *engine.Workspace, error) {
	eng, err := newEngine()
	if err != nil {
		return nil, nil, err
	}

	ws, err := eng.Open(cmd.Context(), &engine.OpenRequest{Refresh: refresh})
	if err != nil {
		return nil, nil, err
	}
	printWarnings(ws.Warnings)
	return eng, ws, nil
}

// printWarnings reports recoverable load problems.
func printWarnings(warnings []string) {
	for _, w := range warnings {
		if jsonOutput {
			logger.Warn(w)
			continue
		}
		PrintWarning(w)
	}
}

// saveWorkspace writes the override file when it changed, unless --no-save.
func saveWorkspace(eng *engine.Engine, ws *engine.Workspace) error {
	if !ws.Dirty {
		return nil
	}
	if noSave {
		logger.Debug("skipping save", "reason", "--no-save")
		return nil
	}
	return eng.Save(ws)
}

// resolveAssetArgs parses a kind argument and resolves the asset argument
// against the catalog.
func resolveAssetArgs(eng *engine.Engine, ws *engine.Workspace, kindArg, assetArg string) (catalog.AssetKind, string, error) {
	kind, err := catalog.ParseKind(kindArg)
	if err != nil {
		return 0, "", err
	}
	cwd, err := currentDir()
	if err != nil {
		return 0, "", err
	}
	path, err := eng.ResolveAsset(ws, kind, assetArg, cwd)
	if err != nil {
		return 0, "", err
	}
	return kind, path, nil
}

func currentDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return cwd, nil
}

// completeKinds offers kind names for the first positional argument.
func completeKinds(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	var names []string
	for _, kind := range catalog.Kinds() {
		if strings.HasPrefix(kind.String(), toComplete) {
			names = append(names, kind.String())
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// formatJSON formats a value as JSON.
func formatJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatError formats an error for display.
func FormatError(err error) string {
	initColors()
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
