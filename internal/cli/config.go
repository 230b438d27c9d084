package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/assetgate/internal/config"
	"github.com/danieljhkim/assetgate/internal/fsops"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize .assetgate/config.yaml",
	Long: `Print the effective settings (defaults merged with .assetgate/config.yaml
and $ASSETGATE_CONTENT) and where assetgate keeps its files.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := discoverPaths()
		if err != nil {
			return err
		}
		settings, err := config.LoadSettings(paths.Settings)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]any{
				"paths":    paths,
				"settings": settings,
			})
		}

		data, err := settings.Marshal()
		if err != nil {
			return fmt.Errorf("failed to render settings: %w", err)
		}
		PrintSection("Paths")
		PrintLabelValue("Repository", paths.Root)
		PrintLabelValue("Settings", paths.Settings)
		PrintLabelValue("Enablement", paths.Enablement)
		PrintLabelValue("Cache", paths.Cache)
		PrintLabelValue("Mirror", paths.GitHub)
		PrintSection("Settings")
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default settings file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := discoverPaths()
		if err != nil {
			return err
		}
		fs := fsops.NewRealFS()

		exists, err := fs.Exists(paths.Settings)
		if err != nil {
			return err
		}
		if exists && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", paths.Settings)
		}

		data, err := config.DefaultSettings().Marshal()
		if err != nil {
			return fmt.Errorf("failed to render settings: %w", err)
		}
		if err := fs.MkdirAll(paths.Workspace, 0755); err != nil {
			return fmt.Errorf("failed to create workspace directory: %w", err)
		}
		if err := fs.AtomicWrite(paths.Settings, data, 0644); err != nil {
			return fmt.Errorf("failed to write settings: %w", err)
		}

		if jsonOutput {
			return outputJSON(map[string]string{"settings": paths.Settings})
		}
		PrintSuccess(fmt.Sprintf("Wrote %s", paths.Settings))
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing settings file")
	configCmd.AddCommand(configInitCmd)
}
