package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/smokeplan/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the smokeplan directory and default config",
	Long: `Create the smokeplan data directory ($SMOKEPLAN_ROOT, default ~/.smokeplan)
with plans/, exports/ and logs/, and write a commented default config.yaml.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false,
		"Overwrite an existing config.yaml with the defaults")
}

func runInit(cmd *cobra.Command, args []string) error {
	paths, err := config.DefaultPaths()
	if err != nil {
		return fmt.Errorf("failed to get config paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}

	if _, err := os.Stat(paths.Config); err == nil && !initForce {
		return fmt.Errorf("config already exists at %s\nUse --force to overwrite it", paths.Config)
	}
	if err := os.WriteFile(paths.Config, []byte(config.DefaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), map[string]string{"root": paths.Root, "config": paths.Config})
	}

	PrintSuccess(fmt.Sprintf("Initialized smokeplan at %s", paths.Root))
	fmt.Println()
	PrintInfo("Next steps:")
	fmt.Println("  1. Review smoker capacity:  " + paths.Config)
	fmt.Println("  2. Plan next week:          smokeplan prefill items.json")
	fmt.Println("  3. Inspect the grid:        smokeplan show")
	return nil
}
