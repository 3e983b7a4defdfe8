package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jmcampanini/ghfetch/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print current configuration in TOML format",
	Long: `Print the current effective configuration in TOML format.

This outputs the merged configuration (defaults with any user overrides applied).
The output can be redirected to a file to create a new configuration:

  ghfetch config > ghfetch.toml

Files are read from ~/.config/ghfetch, from the git root's parents up to
$HOME, from the git root, the worktree root, the current directory and
finally from $GHFETCH_CONFIG. Use --verbose to list the files applied.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	loadResult, _, err := loadConfig(cwd)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := config.Write(&buf, loadResult.Config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), buf.String())
	return err
}
