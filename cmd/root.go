package cmd

import (
	"errors"
	"fmt"

	clog "github.com/charmbracelet/log"
	"github.com/jmcampanini/ghfetch/internal/render"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "n/a"

var (
	formatFlag  string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "ghfetch",
	Short: "Fetch GitHub issues and pull requests as JSON",
	Long: `Ghfetch prints GitHub issues, pull request diffs and pull request
conversations as a single JSON document on stdout.

It drives an authenticated gh CLI, so it works wherever gh does. Diagnostics
go to stderr; use --verbose to see every gh invocation.`,
	Args:              rootArgs,
	PersistentPreRunE: setupLogging,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log gh invocations and pagination to stderr")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "", "Output format: json or text (default from config, else json)")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})
}

// rootArgs turns a mistyped subcommand into a usage error instead of help output.
func rootArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return &UsageError{Err: fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())}
	}
	return nil
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	if formatFlag != "" {
		if _, err := render.ParseFormat(formatFlag); err != nil {
			return &UsageError{Err: err}
		}
	}

	clog.SetOutput(cmd.ErrOrStderr())
	if verboseFlag {
		clog.SetLevel(clog.DebugLevel)
	} else {
		clog.SetLevel(clog.WarnLevel)
	}
	return nil
}

// Execute runs the root command. Usage errors also print the usage text of
// the command that rejected its arguments.
func Execute() error {
	cmd, err := rootCmd.ExecuteC()
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
	}
	return err
}
