package cmd

import (
	"github.com/jmcampanini/ghfetch/internal/github"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff [number|url]",
	Short: "Print a pull request's metadata and unified diff",
	Long: `Print a pull request's metadata, per-file change counts and the raw
unified diff as JSON.

Without an argument the pull request for the current branch is used.

Example:
  ghfetch diff
  ghfetch diff 3698
  ghfetch diff https://github.com/cli/cli/pull/3698`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	ref, err := pullRequestRefArg(args)
	if err != nil {
		return err
	}

	env, err := setup(cmd)
	if err != nil {
		return err
	}
	if ref == "" {
		env.logImplicitTarget()
	}

	result, err := env.gh.GetPullRequestDiff(ref)
	if err != nil {
		return env.wrapPullRequestError(ref, err)
	}
	env.log.Debug("Fetched pull request diff", "number", result.PR.Number, "files", len(result.PR.Files), "diffBytes", len(result.Diff))

	return env.printer.PullRequestDiff(result)
}

// pullRequestRefArg normalizes the optional pull request argument. No
// argument yields "", which gh reads as the current branch.
func pullRequestRefArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	return github.ParsePullRequestRef(args[0])
}
