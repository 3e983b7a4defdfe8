package cmd

import (
	"github.com/jmcampanini/ghfetch/internal/github"
	"github.com/spf13/cobra"
)

var issueCmd = &cobra.Command{
	Use:   "issue <number>",
	Short: "Print an issue and its comments",
	Long: `Print an issue and all of its comments as JSON.

The issue is looked up in the repository gh resolves for the current
directory (or $GH_REPO). The number may carry a leading '#'.

Example:
  ghfetch issue 42
  ghfetch issue '#42'`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: runIssue,
}

func init() {
	rootCmd.AddCommand(issueCmd)
}

func runIssue(cmd *cobra.Command, args []string) error {
	number, err := github.ParseIssueNumber(args[0])
	if err != nil {
		return err
	}

	env, err := setup(cmd)
	if err != nil {
		return err
	}

	result, err := env.gh.GetIssue(number)
	if err != nil {
		return err
	}
	env.log.Debug("Fetched issue", "number", number, "comments", len(result.Comments))

	return env.printer.Issue(result)
}
