package cmd

import (
	"github.com/spf13/cobra"
)

var commentsCmd = &cobra.Command{
	Use:     "comments [number|url]",
	Aliases: []string{"conversation"},
	Short:   "Print a pull request's full conversation",
	Long: `Print every conversation comment, review and inline review thread of a
pull request as JSON, following GraphQL pagination until all three
collections are exhausted.

Without an argument the pull request for the current branch is used.
Pull requests from forks are queried in the head repository.

Example:
  ghfetch comments
  ghfetch comments '#3698'
  ghfetch comments https://github.com/cli/cli/pull/3698`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: runComments,
}

func init() {
	rootCmd.AddCommand(commentsCmd)
}

func runComments(cmd *cobra.Command, args []string) error {
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

	prRef, err := env.gh.ResolvePullRequest(ref)
	if err != nil {
		return env.wrapPullRequestError(ref, err)
	}
	env.log.Debug("Resolved pull request", "ref", prRef.String())

	conversation, err := env.gh.FetchConversation(prRef)
	if err != nil {
		return err
	}
	env.log.Debug("Fetched conversation",
		"comments", len(conversation.ConversationComments),
		"reviews", len(conversation.Reviews),
		"threads", len(conversation.ReviewThreads),
	)

	return env.printer.Conversation(conversation)
}
