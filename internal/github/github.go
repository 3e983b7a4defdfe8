package github

type GitHub interface {

	// GetAuthStatus returns the output of `gh auth status`.
	GetAuthStatus() (string, error)

	// GetIssue returns an issue and its comments in one call.
	GetIssue(number int) (IssueResult, error)

	// GetPullRequestDiff returns pull request metadata and its unified diff.
	// An empty ref means the pull request of the current branch.
	GetPullRequestDiff(ref string) (PullRequestDiff, error)

	// ResolvePullRequest turns a ref (or the current branch when empty)
	// into an owner/repo/number triple.
	ResolvePullRequest(ref string) (PullRequestRef, error)

	// FetchConversation returns every conversation comment, review and
	// review thread of a pull request.
	FetchConversation(ref PullRequestRef) (Conversation, error)
}
