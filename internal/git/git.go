package git

// Git is the read-only slice of git that ghfetch needs to locate config
// files and describe the current branch.
type Git interface {

	// GetWorktreeRoot returns the top level of the current worktree, or ""
	// when the working directory is not inside a git repository.
	GetWorktreeRoot() (string, error)

	// GetMainWorktreePath returns the root of the main worktree, which differs
	// from GetWorktreeRoot inside a linked worktree.
	GetMainWorktreePath() (string, error)

	// GetCurrentBranch returns the checked-out branch name, or "HEAD" when detached.
	GetCurrentBranch() (string, error)
}

// RepoContext describes where ghfetch is running.
type RepoContext struct {
	Branch       string // empty outside a repository
	MainWorktree string
	WorktreeRoot string
}

// InRepo reports whether the context was resolved inside a git repository.
func (c RepoContext) InRepo() bool {
	return c.WorktreeRoot != ""
}

// Detect gathers the RepoContext. Outside a git repository it returns a zero
// RepoContext and no error.
func Detect(g Git) (RepoContext, error) {
	root, err := g.GetWorktreeRoot()
	if err != nil {
		return RepoContext{}, err
	}
	if root == "" {
		return RepoContext{}, nil
	}

	mainWorktree, err := g.GetMainWorktreePath()
	if err != nil {
		return RepoContext{}, err
	}

	branch, err := g.GetCurrentBranch()
	if err != nil {
		// An unborn branch has no HEAD commit yet; that is not fatal here.
		branch = ""
	}

	return RepoContext{
		Branch:       branch,
		MainWorktree: mainWorktree,
		WorktreeRoot: root,
	}, nil
}
