package github

import clog "github.com/charmbracelet/log"

// EnsureAuthenticated fails fast with ErrUnauthenticated when `gh auth status`
// does not succeed. It never tries to log in.
func EnsureAuthenticated(gh GitHub) error {
	if _, err := gh.GetAuthStatus(); err != nil {
		clog.Default().WithPrefix("github").Debug("gh auth status failed", "error", err)
		return ErrUnauthenticated
	}
	return nil
}
