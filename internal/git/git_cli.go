package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"

	"github.com/jmcampanini/ghfetch/internal/github"
)

// GitCli provides git operations by executing real git commands via the git CLI.
type GitCli struct {
	log        *clog.Logger
	runner     github.Runner
	workingDir string
}

var _ Git = &GitCli{}

// New creates a new GitCli instance that executes git commands in the specified working directory.
func New(workingDir string, timeout time.Duration) Git {
	return NewWithRunner(github.NewExecRunner(workingDir, timeout), workingDir)
}

// NewWithRunner creates a GitCli that sends its commands through r.
// workingDir must match the directory r runs in.
func NewWithRunner(r github.Runner, workingDir string) *GitCli {
	return &GitCli{
		log:        clog.Default().WithPrefix("git"),
		runner:     r,
		workingDir: workingDir,
	}
}

func (g *GitCli) executeGitCommand(args ...string) (string, error) {
	out, err := g.runner.Run(github.Command{Name: "git", Args: args})
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
	}

	output := strings.TrimSpace(out)
	g.log.Debug("Git command succeeded", "args", args, "output", output)
	return output, nil
}

func (g *GitCli) GetMainWorktreePath() (string, error) {
	commonDir, err := g.executeGitCommand("rev-parse", "--git-common-dir")
	if err != nil {
		return "", fmt.Errorf("failed to get git common dir: %w", err)
	}

	absCommonDir := commonDir
	if !filepath.IsAbs(commonDir) {
		absCommonDir = filepath.Join(g.workingDir, commonDir)
	}

	absCommonDir, err = filepath.Abs(absCommonDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	mainWorktree := filepath.Dir(filepath.Clean(absCommonDir))

	g.log.Debug("Resolved main worktree path", "commonDir", commonDir, "mainWorktree", mainWorktree)
	return mainWorktree, nil
}

func (g *GitCli) GetWorktreeRoot() (string, error) {
	output, err := g.executeGitCommand("rev-parse", "--show-toplevel")
	if err != nil {
		if notARepo(err) {
			// Not in a git repo - this is a valid state, not an error
			return "", nil
		}
		return "", fmt.Errorf("git command failed: %w", err)
	}
	return output, nil
}

func (g *GitCli) GetCurrentBranch() (string, error) {
	output, err := g.executeGitCommand("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return output, nil
}

func notARepo(err error) bool {
	var cmdErr *github.CommandError
	if errors.As(err, &cmdErr) {
		return strings.Contains(cmdErr.Stderr, "not a git repo")
	}
	return false
}
