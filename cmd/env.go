package cmd

import (
	"fmt"
	"os"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/cli/go-gh/v2/pkg/repository"
	"github.com/jmcampanini/ghfetch/internal/config"
	"github.com/jmcampanini/ghfetch/internal/git"
	"github.com/jmcampanini/ghfetch/internal/github"
	"github.com/jmcampanini/ghfetch/internal/render"
	"github.com/spf13/cobra"
)

// Constructors for the external clients, replaced in tests.
var (
	newGit    = func(dir string, timeout time.Duration) git.Git { return git.New(dir, timeout) }
	newGitHub = func(opts github.Options) github.GitHub { return github.New(opts) }
)

// environment is everything a fetch command needs once the command line has
// been accepted.
type environment struct {
	cfg     config.Config
	gh      github.GitHub
	log     *clog.Logger
	printer *render.Printer
	repo    git.RepoContext
}

// loadConfig finds the git context and merges every ghfetch.toml that applies to cwd.
func loadConfig(cwd string) (config.LoadResult, git.RepoContext, error) {
	log := clog.Default().WithPrefix("cmd")

	repo, err := git.Detect(newGit(cwd, config.DefaultConfig().GH.Timeout))
	if err != nil {
		// gh works without a local checkout, so a broken or missing git is not fatal.
		log.Debug("Could not read git context", "error", err)
		repo = git.RepoContext{}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return config.LoadResult{}, repo, fmt.Errorf("failed to get user home directory: %w", err)
	}

	configPaths := config.ConfigPaths(cwd, repo.WorktreeRoot, repo.MainWorktree, homeDir)
	loadResult, err := config.NewDefaultLoader().Load(configPaths)
	if err != nil {
		return config.LoadResult{}, repo, fmt.Errorf("failed to load config: %w", err)
	}
	log.Debug("Loaded config", "sources", loadResult.SourcePaths, "inRepo", repo.InRepo(), "branch", repo.Branch)

	return loadResult, repo, nil
}

// setup loads config, builds the gh client and checks that gh is logged in.
// Only local git runs before the auth check; it locates the config that names
// the gh binary.
func setup(cmd *cobra.Command) (*environment, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	loadResult, repo, err := loadConfig(cwd)
	if err != nil {
		return nil, err
	}
	cfg := loadResult.Config

	if !verboseFlag {
		level, err := clog.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		clog.SetLevel(level)
	}

	format := cfg.Output.Format
	if formatFlag != "" {
		format = formatFlag
	}
	outputFormat, err := render.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	gh := newGitHub(github.Options{
		Binary:             cfg.GH.Path,
		WorkingDir:         cwd,
		Timeout:            cfg.GH.Timeout,
		PageSize:           cfg.Fetch.PageSize,
		ThreadCommentsSize: cfg.Fetch.ThreadComments,
	})
	if err := github.EnsureAuthenticated(gh); err != nil {
		return nil, err
	}

	return &environment{
		cfg:     cfg,
		gh:      gh,
		log:     clog.Default().WithPrefix("cmd"),
		printer: render.NewPrinter(cmd.OutOrStdout(), outputFormat),
		repo:    repo,
	}, nil
}

// logImplicitTarget records which branch and repository gh will pick when no
// pull request reference is given. Resolving the repository reads git remotes,
// so it only happens at debug level.
func (e *environment) logImplicitTarget() {
	if e.log.GetLevel() > clog.DebugLevel {
		return
	}
	if e.repo.Branch == "" {
		e.log.Debug("No reference given and no current branch; gh decides the pull request")
		return
	}
	if r, err := repository.Current(); err == nil {
		e.log.Debug("Using pull request for current branch", "branch", e.repo.Branch, "repo", r.Owner+"/"+r.Name, "host", r.Host)
		return
	}
	e.log.Debug("Using pull request for current branch", "branch", e.repo.Branch)
}

// wrapPullRequestError adds the current branch to failures of commands that
// were run without a reference.
func (e *environment) wrapPullRequestError(ref string, err error) error {
	if ref != "" || e.repo.Branch == "" {
		return err
	}
	return fmt.Errorf("on branch %q: %w", e.repo.Branch, err)
}
