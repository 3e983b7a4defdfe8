package github

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"
)

// Options configures a GitHubCli.
type Options struct {
	Binary             string        // gh executable; empty resolves via ResolveBinary
	WorkingDir         string        // directory gh runs in, which decides the repo context
	Timeout            time.Duration // per invocation; 0 disables
	PageSize           int           // GraphQL page size, clamped to 1..MaxPageSize
	ThreadCommentsSize int           // comments fetched per review thread, clamped to 1..MaxPageSize
}

// GitHubCli provides GitHub operations by executing the gh CLI.
type GitHubCli struct {
	bin                string
	log                *clog.Logger
	pageSize           int
	runner             Runner
	threadCommentsSize int
}

var _ GitHub = &GitHubCli{}

// New creates a GitHubCli that executes gh as a child process.
func New(opts Options) GitHub {
	return NewWithRunner(NewExecRunner(opts.WorkingDir, opts.Timeout), opts)
}

// NewWithRunner creates a GitHubCli that sends every gh invocation through r.
func NewWithRunner(r Runner, opts Options) *GitHubCli {
	return &GitHubCli{
		bin:                ResolveBinary(opts.Binary),
		log:                clog.Default().WithPrefix("github"),
		pageSize:           clampPageSize(opts.PageSize),
		runner:             r,
		threadCommentsSize: clampPageSize(opts.ThreadCommentsSize),
	}
}

func clampPageSize(n int) int {
	if n <= 0 || n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

func (g *GitHubCli) command(args ...string) Command {
	return Command{Name: g.bin, Args: args}
}

// prArgs builds `gh pr <sub> [ref] rest...`, leaving out an empty ref so gh
// falls back to the current branch.
func prArgs(sub, ref string, rest ...string) []string {
	args := []string{"pr", sub}
	if ref != "" {
		args = append(args, ref)
	}
	return append(args, rest...)
}

func describeRef(ref string) string {
	if ref == "" {
		return "the current branch"
	}
	return ref
}

func (g *GitHubCli) GetAuthStatus() (string, error) {
	output, err := g.runner.Run(g.command("auth", "status"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

func (g *GitHubCli) GetIssue(number int) (IssueResult, error) {
	cmd := g.command("issue", "view", strconv.Itoa(number), "--json", issueJsonFields)

	var raw rawIssue
	if err := RunJSON(g.runner, cmd, &raw); err != nil {
		return IssueResult{}, fmt.Errorf("failed to get issue #%d: %w", number, err)
	}

	result := raw.normalize()
	g.log.Debug("Fetched issue", "number", number, "comments", len(result.Comments))
	return result, nil
}

func (g *GitHubCli) GetPullRequestDiff(ref string) (PullRequestDiff, error) {
	var raw rawPullRequestDetails
	if err := RunJSON(g.runner, g.command(prArgs("view", ref, "--json", prDetailsJsonFields)...), &raw); err != nil {
		return PullRequestDiff{}, fmt.Errorf("failed to get pull request for %s: %w", describeRef(ref), err)
	}

	diff, err := g.runner.Run(g.command(prArgs("diff", ref)...))
	if err != nil {
		return PullRequestDiff{}, fmt.Errorf("failed to get diff for %s: %w", describeRef(ref), err)
	}

	details := raw.normalize()
	g.log.Debug("Fetched pull request diff", "number", details.Number, "files", len(details.Files), "diffLen", len(diff))
	return PullRequestDiff{PR: details, Diff: diff}, nil
}

func (g *GitHubCli) ResolvePullRequest(ref string) (PullRequestRef, error) {
	var raw rawPullRequestRef
	if err := RunJSON(g.runner, g.command(prArgs("view", ref, "--json", prRefJsonFields)...), &raw); err != nil {
		return PullRequestRef{}, fmt.Errorf("failed to resolve pull request for %s: %w", describeRef(ref), err)
	}

	resolved, err := raw.toRef()
	if err != nil {
		return PullRequestRef{}, err
	}
	g.log.Debug("Resolved pull request", "ref", ref, "resolved", resolved.String())
	return resolved, nil
}
