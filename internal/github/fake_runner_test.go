package github

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"testing"

	clog "github.com/charmbracelet/log"
)

// fakeRunner records every command and answers with respond.
type fakeRunner struct {
	calls   []Command
	respond func(cmd Command) (string, error)
}

func (f *fakeRunner) Run(cmd Command) (string, error) {
	f.calls = append(f.calls, cmd)
	return f.respond(cmd)
}

// newTestGitHubCli returns a GitHubCli wired to a fake runner with a quiet logger.
func newTestGitHubCli(respond func(cmd Command) (string, error)) (*GitHubCli, *fakeRunner) {
	runner := &fakeRunner{respond: respond}
	g := NewWithRunner(runner, Options{Binary: "gh"})
	g.log = clog.New(io.Discard)
	return g, runner
}

// staticResponses answers by the command's leading arguments, e.g. "issue view".
func staticResponses(t *testing.T, responses map[string]string) func(Command) (string, error) {
	t.Helper()
	return func(cmd Command) (string, error) {
		key := strings.Join(cmd.Args[:min(2, len(cmd.Args))], " ")
		out, ok := responses[key]
		if !ok {
			t.Errorf("unexpected command: %s", cmd)
			return "", &CommandError{Command: cmd, ExitCode: 1, Stderr: "unexpected"}
		}
		return out, nil
	}
}

// flagValues collects the -f/-F key=value pairs of a gh api command.
func flagValues(cmd Command) map[string]string {
	values := make(map[string]string)
	for i := 0; i+1 < len(cmd.Args); i++ {
		if cmd.Args[i] != "-f" && cmd.Args[i] != "-F" {
			continue
		}
		key, value, _ := strings.Cut(cmd.Args[i+1], "=")
		values[key] = value
		i++
	}
	return values
}

// pagedGraphQL simulates GitHub paging three collections independently.
// Each collection has the given number of pages with two nodes per page.
type pagedGraphQL struct {
	t      *testing.T
	pages  map[string]int
	rounds int
}

func newPagedGraphQL(t *testing.T, comments, reviews, threads int) *pagedGraphQL {
	return &pagedGraphQL{
		t:     t,
		pages: map[string]int{"comments": comments, "reviews": reviews, "reviewThreads": threads},
	}
}

var pagedCollections = []struct {
	field   string
	include string
	cursor  string
}{
	{field: "comments", include: "includeComments", cursor: "commentsCursor"},
	{field: "reviews", include: "includeReviews", cursor: "reviewsCursor"},
	{field: "reviewThreads", include: "includeThreads", cursor: "threadsCursor"},
}

func (p *pagedGraphQL) respond(cmd Command) (string, error) {
	p.rounds++
	values := flagValues(cmd)

	pr := map[string]any{
		"number": 7,
		"url":    "https://github.com/acme/widget/pull/7",
		"title":  "Add widgets",
		"state":  "OPEN",
	}

	for _, c := range pagedCollections {
		if values[c.include] != "true" {
			continue
		}
		page := 1
		if after, ok := values[c.cursor]; ok {
			n, err := strconv.Atoi(strings.TrimPrefix(after, c.field+"-cursor-"))
			if err != nil {
				p.t.Errorf("bad cursor %q for %s", after, c.field)
			}
			page = n + 1
		}
		if page > p.pages[c.field] {
			p.t.Errorf("%s requested past its last page (page %d)", c.field, page)
		}

		nodes := make([]map[string]any, 0, 2)
		for i := 1; i <= 2; i++ {
			nodes = append(nodes, p.node(c.field, fmt.Sprintf("%s-%d-%d", c.field, page, i)))
		}
		hasNext := page < p.pages[c.field]
		endCursor := fmt.Sprintf("%s-cursor-%d", c.field, page)
		pr[c.field] = map[string]any{
			"pageInfo": map[string]any{"hasNextPage": hasNext, "endCursor": endCursor},
			"nodes":    nodes,
		}
	}

	out, err := json.Marshal(map[string]any{"data": map[string]any{"repository": map[string]any{"pullRequest": pr}}})
	if err != nil {
		p.t.Fatal(err)
	}
	return string(out), nil
}

func (p *pagedGraphQL) node(field, id string) map[string]any {
	switch field {
	case "reviews":
		return map[string]any{
			"id": id, "state": "COMMENTED", "body": "review " + id,
			"submittedAt": "2024-01-02T03:04:05Z", "author": map[string]any{"login": "reviewer"},
		}
	case "reviewThreads":
		return map[string]any{
			"id": id, "isResolved": false, "isOutdated": false, "path": "main.go",
			"line": 10, "diffSide": "RIGHT", "startLine": nil, "startDiffSide": nil,
			"originalLine": 10, "originalStartLine": nil,
			"comments": map[string]any{"nodes": []map[string]any{{
				"id": id + "-c", "body": "nit", "createdAt": "2024-01-02T03:04:05Z",
				"updatedAt": "2024-01-02T03:04:05Z", "author": map[string]any{"login": "reviewer"},
			}}},
		}
	default:
		return map[string]any{
			"id": id, "body": "comment " + id, "createdAt": "2024-01-02T03:04:05Z",
			"updatedAt": "2024-01-02T03:04:05Z", "author": map[string]any{"login": "commenter"},
		}
	}
}
