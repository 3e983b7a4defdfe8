package github

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// utc returns a pointer to a UTC timestamp with zero seconds.
func utc(year int, month time.Month, day, hour, minute int) *time.Time {
	ts := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	return &ts
}

func TestGitHubCli_GetIssue(t *testing.T) {
	tests := []struct {
		name         string
		payload      string
		wantIssue    Issue
		wantComments []Comment
	}{
		{
			name: "full issue",
			payload: `{
				"number": 42,
				"title": "Crash on start",
				"url": "https://github.com/acme/widget/issues/42",
				"state": "OPEN",
				"body": "It crashes.",
				"author": {"login": "alice", "name": "Alice"},
				"createdAt": "2024-01-15T10:30:00Z",
				"updatedAt": "2024-01-16T11:00:00Z",
				"assignees": [],
				"labels": [{"name": "bug", "color": "d73a4a"}],
				"comments": [
					{"id": "IC_1", "author": {"login": "bob"}, "body": "Same here", "createdAt": "2024-01-15T11:00:00Z", "updatedAt": "2024-01-15T11:00:00Z"},
					{"id": "IC_2", "author": {"login": "alice"}, "body": "Fixed?", "createdAt": "2024-01-16T11:00:00Z", "updatedAt": "2024-01-16T11:00:00Z"}
				]
			}`,
			wantIssue: Issue{
				Number:    42,
				Title:     "Crash on start",
				URL:       "https://github.com/acme/widget/issues/42",
				State:     "OPEN",
				Body:      "It crashes.",
				Author:    "alice",
				CreatedAt: utc(2024, 1, 15, 10, 30),
				UpdatedAt: utc(2024, 1, 16, 11, 0),
				Assignees: []string{},
				Labels:    []string{"bug"},
			},
			wantComments: []Comment{
				{ID: "IC_1", Author: "bob", Body: "Same here", CreatedAt: utc(2024, 1, 15, 11, 0), UpdatedAt: utc(2024, 1, 15, 11, 0)},
				{ID: "IC_2", Author: "alice", Body: "Fixed?", CreatedAt: utc(2024, 1, 16, 11, 0), UpdatedAt: utc(2024, 1, 16, 11, 0)},
			},
		},
		{
			name: "null author, body and lists",
			payload: `{
				"number": 1,
				"title": "Ghost",
				"url": "u",
				"state": "CLOSED",
				"body": null,
				"author": null,
				"assignees": null,
				"labels": null,
				"comments": null
			}`,
			wantIssue: Issue{
				Number:    1,
				Title:     "Ghost",
				URL:       "u",
				State:     "CLOSED",
				Assignees: []string{},
				Labels:    []string{},
			},
			wantComments: []Comment{},
		},
		{
			name: "absent fields and junk list entries",
			payload: `{
				"number": 2,
				"assignees": [{"login": "carol"}, "not-an-object", 3],
				"labels": [null, {"name": "docs"}],
				"comments": [{"id": "IC_9", "author": {}, "body": "hi"}, false]
			}`,
			wantIssue: Issue{
				Number:    2,
				Assignees: []string{"carol"},
				Labels:    []string{"docs"},
			},
			wantComments: []Comment{{ID: "IC_9", Body: "hi"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, runner := newTestGitHubCli(staticResponses(t, map[string]string{"issue view": tt.payload}))

			got, err := g.GetIssue(42)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIssue, got.Issue)
			assert.Equal(t, tt.wantComments, got.Comments)

			require.Len(t, runner.calls, 1)
			assert.Equal(t, []string{"issue", "view", "42", "--json", issueJsonFields}, runner.calls[0].Args)
		})
	}
}

func TestGitHubCli_GetIssue_OutputShape(t *testing.T) {
	payload := `{"number": 42, "title": "t", "url": "u", "state": "OPEN", "body": "b",
		"author": {"login": "alice"}, "createdAt": "2024-01-15T10:30:00Z", "updatedAt": "2024-01-15T10:30:00Z",
		"assignees": [], "labels": [{"name": "bug"}], "comments": []}`
	g, _ := newTestGitHubCli(staticResponses(t, map[string]string{"issue view": payload}))

	got, err := g.GetIssue(42)
	require.NoError(t, err)

	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"issue": {
			"number": 42, "title": "t", "url": "u", "state": "OPEN", "body": "b", "author": "alice",
			"createdAt": "2024-01-15T10:30:00Z", "updatedAt": "2024-01-15T10:30:00Z",
			"assignees": [], "labels": ["bug"]
		},
		"comments": []
	}`, string(out))
}

func TestGitHubCli_GetIssue_MissingTimestampsStayNull(t *testing.T) {
	payload := `{"number": 42, "title": "t", "url": "u", "state": "OPEN", "body": "b",
		"author": {"login": "alice"}, "createdAt": "2024-01-15T10:30:00Z", "updatedAt": null,
		"assignees": [], "labels": [],
		"comments": [{"id": "IC_1", "author": {"login": "bob"}, "body": "hi", "createdAt": "2024-01-15T11:00:00Z"}]}`
	g, _ := newTestGitHubCli(staticResponses(t, map[string]string{"issue view": payload}))

	got, err := g.GetIssue(42)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, utc(2024, 1, 15, 11, 0), got.Comments[0].CreatedAt)
	assert.Nil(t, got.Comments[0].UpdatedAt)
	assert.Nil(t, got.Issue.UpdatedAt)

	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(out), `{"id":"IC_1","author":"bob","createdAt":"2024-01-15T11:00:00Z","updatedAt":null,"body":"hi"}`)
	assert.NotContains(t, string(out), "0001-01-01")
}

func TestGitHubCli_GetIssue_Errors(t *testing.T) {
	t.Run("command failure", func(t *testing.T) {
		g, _ := newTestGitHubCli(func(cmd Command) (string, error) {
			return "", &CommandError{Command: cmd, ExitCode: 1, Stderr: "GraphQL: Could not resolve to an issue"}
		})

		_, err := g.GetIssue(9999)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrCommandFailed))
		assert.Contains(t, err.Error(), "#9999")
		assert.Contains(t, err.Error(), "Could not resolve to an issue")
	})

	t.Run("undecodable comment fails the payload", func(t *testing.T) {
		payload := `{"number": 1, "comments": [
			{"id": "IC_1", "author": {"login": "bob"}, "body": "ok", "createdAt": "2024-01-15T11:00:00Z"},
			{"id": "IC_2", "author": {"login": "bob"}, "body": "bad", "createdAt": ""}
		]}`
		g, _ := newTestGitHubCli(staticResponses(t, map[string]string{"issue view": payload}))

		_, err := g.GetIssue(1)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformedOutput))
		assert.Contains(t, err.Error(), "list entry 1")

		var malformed *MalformedOutputError
		require.True(t, errors.As(err, &malformed))
		assert.Equal(t, payload, malformed.Raw)
	})

	t.Run("mistyped label fails the payload", func(t *testing.T) {
		payload := `{"number": 1, "labels": [{"name": 5}]}`
		g, _ := newTestGitHubCli(staticResponses(t, map[string]string{"issue view": payload}))

		_, err := g.GetIssue(1)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformedOutput))
	})

	t.Run("malformed output", func(t *testing.T) {
		g, _ := newTestGitHubCli(func(Command) (string, error) { return "not json", nil })

		_, err := g.GetIssue(1)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformedOutput))
		assert.Contains(t, err.Error(), "not json")
	})
}
