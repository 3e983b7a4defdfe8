package github

import (
	"encoding/json"
	"fmt"
	"time"
)

// Issue is a flattened GitHub issue.
type Issue struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	State     string     `json:"state"`
	Body      string     `json:"body"`
	Author    string     `json:"author"`
	CreatedAt *time.Time `json:"createdAt"` // nil when gh omits it
	UpdatedAt *time.Time `json:"updatedAt"`
	Assignees []string   `json:"assignees"`
	Labels    []string   `json:"labels"`
}

// Comment is an issue comment, PR conversation comment, or inline review comment.
type Comment struct {
	ID        string     `json:"id"`
	Author    string     `json:"author"`
	CreatedAt *time.Time `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"` // gh issue view leaves this out for comments
	Body      string     `json:"body"`
}

// IssueResult is the output of the issue pipeline.
type IssueResult struct {
	Issue    Issue     `json:"issue"`
	Comments []Comment `json:"comments"`
}

const issueJsonFields = "number,title,url,state,body,author,createdAt,updatedAt,assignees,labels,comments"

// actor is the {"login": ...} object GitHub uses for authors and assignees.
// A nil pointer covers both null and deleted accounts.
type actor struct {
	Login string `json:"login"`
}

func (a *actor) login() string {
	if a == nil {
		return ""
	}
	return a.Login
}

// lenientList decodes a JSON array, skipping entries that are not objects
// (null, strings, numbers). An object entry that does not decode fails the
// whole payload, so no record is dropped silently.
type lenientList[T any] []T

func (l *lenientList[T]) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make([]T, 0, len(raw))
	for i, item := range raw {
		if len(item) == 0 || item[0] != '{' {
			continue
		}
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return fmt.Errorf("list entry %d: %w", i, err)
		}
		out = append(out, v)
	}
	*l = out
	return nil
}

type rawComment struct {
	ID        string     `json:"id"`
	Author    *actor     `json:"author"`
	Body      string     `json:"body"`
	CreatedAt *time.Time `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

func (c rawComment) normalize() Comment {
	return Comment{
		ID:        c.ID,
		Author:    c.Author.login(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Body:      c.Body,
	}
}

func normalizeComments(raw []rawComment) []Comment {
	comments := make([]Comment, 0, len(raw))
	for _, c := range raw {
		comments = append(comments, c.normalize())
	}
	return comments
}

type issueLabel struct {
	Name string `json:"name"`
}

// rawIssue is the payload of `gh issue view --json`.
type rawIssue struct {
	Number    int                     `json:"number"`
	Title     string                  `json:"title"`
	URL       string                  `json:"url"`
	State     string                  `json:"state"`
	Body      string                  `json:"body"`
	Author    *actor                  `json:"author"`
	CreatedAt *time.Time              `json:"createdAt"`
	UpdatedAt *time.Time              `json:"updatedAt"`
	Assignees lenientList[actor]      `json:"assignees"`
	Labels    lenientList[issueLabel] `json:"labels"`
	Comments  lenientList[rawComment] `json:"comments"`
}

func (raw rawIssue) normalize() IssueResult {
	assignees := make([]string, 0, len(raw.Assignees))
	for _, a := range raw.Assignees {
		assignees = append(assignees, a.Login)
	}
	labels := make([]string, 0, len(raw.Labels))
	for _, l := range raw.Labels {
		labels = append(labels, l.Name)
	}

	return IssueResult{
		Issue: Issue{
			Number:    raw.Number,
			Title:     raw.Title,
			URL:       raw.URL,
			State:     raw.State,
			Body:      raw.Body,
			Author:    raw.Author.login(),
			CreatedAt: raw.CreatedAt,
			UpdatedAt: raw.UpdatedAt,
			Assignees: assignees,
			Labels:    labels,
		},
		Comments: normalizeComments(raw.Comments),
	}
}
