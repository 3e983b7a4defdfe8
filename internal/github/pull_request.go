package github

import (
	"fmt"
	"time"
)

// PullRequestFile is one entry of a pull request's changed file list.
type PullRequestFile struct {
	Path       string `json:"path"`
	Additions  int    `json:"additions"`
	Deletions  int    `json:"deletions"`
	ChangeType string `json:"changeType,omitempty"`
}

// PullRequestDetails is the metadata half of the diff pipeline.
type PullRequestDetails struct {
	Number       int               `json:"number"`
	Title        string            `json:"title"`
	URL          string            `json:"url"`
	HeadRefName  string            `json:"headRefName"`
	BaseRefName  string            `json:"baseRefName"`
	State        string            `json:"state"`
	Author       string            `json:"author"`
	CreatedAt    *time.Time        `json:"createdAt"`
	UpdatedAt    *time.Time        `json:"updatedAt"`
	Additions    int               `json:"additions"`
	Deletions    int               `json:"deletions"`
	ChangedFiles int               `json:"changedFiles"`
	Files        []PullRequestFile `json:"files"`
}

// PullRequestDiff bundles metadata with the unified diff text.
type PullRequestDiff struct {
	PR   PullRequestDetails `json:"pr"`
	Diff string             `json:"diff"`
}

const prDetailsJsonFields = "number,title,url,headRefName,baseRefName,state,author,createdAt,updatedAt,additions,deletions,changedFiles,files"

type rawPullRequestDetails struct {
	Number       int                          `json:"number"`
	Title        string                       `json:"title"`
	URL          string                       `json:"url"`
	HeadRefName  string                       `json:"headRefName"`
	BaseRefName  string                       `json:"baseRefName"`
	State        string                       `json:"state"`
	Author       *actor                       `json:"author"`
	CreatedAt    *time.Time                   `json:"createdAt"`
	UpdatedAt    *time.Time                   `json:"updatedAt"`
	Additions    int                          `json:"additions"`
	Deletions    int                          `json:"deletions"`
	ChangedFiles int                          `json:"changedFiles"`
	Files        lenientList[PullRequestFile] `json:"files"`
}

func (raw rawPullRequestDetails) normalize() PullRequestDetails {
	files := make([]PullRequestFile, 0, len(raw.Files))
	files = append(files, raw.Files...)

	return PullRequestDetails{
		Number:       raw.Number,
		Title:        raw.Title,
		URL:          raw.URL,
		HeadRefName:  raw.HeadRefName,
		BaseRefName:  raw.BaseRefName,
		State:        raw.State,
		Author:       raw.Author.login(),
		CreatedAt:    raw.CreatedAt,
		UpdatedAt:    raw.UpdatedAt,
		Additions:    raw.Additions,
		Deletions:    raw.Deletions,
		ChangedFiles: raw.ChangedFiles,
		Files:        files,
	}
}

// PullRequestRef locates a pull request for GraphQL queries.
type PullRequestRef struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Number int    `json:"number"`
}

func (r PullRequestRef) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

const prRefJsonFields = "number,headRepositoryOwner,headRepository"

type rawPullRequestRef struct {
	Number              int    `json:"number"`
	HeadRepositoryOwner *actor `json:"headRepositoryOwner"`
	HeadRepository      *struct {
		Name string `json:"name"`
	} `json:"headRepository"`
}

// toRef takes owner and repo from the head side so that pull requests
// opened from forks resolve to the fork.
func (raw rawPullRequestRef) toRef() (PullRequestRef, error) {
	owner := raw.HeadRepositoryOwner.login()
	if owner == "" || raw.HeadRepository == nil || raw.HeadRepository.Name == "" {
		return PullRequestRef{}, fmt.Errorf("pull request #%d has no head repository (was the fork deleted?)", raw.Number)
	}
	return PullRequestRef{
		Owner:  owner,
		Repo:   raw.HeadRepository.Name,
		Number: raw.Number,
	}, nil
}
