package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// MaxPageSize is the largest connection page GitHub's GraphQL API allows.
const MaxPageSize = 100

// conversationQuery fetches the three paginated collections of a pull request
// in one round trip. Each collection is wrapped in @include so that a
// collection already read to the end is left out of later round trips rather
// than being restarted from its first page.
const conversationQuery = `query(
  $owner: String!,
  $repo: String!,
  $number: Int!,
  $pageSize: Int!,
  $threadCommentsSize: Int!,
  $includeComments: Boolean!,
  $includeReviews: Boolean!,
  $includeThreads: Boolean!,
  $commentsCursor: String,
  $reviewsCursor: String,
  $threadsCursor: String
) {
  repository(owner: $owner, name: $repo) {
    pullRequest(number: $number) {
      number
      url
      title
      state

      comments(first: $pageSize, after: $commentsCursor) @include(if: $includeComments) {
        pageInfo { hasNextPage endCursor }
        nodes {
          id
          body
          createdAt
          updatedAt
          author { login }
        }
      }

      reviews(first: $pageSize, after: $reviewsCursor) @include(if: $includeReviews) {
        pageInfo { hasNextPage endCursor }
        nodes {
          id
          state
          body
          submittedAt
          author { login }
        }
      }

      reviewThreads(first: $pageSize, after: $threadsCursor) @include(if: $includeThreads) {
        pageInfo { hasNextPage endCursor }
        nodes {
          id
          isResolved
          isOutdated
          path
          line
          diffSide
          startLine
          startDiffSide
          originalLine
          originalStartLine
          comments(first: $threadCommentsSize) {
            nodes {
              id
              body
              createdAt
              updatedAt
              author { login }
            }
          }
        }
      }
    }
  }
}
`

// ReviewState is the outcome of a pull request review.
type ReviewState string

const (
	ReviewStateApproved         ReviewState = "APPROVED"
	ReviewStateChangesRequested ReviewState = "CHANGES_REQUESTED"
	ReviewStateCommented        ReviewState = "COMMENTED"
	ReviewStateDismissed        ReviewState = "DISMISSED"
	ReviewStatePending          ReviewState = "PENDING"
)

func (s ReviewState) String() string {
	return string(s)
}

func (s ReviewState) IsValid() bool {
	switch s {
	case ReviewStateApproved, ReviewStateChangesRequested, ReviewStateCommented, ReviewStateDismissed, ReviewStatePending:
		return true
	}
	return false
}

// Review is a submitted (or pending) pull request review.
type Review struct {
	ID          string      `json:"id"`
	State       ReviewState `json:"state"`
	Body        string      `json:"body"`
	SubmittedAt *time.Time  `json:"submittedAt"` // nil for pending reviews
	Author      string      `json:"author"`
}

// ReviewThread is an inline review thread with its comments.
// Line fields are nil when GitHub has no position for them.
type ReviewThread struct {
	ID                string    `json:"id"`
	IsResolved        bool      `json:"isResolved"`
	IsOutdated        bool      `json:"isOutdated"`
	Path              string    `json:"path"`
	Line              *int      `json:"line"`
	DiffSide          *string   `json:"diffSide"`
	StartLine         *int      `json:"startLine"`
	StartDiffSide     *string   `json:"startDiffSide"`
	OriginalLine      *int      `json:"originalLine"`
	OriginalStartLine *int      `json:"originalStartLine"`
	Comments          []Comment `json:"comments"`
}

// PullRequestSummary identifies the pull request a conversation belongs to.
type PullRequestSummary struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
	Title  string `json:"title"`
	State  string `json:"state"`
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
}

// Conversation is everything said on a pull request.
type Conversation struct {
	PullRequest          PullRequestSummary `json:"pull_request"`
	ConversationComments []Comment          `json:"conversation_comments"`
	Reviews              []Review           `json:"reviews"`
	ReviewThreads        []ReviewThread     `json:"review_threads"`
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type connection[T any] struct {
	PageInfo pageInfo       `json:"pageInfo"`
	Nodes    lenientList[T] `json:"nodes"`
}

type rawReview struct {
	ID          string      `json:"id"`
	State       ReviewState `json:"state"`
	Body        string      `json:"body"`
	SubmittedAt *time.Time  `json:"submittedAt"`
	Author      *actor      `json:"author"`
}

type rawReviewThread struct {
	ID                string  `json:"id"`
	IsResolved        bool    `json:"isResolved"`
	IsOutdated        bool    `json:"isOutdated"`
	Path              string  `json:"path"`
	Line              *int    `json:"line"`
	DiffSide          *string `json:"diffSide"`
	StartLine         *int    `json:"startLine"`
	StartDiffSide     *string `json:"startDiffSide"`
	OriginalLine      *int    `json:"originalLine"`
	OriginalStartLine *int    `json:"originalStartLine"`
	Comments          *struct {
		Nodes lenientList[rawComment] `json:"nodes"`
	} `json:"comments"`
}

type conversationPage struct {
	Data *struct {
		Repository *struct {
			PullRequest *struct {
				Number        int                          `json:"number"`
				URL           string                       `json:"url"`
				Title         string                       `json:"title"`
				State         string                       `json:"state"`
				Comments      *connection[rawComment]      `json:"comments"`
				Reviews       *connection[rawReview]       `json:"reviews"`
				ReviewThreads *connection[rawReviewThread] `json:"reviewThreads"`
			} `json:"pullRequest"`
		} `json:"repository"`
	} `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

func (p conversationPage) graphErrors() error {
	if len(p.Errors) == 0 || string(p.Errors) == "null" || string(p.Errors) == "[]" {
		return nil
	}
	return &GraphQueryError{Errors: p.Errors}
}

// cursor tracks one collection's position. A collection starts active with
// no position; once a page reports no further pages it is done for good.
type cursor struct {
	after string
	done  bool
}

// advance moves the cursor past a page. A missing connection means the
// collection was not requested and leaves the cursor untouched.
func (c *cursor) advance(info *pageInfo) {
	if info == nil {
		return
	}
	if info.HasNextPage && info.EndCursor != "" {
		c.after = info.EndCursor
		return
	}
	c.after = ""
	c.done = true
}

func (c *cursor) args(include, after string) []string {
	args := []string{"-F", fmt.Sprintf("%s=%t", include, !c.done)}
	if !c.done && c.after != "" {
		args = append(args, "-f", fmt.Sprintf("%s=%s", after, c.after))
	}
	return args
}

func pageInfoOf[T any](c *connection[T]) *pageInfo {
	if c == nil {
		return nil
	}
	return &c.PageInfo
}

func (g *GitHubCli) conversationCommand(ref PullRequestRef, comments, reviews, threads *cursor) Command {
	args := []string{
		"api", "graphql",
		"-F", "query=@-",
		"-f", "owner=" + ref.Owner,
		"-f", "repo=" + ref.Repo,
		"-F", "number=" + strconv.Itoa(ref.Number),
		"-F", "pageSize=" + strconv.Itoa(g.pageSize),
		"-F", "threadCommentsSize=" + strconv.Itoa(g.threadCommentsSize),
	}
	args = append(args, comments.args("includeComments", "commentsCursor")...)
	args = append(args, reviews.args("includeReviews", "reviewsCursor")...)
	args = append(args, threads.args("includeThreads", "threadsCursor")...)

	return Command{Name: g.bin, Args: args, Stdin: conversationQuery}
}

// queryConversationPage runs one round trip. gh exits non-zero when the
// response carries GraphQL errors, so a failed command whose stdout is a
// GraphQL envelope is reported as a GraphQueryError.
func (g *GitHubCli) queryConversationPage(cmd Command) (conversationPage, error) {
	var page conversationPage

	out, err := g.runner.Run(cmd)
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && cmdErr.Stdout != "" {
			if jsonErr := json.Unmarshal([]byte(cmdErr.Stdout), &page); jsonErr == nil {
				if gqlErr := page.graphErrors(); gqlErr != nil {
					return conversationPage{}, gqlErr
				}
			}
		}
		return conversationPage{}, err
	}

	if err := decodeOutput(out, &page); err != nil {
		return conversationPage{}, err
	}
	if gqlErr := page.graphErrors(); gqlErr != nil {
		return conversationPage{}, gqlErr
	}
	return page, nil
}

// FetchConversation collects all conversation comments, reviews and review
// threads of a pull request, paging each collection independently until all
// three are exhausted.
func (g *GitHubCli) FetchConversation(ref PullRequestRef) (Conversation, error) {
	conv := Conversation{
		ConversationComments: []Comment{},
		Reviews:              []Review{},
		ReviewThreads:        []ReviewThread{},
	}

	var comments, reviews, threads cursor
	var haveSummary bool

	for round := 1; ; round++ {
		page, err := g.queryConversationPage(g.conversationCommand(ref, &comments, &reviews, &threads))
		if err != nil {
			return Conversation{}, fmt.Errorf("failed to fetch conversation for %s: %w", ref, err)
		}
		if page.Data == nil || page.Data.Repository == nil || page.Data.Repository.PullRequest == nil {
			return Conversation{}, fmt.Errorf("pull request %s not found in GraphQL response", ref)
		}
		pr := page.Data.Repository.PullRequest

		// A collection that was requested must answer; treating a missing
		// connection as "not requested" would loop forever.
		if (!comments.done && pr.Comments == nil) || (!reviews.done && pr.Reviews == nil) || (!threads.done && pr.ReviewThreads == nil) {
			return Conversation{}, fmt.Errorf("pull request %s: GraphQL response is missing a requested collection", ref)
		}

		if !haveSummary {
			conv.PullRequest = PullRequestSummary{
				Number: pr.Number,
				URL:    pr.URL,
				Title:  pr.Title,
				State:  pr.State,
				Owner:  ref.Owner,
				Repo:   ref.Repo,
			}
			haveSummary = true
		}

		if pr.Comments != nil {
			for _, c := range pr.Comments.Nodes {
				conv.ConversationComments = append(conv.ConversationComments, c.normalize())
			}
		}
		if pr.Reviews != nil {
			for _, r := range pr.Reviews.Nodes {
				conv.Reviews = append(conv.Reviews, Review{
					ID:          r.ID,
					State:       r.State,
					Body:        r.Body,
					SubmittedAt: r.SubmittedAt,
					Author:      r.Author.login(),
				})
			}
		}
		if pr.ReviewThreads != nil {
			for _, t := range pr.ReviewThreads.Nodes {
				conv.ReviewThreads = append(conv.ReviewThreads, t.normalize())
			}
		}

		comments.advance(pageInfoOf(pr.Comments))
		reviews.advance(pageInfoOf(pr.Reviews))
		threads.advance(pageInfoOf(pr.ReviewThreads))

		g.log.Debug("Fetched conversation page", "pr", ref.String(), "round", round,
			"comments", len(conv.ConversationComments), "reviews", len(conv.Reviews), "threads", len(conv.ReviewThreads),
			"commentsDone", comments.done, "reviewsDone", reviews.done, "threadsDone", threads.done)

		if comments.done && reviews.done && threads.done {
			return conv, nil
		}
	}
}

func (t rawReviewThread) normalize() ReviewThread {
	var comments []Comment
	if t.Comments != nil {
		comments = normalizeComments(t.Comments.Nodes)
	} else {
		comments = []Comment{}
	}
	return ReviewThread{
		ID:                t.ID,
		IsResolved:        t.IsResolved,
		IsOutdated:        t.IsOutdated,
		Path:              t.Path,
		Line:              t.Line,
		DiffSide:          t.DiffSide,
		StartLine:         t.StartLine,
		StartDiffSide:     t.StartDiffSide,
		OriginalLine:      t.OriginalLine,
		OriginalStartLine: t.OriginalStartLine,
		Comments:          comments,
	}
}
