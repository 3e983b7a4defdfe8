package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/jmcampanini/ghfetch/internal/github"
	"github.com/mattn/go-runewidth"
)

var (
	purple    = lipgloss.Color("99")
	gray      = lipgloss.Color("245")
	lightGray = lipgloss.Color("241")
	green     = lipgloss.Color("42")
	red       = lipgloss.Color("203")
)

// styles are bound to a renderer so color follows the destination writer,
// not the process's stdout.
type styles struct {
	r       *lipgloss.Renderer
	title   lipgloss.Style
	meta    lipgloss.Style
	section lipgloss.Style
	author  lipgloss.Style
	added   lipgloss.Style
	removed lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		r:       r,
		title:   r.NewStyle().Bold(true),
		meta:    r.NewStyle().Foreground(gray),
		section: r.NewStyle().Foreground(purple).Bold(true),
		author:  r.NewStyle().Bold(true),
		added:   r.NewStyle().Foreground(green),
		removed: r.NewStyle().Foreground(red),
	}
}

func (s styles) newTable(headers []string, rows [][]string) *table.Table {
	headerStyle := s.r.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
	cellStyle := s.r.NewStyle().Padding(0, 1)
	oddRowStyle := cellStyle.Foreground(gray)
	evenRowStyle := cellStyle.Foreground(lightGray)

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.r.NewStyle().Foreground(purple)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return evenRowStyle
			default:
				return oddRowStyle
			}
		}).
		Headers(headers...).
		Rows(rows...)
}

// textWriter accumulates the first write error so rendering code can stay linear.
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) line(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format+"\n", args...)
}

func (t *textWriter) blank() {
	t.line("")
}

func writeIssueText(w io.Writer, r github.IssueResult) error {
	s := newStyles(w)
	tw := &textWriter{w: w}
	issue := r.Issue

	tw.line("%s", s.title.Render(fmt.Sprintf("#%d %s", issue.Number, issue.Title)))
	tw.line("%s", s.meta.Render(strings.Join([]string{
		strings.ToLower(issue.State),
		orDash(issue.Author),
		"opened " + relativeTime(issue.CreatedAt),
		"updated " + relativeTime(issue.UpdatedAt),
	}, " · ")))
	tw.line("%s", s.meta.Render(issue.URL))
	if len(issue.Labels) > 0 {
		tw.line("Labels: %s", strings.Join(issue.Labels, ", "))
	}
	if len(issue.Assignees) > 0 {
		tw.line("Assignees: %s", strings.Join(issue.Assignees, ", "))
	}
	if body := strings.TrimSpace(issue.Body); body != "" {
		tw.blank()
		tw.line("%s", body)
	}

	writeComments(tw, s, "Comments", r.Comments)
	return tw.err
}

func writeDiffText(w io.Writer, d github.PullRequestDiff) error {
	s := newStyles(w)
	tw := &textWriter{w: w}
	pr := d.PR

	tw.line("%s", s.title.Render(fmt.Sprintf("#%d %s", pr.Number, pr.Title)))
	tw.line("%s", s.meta.Render(strings.Join([]string{
		strings.ToLower(pr.State),
		orDash(pr.Author),
		pr.HeadRefName + " → " + pr.BaseRefName,
		"updated " + relativeTime(pr.UpdatedAt),
	}, " · ")))
	tw.line("%s", s.meta.Render(pr.URL))
	tw.line("%s %s in %s",
		s.added.Render(fmt.Sprintf("+%d", pr.Additions)),
		s.removed.Render(fmt.Sprintf("-%d", pr.Deletions)),
		humanize.Comma(int64(pr.ChangedFiles))+" "+plural(pr.ChangedFiles, "file", "files"),
	)

	if len(pr.Files) > 0 {
		rows := make([][]string, len(pr.Files))
		for i, f := range pr.Files {
			rows[i] = []string{
				truncateString(f.Path, 60),
				"+" + strconv.Itoa(f.Additions),
				"-" + strconv.Itoa(f.Deletions),
			}
		}
		tw.blank()
		tw.line("%s", s.newTable([]string{"File", "Added", "Removed"}, rows))
	}

	if d.Diff != "" {
		tw.blank()
		if tw.err == nil {
			_, tw.err = io.WriteString(w, strings.TrimRight(d.Diff, "\n")+"\n")
		}
	}
	return tw.err
}

func writeConversationText(w io.Writer, c github.Conversation) error {
	s := newStyles(w)
	tw := &textWriter{w: w}
	pr := c.PullRequest

	tw.line("%s", s.title.Render(fmt.Sprintf("%s/%s#%d %s", pr.Owner, pr.Repo, pr.Number, pr.Title)))
	tw.line("%s", s.meta.Render(strings.ToLower(pr.State)+" · "+pr.URL))

	if len(c.Reviews) > 0 {
		rows := make([][]string, len(c.Reviews))
		for i, r := range c.Reviews {
			submitted := "pending"
			if r.SubmittedAt != nil {
				submitted = relativeTime(r.SubmittedAt)
			}
			rows[i] = []string{
				orDash(r.Author),
				strings.ToLower(strings.ReplaceAll(r.State.String(), "_", " ")),
				submitted,
				truncateString(firstLine(r.Body), 50),
			}
		}
		tw.blank()
		tw.line("%s", s.section.Render(fmt.Sprintf("Reviews (%d)", len(c.Reviews))))
		tw.line("%s", s.newTable([]string{"Author", "State", "Submitted", "Summary"}, rows))
	}

	if len(c.ReviewThreads) > 0 {
		tw.blank()
		tw.line("%s", s.section.Render(fmt.Sprintf("Review threads (%d)", len(c.ReviewThreads))))
		for _, thread := range c.ReviewThreads {
			tw.blank()
			tw.line("%s", s.title.Render(threadLocation(thread))+s.meta.Render(threadFlags(thread)))
			for _, comment := range thread.Comments {
				writeComment(tw, s, comment, "  ")
			}
		}
	}

	writeComments(tw, s, "Conversation", c.ConversationComments)
	return tw.err
}

func writeComments(tw *textWriter, s styles, heading string, comments []github.Comment) {
	tw.blank()
	tw.line("%s", s.section.Render(fmt.Sprintf("%s (%d)", heading, len(comments))))
	for _, c := range comments {
		tw.blank()
		writeComment(tw, s, c, "")
	}
}

func writeComment(tw *textWriter, s styles, c github.Comment, indent string) {
	tw.line("%s%s %s", indent, s.author.Render(orDash(c.Author)), s.meta.Render(relativeTime(c.CreatedAt)))
	for _, l := range strings.Split(strings.TrimSpace(c.Body), "\n") {
		tw.line("%s%s", indent, l)
	}
}

func threadLocation(t github.ReviewThread) string {
	line := t.Line
	if line == nil {
		line = t.OriginalLine
	}
	if line == nil {
		return t.Path
	}

	start := t.StartLine
	if start == nil {
		start = t.OriginalStartLine
	}
	if start != nil && *start != *line {
		return fmt.Sprintf("%s:%d-%d", t.Path, *start, *line)
	}
	return fmt.Sprintf("%s:%d", t.Path, *line)
}

func threadFlags(t github.ReviewThread) string {
	var flags []string
	if t.IsResolved {
		flags = append(flags, "resolved")
	}
	if t.IsOutdated {
		flags = append(flags, "outdated")
	}
	if len(flags) == 0 {
		return ""
	}
	return " [" + strings.Join(flags, ", ") + "]"
}

func relativeTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return humanize.Time(*t)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

// truncateString shortens s to maxLen terminal cells, ending with "..." when
// there is room.
func truncateString(s string, maxLen int) string {
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}
