// Package render writes fetch results to stdout as JSON or as a short
// human-oriented summary.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cli/go-gh/v2/pkg/jsonpretty"
	"github.com/cli/go-gh/v2/pkg/term"
	"github.com/jmcampanini/ghfetch/internal/github"
)

// Format selects how results are written.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat validates a --format / output.format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatText:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json or text)", s)
	}
}

// Printer writes results in one format to a single writer.
type Printer struct {
	color  bool
	format Format
	out    io.Writer
}

// NewPrinter creates a Printer. Color is only used when out is the process's
// stdout and that terminal supports it.
func NewPrinter(out io.Writer, format Format) *Printer {
	return &Printer{
		color:  colorEnabled(out),
		format: format,
		out:    out,
	}
}

func colorEnabled(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok || f != os.Stdout {
		return false
	}
	return term.FromEnv().IsColorEnabled()
}

// Issue writes an issue and its comments.
func (p *Printer) Issue(r github.IssueResult) error {
	if p.format == FormatText {
		return writeIssueText(p.out, r)
	}
	return p.writeJSON(r)
}

// PullRequestDiff writes PR metadata followed by its unified diff.
func (p *Printer) PullRequestDiff(d github.PullRequestDiff) error {
	if p.format == FormatText {
		return writeDiffText(p.out, d)
	}
	return p.writeJSON(d)
}

// Conversation writes a PR's comments, reviews and review threads.
func (p *Printer) Conversation(c github.Conversation) error {
	if p.format == FormatText {
		return writeConversationText(p.out, c)
	}
	return p.writeJSON(c)
}

func (p *Printer) writeJSON(v any) error {
	return WriteJSON(p.out, v, p.color)
}

// WriteJSON encodes v as two-space indented JSON with a trailing newline.
// HTML characters are not escaped, so bodies and diffs come out as written.
func WriteJSON(w io.Writer, v any, colorize bool) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	if colorize {
		return jsonpretty.Format(w, &buf, "  ", true)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
