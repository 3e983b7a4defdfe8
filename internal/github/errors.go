package github

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidReference means an issue or pull request identifier matched no accepted shape.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrUnauthenticated means `gh auth status` failed.
	ErrUnauthenticated = errors.New("GitHub CLI is not authenticated. Run: gh auth login")

	// ErrCommandFailed means an external process exited non-zero or could not be started.
	ErrCommandFailed = errors.New("command failed")

	// ErrMalformedOutput means an external process printed something that is not valid JSON.
	ErrMalformedOutput = errors.New("malformed command output")

	// ErrGraphQuery means a GraphQL response carried an errors array.
	ErrGraphQuery = errors.New("GitHub GraphQL errors")
)

// CommandError describes a gh invocation that did not succeed.
type CommandError struct {
	Command  Command
	ExitCode int // -1 when the process never produced an exit status
	Stderr   string
	Stdout   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("Command failed: %s", e.Command)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		return msg + "\n" + stderr
	}
	if e.Err != nil {
		return msg + "\n" + e.Err.Error()
	}
	return msg
}

func (e *CommandError) Is(target error) bool { return target == ErrCommandFailed }

func (e *CommandError) Unwrap() error { return e.Err }

// MalformedOutputError carries the raw text that failed to parse.
type MalformedOutputError struct {
	Err error
	Raw string
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("Failed to parse JSON from command output: %v\nRaw:\n%s", e.Err, e.Raw)
}

func (e *MalformedOutputError) Is(target error) bool { return target == ErrMalformedOutput }

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// GraphQueryError holds the errors array of a GraphQL response, verbatim.
type GraphQueryError struct {
	Errors json.RawMessage
}

func (e *GraphQueryError) Error() string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, e.Errors, "", "  "); err != nil {
		return fmt.Sprintf("%s:\n%s", ErrGraphQuery, string(e.Errors))
	}
	return fmt.Sprintf("%s:\n%s", ErrGraphQuery, buf.String())
}

func (e *GraphQueryError) Is(target error) bool { return target == ErrGraphQuery }

func invalidReference(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidReference)
}
