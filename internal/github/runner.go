package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"
	gh "github.com/cli/go-gh/v2"
)

// Command is a single external process invocation.
type Command struct {
	Name  string
	Args  []string
	Stdin string // written to the process's standard input when non-empty
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner executes commands and returns their captured standard output.
type Runner interface {
	Run(cmd Command) (string, error)
}

// waitDelay bounds how long Run waits for output pipes after the process is killed.
const waitDelay = 2 * time.Second

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	log        *clog.Logger
	timeout    time.Duration
	workingDir string
}

var _ Runner = &ExecRunner{}

// NewExecRunner creates an ExecRunner. A zero timeout disables the deadline.
func NewExecRunner(workingDir string, timeout time.Duration) *ExecRunner {
	return &ExecRunner{
		log:        clog.Default().WithPrefix("exec"),
		timeout:    timeout,
		workingDir: workingDir,
	}
}

func (r *ExecRunner) Run(c Command) (string, error) {
	r.log.Debug("Executing command", "cmd", c.Name, "args", c.Args, "workingDir", r.workingDir, "stdinLen", len(c.Stdin))

	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = r.workingDir
	cmd.Env = append(os.Environ(), "GH_PROMPT_DISABLED=1", "GIT_TERMINAL_PROMPT=0")
	cmd.WaitDelay = waitDelay
	if c.Stdin != "" {
		cmd.Stdin = strings.NewReader(c.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		cmdErr := &CommandError{
			Command:  c,
			ExitCode: -1,
			Stderr:   stderr.String(),
			Stdout:   stdout.String(),
			Err:      err,
		}
		if ctx.Err() == context.DeadlineExceeded {
			r.log.Warn("Command timed out", "args", c.Args, "timeout", r.timeout, "error", err)
			cmdErr.Stderr = "timed out after " + r.timeout.String()
			return "", cmdErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		}
		r.log.Warn("Command failed", "args", c.Args, "exitCode", cmdErr.ExitCode, "stderr", stderr.String(), "error", err)
		return "", cmdErr
	}

	r.log.Debug("Command succeeded", "args", c.Args, "outputLen", stdout.Len())
	return stdout.String(), nil
}

// RunJSON runs cmd and decodes its standard output into v.
func RunJSON(r Runner, cmd Command, v any) error {
	out, err := r.Run(cmd)
	if err != nil {
		return err
	}
	return decodeOutput(out, v)
}

func decodeOutput(out string, v any) error {
	if err := json.Unmarshal([]byte(out), v); err != nil {
		return &MalformedOutputError{Err: err, Raw: out}
	}
	return nil
}

// ResolveBinary returns the gh executable to run. An explicit path wins,
// then go-gh's lookup (GH_PATH, then PATH), then plain "gh".
func ResolveBinary(configured string) string {
	if configured != "" {
		return configured
	}
	if path, err := gh.Path(); err == nil && path != "" {
		return path
	}
	return "gh"
}
