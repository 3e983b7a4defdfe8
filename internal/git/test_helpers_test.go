package git

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/jmcampanini/ghfetch/internal/github"
)

const testTimeout = 30 * time.Second

// testRepo provides a temporary git repository for integration tests.
type testRepo struct {
	Git     *GitCli
	rootDir string
	t       *testing.T
}

// newTestRepo creates an initialized git repository in a temp directory.
func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()

	runGit(t, dir, "init", "-b", "main")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")

	return &testRepo{
		Git:     newQuietGitCli(dir),
		rootDir: dir,
		t:       t,
	}
}

// newQuietGitCli creates a GitCli whose logger discards output.
func newQuietGitCli(dir string) *GitCli {
	g := NewWithRunner(github.NewExecRunner(dir, testTimeout), dir)
	g.log = clog.New(io.Discard)
	return g
}

// commit creates a new commit on the current branch.
func (r *testRepo) commit(message string) {
	r.t.Helper()
	appendToFile(r.t, filepath.Join(r.rootDir, "file.txt"), message+"\n")
	runGit(r.t, r.rootDir, "add", "-A")
	runGit(r.t, r.rootDir, "commit", "-m", message)
}

// path returns the root directory of the test repo (with symlinks resolved).
func (r *testRepo) path() string {
	return resolvePath(r.t, r.rootDir)
}

// runGit executes a git command and returns stdout.
func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	require.NoError(t, err, "git %v failed: %s", args, stderr.String())
	return stdout.String()
}

// appendToFile appends content to a file, creating it if necessary.
func appendToFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, f.Close())
	}()
	_, err = f.WriteString(content)
	require.NoError(t, err)
}

// resolvePath resolves symlinks in a path (useful for macOS /var -> /private/var).
func resolvePath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path
	}
	return resolved
}
