package config

import (
	"os"
	"path/filepath"
)

const configFileName = "ghfetch.toml"

// EnvConfigPath names an environment variable holding one extra config file.
// It is applied last, so it overrides every discovered file.
const EnvConfigPath = "GHFETCH_CONFIG"

// ConfigPaths returns ordered list of config file paths to check.
// Paths are ordered from lowest to highest priority, so that when decoded
// sequentially, each subsequent file overrides values from previous files.
//
// Order (lowest to highest priority):
//  1. File in XDG config directory (~/.config/ghfetch/ghfetch.toml)
//  2. Files walking up from git root toward home directory
//  3. File in git repository root (main worktree)
//  4. File in current worktree root (if different from git root)
//  5. File in current working directory (if different from worktree root)
//  6. File named by $GHFETCH_CONFIG, if set
//
// The worktreeRoot and gitRoot may be the same directory if running from the main worktree.
// Empty strings for worktreeRoot or gitRoot are handled gracefully, so the
// list still covers the XDG file and cwd outside a repository.
func ConfigPaths(cwd, worktreeRoot, gitRoot, homeDir string) []string {
	var paths []string
	seen := make(map[string]bool)

	addFile := func(path string) {
		if path == "" || seen[path] {
			return
		}
		seen[path] = true
		paths = append(paths, path)
	}
	addDir := func(dir string) {
		if dir != "" {
			addFile(filepath.Join(dir, configFileName))
		}
	}

	if xdgConfigDir, err := os.UserConfigDir(); err == nil {
		addDir(filepath.Join(xdgConfigDir, "ghfetch"))
	}

	for _, dir := range ancestorsUpToHome(gitRoot, homeDir) {
		addDir(dir)
	}

	addDir(gitRoot)
	addDir(worktreeRoot)
	addDir(cwd)

	addFile(os.Getenv(EnvConfigPath))

	return paths
}

// ancestorsUpToHome lists the directories from homeDir down to gitRoot's
// parent, home first. It is empty when gitRoot is not under homeDir.
func ancestorsUpToHome(gitRoot, homeDir string) []string {
	if gitRoot == "" || homeDir == "" {
		return nil
	}

	var ancestors []string
	current := filepath.Dir(gitRoot)
	for current != "" && len(current) >= len(homeDir) {
		ancestors = append(ancestors, current)
		if current == homeDir {
			break
		}
		parent := filepath.Dir(current)
		if parent == current {
			break // reached filesystem root
		}
		current = parent
	}

	for i, j := 0, len(ancestors)-1; i < j; i, j = i+1, j-1 {
		ancestors[i], ancestors[j] = ancestors[j], ancestors[i]
	}
	return ancestors
}
