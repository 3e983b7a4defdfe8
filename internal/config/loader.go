package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	clog "github.com/charmbracelet/log"
)

// LoadResult contains the loaded config and metadata about the load.
type LoadResult struct {
	Config      Config
	SourcePaths []string // paths that were successfully loaded, in order applied
}

// FileSystem abstracts file system operations for testability.
type FileSystem interface {
	// Exists returns true if the path exists and is a file (not a directory).
	Exists(path string) bool
}

// OSFileSystem implements FileSystem using the real OS.
type OSFileSystem struct{}

// Exists returns true if the path exists and is a file (not a directory).
func (OSFileSystem) Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Loader handles configuration loading and merging.
type Loader struct {
	fs  FileSystem
	log *clog.Logger
}

// NewLoader creates a new Loader with the given FileSystem.
func NewLoader(fs FileSystem) *Loader {
	return &Loader{
		fs:  fs,
		log: clog.Default().WithPrefix("config"),
	}
}

// NewDefaultLoader creates a new Loader that uses the real OS file system.
func NewDefaultLoader() *Loader {
	return NewLoader(OSFileSystem{})
}

// Load reads and merges all config files in priority order.
// Paths should be ordered from lowest to highest priority.
// Returns merged config with defaults as base, plus source paths for debugging.
func (l *Loader) Load(paths []string) (LoadResult, error) {
	cfg := DefaultConfig()
	var sourcePaths []string

	for _, path := range paths {
		if !l.fs.Exists(path) {
			continue // Skip missing files
		}

		metadata, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return LoadResult{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
			l.log.Warn("unknown config keys", "path", path, "keys", undecoded)
		}

		l.log.Debug("Applied config file", "path", path)
		sourcePaths = append(sourcePaths, path)
	}

	if err := cfg.Validate(); err != nil {
		return LoadResult{}, fmt.Errorf("invalid config: %w", err)
	}

	return LoadResult{
		Config:      cfg,
		SourcePaths: sourcePaths,
	}, nil
}

// Write encodes cfg as TOML. Durations are written as strings ("30s") so the
// output can be saved as a ghfetch.toml and loaded back unchanged.
func Write(w io.Writer, cfg Config) error {
	doc := struct {
		Fetch FetchConfig `toml:"fetch"`
		GH    struct {
			Path    string `toml:"path"`
			Timeout string `toml:"timeout"`
		} `toml:"gh"`
		Log    LogConfig    `toml:"log"`
		Output OutputConfig `toml:"output"`
	}{
		Fetch:  cfg.Fetch,
		Log:    cfg.Log,
		Output: cfg.Output,
	}
	doc.GH.Path = cfg.GH.Path
	doc.GH.Timeout = cfg.GH.Timeout.String()

	return toml.NewEncoder(w).Encode(doc)
}
