package config

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// MaxPageSize is the largest page GitHub's GraphQL API serves per connection.
const MaxPageSize = 100

// LogLevels lists the accepted values for log.level.
var LogLevels = []string{"debug", "info", "warn", "error"}

// OutputFormats lists the accepted values for output.format.
var OutputFormats = []string{"json", "text"}

// Config represents the complete ghfetch configuration.
type Config struct {
	Fetch  FetchConfig  `toml:"fetch"`
	GH     GHConfig     `toml:"gh"`
	Log    LogConfig    `toml:"log"`
	Output OutputConfig `toml:"output"`
}

// Validate checks that all config values are valid.
// Returns an error describing the first invalid value found.
func (c Config) Validate() error {
	if c.GH.Timeout < 0 {
		return errors.New("gh.timeout cannot be negative")
	}
	if c.Fetch.PageSize < 1 || c.Fetch.PageSize > MaxPageSize {
		return fmt.Errorf("fetch.page_size must be between 1 and %d", MaxPageSize)
	}
	if c.Fetch.ThreadComments < 1 || c.Fetch.ThreadComments > MaxPageSize {
		return fmt.Errorf("fetch.thread_comments must be between 1 and %d", MaxPageSize)
	}
	if !slices.Contains(LogLevels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of %v", LogLevels)
	}
	if !slices.Contains(OutputFormats, c.Output.Format) {
		return fmt.Errorf("output.format must be one of %v", OutputFormats)
	}
	return nil
}

// FetchConfig configures GraphQL pagination.
type FetchConfig struct {
	PageSize       int `toml:"page_size"`       // nodes per collection per round trip
	ThreadComments int `toml:"thread_comments"` // comments fetched per review thread
}

// GHConfig configures gh command execution.
type GHConfig struct {
	Path    string        `toml:"path"`    // empty resolves via GH_PATH, then PATH
	Timeout time.Duration `toml:"timeout"` // Timeout for each gh invocation (e.g., "30s"); 0 disables it
}

// LogConfig configures diagnostic output on stderr.
type LogConfig struct {
	Level string `toml:"level"`
}

// OutputConfig configures how results are written to stdout.
type OutputConfig struct {
	Format string `toml:"format"`
}
