package config

import "time"

// DefaultConfig returns sensible defaults for all configuration.
func DefaultConfig() Config {
	return Config{
		Fetch: FetchConfig{
			PageSize:       MaxPageSize,
			ThreadComments: MaxPageSize,
		},
		GH: GHConfig{
			Timeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Output: OutputConfig{
			Format: "json",
		},
	}
}
