package config

import (
	"fmt"
	"os"
	"strings"
)

// loadFromEnv overrides config from TODOTXT_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	setEnv := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("TODOTXT_PATH"); v != "" {
		cfg.TodoPath = v
		setEnv("todo_path")
	}
	if v := os.Getenv("TODOTXT_PATTERN"); v != "" {
		cfg.Pattern = v
		setEnv("pattern")
	}
	if v := os.Getenv("TODOTXT_LOG_DIR"); v != "" {
		cfg.LogDir = v
		setEnv("log_dir")
	}
	if v := os.Getenv("TODOTXT_TODAY"); v != "" {
		cfg.Today = v
		setEnv("today")
	}
	if v := os.Getenv("TODOTXT_SOON_DAYS"); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			cfg.SoonDays = i
			setEnv("soon_days")
		}
	}

	// Logging configuration
	if v := os.Getenv("TODOTXT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		setEnv("log_level")
	}
	if v := os.Getenv("TODOTXT_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		setEnv("log_format")
	}
	if v := os.Getenv("TODOTXT_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		setEnv("log_timestamps")
	}
	if v := os.Getenv("TODOTXT_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		setEnv("log_caller")
	}
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
