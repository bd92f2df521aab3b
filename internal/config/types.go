// Package config handles configuration loading and defaults.
package config

import (
	"fmt"
	"time"

	"github.com/nibzard/todotxt-go/internal/todo"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
}

// Default values.
const (
	DefaultTodoPath  = "todo.txt"
	DefaultPattern   = "*.txt"
	DefaultSoonDays  = 3
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for todotxt.
type Config struct {
	// Paths
	TodoPath string `toml:"todo_path"` // File or directory to process
	Pattern  string `toml:"pattern"`   // Glob for files when TodoPath is a directory
	LogDir   string `toml:"log_dir"`   // JSONL run reports; empty disables them

	// Reference date (YYYY-MM-DD); empty means the system clock
	Today string `toml:"today"`

	// Window used by "due --soon" and the viewer
	SoonDays int `toml:"soon_days"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`

	// Config files applied, in load order (computed)
	Files []string `toml:"-"`
}

// TodayDate returns the configured reference date, or the date of now
// when none is set.
func (c *Config) TodayDate(now time.Time) (todo.Date, error) {
	if c.Today == "" {
		return todo.DateOf(now), nil
	}
	d, err := todo.ParseDate(c.Today)
	if err != nil {
		return todo.Date{}, fmt.Errorf("today: %w", err)
	}
	return d, nil
}
