package config

import (
	"flag"
)

// flagFields maps CLI flag names to config field names.
var flagFields = map[string]string{
	"todo":           "todo_path",
	"pattern":        "pattern",
	"log-dir":        "log_dir",
	"today":          "today",
	"soon-days":      "soon_days",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// RegisterFlags defines the global flags on fs, bound to cfg. Values
// already in cfg become the flag defaults.
func RegisterFlags(cfg *Config, fs *flag.FlagSet) {
	fs.StringVar(&cfg.TodoPath, "todo", cfg.TodoPath, "Task file or directory of task files")
	fs.StringVar(&cfg.Pattern, "pattern", cfg.Pattern, "Glob for task files when --todo is a directory")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Directory for JSONL run reports (empty disables)")
	fs.StringVar(&cfg.Today, "today", cfg.Today, "Reference date YYYY-MM-DD (default: system clock)")
	fs.IntVar(&cfg.SoonDays, "soon-days", cfg.SoonDays, "Days ahead the viewer counts as due soon")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")
}

// parseFlags defines and parses CLI flags. Flags bind directly to cfg,
// so only flags present in args change it.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("todotxt", flag.ContinueOnError)
	}
	RegisterFlags(cfg, fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
