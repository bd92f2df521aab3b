package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todotxt configuration file
# Values can be overridden by TODOTXT_* environment variables or CLI flags

# Task file, or a directory of task files (relative to the working directory)
todo_path = "todo.txt"

# Glob used when todo_path is a directory
pattern = "*.txt"

# Directory for JSONL run reports (supports ~ expansion and %VAR% on Windows)
# Leave empty to disable reports.
# log_dir = "~/.todotxt/logs"

# Fixed reference date instead of the system clock
# today = "2024-01-15"

# Days ahead that count as due soon
soon_days = 3

# Console logging
log_level = "info"       # debug, info, warn, error
log_format = "text"      # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
