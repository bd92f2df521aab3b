package logging

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todotxt-go/internal/todo"
)

// ConsoleOptions holds configuration for console logging.
type ConsoleOptions struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	ReportCaller    bool
	Prefix          string
}

// DefaultConsoleOptions returns default options for console logging.
func DefaultConsoleOptions() ConsoleOptions {
	return ConsoleOptions{
		Level:     log.InfoLevel,
		Formatter: log.TextFormatter,
		Prefix:    "todotxt",
	}
}

// NewConsole creates a leveled console logger writing to w.
func NewConsole(w io.Writer, opts ConsoleOptions) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		ReportCaller:    opts.ReportCaller,
		Prefix:          opts.Prefix,
	})
}

// NewConsoleFromConfig creates a console logger from string settings as
// found in config files and environment variables.
func NewConsoleFromConfig(w io.Writer, level, format string, timestamps, caller bool) *log.Logger {
	opts := DefaultConsoleOptions()
	opts.Level = ParseLogLevel(level)
	opts.Formatter = ParseLogFormatter(format)
	opts.ReportTimestamp = timestamps
	opts.ReportCaller = caller
	return NewConsole(w, opts)
}

// ParseLogLevel parses a string log level to a charmbracelet/log Level.
func ParseLogLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseLogFormatter parses a string formatter name to a charmbracelet/log Formatter.
func ParseLogFormatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// Reporter sends task conditions and file failures to the console and,
// when set, the run report. A nil Reporter discards everything.
type Reporter struct {
	Console *log.Logger
	Run     *RunLogger
}

// Condition reports a task-level condition as a warning.
func (r *Reporter) Condition(path string, err error) {
	if r == nil {
		return
	}
	ev := ConditionEvent(path, err)
	if r.Console != nil {
		fields := []any{"kind", ev.Kind}
		if ev.File != "" {
			fields = append(fields, "file", ev.File)
		}
		if ev.Line > 0 {
			fields = append(fields, "line", ev.Line)
		}
		if ev.Field != "" {
			fields = append(fields, "field", ev.Field)
		}
		if ev.Value != "" {
			fields = append(fields, "value", ev.Value)
		}
		r.Console.Warn(ev.Message, fields...)
	}
	r.record(ev)
}

// Fatal reports a file that could not be processed.
func (r *Reporter) Fatal(path string, err error) {
	if r == nil {
		return
	}
	if r.Console != nil {
		r.Console.Error("file skipped", "file", path, "err", err)
	}
	r.record(Event{Level: "error", Kind: "fatal", File: path, Message: err.Error()})
}

// Processed reports a file handled without a fatal error.
func (r *Reporter) Processed(path, summary string) {
	if r == nil {
		return
	}
	if r.Console != nil {
		r.Console.Debug(summary, "file", path)
	}
	r.record(Event{Level: "info", Kind: "file", File: path, Message: summary})
}

func (r *Reporter) record(ev Event) {
	if r.Run == nil {
		return
	}
	if err := r.Run.Record(ev); err != nil && r.Console != nil {
		r.Console.Error("run report", "err", err)
	}
}

// ConditionEvent converts a task condition into a report event.
func ConditionEvent(path string, err error) Event {
	ev := Event{Level: "warn", Kind: conditionKind(err), File: path, Message: err.Error()}
	var fe *todo.FieldError
	if errors.As(err, &fe) {
		if fe.Path != "" {
			ev.File = fe.Path
		}
		ev.Line = fe.Line
		ev.Field = fe.Field
		ev.Value = fe.Value
		ev.Message = fe.Err.Error()
	}
	return ev
}

func conditionKind(err error) string {
	switch {
	case errors.Is(err, todo.ErrMalformedDate):
		return "malformed_date"
	case errors.Is(err, todo.ErrMalformedRecurrence):
		return "malformed_recurrence"
	case errors.Is(err, todo.ErrMissingAnchor):
		return "missing_anchor"
	default:
		return "condition"
	}
}
