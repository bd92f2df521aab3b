// Package cmd implements the CLI command structure for todotxt.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todotxt-go/internal/config"
	"github.com/nibzard/todotxt-go/internal/logging"
	"github.com/nibzard/todotxt-go/internal/scan"
	"github.com/nibzard/todotxt-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// ErrFilesSkipped is returned when at least one file could not be
// processed. The other files were still handled.
var ErrFilesSkipped = errors.New("files skipped")

// Run executes the todotxt CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

// app carries what every subcommand needs.
type app struct {
	cfg     *config.Config
	sources map[string]config.ConfigSource
	stdout  io.Writer
	stderr  io.Writer
	console *log.Logger
	now     func() time.Time
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todotxt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}

	a := &app{
		cfg:     cws.Config,
		sources: cws.Sources,
		stdout:  stdout,
		stderr:  stderr,
		now:     time.Now,
	}
	a.console = logging.NewConsoleFromConfig(stderr, a.cfg.LogLevel, a.cfg.LogFormat, a.cfg.LogTimestamps, a.cfg.LogCaller)

	if *showVersion {
		return a.versionCommand()
	}

	// Determine the subcommand
	// If no args or first arg is a flag, use "due" as default
	subcommand := "due"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	// Execute the subcommand
	switch subcommand {
	case "due":
		return a.dueCommand(ctx, remainingArgs)
	case "recur":
		return a.recurCommand(ctx, remainingArgs)
	case "fmt":
		return a.fmtCommand(ctx, remainingArgs)
	case "check":
		return a.checkCommand(ctx, remainingArgs)
	case "export":
		return a.exportCommand(ctx, remainingArgs)
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "tail":
		return a.tailCommand(remainingArgs)
	case "config":
		return a.configCommand(remainingArgs)
	case "version":
		return a.versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// target returns the file or directory to process: the single positional
// argument when given, otherwise the configured todo path. Both are
// expanded and resolved the same way.
func (a *app) target(fs *flag.FlagSet) (string, error) {
	remaining := fs.Args()
	if len(remaining) > 1 {
		return "", fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	if len(remaining) == 1 {
		return a.cfg.ResolvePath(remaining[0]), nil
	}
	return a.cfg.TodoPath, nil
}

// process resolves target into files and runs fn over each of them,
// reporting conditions to the console and, when log_dir is set, the run
// report.
func (a *app) process(ctx context.Context, target string, fn scan.Func) ([]scan.Result, error) {
	paths, err := scan.Resolve(target, a.cfg.Pattern)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", target, err)
	}

	reporter := &logging.Reporter{Console: a.console}
	if a.cfg.LogDir != "" {
		runLog, err := logging.NewRunLogger(a.cfg.LogDir, a.cfg.ProjectRoot)
		if err != nil {
			return nil, fmt.Errorf("initializing run report: %w", err)
		}
		defer runLog.Close()
		reporter.Run = runLog
		a.console.Debug("run report", "path", runLog.LogPath)
	}

	s := &scan.Scanner{Reporter: reporter}
	return s.Run(ctx, paths, fn)
}

// finish turns fatal file errors into the command's error.
func finish(results []scan.Result) error {
	if !scan.Failed(results) {
		return nil
	}
	skipped := 0
	for i := range results {
		if results[i].Fatal != nil {
			skipped++
		}
	}
	return fmt.Errorf("%d of %d: %w", skipped, len(results), ErrFilesSkipped)
}

// displayPath shortens path relative to the project root when possible.
func (a *app) displayPath(path string) string {
	if a.cfg.ProjectRoot == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(a.cfg.ProjectRoot, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// tuiCommand launches the read-only viewer.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todotxt tui", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	interval := fs.Duration("interval", 2*time.Second, "How often to re-read task files")

	if err := fs.Parse(args); err != nil {
		return err
	}
	target, err := a.target(fs)
	if err != nil {
		return err
	}

	return ui.RunTUI(ctx, a.cfg, target, ui.WithRefreshInterval(*interval))
}

// tailCommand prints the latest run report.
func (a *app) tailCommand(args []string) error {
	fs := flag.NewFlagSet("todotxt tail", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if a.cfg.LogDir == "" {
		return fmt.Errorf("no log directory configured (set log_dir, TODOTXT_LOG_DIR or --log-dir)")
	}

	logDir, err := logging.FindLogDir(a.cfg.LogDir, a.cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}

	// Find the latest JSONL file
	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(a.stdout, "No log files found.")
		return nil
	}

	a.console.Debug("tailing", "path", logPath)
	return logging.TailLog(a.stdout, logPath, *n)
}

// configCommand prints an example config, or the effective values and
// where each came from.
func (a *app) configCommand(args []string) error {
	fs := flag.NewFlagSet("todotxt config", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	showSources := fs.Bool("sources", false, "Show effective values and their sources")
	showSchema := fs.Bool("schema", false, "Print the config file JSON Schema")

	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *showSchema:
		_, err := a.stdout.Write(config.Schema())
		return err
	case *showSources:
		values := map[string]string{
			"todo_path":      a.cfg.TodoPath,
			"pattern":        a.cfg.Pattern,
			"log_dir":        a.cfg.LogDir,
			"today":          a.cfg.Today,
			"soon_days":      fmt.Sprint(a.cfg.SoonDays),
			"log_level":      a.cfg.LogLevel,
			"log_format":     a.cfg.LogFormat,
			"log_timestamps": fmt.Sprint(a.cfg.LogTimestamps),
			"log_caller":     fmt.Sprint(a.cfg.LogCaller),
		}
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(a.stdout, "%-15s %-30q %s\n", k, values[k], a.sources[k])
		}
		for _, f := range a.cfg.Files {
			fmt.Fprintf(a.stdout, "# loaded %s\n", f)
		}
		return nil
	default:
		fmt.Fprint(a.stdout, config.ExampleConfig())
		return nil
	}
}

// versionCommand prints version information.
func (a *app) versionCommand() error {
	fmt.Fprintf(a.stdout, "todotxt version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todotxt - plain-text tasks with due dates and recurrence")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todotxt [global options] [command] [options] [file|dir]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  due [path]     List past-due tasks (default command)")
	fmt.Fprintln(w, "  recur [path]   Append the next occurrence of completed recurring tasks")
	fmt.Fprintln(w, "  fmt [path]     Rewrite task files in canonical form")
	fmt.Fprintln(w, "  check [path]   Report malformed dates and recurrences")
	fmt.Fprintln(w, "  export [path]  Print parsed tasks as JSON")
	fmt.Fprintln(w, "  tui [path]     Launch the terminal viewer")
	fmt.Fprintln(w, "  tail           Print the latest run report")
	fmt.Fprintln(w, "  config         Print an example config file")
	fmt.Fprintln(w, "  version        Show version information")
	fmt.Fprintln(w, "  help           Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Due Options:")
	fmt.Fprintln(w, "  -soon int")
	fmt.Fprintln(w, "        Also list tasks due within this many days")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recur and Fmt Options:")
	fmt.Fprintln(w, "  -o string")
	fmt.Fprintln(w, "        Write output to this file instead of stdout")
	fmt.Fprintln(w, "  -w    Rewrite each source file in place")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options:")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options:")
	fmt.Fprintln(w, "  -sources")
	fmt.Fprintln(w, "        Show effective values and their sources")
	fmt.Fprintln(w, "  -schema")
	fmt.Fprintln(w, "        Print the config file JSON Schema")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "A file that cannot be read or parsed is skipped and makes the exit status")
	fmt.Fprintln(w, "non-zero. Malformed fields are reported but do not change the exit status.")
}
