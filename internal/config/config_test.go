// Package config tests configuration loading.
package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
)

// isolate points every config lookup at empty temp directories.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, name := range []string{
		"TODOTXT_CONFIG", "TODOTXT_PATH", "TODOTXT_PATTERN", "TODOTXT_LOG_DIR",
		"TODOTXT_TODAY", "TODOTXT_SOON_DAYS", "TODOTXT_LOG_LEVEL",
		"TODOTXT_LOG_FORMAT", "TODOTXT_LOG_TIMESTAMPS", "TODOTXT_LOG_CALLER",
	} {
		t.Setenv(name, "")
	}
	work := t.TempDir()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PWD", work)
	t.Cleanup(func() { _ = os.Chdir(prev) })
	return work
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.TodoPath != DefaultTodoPath {
		t.Errorf("TodoPath: got %q, want %q", cfg.TodoPath, DefaultTodoPath)
	}
	if cfg.Pattern != DefaultPattern {
		t.Errorf("Pattern: got %q, want %q", cfg.Pattern, DefaultPattern)
	}
	if cfg.SoonDays != DefaultSoonDays {
		t.Errorf("SoonDays: got %d, want %d", cfg.SoonDays, DefaultSoonDays)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("logging: got %q/%q, want info/text", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.LogDir != "" {
		t.Errorf("LogDir: got %q, want empty", cfg.LogDir)
	}
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TODOTXT_PATH", "tasks")
	t.Setenv("TODOTXT_SOON_DAYS", "7")
	t.Setenv("TODOTXT_TODAY", "2024-01-15")
	t.Setenv("TODOTXT_LOG_CALLER", "yes")
	t.Setenv("TODOTXT_PATTERN", "")

	cfg := &Config{}
	setDefaults(cfg)
	sources := make(map[string]ConfigSource)
	loadFromEnv(cfg, sources)

	if cfg.TodoPath != "tasks" {
		t.Errorf("TodoPath: got %q, want tasks", cfg.TodoPath)
	}
	if cfg.SoonDays != 7 {
		t.Errorf("SoonDays: got %d, want 7", cfg.SoonDays)
	}
	if cfg.Today != "2024-01-15" {
		t.Errorf("Today: got %q, want 2024-01-15", cfg.Today)
	}
	if !cfg.LogCaller {
		t.Error("LogCaller: got false, want true")
	}
	if cfg.Pattern != DefaultPattern {
		t.Errorf("empty TODOTXT_PATTERN changed Pattern to %q", cfg.Pattern)
	}
	if sources["todo_path"] != SourceEnv || sources["soon_days"] != SourceEnv {
		t.Errorf("sources not tracked: %v", sources)
	}
	if _, ok := sources["pattern"]; ok {
		t.Error("pattern should not be attributed to the environment")
	}
}

func TestLoadFromEnvIgnoresBadInt(t *testing.T) {
	isolate(t)
	t.Setenv("TODOTXT_SOON_DAYS", "soon")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg, nil)
	if cfg.SoonDays != DefaultSoonDays {
		t.Errorf("SoonDays: got %d, want %d", cfg.SoonDays, DefaultSoonDays)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "todotxt.toml")

	content := []byte(`todo_path = "home.txt"
soon_days = 5
log_format = "logfmt"
`)
	if err := os.WriteFile(configFile, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	setDefaults(cfg)
	sources := make(map[string]ConfigSource)
	if err := loadConfigFile(cfg, configFile, sources, SourceProjFile); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}

	if cfg.TodoPath != "home.txt" {
		t.Errorf("TodoPath: got %q, want home.txt", cfg.TodoPath)
	}
	if cfg.SoonDays != 5 {
		t.Errorf("SoonDays: got %d, want 5", cfg.SoonDays)
	}
	if cfg.LogFormat != "logfmt" {
		t.Errorf("LogFormat: got %q, want logfmt", cfg.LogFormat)
	}
	if cfg.Pattern != DefaultPattern {
		t.Errorf("Pattern: got %q, want default", cfg.Pattern)
	}
	if sources["soon_days"] != SourceProjFile {
		t.Errorf("soon_days source: got %q, want %q", sources["soon_days"], SourceProjFile)
	}
	if len(cfg.Files) != 1 || cfg.Files[0] != configFile {
		t.Errorf("Files: got %v", cfg.Files)
	}
}

func TestLoadConfigFileSchema(t *testing.T) {
	tests := []struct {
		name    string
		content string
		path    string
	}{
		{"unknown key", "todo_file = \"x\"\n", ""},
		{"wrong type", "soon_days = \"three\"\n", "soon_days"},
		{"negative", "soon_days = -1\n", "soon_days"},
		{"bad enum", "log_format = \"xml\"\n", "log_format"},
		{"bad date", "today = \"15/01/2024\"\n", "today"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := filepath.Join(t.TempDir(), "todotxt.toml")
			if err := os.WriteFile(configFile, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			cfg := &Config{}
			err := loadConfigFile(cfg, configFile, nil, SourceUserFile)
			if err == nil {
				t.Fatal("expected schema error")
			}
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("expected *SchemaError, got %T: %v", err, err)
			}
			if se.Path != tt.path {
				t.Errorf("Path: got %q, want %q (%v)", se.Path, tt.path, err)
			}
		})
	}
}

func TestExampleConfigIsValid(t *testing.T) {
	var raw map[string]interface{}
	if _, err := toml.Decode(ExampleConfig(), &raw); err != nil {
		t.Fatalf("example config does not parse: %v", err)
	}
	if err := validateFileSchema(raw); err != nil {
		t.Fatalf("example config fails schema: %v", err)
	}
}

func TestLoadWithSources(t *testing.T) {
	work := isolate(t)

	project := []byte("todo_path = \"tasks\"\nsoon_days = 10\n")
	if err := os.WriteFile(filepath.Join(work, "todotxt.toml"), project, 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TODOTXT_LOG_LEVEL", "debug")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cws, err := LoadWithSources(fs, []string{"--soon-days", "2", "due"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	if want := filepath.Join(cfg.ProjectRoot, "tasks"); cfg.TodoPath != want {
		t.Errorf("TodoPath: got %q, want %q", cfg.TodoPath, want)
	}
	if cfg.SoonDays != 2 {
		t.Errorf("SoonDays: got %d, want 2", cfg.SoonDays)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}

	wantSources := map[string]ConfigSource{
		"todo_path": SourceProjFile,
		"soon_days": SourceFlag,
		"log_level": SourceEnv,
		"pattern":   SourceDefault,
	}
	for field, want := range wantSources {
		if got := cws.Sources[field]; got != want {
			t.Errorf("source of %s: got %q, want %q", field, got, want)
		}
	}
	if files := cfg.Files; len(files) != 1 || files[0] != "todotxt.toml" {
		t.Errorf("Files: got %v, want [todotxt.toml]", files)
	}
	if args := fs.Args(); len(args) != 1 || args[0] != "due" {
		t.Errorf("remaining args: got %v, want [due]", args)
	}
}

func TestLoadUserThenProject(t *testing.T) {
	work := isolate(t)

	userFile := filepath.Join(t.TempDir(), "user.toml")
	if err := os.WriteFile(userFile, []byte("pattern = \"*.todo\"\nsoon_days = 9\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TODOTXT_CONFIG", userFile)
	if err := os.WriteFile(filepath.Join(work, ".todotxt.toml"), []byte("soon_days = 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cws, err := LoadWithSources(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	if cws.Config.Pattern != "*.todo" || cws.Sources["pattern"] != SourceUserFile {
		t.Errorf("pattern: got %q from %q", cws.Config.Pattern, cws.Sources["pattern"])
	}
	if cws.Config.SoonDays != 1 || cws.Sources["soon_days"] != SourceProjFile {
		t.Errorf("soon_days: got %d from %q", cws.Config.SoonDays, cws.Sources["soon_days"])
	}
	if len(cws.Config.Files) != 2 {
		t.Errorf("Files: got %v, want user and project", cws.Config.Files)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad today", []string{"--today", "2024-13-01"}, "today"},
		{"negative soon", []string{"--soon-days", "-1"}, "soon_days"},
		{"bad pattern", []string{"--pattern", "["}, "pattern"},
		{"unknown flag", []string{"--nope"}, "parsing flags"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.SetOutput(&strings.Builder{})
			_, err := Load(fs, tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingUserConfig(t *testing.T) {
	isolate(t)
	t.Setenv("TODOTXT_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	if _, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil); err == nil {
		t.Fatal("expected error for missing $TODOTXT_CONFIG file")
	}
}

func TestTodayDate(t *testing.T) {
	now := time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC)

	cfg := &Config{}
	d, err := cfg.TodayDate(now)
	if err != nil || d.String() != "2024-03-09" {
		t.Errorf("TodayDate(clock) = %v, %v; want 2024-03-09", d, err)
	}

	cfg.Today = "2024-01-15"
	d, err = cfg.TodayDate(now)
	if err != nil || d.String() != "2024-01-15" {
		t.Errorf("TodayDate(fixed) = %v, %v; want 2024-01-15", d, err)
	}

	cfg.Today = "tomorrow"
	if _, err := cfg.TodayDate(now); err == nil {
		t.Error("expected error for malformed today")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	t.Setenv("TODOTXT_TEST_ROOT", "/srv/tasks")

	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"~user/test", "~user/test"},
		{"$TODOTXT_TEST_ROOT/todo.txt", "/srv/tasks/todo.txt"},
		{"${TODOTXT_TEST_ROOT}", "/srv/tasks"},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := expandPath(tt.input)
			if got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	work := isolate(t)
	home := os.Getenv("HOME")
	t.Setenv("TODOTXT_PATH", "~/todo.txt")
	t.Setenv("TODOTXT_TEST_LOGS", "logs")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Load(fs, []string{"--log-dir", "$TODOTXT_TEST_LOGS/runs"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := filepath.Join(home, "todo.txt"); cfg.TodoPath != want {
		t.Errorf("TodoPath: got %q, want %q", cfg.TodoPath, want)
	}
	if want := filepath.Join(work, "logs", "runs"); cfg.LogDir != want {
		t.Errorf("LogDir: got %q, want %q", cfg.LogDir, want)
	}

	tests := []struct {
		input string
		want  string
	}{
		{"tasks", filepath.Join(work, "tasks")},
		{"~/inbox.txt", filepath.Join(home, "inbox.txt")},
		{"$TODOTXT_TEST_LOGS", filepath.Join(work, "logs")},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cfg.ResolvePath(tt.input); got != tt.want {
			t.Errorf("ResolvePath(%q): got %q, want %q", tt.input, got, tt.want)
		}
	}

	bare := &Config{}
	if got := bare.ResolvePath("tasks"); got != "tasks" {
		t.Errorf("ResolvePath without project root: got %q, want tasks", got)
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"#":          "",
		"/soon_days": "soon_days",
		"#/a/b/0/c":  "a.b[0].c",
		"/a~1b/c~0d": "a/b.c~d",
	}
	for in, want := range tests {
		if got := jsonPointerToPath(in); got != want {
			t.Errorf("jsonPointerToPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"off", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := boolFromString(tt.input)
			if got != tt.want {
				t.Errorf("boolFromString(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
