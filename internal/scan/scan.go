// Package scan reads task files from disk, runs an operation on each one
// in isolation, and writes the results back out.
package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"github.com/nibzard/todotxt-go/internal/logging"
	"github.com/nibzard/todotxt-go/internal/todo"
)

// ErrFatal marks a file that could not be processed at all. Other files
// of the same run are unaffected.
var ErrFatal = errors.New("fatal")

// DefaultPattern selects task files when the target is a directory.
const DefaultPattern = "*.txt"

// ReadFile reads and parses one task file. Unreadable files, invalid
// UTF-8 and description lines without a task fail with ErrFatal.
func ReadFile(path string) (*todo.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFatal, err)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (*todo.Document, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s: invalid UTF-8", ErrFatal, path)
	}
	doc, err := todo.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFatal, path, err)
	}
	doc.Path = path
	return doc, nil
}

// ListDir returns the regular files in dir whose base name matches
// pattern, sorted by name. Subdirectories are not searched.
func ListDir(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("pattern %q: %w", pattern, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if ok, _ := filepath.Match(pattern, entry.Name()); ok {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Resolve expands target into the files to process: the file itself, or
// every matching file when target is a directory.
func Resolve(target, pattern string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return ListDir(target, pattern)
	}
	return []string{target}, nil
}

// ReadDir reads every matching file of dir. A file that fails to read is
// returned with Fatal set; the others are still read.
func ReadDir(dir, pattern string) ([]Result, error) {
	paths, err := ListDir(dir, pattern)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		res := Result{Path: path}
		res.Doc, res.Fatal = ReadFile(path)
		results = append(results, res)
	}
	return results, nil
}

// Result is the outcome of processing one file.
type Result struct {
	Path       string
	Doc        *todo.Document
	Source     string  // File contents as read
	Output     string  // Text to write, if the operation produces any
	Summary    string  // One-line description for the run report
	Conditions []error // Task-level conditions; never fatal
	Fatal      error   // Set when the file was skipped
}

// Changed reports whether Output differs from the file as read.
func (r *Result) Changed() bool {
	return r.Fatal == nil && r.Output != r.Source
}

// Func is an operation applied to one parsed file. It fills res.Output,
// res.Summary and res.Conditions. A returned *todo.FieldError is added to
// the conditions; any other error skips the file.
type Func func(ctx context.Context, doc *todo.Document, res *Result) error

// Scanner runs an operation over a list of files.
type Scanner struct {
	Reporter *logging.Reporter
}

// Run applies fn to each path in order. Fatal errors are recorded on the
// file's Result and reported; the remaining files still run. Run stops
// early only when ctx is done, returning the results so far and ctx.Err().
func (s *Scanner) Run(ctx context.Context, paths []string, fn Func) ([]Result, error) {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := s.runFile(ctx, path, fn)
		results = append(results, res)
	}
	return results, nil
}

func (s *Scanner) runFile(ctx context.Context, path string, fn Func) Result {
	res := Result{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Fatal = fmt.Errorf("%w: %w", ErrFatal, err)
		s.Reporter.Fatal(path, res.Fatal)
		return res
	}
	res.Source = string(data)

	doc, err := parse(path, data)
	if err != nil {
		res.Fatal = err
		s.Reporter.Fatal(path, res.Fatal)
		return res
	}
	res.Doc = doc

	if err := fn(ctx, doc, &res); err != nil && todo.IsFieldError(err) {
		res.Conditions = append(res.Conditions, err)
	} else if err != nil {
		if !errors.Is(err, ErrFatal) {
			err = fmt.Errorf("%w: %s: %w", ErrFatal, path, err)
		}
		res.Fatal = err
		s.Reporter.Fatal(path, res.Fatal)
		return res
	}

	for _, cond := range res.Conditions {
		s.Reporter.Condition(path, cond)
	}
	summary := res.Summary
	if summary == "" {
		summary = fmt.Sprintf("%d tasks", doc.Len())
	}
	s.Reporter.Processed(path, summary)
	return res
}

// Failed reports whether any result hit a fatal error.
func Failed(results []Result) bool {
	for i := range results {
		if results[i].Fatal != nil {
			return true
		}
	}
	return false
}

// Conditions returns every task condition across results, in order.
func Conditions(results []Result) []error {
	var errs []error
	for i := range results {
		errs = append(errs, results[i].Conditions...)
	}
	return errs
}
