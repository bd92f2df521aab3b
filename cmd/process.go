package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/nibzard/todotxt-go/internal/scan"
	"github.com/nibzard/todotxt-go/internal/todo"
)

// dueCommand lists past-due tasks as path:line: text.
func (a *app) dueCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todotxt due", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	soon := fs.Int("soon", 0, "Also list tasks due within this many days")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *soon < 0 {
		return fmt.Errorf("--soon must not be negative, got %d", *soon)
	}
	target, err := a.target(fs)
	if err != nil {
		return err
	}
	today, err := a.cfg.TodayDate(a.now())
	if err != nil {
		return err
	}

	var pastDue, dueSoon []string
	results, err := a.process(ctx, target, func(_ context.Context, doc *todo.Document, res *scan.Result) error {
		tasks, errs := doc.PastDue(today)
		res.Conditions = errs
		for i := range tasks {
			pastDue = append(pastDue, a.taskLine(doc.Path, &tasks[i]))
		}
		if *soon > 0 {
			for _, t := range doc.DueWithin(today, *soon) {
				dueSoon = append(dueSoon, a.taskLine(doc.Path, &t))
			}
		}
		res.Summary = fmt.Sprintf("%d past due", len(tasks))
		return nil
	})
	if err != nil {
		return err
	}

	if *soon > 0 {
		fmt.Fprintf(a.stdout, "Past due (%s):\n", today)
		printLines(a, pastDue)
		fmt.Fprintf(a.stdout, "\nDue within %d days:\n", *soon)
		printLines(a, dueSoon)
	} else {
		for _, line := range pastDue {
			fmt.Fprintln(a.stdout, line)
		}
	}
	return finish(results)
}

func printLines(a *app, lines []string) {
	if len(lines) == 0 {
		fmt.Fprintln(a.stdout, "  none")
		return
	}
	for _, line := range lines {
		fmt.Fprintln(a.stdout, "  "+line)
	}
}

func (a *app) taskLine(path string, t *todo.Task) string {
	return fmt.Sprintf("%s:%d: %s", a.displayPath(path), t.Line, t.String())
}

// rewriteFlags are shared by the commands that produce task files.
type rewriteFlags struct {
	out     string
	inPlace bool
}

func (r *rewriteFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&r.out, "o", "", "Write output to this file instead of stdout")
	fs.BoolVar(&r.inPlace, "w", false, "Rewrite each source file in place")
}

func (r *rewriteFlags) sink(a *app) (*scan.Sink, error) {
	if r.out != "" && r.inPlace {
		return nil, fmt.Errorf("-o and -w cannot be used together")
	}
	return &scan.Sink{Stdout: a.stdout, File: r.out, InPlace: r.inPlace}, nil
}

// recurCommand appends the next occurrence of every completed recurring
// task that has not been advanced yet.
func (a *app) recurCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todotxt recur", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	var rf rewriteFlags
	rf.register(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	sink, err := rf.sink(a)
	if err != nil {
		return err
	}
	target, err := a.target(fs)
	if err != nil {
		return err
	}

	results, err := a.process(ctx, target, func(_ context.Context, doc *todo.Document, res *scan.Result) error {
		report := doc.ProcessRecurring()
		res.Conditions = report.Errors
		res.Output = doc.String()
		if len(report.Added) == 0 {
			// Nothing advanced; leave the file byte-for-byte alone.
			res.Output = res.Source
		}
		res.Summary = fmt.Sprintf("added %d, already advanced %d", len(report.Added), report.Skipped)
		for i := range report.Added {
			t := &report.Added[i]
			a.console.Info("next occurrence", "file", a.displayPath(doc.Path), "task", t.Title, "due", metaValue(t, todo.KeyDue))
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := sink.Write(results); err != nil {
		return err
	}
	return finish(results)
}

func metaValue(t *todo.Task, key string) string {
	v, _ := t.Meta.Get(key)
	return v
}

// fmtCommand re-serializes task files in canonical form.
func (a *app) fmtCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todotxt fmt", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	var rf rewriteFlags
	rf.register(fs)
	list := fs.Bool("l", false, "List files whose formatting differs instead of writing them")

	if err := fs.Parse(args); err != nil {
		return err
	}
	sink, err := rf.sink(a)
	if err != nil {
		return err
	}
	target, err := a.target(fs)
	if err != nil {
		return err
	}

	results, err := a.process(ctx, target, func(_ context.Context, doc *todo.Document, res *scan.Result) error {
		res.Output = doc.String()
		res.Summary = fmt.Sprintf("%d tasks", doc.Len())
		return nil
	})
	if err != nil {
		return err
	}

	if *list {
		for i := range results {
			if results[i].Changed() {
				fmt.Fprintln(a.stdout, a.displayPath(results[i].Path))
			}
		}
		return finish(results)
	}
	if err := sink.Write(results); err != nil {
		return err
	}
	return finish(results)
}

// checkCommand validates the meta fields of every task.
func (a *app) checkCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todotxt check", flag.ContinueOnError)
	fs.SetOutput(a.stderr)

	if err := fs.Parse(args); err != nil {
		return err
	}
	target, err := a.target(fs)
	if err != nil {
		return err
	}

	results, err := a.process(ctx, target, func(_ context.Context, doc *todo.Document, res *scan.Result) error {
		res.Conditions = doc.Validate()
		res.Summary = fmt.Sprintf("%d tasks, %d problems", doc.Len(), len(res.Conditions))
		return nil
	})
	if err != nil {
		return err
	}

	for i := range results {
		res := &results[i]
		if res.Fatal != nil {
			fmt.Fprintf(a.stdout, "%s: skipped\n", a.displayPath(res.Path))
			continue
		}
		fmt.Fprintf(a.stdout, "%s: %s\n", a.displayPath(res.Path), res.Summary)
	}
	a.console.Info("check finished", "files", len(results), "problems", len(scan.Conditions(results)))
	return finish(results)
}

// exportCommand prints every parsed document as JSON.
func (a *app) exportCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todotxt export", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	compact := fs.Bool("compact", false, "Print JSON without indentation")

	if err := fs.Parse(args); err != nil {
		return err
	}
	target, err := a.target(fs)
	if err != nil {
		return err
	}

	docs := []*todo.Document{}
	results, err := a.process(ctx, target, func(_ context.Context, doc *todo.Document, res *scan.Result) error {
		docs = append(docs, doc)
		res.Summary = fmt.Sprintf("exported %d tasks", doc.Len())
		return nil
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(a.stdout)
	if !*compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return finish(results)
}
