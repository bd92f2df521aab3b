package todo

import (
	"errors"
	"testing"
)

func TestIsPastDue(t *testing.T) {
	today := mustDate("2024-01-15")
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"due today", "Pay rent due:2024-01-15", false},
		{"due yesterday", "Pay rent due:2024-01-14", true},
		{"due tomorrow", "Pay rent due:2024-01-16", false},
		{"due last year", "Pay rent due:2023-12-31", true},
		{"done and overdue", "x Pay rent due:2024-01-01", false},
		{"no due", "Pay rent", false},
		{"malformed due", "Pay rent due:2024-01-99", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPastDue(mustTask(t, tt.line), today); got != tt.want {
				t.Errorf("IsPastDue(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestPastDueReportsMalformed(t *testing.T) {
	task := mustTask(t, "Pay rent due:soon")
	past, err := task.PastDue(mustDate("2024-01-15"))
	if past {
		t.Error("malformed due should not be past due")
	}
	if !errors.Is(err, ErrMalformedDate) {
		t.Errorf("error = %v, want ErrMalformedDate", err)
	}
}

func TestDocumentPastDue(t *testing.T) {
	doc := mustParse(t, "A due:2024-01-10\n"+
		"x B due:2024-01-10\n"+
		"C due:2024-01-15\n"+
		"D due:bad\n"+
		"E due:2024-01-14\n"+
		"F\n")
	doc.Path = "todo.txt"

	tasks, errs := doc.PastDue(mustDate("2024-01-15"))
	if len(tasks) != 2 || tasks[0].Title != "A" || tasks[1].Title != "E" {
		t.Errorf("past due = %v, want A and E", tasks)
	}
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want 1", errs)
	}
	var fe *FieldError
	if !errors.As(errs[0], &fe) || fe.Line != 4 || fe.Path != "todo.txt" {
		t.Errorf("attribution = %v", errs[0])
	}
}

func TestDocumentDueWithin(t *testing.T) {
	doc := mustParse(t, "A due:2024-01-14\n"+
		"B due:2024-01-15\n"+
		"C due:2024-01-18\n"+
		"D due:2024-01-19\n"+
		"x E due:2024-01-16\n")

	tasks := doc.DueWithin(mustDate("2024-01-15"), 3)
	if len(tasks) != 2 || tasks[0].Title != "B" || tasks[1].Title != "C" {
		t.Errorf("due within = %v, want B and C", tasks)
	}
}
