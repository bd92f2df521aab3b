package todo

import (
	"reflect"
	"testing"
)

func TestParseLineKinds(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want LineKind
		text string
	}{
		{"empty", "", LineBlank, ""},
		{"spaces only", "   ", LineBlank, ""},
		{"tab only", "\t", LineBlank, ""},
		{"two spaces only", "  ", LineBlank, ""},
		{"continuation", "  Ask about plans", LineContinuation, "Ask about plans"},
		{"continuation keeps tokens verbatim", "  see @home due:2024-01-01", LineContinuation, "see @home due:2024-01-01"},
		{"three spaces is a task", "   indented task", LineTask, ""},
		{"one space is a task", " indented task", LineTask, ""},
		{"plain task", "Call Mom", LineTask, ""},
		{"carriage return", "  note\r", LineContinuation, "note"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLine(tt.raw)
			if got.Kind != tt.want {
				t.Fatalf("ParseLine(%q).Kind = %v, want %v", tt.raw, got.Kind, tt.want)
			}
			if got.Text != tt.text {
				t.Errorf("ParseLine(%q).Text = %q, want %q", tt.raw, got.Text, tt.text)
			}
		})
	}
}

func TestParseLineTask(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		done  bool
		title string
		tags  []string
		meta  map[string]string
	}{
		{
			name:  "title only",
			raw:   "Call Mom",
			title: "Call Mom",
			meta:  map[string]string{},
		},
		{
			name:  "done marker",
			raw:   "x Buy groceries @errands completed:2024-01-15",
			done:  true,
			title: "Buy groceries",
			tags:  []string{"errands"},
			meta:  map[string]string{"completed": "2024-01-15"},
		},
		{
			name:  "x without space is a word",
			raw:   "xylophone lesson",
			title: "xylophone lesson",
			meta:  map[string]string{},
		},
		{
			name:  "bare x is a word",
			raw:   "x",
			title: "x",
			meta:  map[string]string{},
		},
		{
			name:  "capital X is a word",
			raw:   "X marks the spot",
			title: "X marks the spot",
			meta:  map[string]string{},
		},
		{
			name:  "x later in line is a word",
			raw:   "Fix x axis",
			title: "Fix x axis",
			meta:  map[string]string{},
		},
		{
			name:  "tags and meta mid title",
			raw:   "Water @home the due:2024-01-15 plants rec:+1w",
			title: "Water the plants",
			tags:  []string{"home"},
			meta:  map[string]string{"due": "2024-01-15", "rec": "+1w"},
		},
		{
			name:  "duplicate tags preserved",
			raw:   "Call @phone @family @phone",
			title: "Call",
			tags:  []string{"phone", "family", "phone"},
			meta:  map[string]string{},
		},
		{
			name:  "last meta wins",
			raw:   "Pay rent due:2024-01-01 due:2024-02-01",
			title: "Pay rent",
			meta:  map[string]string{"due": "2024-02-01"},
		},
		{
			name:  "empty value is a word",
			raw:   "Note: call back",
			title: "Note: call back",
			meta:  map[string]string{},
		},
		{
			name:  "url stays in title",
			raw:   "Read https://example.com/post",
			title: "Read https://example.com/post",
			meta:  map[string]string{},
		},
		{
			name:  "clock time stays in title",
			raw:   "Meeting at 10:30",
			title: "Meeting at 10:30",
			meta:  map[string]string{},
		},
		{
			name:  "lone at sign is a word",
			raw:   "Meet @ noon",
			title: "Meet @ noon",
			meta:  map[string]string{},
		},
		{
			name:  "arbitrary meta key",
			raw:   "Ship it owner:ana prio-x:2",
			title: "Ship it",
			meta:  map[string]string{"owner": "ana", "prio-x": "2"},
		},
		{
			name:  "provenance field",
			raw:   "Water plants _prev:0123456789abcdef",
			title: "Water plants",
			meta:  map[string]string{"_prev": "0123456789abcdef"},
		},
		{
			name:  "extra whitespace collapses",
			raw:   "x   Buy\tmilk   @shop",
			done:  true,
			title: "Buy milk",
			tags:  []string{"shop"},
			meta:  map[string]string{},
		},
		{
			name:  "tags only",
			raw:   "@home due:2024-03-01",
			title: "",
			tags:  []string{"home"},
			meta:  map[string]string{"due": "2024-03-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseLine(tt.raw)
			if res.Kind != LineTask {
				t.Fatalf("Kind = %v, want task", res.Kind)
			}
			task := res.Task
			if task.Done != tt.done {
				t.Errorf("Done = %v, want %v", task.Done, tt.done)
			}
			if task.Title != tt.title {
				t.Errorf("Title = %q, want %q", task.Title, tt.title)
			}
			if !reflect.DeepEqual(task.Tags, tt.tags) {
				t.Errorf("Tags = %v, want %v", task.Tags, tt.tags)
			}
			if got := task.Meta.Map(); !reflect.DeepEqual(got, tt.meta) {
				t.Errorf("Meta = %v, want %v", got, tt.meta)
			}
		})
	}
}

func TestTaskStringCanonicalOrder(t *testing.T) {
	task := ParseLine("x owner:ana _prev:abc Water rec:+1w @home done:2024-01-16 plants due:2024-01-15").Task
	want := "x Water plants @home due:2024-01-15 done:2024-01-16 rec:+1w _prev:abc owner:ana"
	if got := task.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestTaskStringTitleStartingWithX(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"@home x marks the spot", "@home x marks the spot"},
		{"x marks the spot @home @yard", "x marks the spot @home @yard"},
		{"due:2024-01-01 x axis fix", "due:2024-01-01 x axis fix"},
		{"owner:ana x axis @lab due:2024-01-01", "@lab x axis due:2024-01-01 owner:ana"},
		{"@t x", "@t x"},
		{"x", "x"},
		{"xylophone @music", "xylophone @music"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			task := ParseLine(tt.raw).Task
			if got := task.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}

	open := Task{Title: "x rays", Tags: []string{"lab"}}
	if got := ParseLine(open.String()).Task; got.Done || got.Title != "x rays" {
		t.Errorf("%q read back as done=%v title=%q", open.String(), got.Done, got.Title)
	}
}

func TestRoundTrip(t *testing.T) {
	lines := []string{
		"Call Mom @phone @family",
		"x Buy groceries @errands completed:2024-01-15",
		"x Water plants @home done:2024-01-16 due:2024-01-15 rec:+1w",
		"Meeting at 10:30 @work due:2024-05-01",
		"Read https://example.com/post @reading",
		"@home due:2024-03-01",
		"x",
		"x x",
		"x ",
		"Note: call back owner:ana",
		"Pay rent due:2024-01-01 due:2024-02-01",
		"Water plants @home due:2024-01-23 rec:+1w _prev:0123456789abcdef",
		"@home x marks the spot",
		"due:2024-01-01 x axis fix",
		"@t x",
		"x x rays @lab due:2024-01-10 rec:1w",
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			first := ParseLine(line).Task
			second := ParseLine(first.String())
			if second.Kind != LineTask {
				t.Fatalf("re-parse of %q is %v", first.String(), second.Kind)
			}
			if !first.Equal(&second.Task) {
				t.Errorf("round trip mismatch:\n first: %+v\nsecond: %+v\n  text: %q", first, second.Task, first.String())
			}
			if first.String() != second.Task.String() {
				t.Errorf("serialization not stable: %q vs %q", first.String(), second.Task.String())
			}
		})
	}
}
