package todo

import (
	"io"
	"strings"
)

// Document is an ordered list of tasks read from one file.
type Document struct {
	Path  string `json:"path,omitempty"`
	Tasks []Task `json:"tasks"`
	// gaps[i] is the number of blank lines written before Tasks[i].
	gaps []int
}

// Parse builds a Document from the full text of a file. A description
// line with no task directly above it fails with ErrOrphanContinuation.
func Parse(text string) (*Document, error) {
	doc := &Document{}
	blanks := 0
	open := false // the last non-blank line belongs to a task
	for i, raw := range strings.Split(text, "\n") {
		res := ParseLine(raw)
		switch res.Kind {
		case LineBlank:
			blanks++
			open = false
		case LineContinuation:
			if !open {
				return nil, &LineError{Line: i + 1, Err: ErrOrphanContinuation}
			}
			last := &doc.Tasks[len(doc.Tasks)-1]
			last.Description = append(last.Description, res.Text)
		case LineTask:
			res.Task.Line = i + 1
			doc.Tasks = append(doc.Tasks, res.Task)
			doc.gaps = append(doc.gaps, blanks)
			blanks = 0
			open = true
		}
	}
	return doc, nil
}

// Read parses a Document from r.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

// Append adds t to the end of the document.
func (d *Document) Append(t Task) {
	d.syncGaps()
	d.Tasks = append(d.Tasks, t)
	d.gaps = append(d.gaps, 0)
}

// Len returns the number of tasks.
func (d *Document) Len() int {
	return len(d.Tasks)
}

// String serializes the document. Blank separators from the source are
// kept in place; every task is re-emitted in canonical form.
func (d *Document) String() string {
	d.syncGaps()
	var b strings.Builder
	for i := range d.Tasks {
		t := &d.Tasks[i]
		if i > 0 {
			for n := 0; n < d.gaps[i]; n++ {
				b.WriteByte('\n')
			}
		}
		b.WriteString(t.String())
		b.WriteByte('\n')
		for _, line := range t.Description {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// WriteTo writes the serialized document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())
	return int64(n), err
}

// Validate checks the meta fields of every task.
func (d *Document) Validate() []error {
	var errs []error
	for i := range d.Tasks {
		for _, err := range d.Tasks[i].Validate() {
			errs = append(errs, withPath(err, d.Path))
		}
	}
	return errs
}

// syncGaps keeps gaps aligned with Tasks after callers edit Tasks
// directly.
func (d *Document) syncGaps() {
	for len(d.gaps) < len(d.Tasks) {
		d.gaps = append(d.gaps, 0)
	}
	d.gaps = d.gaps[:len(d.Tasks)]
}
