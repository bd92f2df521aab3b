package todo

import (
	"errors"
	"strings"
)

// Task is one logical todo item.
type Task struct {
	Done        bool     `json:"done"`
	Title       string   `json:"title"`
	Tags        []string `json:"tags,omitempty"`
	Meta        Meta     `json:"meta"`
	Description []string `json:"description,omitempty"`
	// Line is the 1-based line the task was read from, 0 if generated.
	Line int `json:"line,omitempty"`
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	c := t
	c.Tags = append([]string(nil), t.Tags...)
	c.Description = append([]string(nil), t.Description...)
	c.Meta = t.Meta.Clone()
	return c
}

// Due returns the due date. ok is false when the field is absent.
func (t *Task) Due() (d Date, ok bool, err error) {
	return t.dateField(KeyDue)
}

// DoneDate returns the completion date, falling back to "completed"
// when "done" is absent.
func (t *Task) DoneDate() (d Date, ok bool, err error) {
	if t.Meta.Has(KeyDone) {
		return t.dateField(KeyDone)
	}
	return t.dateField(KeyCompleted)
}

// Recurrence returns the parsed rec field. ok is false when absent.
func (t *Task) Recurrence() (r Recurrence, ok bool, err error) {
	raw, ok := t.Meta.Get(KeyRec)
	if !ok {
		return Recurrence{}, false, nil
	}
	r, err = ParseRecurrence(raw)
	if err != nil {
		return Recurrence{}, true, t.fieldError(KeyRec, raw, ErrMalformedRecurrence)
	}
	return r, true, nil
}

// Prev returns the provenance fingerprint, if any.
func (t *Task) Prev() (string, bool) {
	return t.Meta.Get(KeyPrev)
}

// Validate checks every recognized meta field and returns one error per
// malformed field.
func (t *Task) Validate() []error {
	var errs []error
	if _, _, err := t.Due(); err != nil {
		errs = append(errs, err)
	}
	if _, _, err := t.DoneDate(); err != nil {
		errs = append(errs, err)
	}
	if _, _, err := t.Recurrence(); err != nil {
		errs = append(errs, err)
	}
	return errs
}

func (t *Task) dateField(key string) (Date, bool, error) {
	raw, ok := t.Meta.Get(key)
	if !ok {
		return Date{}, false, nil
	}
	d, err := ParseDate(raw)
	if err != nil {
		return Date{}, true, t.fieldError(key, raw, ErrMalformedDate)
	}
	return d, true, nil
}

func (t *Task) fieldError(key, raw string, sentinel error) error {
	return &FieldError{Line: t.Line, Field: key, Value: raw, Err: sentinel}
}

// Equal reports whether t and other describe the same task: same done
// state, title, description, tags as a set and meta as a map. Line is
// ignored.
func (t *Task) Equal(other *Task) bool {
	if t.Done != other.Done || t.Title != other.Title {
		return false
	}
	if !sameSet(t.Tags, other.Tags) {
		return false
	}
	if len(t.Description) != len(other.Description) {
		return false
	}
	for i := range t.Description {
		if t.Description[i] != other.Description[i] {
			return false
		}
	}
	return t.Meta.Equal(&other.Meta)
}

// String formats the task line without its description: done marker,
// title, tags, then meta fields in canonical order. An open task whose
// title starts with the word "x" is led by its first tag or meta field
// so it does not read back as done.
func (t *Task) String() string {
	var fields []string
	for _, tag := range t.Tags {
		fields = append(fields, "@"+tag)
	}
	for _, k := range t.Meta.CanonicalKeys() {
		v, _ := t.Meta.Get(k)
		fields = append(fields, k+":"+v)
	}

	parts := make([]string, 0, 2+len(fields))
	if t.Done {
		parts = append(parts, "x")
	} else if leadsWithMarker(t.Title) && len(fields) > 0 {
		parts = append(parts, fields[0])
		fields = fields[1:]
	}
	if t.Title != "" {
		parts = append(parts, t.Title)
	}
	parts = append(parts, fields...)
	if len(parts) == 1 && t.Done {
		// A bare "x" would read back as a title word.
		return "x "
	}
	return strings.Join(parts, " ")
}

// leadsWithMarker reports whether title would be taken for the done
// marker at the start of a line.
func leadsWithMarker(title string) bool {
	return title == "x" || strings.HasPrefix(title, "x ")
}

// IsFieldError reports whether err is a task-level condition rather
// than a structural failure.
func IsFieldError(err error) bool {
	var fe *FieldError
	return errors.As(err, &fe)
}

func sameSet(a, b []string) bool {
	seen := make(map[string]int, len(a))
	for _, s := range a {
		seen[s]++
	}
	for _, s := range b {
		if seen[s] == 0 {
			return false
		}
		seen[s]--
	}
	for _, n := range seen {
		if n != 0 {
			return false
		}
	}
	return true
}
