package todo

// Advance returns the next occurrence of a done, recurring task. It
// returns nil and no error when t is not done or has no rec field.
//
// The occurrence keeps title, tags, description, rec and any unrelated
// meta fields; it is not done, has no done date, is due one period after
// the anchor, and carries _prev set to Fingerprint(t). t is not modified.
func Advance(t *Task) (*Task, error) {
	if !t.Done {
		return nil, nil
	}
	rec, ok, err := t.Recurrence()
	if !ok {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	anchorKey := KeyDue
	anchor, ok, err := t.Due()
	if rec.Flexible {
		anchorKey = KeyDone
		anchor, ok, err = t.DoneDate()
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &FieldError{Line: t.Line, Field: anchorKey, Err: ErrMissingAnchor}
	}

	due := rec.Next(anchor)
	if due.Year > maxYear {
		raw, _ := t.Meta.Get(KeyRec)
		return nil, t.fieldError(KeyRec, raw, ErrMalformedRecurrence)
	}

	next := t.Clone()
	next.Done = false
	next.Line = 0
	next.Meta.Delete(KeyDone)
	next.Meta.Delete(KeyCompleted)
	next.Meta.Delete(KeyPrev)
	next.Meta.Set(KeyDue, due.String())
	next.Meta.Set(KeyPrev, Fingerprint(t))
	return &next, nil
}

// RecurReport summarizes one ProcessRecurring pass.
type RecurReport struct {
	// Added holds the occurrences appended to the document.
	Added []Task
	// Skipped counts done recurring tasks whose occurrence already exists.
	Skipped int
	// Errors holds one condition per task that could not be advanced.
	Errors []error
}

// ProcessRecurring appends the next occurrence of every done, recurring
// task whose fingerprint is not already some task's _prev. A task that
// fails to advance is reported and the rest are still processed.
func (d *Document) ProcessRecurring() RecurReport {
	var report RecurReport

	produced := make(map[string]bool)
	for i := range d.Tasks {
		if prev, ok := d.Tasks[i].Prev(); ok {
			produced[prev] = true
		}
	}

	// Only the tasks present before this pass are advanced.
	n := len(d.Tasks)
	for i := 0; i < n; i++ {
		src := &d.Tasks[i]
		if !src.Done || !src.Meta.Has(KeyRec) {
			continue
		}
		fp := Fingerprint(src)
		if produced[fp] {
			report.Skipped++
			continue
		}
		next, err := Advance(src)
		if err != nil {
			report.Errors = append(report.Errors, withPath(err, d.Path))
			continue
		}
		if next == nil {
			continue
		}
		produced[fp] = true
		report.Added = append(report.Added, *next)
	}

	for _, t := range report.Added {
		d.Append(t)
	}
	return report
}
