package todo

// PastDue reports whether t is open and due strictly before today. A
// malformed due field is returned as an error and counts as not past due.
func (t *Task) PastDue(today Date) (bool, error) {
	if t.Done {
		return false, nil
	}
	due, ok, err := t.Due()
	if err != nil || !ok {
		return false, err
	}
	return due.Before(today), nil
}

// IsPastDue is PastDue without the error. A task due today is not past due.
func IsPastDue(t *Task, today Date) bool {
	past, _ := t.PastDue(today)
	return past
}

// PastDue returns the past-due tasks of d in file order together with
// any malformed due fields met on the way.
func (d *Document) PastDue(today Date) ([]Task, []error) {
	var (
		tasks []Task
		errs  []error
	)
	for i := range d.Tasks {
		past, err := d.Tasks[i].PastDue(today)
		if err != nil {
			errs = append(errs, withPath(err, d.Path))
			continue
		}
		if past {
			tasks = append(tasks, d.Tasks[i])
		}
	}
	return tasks, errs
}

// DueWithin returns open tasks due between today and today+days,
// inclusive. Malformed due fields are skipped; PastDue reports them.
func (d *Document) DueWithin(today Date, days int) []Task {
	limit := today.AddDays(days)
	var tasks []Task
	for i := range d.Tasks {
		t := &d.Tasks[i]
		if t.Done {
			continue
		}
		due, ok, err := t.Due()
		if err != nil || !ok {
			continue
		}
		if !due.Before(today) && !due.After(limit) {
			tasks = append(tasks, *t)
		}
	}
	return tasks
}
