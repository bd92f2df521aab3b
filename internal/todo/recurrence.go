package todo

import (
	"fmt"
	"strconv"
)

// Unit is the period of a recurrence.
type Unit byte

const (
	Day   Unit = 'd'
	Week  Unit = 'w'
	Month Unit = 'm'
	Year  Unit = 'y'
)

// maxPeriods bounds N so that stepping a four-digit year cannot overflow.
const maxPeriods = 9999

// Recurrence is a parsed rec field.
type Recurrence struct {
	// Flexible recurrences ("+" prefix) count from the done date,
	// strict ones from the due date.
	Flexible bool
	N        int
	Unit     Unit
}

// ParseRecurrence parses [+]N{d,w,m,y} where N is between 1 and 9999.
func ParseRecurrence(s string) (Recurrence, error) {
	var r Recurrence
	body := s
	if len(body) > 0 && body[0] == '+' {
		r.Flexible = true
		body = body[1:]
	}
	if len(body) < 2 {
		return Recurrence{}, fmt.Errorf("%w: %q", ErrMalformedRecurrence, s)
	}
	digits, unit := body[:len(body)-1], Unit(body[len(body)-1])
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return Recurrence{}, fmt.Errorf("%w: %q", ErrMalformedRecurrence, s)
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 || n > maxPeriods {
		return Recurrence{}, fmt.Errorf("%w: %q", ErrMalformedRecurrence, s)
	}
	switch unit {
	case Day, Week, Month, Year:
	default:
		return Recurrence{}, fmt.Errorf("%w: unknown unit in %q", ErrMalformedRecurrence, s)
	}
	r.N = n
	r.Unit = unit
	return r, nil
}

// String formats r in its canonical form, e.g. "+2w".
func (r Recurrence) String() string {
	prefix := ""
	if r.Flexible {
		prefix = "+"
	}
	return fmt.Sprintf("%s%d%c", prefix, r.N, byte(r.Unit))
}

// Next returns anchor moved forward by one period of r.
func (r Recurrence) Next(anchor Date) Date {
	switch r.Unit {
	case Week:
		return anchor.AddDays(7 * r.N)
	case Month:
		return anchor.AddMonths(r.N)
	case Year:
		return anchor.AddYears(r.N)
	default:
		return anchor.AddDays(r.N)
	}
}
