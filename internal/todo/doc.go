// Package todo parses, evaluates, and advances todotxt task lists.
//
// A todotxt file is line oriented:
//
//	x Water plants @home done:2024-01-16 due:2024-01-15 rec:+1w
//	  Use the green can
//
//	Call Mom @phone due:2024-02-01
//
// # Task Lines
//
// A task line is a whitespace separated list of tokens. A leading "x "
// marks the task done. Every other token is exactly one of:
//   - a tag: "@name", stored without the "@"
//   - a meta field: "key:value", keys unique per task (last one wins)
//   - a title word
//
// Tags and meta fields may appear anywhere on the line; the title keeps
// the remaining words in order.
//
// # Description Lines
//
// A line indented by exactly two spaces continues the task above it and
// is stored, without the indent, in the task's Description. A blank line
// separates tasks and ends a description.
//
// # Meta Fields
//
//   - due:YYYY-MM-DD   due date
//   - done:YYYY-MM-DD  completion date ("completed" is read as an alias)
//   - rec:[+]N{d,w,m,y} recurrence; "+" anchors on done instead of due
//   - _prev:HASH       fingerprint of the task an occurrence was made from
//
// # Recurrence
//
// Document.ProcessRecurring appends the next occurrence of every done,
// recurring task. Occurrences carry _prev set to Fingerprint(source), so
// running it again over its own output adds nothing.
package todo
