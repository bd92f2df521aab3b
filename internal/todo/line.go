package todo

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// LineKind classifies a raw line.
type LineKind int

const (
	LineBlank LineKind = iota
	LineTask
	LineContinuation
)

func (k LineKind) String() string {
	switch k {
	case LineTask:
		return "task"
	case LineContinuation:
		return "continuation"
	default:
		return "blank"
	}
}

// LineResult is the outcome of parsing one line. Task is set for
// LineTask, Text for LineContinuation.
type LineResult struct {
	Kind LineKind
	Task Task
	Text string
}

// tokenKind is the class of a single task-line token.
type tokenKind int

const (
	tokenWord tokenKind = iota
	tokenTag
	tokenMeta
)

type token struct {
	kind  tokenKind
	text  string // word text or tag name
	key   string
	value string
}

// ParseLine parses one raw line (without its trailing newline).
func ParseLine(raw string) LineResult {
	raw = strings.TrimRight(raw, "\r")
	if isContinuation(raw) {
		return LineResult{Kind: LineContinuation, Text: raw[2:]}
	}
	if strings.TrimSpace(raw) == "" {
		return LineResult{Kind: LineBlank}
	}

	var t Task
	body := strings.TrimLeftFunc(raw, unicode.IsSpace)
	if len(body) > 1 && body[0] == 'x' && isSpaceByte(body[1]) {
		t.Done = true
		body = body[2:]
	}

	var words []string
	for _, tok := range tokenize(body) {
		switch tok.kind {
		case tokenTag:
			t.Tags = append(t.Tags, tok.text)
		case tokenMeta:
			t.Meta.Set(tok.key, tok.value)
		default:
			words = append(words, tok.text)
		}
	}
	t.Title = strings.Join(words, " ")
	return LineResult{Kind: LineTask, Task: t}
}

// tokenize splits s on whitespace and classifies each token in a single
// left-to-right pass.
func tokenize(s string) []token {
	fields := strings.Fields(s)
	out := make([]token, 0, len(fields))
	for _, f := range fields {
		switch {
		case len(f) > 1 && f[0] == '@':
			out = append(out, token{kind: tokenTag, text: f[1:]})
		default:
			if key, value, ok := splitMeta(f); ok {
				out = append(out, token{kind: tokenMeta, key: key, value: value})
				continue
			}
			out = append(out, token{kind: tokenWord, text: f})
		}
	}
	return out
}

// isContinuation reports whether raw is indented by exactly two spaces
// followed by a non-space character.
func isContinuation(raw string) bool {
	if len(raw) < 3 || raw[0] != ' ' || raw[1] != ' ' {
		return false
	}
	r, _ := utf8.DecodeRuneInString(raw[2:])
	return !unicode.IsSpace(r)
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t'
}
