package todo

import (
	"encoding/binary"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/zeebo/blake3"
)

// fingerprintLen is the number of hex characters kept from the digest.
const fingerprintLen = 16

// Fingerprint identifies a task by its title, tags, due, done and rec
// fields. Tags are treated as a set and dates and recurrences are
// normalized when they parse, so token order on the line does not
// matter. Description and _prev are not part of the identity.
func Fingerprint(t *Task) string {
	h := blake3.New()

	// Every field is length-prefixed so adjacent fields cannot run
	// together.
	var lenBuf [8]byte
	writeField := func(name, value string) {
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(name)))
		h.Write(lenBuf[:])
		h.Write([]byte(name))
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(value)))
		h.Write(lenBuf[:])
		h.Write([]byte(value))
	}

	tags := append([]string(nil), t.Tags...)
	sort.Strings(tags)

	done := "0"
	if t.Done {
		done = "1"
	}
	writeField("x", done)
	writeField("title", t.Title)
	writeField("tags", strings.Join(tags, " "))
	writeField(KeyDue, canonicalDate(t, KeyDue))
	writeField(KeyDone, canonicalDoneDate(t))
	writeField(KeyRec, canonicalRec(t))

	sum := h.Sum(nil)
	return hex.EncodeToString(sum)[:fingerprintLen]
}

func canonicalDate(t *Task, key string) string {
	raw, ok := t.Meta.Get(key)
	if !ok {
		return ""
	}
	if d, err := ParseDate(raw); err == nil {
		return d.String()
	}
	return raw
}

func canonicalDoneDate(t *Task) string {
	if t.Meta.Has(KeyDone) {
		return canonicalDate(t, KeyDone)
	}
	return canonicalDate(t, KeyCompleted)
}

func canonicalRec(t *Task) string {
	raw, ok := t.Meta.Get(KeyRec)
	if !ok {
		return ""
	}
	if r, err := ParseRecurrence(raw); err == nil {
		return r.String()
	}
	return raw
}
