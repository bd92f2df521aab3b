package todo

import (
	"encoding/json"
	"strings"
)

// Recognized meta keys.
const (
	KeyDue       = "due"
	KeyDone      = "done"
	KeyCompleted = "completed"
	KeyRec       = "rec"
	KeyPrev      = "_prev"
)

// canonicalKeys is the serialization order of recognized keys. Other
// keys follow in first-seen order.
var canonicalKeys = []string{KeyDue, KeyDone, KeyRec, KeyPrev}

// Meta is an ordered set of key:value fields. The zero value is ready
// to use.
type Meta struct {
	keys   []string
	values map[string]string
}

// Get returns the value for key.
func (m *Meta) Get(key string) (string, bool) {
	if m == nil || m.values == nil {
		return "", false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Meta) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores value under key. A key already present keeps its position.
func (m *Meta) Set(key, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key.
func (m *Meta) Delete(key string) {
	if m.values == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of fields.
func (m *Meta) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns keys in first-seen order.
func (m *Meta) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// CanonicalKeys returns keys in serialization order: due, done, rec,
// _prev, then the rest in first-seen order.
func (m *Meta) CanonicalKeys() []string {
	out := make([]string, 0, m.Len())
	for _, k := range canonicalKeys {
		if m.Has(k) {
			out = append(out, k)
		}
	}
	for _, k := range m.Keys() {
		if !isCanonicalKey(k) {
			out = append(out, k)
		}
	}
	return out
}

// Map returns a copy of the fields as a plain map.
func (m *Meta) Map() map[string]string {
	out := make(map[string]string, m.Len())
	for _, k := range m.Keys() {
		out[k] = m.values[k]
	}
	return out
}

// Clone returns an independent copy of m.
func (m Meta) Clone() Meta {
	var c Meta
	for _, k := range m.keys {
		c.Set(k, m.values[k])
	}
	return c
}

// Equal reports whether m and other hold the same fields, ignoring order.
func (m *Meta) Equal(other *Meta) bool {
	if m.Len() != other.Len() {
		return false
	}
	for _, k := range m.Keys() {
		v, ok := other.Get(k)
		if !ok || v != m.values[k] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes m as an object in canonical key order.
func (m Meta) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range m.CanonicalKeys() {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

func isCanonicalKey(key string) bool {
	for _, k := range canonicalKeys {
		if k == key {
			return true
		}
	}
	return false
}

// splitMeta reports whether token has the key:value shape and returns
// its parts. Keys start with a letter or underscore and hold only
// letters, digits, '_' and '-'. Values are non-empty and may not start
// with "//", which keeps URLs in the title.
func splitMeta(token string) (key, value string, ok bool) {
	i := strings.IndexByte(token, ':')
	if i <= 0 || i == len(token)-1 {
		return "", "", false
	}
	key, value = token[:i], token[i+1:]
	if strings.HasPrefix(value, "//") {
		return "", "", false
	}
	for j := 0; j < len(key); j++ {
		c := key[j]
		letter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
		if j == 0 && !letter {
			return "", "", false
		}
		if !letter && !(c >= '0' && c <= '9') && c != '-' {
			return "", "", false
		}
	}
	return key, value, true
}
