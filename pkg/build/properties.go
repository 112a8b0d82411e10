package build

import (
	"strings"
	"sync"
)

// PropertyTable holds build properties. Safe for concurrent use: the debug session reads
// it from the command reader goroutine while the build writes it.
type PropertyTable struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewPropertyTable creates a table seeded with initial.
func NewPropertyTable(initial map[string]string) *PropertyTable {
	values := make(map[string]string, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &PropertyTable{values: values}
}

// Get returns a property value.
func (t *PropertyTable) Get(name string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[name]
	return v, ok
}

// Set defines a property only if it is not already set. Properties are immutable once
// defined, so values given on the command line win over the plan. Returns whether it was set.
func (t *PropertyTable) Set(name, value string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.values[name]; ok {
		return false
	}
	t.values[name] = value
	return true
}

// Properties returns a copy of all bindings. It implements ports.PropertySource.
func (t *PropertyTable) Properties() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]string, len(t.values))
	for k, v := range t.values {
		out[k] = v
	}
	return out
}

// Expand replaces ${name} references with property values and "$$" with "$".
// Undefined references, unterminated "${" and any other "$" are left as written.
func (t *PropertyTable) Expand(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '$' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		switch s[i+1] {
		case '$':
			b.WriteByte('$')
			i++
		case '{':
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				b.WriteString(s[i:])
				return b.String()
			}
			name := s[i+2 : i+2+end]
			if v, ok := t.values[name]; ok {
				b.WriteString(v)
			} else {
				b.WriteString(s[i : i+3+end])
			}
			i += 2 + end
		default:
			b.WriteByte('$')
		}
	}
	return b.String()
}
