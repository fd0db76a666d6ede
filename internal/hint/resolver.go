package hint

import (
	"strings"
	"unicode"
)

// State is the resolver state.
type State int

const (
	Idle State = iota
	Accumulating
	Resolved
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Accumulating:
		return "accumulating"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Resolver narrows a label set by the typed prefix.
//
// Transitions:
//   - Type appends an upper-cased letter unless the typed sequence is
//     already as long as the longest label. It resolves at once when the
//     sequence is a label and no other label starts with it.
//   - Backspace drops the last letter; an empty sequence returns to Idle.
//   - Resolve picks the exact label, or the only label with the typed
//     prefix, and otherwise leaves the state unchanged.
//
// Resolved is terminal until Reset.
type Resolver struct {
	labels []string
	known  map[string]bool
	maxLen int

	typed    string
	state    State
	resolved string
}

// NewResolver returns an Idle resolver over labels.
func NewResolver(labels []string) *Resolver {
	r := &Resolver{
		labels: append([]string(nil), labels...),
		known:  make(map[string]bool, len(labels)),
		maxLen: MaxLen(labels),
	}
	for _, l := range labels {
		r.known[l] = true
	}
	return r
}

func (r *Resolver) State() State     { return r.state }
func (r *Resolver) Typed() string    { return r.typed }
func (r *Resolver) MaxLen() int      { return r.maxLen }
func (r *Resolver) Label() string    { return r.resolved }
func (r *Resolver) Labels() []string { return r.labels }

// Reset clears the typed sequence and returns to Idle.
func (r *Resolver) Reset() {
	r.typed = ""
	r.state = Idle
	r.resolved = ""
}

// Type handles a letter key. It reports false when the key was ignored.
func (r *Resolver) Type(c rune) bool {
	if r.state == Resolved || c > unicode.MaxASCII || !unicode.IsLetter(c) {
		return false
	}
	if len(r.typed) >= r.maxLen {
		return false
	}
	r.typed += string(unicode.ToUpper(c))
	r.state = Accumulating
	if r.known[r.typed] && r.countPrefixed(r.typed) == 1 {
		r.resolve(r.typed)
	}
	return true
}

// Backspace removes the last typed letter. It reports false when nothing
// was typed.
func (r *Resolver) Backspace() bool {
	if r.state == Resolved || r.typed == "" {
		return false
	}
	r.typed = r.typed[:len(r.typed)-1]
	if r.typed == "" {
		r.state = Idle
	}
	return true
}

// Resolve attempts resolution by exact match, then by unique prefix.
func (r *Resolver) Resolve() (string, bool) {
	if r.state == Resolved {
		return r.resolved, true
	}
	if r.state != Accumulating || r.typed == "" {
		return "", false
	}
	if r.known[r.typed] {
		r.resolve(r.typed)
		return r.resolved, true
	}
	var only string
	for _, l := range r.labels {
		if strings.HasPrefix(l, r.typed) {
			if only != "" {
				return "", false
			}
			only = l
		}
	}
	if only == "" {
		return "", false
	}
	r.resolve(only)
	return only, true
}

func (r *Resolver) resolve(label string) {
	r.state = Resolved
	r.resolved = label
}

func (r *Resolver) countPrefixed(prefix string) int {
	n := 0
	for _, l := range r.labels {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

// Match reports how label relates to the typed sequence.
func (r *Resolver) Match(label string) (prefix, exact bool) {
	return strings.HasPrefix(label, r.typed), label == r.typed
}
