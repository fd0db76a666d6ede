package server

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mj1618/hintnav/internal/hint"
)

// StringParam extracts a string parameter with a default.
func StringParam(params map[string]interface{}, key, def string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// BoolParam extracts a bool parameter with a default.
func BoolParam(params map[string]interface{}, key string, def bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// IntParam extracts an integer parameter with a default. JSON numbers
// arrive as float64.
func IntParam(params map[string]interface{}, key string, def int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// keyNames maps the brace names accepted by hint_keys to engine keys.
var keyNames = map[string]string{
	"escape":    hint.KeyEscape,
	"esc":       hint.KeyEscape,
	"backspace": hint.KeyBackspace,
	"bs":        hint.KeyBackspace,
	"enter":     hint.KeyEnter,
	"return":    hint.KeyEnter,
}

// SplitKeys turns a key string into engine keys. Letters are typed one by
// one; named keys are written in braces, e.g. "as{Backspace}d{Enter}".
func SplitKeys(s string) ([]string, error) {
	var keys []string
	for i := 0; i < len(s); {
		c, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case c == '{':
			end := strings.IndexByte(s[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unclosed key name at offset %d", i)
			}
			name := s[i+1 : i+end]
			key, ok := keyNames[strings.ToLower(name)]
			if !ok {
				return nil, fmt.Errorf("unknown key name %q", name)
			}
			keys = append(keys, key)
			i += end + 1
			continue
		case c == ' ' || c == '\t':
		default:
			keys = append(keys, string(c))
		}
		i += size
	}
	return keys, nil
}
