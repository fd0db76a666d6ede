package fixture

import (
	"strconv"
	"strings"

	"github.com/gorilla/css/scanner"
)

// parseDeclarations parses an inline style attribute into lower-cased
// property names and their raw values, plus the order in which properties
// first appear. Malformed declarations are skipped.
func parseDeclarations(src string) (map[string]string, []string) {
	decls := make(map[string]string)
	var order []string
	s := scanner.New(src)

	var (
		prop    string
		value   strings.Builder
		inValue bool
	)
	flush := func() {
		if prop != "" && inValue {
			v := strings.TrimSpace(value.String())
			v = strings.TrimSuffix(v, "!important")
			if _, seen := decls[prop]; !seen {
				order = append(order, prop)
			}
			decls[prop] = strings.TrimSpace(v)
		}
		prop = ""
		value.Reset()
		inValue = false
	}

	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF, scanner.TokenError:
			flush()
			return decls, order
		case scanner.TokenComment:
			continue
		case scanner.TokenS:
			if inValue && value.Len() > 0 {
				value.WriteByte(' ')
			}
			continue
		case scanner.TokenChar:
			switch tok.Value {
			case ";":
				flush()
				continue
			case ":":
				if !inValue && prop != "" {
					inValue = true
					continue
				}
			}
		case scanner.TokenIdent:
			if !inValue && prop == "" {
				prop = strings.ToLower(tok.Value)
				continue
			}
		}
		if inValue {
			value.WriteString(tok.Value)
		}
	}
}

// formatDeclarations renders declarations back into a style attribute in
// the order the properties were first set.
func formatDeclarations(order []string, decls map[string]string) string {
	var b strings.Builder
	for _, p := range order {
		v, ok := decls[p]
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(p)
		b.WriteString(": ")
		b.WriteString(v)
	}
	return b.String()
}

// pixels parses a CSS length in px. Unitless numbers are accepted.
func pixels(v string) (float64, bool) {
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "px"))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
