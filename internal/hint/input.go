package hint

import (
	"log/slog"
	"strings"

	"github.com/mj1618/hintnav/internal/dom"
)

// IsKnownInput reports whether n is a text-entry widget the host expects
// the user to type into.
func IsKnownInput(n dom.Node, rules InputRules) bool {
	if n == nil {
		return false
	}
	for _, sel := range rules.Selectors {
		if ok, err := n.Matches(sel); err == nil && ok {
			return true
		}
	}
	if labelMatches(n, rules.Labels) {
		return true
	}
	return attributesMatch(n, rules.Attributes)
}

// FindKnownInputs returns nodes matching the input selectors followed by
// generic editable widgets that carry a known label or satisfy the
// attribute matchers.
func FindKnownInputs(doc dom.Document, rules InputRules, logger *slog.Logger) []dom.Node {
	var out []dom.Node
	seen := make(map[dom.Node]bool)
	add := func(n dom.Node) {
		if n != nil && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}

	for _, sel := range rules.Selectors {
		nodes, err := doc.QueryAll(sel)
		if err != nil {
			if logger != nil {
				logger.Debug("hint: input selector skipped", "selector", sel, "err", err)
			}
			continue
		}
		for _, n := range nodes {
			add(n)
		}
	}

	generic, err := doc.QueryAll(InputDiscoverySelector)
	if err != nil {
		return out
	}
	for _, n := range generic {
		if labelMatches(n, rules.Labels) || attributesMatch(n, rules.Attributes) {
			add(n)
		}
	}
	return out
}

func labelMatches(n dom.Node, labels []string) bool {
	aria := normalizeLabel(n.Attr("aria-label"))
	if aria == "" {
		return false
	}
	for _, l := range labels {
		if aria == strings.ToLower(l) {
			return true
		}
	}
	return false
}

// attributesMatch requires every matcher; an empty set matches nothing.
func attributesMatch(n dom.Node, matchers []AttrMatcher) bool {
	if len(matchers) == 0 {
		return false
	}
	for _, m := range matchers {
		if n.Attr(m.Attr) != m.Value {
			return false
		}
	}
	return true
}
