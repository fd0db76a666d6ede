package hint

import (
	"log/slog"
	"strings"

	"github.com/mj1618/hintnav/internal/dom"
)

// Source records why a node became a candidate.
type Source uint8

const (
	SourceClickable Source = 1 << iota
	SourceFuzzy
	SourceInput
)

// Tags returns the source names in a fixed order.
func (s Source) Tags() []string {
	var tags []string
	if s&SourceClickable != 0 {
		tags = append(tags, "clickable")
	}
	if s&SourceFuzzy != 0 {
		tags = append(tags, "fuzzy")
	}
	if s&SourceInput != 0 {
		tags = append(tags, "input")
	}
	return tags
}

// Candidate is a node that might be interactive.
type Candidate struct {
	Node    dom.Node
	Sources Source
}

// collector merges the three candidate sources, keeping first-seen order.
type collector struct {
	doc    dom.Document
	rules  Rules
	logger *slog.Logger

	out   []Candidate
	index map[dom.Node]int
}

// Collect returns the de-duplicated union of clickable selector matches,
// fuzzy-include matches and known inputs, in that order. Selector errors
// are logged and treated as no match.
func Collect(doc dom.Document, rules Rules, logger *slog.Logger) []Candidate {
	if logger == nil {
		logger = slog.Default()
	}
	c := &collector{doc: doc, rules: rules, logger: logger, index: make(map[dom.Node]int)}

	c.addAll(c.query(rules.Clickable), SourceClickable)
	if rules.FuzzyIncludeEnabled && len(rules.FuzzyInclude) > 0 {
		c.addAll(c.query([]string{fuzzyIncludeSelector(rules.FuzzyInclude)}), SourceFuzzy)
	}
	c.addAll(FindKnownInputs(doc, rules.Inputs, logger), SourceInput)
	return c.out
}

// query runs the selectors as one group to keep document order. When the
// group fails to parse, each selector is queried on its own so that one
// bad entry only drops itself.
func (c *collector) query(selectors []string) []dom.Node {
	if len(selectors) == 0 {
		return nil
	}
	nodes, err := c.doc.QueryAll(strings.Join(selectors, ", "))
	if err == nil {
		return nodes
	}
	var out []dom.Node
	for _, sel := range selectors {
		found, err := c.doc.QueryAll(sel)
		if err != nil {
			c.logger.Debug("hint: selector skipped", "selector", sel, "err", err)
			continue
		}
		out = append(out, found...)
	}
	return out
}

func (c *collector) addAll(nodes []dom.Node, src Source) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if i, ok := c.index[n]; ok {
			c.out[i].Sources |= src
			continue
		}
		c.index[n] = len(c.out)
		c.out = append(c.out, Candidate{Node: n, Sources: src})
	}
}

// fuzzyIncludeSelector builds a selector for body descendants whose class
// attribute contains any of subs.
func fuzzyIncludeSelector(subs []string) string {
	parts := make([]string, 0, len(subs))
	for _, sub := range subs {
		if sub == "" {
			continue
		}
		parts = append(parts, `body [class*="`+cssString(sub)+`"]`)
	}
	return strings.Join(parts, ", ")
}

// cssString escapes s for use inside a double-quoted CSS string.
func cssString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
