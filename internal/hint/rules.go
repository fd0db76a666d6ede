// Package hint implements keyboard hint navigation over a dom.Document:
// it finds activatable elements, labels the reachable ones, resolves typed
// labels and activates the chosen element with synthetic pointer input.
package hint

import (
	"fmt"
	"strings"
	"time"
)

// DefaultAlphabet is the home-row-first hint alphabet. Earlier characters
// are assigned first.
const DefaultAlphabet = "ASDFGHJKLQWERTYUIOPZXCVBNM"

// ActionableSelector finds the element whose native activation is used as
// the last-resort dispatch strategy.
const ActionableSelector = `button, a[href], [role="button"], [tabindex]:not([tabindex="-1"])`

// InputDiscoverySelector finds generic input widgets that are then checked
// against InputRules.
const InputDiscoverySelector = `[contenteditable="true"], [role="combobox"]`

// AttrMatcher requires an attribute to equal a value exactly.
type AttrMatcher struct {
	Attr  string `yaml:"attr"  json:"attr"`
	Value string `yaml:"value" json:"value"`
}

// InputRules identifies known text-entry widgets. A node is a known input
// when it matches any selector, OR its aria-label equals any label
// (case-insensitive), OR it satisfies every attribute matcher.
type InputRules struct {
	Selectors  []string      `yaml:"selectors"  json:"selectors"`
	Labels     []string      `yaml:"labels"     json:"labels"`
	Attributes []AttrMatcher `yaml:"attributes" json:"attributes"`
}

// Rules is the load-time configuration of the engine.
type Rules struct {
	// Clickable selectors mark elements interactive by construction.
	Clickable []string `yaml:"clickable" json:"clickable"`
	// Ignore selectors exclude a node when it or any ancestor matches.
	Ignore []string `yaml:"ignore" json:"ignore"`

	FuzzyIgnoreEnabled bool     `yaml:"fuzzy_ignore_enabled" json:"fuzzy_ignore_enabled"`
	FuzzyIgnore        []string `yaml:"fuzzy_ignore"         json:"fuzzy_ignore"`

	FuzzyIncludeEnabled bool     `yaml:"fuzzy_include_enabled" json:"fuzzy_include_enabled"`
	FuzzyInclude        []string `yaml:"fuzzy_include"         json:"fuzzy_include"`

	Inputs InputRules `yaml:"inputs" json:"inputs"`

	Alphabet      string  `yaml:"alphabet"       json:"alphabet"`
	IdleDelayMS   int     `yaml:"idle_delay_ms"  json:"idle_delay_ms"`
	MaxNeutralize int     `yaml:"max_neutralize" json:"max_neutralize"`
	GridMin       int     `yaml:"grid_min"       json:"grid_min"`
	GridMax       int     `yaml:"grid_max"       json:"grid_max"`
	CellSize      float64 `yaml:"cell_size"      json:"cell_size"`
	// HideUnmatched hides badges that do not match the typed prefix
	// instead of dimming them.
	HideUnmatched bool `yaml:"hide_unmatched" json:"hide_unmatched"`
}

// DefaultRules returns the rules tuned for the Discord client.
func DefaultRules() Rules {
	notHidden := func(sels ...string) []string {
		out := make([]string, len(sels))
		for i, s := range sels {
			out[i] = s + `:not([aria-hidden="true"])`
		}
		return out
	}
	return Rules{
		Clickable: notHidden(
			`button`,
			`a[href]`,
			`[role="button"]`,
			`.clickable__91a9d`,
			`.item__133bf`,
			`.wrapper__6e9f8`,
			`.folderButtonInner__48112`,
			`.channelMention.wrapper_f61d60.interactive`,
			`.backdrop__78332.withLayer__78332`,
			`.inputDefault_f525d3.input_f525d3F`,
			`.checkbox_f525d3.box_f525d3`,
		),
		Ignore: []string{
			`span.chipletContainerInner__10651.clanTag__5d473`,
			`svg.premiumIcon__5d473.icon__5d473`,
			`button:has(svg.premiumIcon__5d473.icon__5d473)`,
			`a:has(svg.premiumIcon__5d473.icon__5d473)`,
			`[role="button"]:has(svg.premiumIcon__5d473.icon__5d473)`,
			`.sidebarResizeHandle_c48ade`,
			`.title_c38106`,
		},
		FuzzyIgnoreEnabled:  true,
		FuzzyIgnore:         []string{"clanTag__", "chipletContainerInner__", "premiumIcon__", "icon__5d473"},
		FuzzyIncludeEnabled: true,
		FuzzyInclude:        []string{"clickable__", "clickTrapContainer_", "input_", "backdrop_"},
		Inputs: InputRules{
			Selectors: []string{
				`[contenteditable="true"][data-slate-editor="true"]`,
				`textarea`,
				`input[type="text"]`,
				`.searchBar__97492 .public-DraftEditor-content[contenteditable="true"][role="combobox"]`,
				`.DraftEditor-root .public-DraftEditor-content[contenteditable="true"]`,
			},
			Labels: []string{"Search", "Quick switcher"},
			Attributes: []AttrMatcher{
				{Attr: "role", Value: "combobox"},
				{Attr: "contenteditable", Value: "true"},
			},
		},
		Alphabet:      DefaultAlphabet,
		IdleDelayMS:   5000,
		MaxNeutralize: 6,
		GridMin:       2,
		GridMax:       6,
		CellSize:      100,
		HideUnmatched: true,
	}
}

// IdleDelay returns the idle-resolution delay.
func (r Rules) IdleDelay() time.Duration {
	return time.Duration(r.IdleDelayMS) * time.Millisecond
}

// CheckAlphabet reports whether alphabet can label hints: at least two
// distinct upper-case letters.
func CheckAlphabet(alphabet string) error {
	if len(alphabet) < 2 {
		return fmt.Errorf("alphabet %q: need at least 2 characters", alphabet)
	}
	seen := make(map[rune]bool, len(alphabet))
	for _, c := range alphabet {
		if c < 'A' || c > 'Z' {
			return fmt.Errorf("alphabet %q: %q is not an upper-case letter", alphabet, c)
		}
		if seen[c] {
			return fmt.Errorf("alphabet %q: duplicate %q", alphabet, c)
		}
		seen[c] = true
	}
	return nil
}

// normalizeLabel trims and lower-cases an accessible name for comparison.
func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
