package hint

import (
	"math"
	"strings"

	"github.com/mj1618/hintnav/internal/dom"
)

// Hint binds a label to a reachable target and its badge.
type Hint struct {
	Label   string
	Node    dom.Node
	Anchor  dom.Point
	Sources Source
	Score   float64
	badge   dom.Badge
}

// Report is a serialisable view of a Hint.
type Report struct {
	Label      string   `yaml:"label"                json:"label"`
	Tag        string   `yaml:"tag"                  json:"tag"`
	ID         string   `yaml:"id,omitempty"         json:"id,omitempty"`
	Class      string   `yaml:"class,omitempty"      json:"class,omitempty"`
	AriaLabel  string   `yaml:"aria_label,omitempty" json:"aria_label,omitempty"`
	Role       string   `yaml:"role,omitempty"       json:"role,omitempty"`
	Bounds     [4]int   `yaml:"bounds"               json:"bounds"`
	Anchor     [2]int   `yaml:"anchor"               json:"anchor"`
	ZIndex     int      `yaml:"z"                    json:"z"`
	Score      float64  `yaml:"score"                json:"score"`
	Sources    []string `yaml:"sources"              json:"sources"`
	KnownInput bool     `yaml:"known_input,omitempty" json:"known_input,omitempty"`
	Match      bool     `yaml:"match"                json:"match"`
	Exact      bool     `yaml:"exact,omitempty"      json:"exact,omitempty"`

	// Unrounded geometry, for drawing.
	Rect        dom.Rect  `yaml:"-" json:"-"`
	AnchorPoint dom.Point `yaml:"-" json:"-"`
}

func newReport(h *Hint, inputs InputRules, prefix, exact bool) Report {
	n := h.Node
	rect := n.Rect()
	return Report{
		Label:       h.Label,
		Tag:         strings.ToLower(n.TagName()),
		ID:          n.Attr("id"),
		Class:       n.Attr("class"),
		AriaLabel:   n.Attr("aria-label"),
		Role:        n.Attr("role"),
		Bounds:      rect.Bounds(),
		Anchor:      [2]int{int(math.Round(h.Anchor.X)), int(math.Round(h.Anchor.Y))},
		ZIndex:      zIndex(n.Style()),
		Score:       math.Round(h.Score*100) / 100,
		Sources:     h.Sources.Tags(),
		KnownInput:  IsKnownInput(n, inputs),
		Match:       prefix,
		Exact:       exact,
		Rect:        rect,
		AnchorPoint: h.Anchor,
	}
}
