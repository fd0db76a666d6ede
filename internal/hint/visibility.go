package hint

import (
	"math"
	"sort"
	"strings"

	"github.com/mj1618/hintnav/internal/dom"
)

// Reason explains why the filter rejected a candidate.
type Reason string

const (
	Accepted         Reason = ""
	RejectNotLaidOut Reason = "not-laid-out"
	RejectHidden     Reason = "hidden"
	RejectNoPointer  Reason = "no-pointer"
	RejectIgnored    Reason = "ignored"
	RejectAncestor   Reason = "ignored-ancestor"
	RejectFuzzy      Reason = "fuzzy-ignored"
	RejectEmpty      Reason = "empty"
	RejectOffscreen  Reason = "offscreen"
	RejectOccluded   Reason = "occluded"
)

// Visibility decides which candidates have a point the user could actually
// click right now. It holds no state between calls, so the same frozen
// tree always yields the same answers.
type Visibility struct {
	doc      dom.Document
	rules    Rules
	viewport dom.Size
	body     dom.Node
}

// NewVisibility binds the filter to doc's current viewport and body.
func NewVisibility(doc dom.Document, rules Rules) (*Visibility, error) {
	vp, err := doc.Viewport()
	if err != nil {
		return nil, err
	}
	body, err := doc.Body()
	if err != nil {
		return nil, err
	}
	return &Visibility{doc: doc, rules: rules, viewport: vp, body: body}, nil
}

// Viewport returns the viewport the filter was bound to.
func (v *Visibility) Viewport() dom.Size { return v.viewport }

// Check applies the rejection rules in order and returns the first that
// fires, or Accepted.
func (v *Visibility) Check(n dom.Node) Reason {
	if !n.LaidOut() {
		return RejectNotLaidOut
	}
	st := n.Style()
	if st.Hidden() {
		return RejectHidden
	}
	if st.DeclinesPointer() {
		return RejectNoPointer
	}
	if r := v.ignored(n); r != Accepted {
		return r
	}
	rect := n.Rect()
	if rect.Empty() {
		return RejectEmpty
	}
	if rect.OutsideViewport(v.viewport) {
		return RejectOffscreen
	}
	if !v.anyReachable(n, rect) {
		return RejectOccluded
	}
	return Accepted
}

// Filter returns the accepted candidates in their original order.
func (v *Visibility) Filter(cands []Candidate) []Candidate {
	var out []Candidate
	for _, c := range cands {
		if v.Check(c.Node) == Accepted {
			out = append(out, c)
		}
	}
	return out
}

// ignored checks the exact selectors on the node, then on its ancestors,
// then class substrings on the node and its ancestors.
func (v *Visibility) ignored(n dom.Node) Reason {
	if matchesAny(n, v.rules.Ignore) {
		return RejectIgnored
	}
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if matchesAny(cur, v.rules.Ignore) {
			return RejectAncestor
		}
	}
	if v.rules.FuzzyIgnoreEnabled {
		for cur := n; cur != nil; cur = cur.Parent() {
			if classContainsAny(cur, v.rules.FuzzyIgnore) {
				return RejectFuzzy
			}
		}
	}
	return Accepted
}

// Ignored reports whether n is excluded by the ignore rules alone.
func (v *Visibility) Ignored(n dom.Node) bool {
	return v.ignored(n) != Accepted
}

func matchesAny(n dom.Node, selectors []string) bool {
	for _, sel := range selectors {
		if ok, err := n.Matches(sel); err == nil && ok {
			return true
		}
	}
	return false
}

func classContainsAny(n dom.Node, subs []string) bool {
	cls := dom.ClassName(n)
	if cls == "" {
		return false
	}
	for _, sub := range subs {
		if sub != "" && strings.Contains(cls, sub) {
			return true
		}
	}
	return false
}

// samples returns the centres of a grid laid over rect. Each axis gets
// ceil(size/CellSize) cells, clamped to [GridMin, GridMax].
func (v *Visibility) samples(rect dom.Rect) []dom.Point {
	cols := v.gridCells(rect.Width)
	rows := v.gridCells(rect.Height)
	pts := make([]dom.Point, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			pts = append(pts, dom.Point{
				X: rect.X + rect.Width*(float64(c)+0.5)/float64(cols),
				Y: rect.Y + rect.Height*(float64(r)+0.5)/float64(rows),
			})
		}
	}
	return pts
}

func (v *Visibility) gridCells(size float64) int {
	cell := v.rules.CellSize
	if cell <= 0 {
		cell = 100
	}
	lo, hi := v.rules.GridMin, v.rules.GridMax
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	n := int(math.Ceil(size / cell))
	return min(hi, max(lo, n))
}

func (v *Visibility) anyReachable(n dom.Node, rect dom.Rect) bool {
	for _, p := range v.samples(rect) {
		if !v.viewport.Contains(p) {
			continue
		}
		if v.reachable(n, p) {
			return true
		}
	}
	return false
}

// Anchor returns the in-viewport sample point closest to the centre of n
// that hit-tests to n. ok is false when no sample is reachable.
func (v *Visibility) Anchor(n dom.Node) (p dom.Point, ok bool) {
	rect := n.Rect()
	if rect.Empty() {
		return dom.Point{}, false
	}
	pts := v.samples(rect)
	center := rect.Center()
	sort.SliceStable(pts, func(i, j int) bool {
		return dom.Distance(pts[i], center) < dom.Distance(pts[j], center)
	})
	for _, p := range pts {
		if !v.viewport.Contains(p) {
			continue
		}
		if v.reachable(n, p) {
			return p, true
		}
	}
	return dom.Point{}, false
}

// reachable reports whether a click at p would land on n. It does when the
// topmost element there is n, inside n or one of n's ancestors. Otherwise it only does when every
// element from the top hit up to the body declines pointer input.
func (v *Visibility) reachable(n dom.Node, p dom.Point) bool {
	top, err := v.doc.ElementFromPoint(p)
	if err != nil || top == nil {
		return false
	}
	if dom.Contains(n, top) || dom.Contains(top, n) {
		return true
	}
	for cur := top; cur != nil && cur != v.body; cur = cur.Parent() {
		if !cur.Style().DeclinesPointer() {
			return false
		}
	}
	return true
}
