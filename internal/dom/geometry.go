package dom

import "math"

// Point is a viewport coordinate in CSS pixels.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Size is a viewport size in CSS pixels.
type Size struct {
	Width  float64 `yaml:"width"  json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Contains reports whether p lies inside the viewport, edges included.
func (s Size) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= s.Width && p.Y <= s.Height
}

// Center returns the middle of the viewport.
func (s Size) Center() Point {
	return Point{X: s.Width / 2, Y: s.Height / 2}
}

// Rect is an axis-aligned box in viewport coordinates.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the middle of the box.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Area returns width × height, treating negative sizes as zero.
func (r Rect) Area() float64 {
	return math.Max(0, r.Width) * math.Max(0, r.Height)
}

// Empty reports whether the box has no width or no height.
func (r Rect) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

// Contains reports whether p lies inside the box. The right and bottom
// edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// OutsideViewport reports whether the box lies entirely outside vp.
func (r Rect) OutsideViewport(vp Size) bool {
	return r.Bottom() < 0 || r.Top() > vp.Height || r.Right() < 0 || r.Left() > vp.Width
}

// Bounds returns the box as [x, y, width, height] rounded to whole pixels.
func (r Rect) Bounds() [4]int {
	return [4]int{
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.Width)),
		int(math.Round(r.Height)),
	}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Style is the subset of computed style the engine relies on.
type Style struct {
	Visibility    string // visible, hidden, collapse
	PointerEvents string // auto, none, ...
	ZIndex        string // auto or an integer
}

// Hidden reports whether the node is invisible while still laid out.
func (s Style) Hidden() bool {
	return s.Visibility == "hidden" || s.Visibility == "collapse"
}

// DeclinesPointer reports whether the node is transparent to pointer input.
func (s Style) DeclinesPointer() bool {
	return s.PointerEvents == "none"
}
