// Package render draws hint badges onto screenshots.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/mj1618/hintnav/internal/dom"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// basicfont.Face7x13 metrics.
const (
	glyphWidth  = 7
	glyphHeight = 13
	badgePad    = 3
)

// Mark is one hint to draw: its label, the box of its target and the
// point the badge is centred on, all in viewport coordinates.
type Mark struct {
	Label  string
	Rect   dom.Rect
	Anchor dom.Point
	Dimmed bool
}

// Palette colors. The badge follows the in-app overlay: gold with dark text.
var (
	BoxColor         = color.RGBA{R: 255, G: 0, B: 0, A: 100}
	BadgeColor       = color.RGBA{R: 255, G: 215, B: 0, A: 255}
	BadgeDimColor    = color.RGBA{R: 128, G: 128, B: 128, A: 180}
	BadgeBorderColor = color.RGBA{R: 0, G: 0, B: 0, A: 200}
	TextColor        = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	WireColor        = color.RGBA{R: 170, G: 170, B: 170, A: 255}
	CanvasColor      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Annotate draws marks over img. Viewport coordinates are scaled to image
// pixels by the ratio of the image size to vp, which accounts for
// high-density screenshots.
func Annotate(img image.Image, marks []Mark, vp dom.Size) *image.RGBA {
	rgba := ToRGBA(img)

	b := img.Bounds()
	scaleX, scaleY := 1.0, 1.0
	if vp.Width > 0 {
		scaleX = float64(b.Dx()) / vp.Width
	}
	if vp.Height > 0 {
		scaleY = float64(b.Dy()) / vp.Height
	}

	for _, m := range marks {
		x := b.Min.X + int(math.Round(m.Rect.X*scaleX))
		y := b.Min.Y + int(math.Round(m.Rect.Y*scaleY))
		w := int(math.Round(m.Rect.Width * scaleX))
		h := int(math.Round(m.Rect.Height * scaleY))
		DrawRect(rgba, x, y, x+w, y+h, BoxColor)
	}
	// Badges go on top of every box.
	for _, m := range marks {
		cx := b.Min.X + int(math.Round(m.Anchor.X*scaleX))
		cy := b.Min.Y + int(math.Round(m.Anchor.Y*scaleY))
		fill := BadgeColor
		if m.Dimmed {
			fill = BadgeDimColor
		}
		drawBadge(rgba, m.Label, cx, cy, fill)
	}
	return rgba
}

// Canvas returns a blank image of the viewport size, for backends that
// cannot capture.
func Canvas(vp dom.Size) *image.RGBA {
	w := int(math.Max(1, math.Round(vp.Width)))
	h := int(math.Max(1, math.Round(vp.Height)))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(CanvasColor), image.Point{}, draw.Src)
	return img
}

// ToRGBA converts any image to RGBA.
func ToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

// BadgeSize returns the pixel size of the badge drawn for label.
func BadgeSize(label string) (w, h int) {
	return len(label)*glyphWidth + 2*badgePad, glyphHeight + 2
}

func drawBadge(img *image.RGBA, label string, cx, cy int, fill color.Color) {
	w, h := BadgeSize(label)
	x1, y1 := cx-w/2, cy-h/2
	r := image.Rect(x1, y1, x1+w, y1+h).Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(img, r, image.NewUniform(fill), image.Point{}, draw.Over)
	DrawRect(img, x1, y1, x1+w, y1+h, BadgeBorderColor)

	// Dot is the baseline origin; Face7x13 has an ascent of 11.
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(TextColor),
		Face: basicfont.Face7x13,
		Dot: fixed.Point26_6{
			X: fixed.I(x1 + badgePad),
			Y: fixed.I(y1 + 1 + basicfont.Face7x13.Ascent),
		},
	}
	d.DrawString(label)
}

// DrawRect draws a rectangle outline clamped to the image bounds.
func DrawRect(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	bounds := img.Bounds()
	x1 = max(x1, bounds.Min.X)
	y1 = max(y1, bounds.Min.Y)
	x2 = min(x2, bounds.Max.X)
	y2 = min(y2, bounds.Max.Y)
	if x2 <= x1 || y2 <= y1 {
		return
	}
	for x := x1; x < x2; x++ {
		img.Set(x, y1, c)
		img.Set(x, y2-1, c)
	}
	for y := y1; y < y2; y++ {
		img.Set(x1, y, c)
		img.Set(x2-1, y, c)
	}
}
