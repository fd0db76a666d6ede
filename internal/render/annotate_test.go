package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/mj1618/hintnav/internal/dom"
)

func TestToRGBA(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	src.SetGray(1, 1, color.Gray{Y: 200})
	out := ToRGBA(src)
	if out.Bounds() != src.Bounds() {
		t.Fatalf("bounds = %v, want %v", out.Bounds(), src.Bounds())
	}
	r, g, b, _ := out.At(1, 1).RGBA()
	if r>>8 != 200 || g>>8 != 200 || b>>8 != 200 {
		t.Errorf("pixel = %v,%v,%v, want 200", r>>8, g>>8, b>>8)
	}
}

func TestCanvas(t *testing.T) {
	img := Canvas(dom.Size{Width: 100, Height: 50})
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 50 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if img.RGBAAt(10, 10) != CanvasColor {
		t.Errorf("pixel = %v, want %v", img.RGBAAt(10, 10), CanvasColor)
	}
}

func TestDrawRect_Clamps(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	c := color.RGBA{R: 255, A: 255}
	DrawRect(img, -5, -5, 5, 5, c)
	if img.RGBAAt(0, 0) != c {
		t.Errorf("corner not drawn")
	}
	if img.RGBAAt(4, 4) != c {
		t.Errorf("far corner not drawn")
	}
	if img.RGBAAt(2, 2) == c {
		t.Errorf("interior should stay empty")
	}
	DrawRect(img, 20, 20, 30, 30, c) // fully outside, must not panic
}

func TestAnnotate_DrawsBadgeAtAnchor(t *testing.T) {
	vp := dom.Size{Width: 200, Height: 100}
	marks := []Mark{{
		Label:  "A",
		Rect:   dom.Rect{X: 50, Y: 20, Width: 60, Height: 40},
		Anchor: dom.Point{X: 80, Y: 40},
	}}
	out := Annotate(Canvas(vp), marks, vp)

	w, h := BadgeSize("A")
	// A pixel inside the badge but away from the glyph and border.
	x := 80 - w/2 + 1
	y := 40 - h/2 + 1
	if got := out.RGBAAt(x, y); got != BadgeColor {
		t.Errorf("badge pixel = %v, want %v", got, BadgeColor)
	}
	if got := out.RGBAAt(5, 5); got != CanvasColor {
		t.Errorf("background pixel = %v, want untouched canvas", got)
	}
}

func TestAnnotate_ScalesToImage(t *testing.T) {
	vp := dom.Size{Width: 100, Height: 50}
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	marks := []Mark{{Label: "S", Rect: dom.Rect{X: 10, Y: 10, Width: 20, Height: 10}, Anchor: dom.Point{X: 90, Y: 45}}}
	out := Annotate(img, marks, vp)
	// Box left edge at x=10 viewport → 20 image pixels.
	if out.RGBAAt(20, 25).A == 0 {
		t.Error("expected scaled box edge at (20,25)")
	}
	if out.RGBAAt(10, 25).A != 0 {
		t.Error("unscaled position should stay empty")
	}
}

func TestBadgeSize(t *testing.T) {
	w1, h1 := BadgeSize("A")
	w2, h2 := BadgeSize("AS")
	if w2-w1 != glyphWidth {
		t.Errorf("width grows by %d per glyph, want %d", w2-w1, glyphWidth)
	}
	if h1 != h2 {
		t.Errorf("height depends on label length: %d vs %d", h1, h2)
	}
}
