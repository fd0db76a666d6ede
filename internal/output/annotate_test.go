package output

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/mj1618/hintnav/internal/dom"
	"github.com/mj1618/hintnav/internal/hint"
)

func TestMarks_DimsUnmatched(t *testing.T) {
	hints := []hint.Report{
		{Label: "AS", Match: true, Rect: dom.Rect{X: 1, Y: 2, Width: 3, Height: 4}, AnchorPoint: dom.Point{X: 2, Y: 4}},
		{Label: "AD", Match: false},
	}
	marks := Marks(hints)
	if len(marks) != 2 {
		t.Fatalf("len = %d", len(marks))
	}
	if marks[0].Dimmed || !marks[1].Dimmed {
		t.Errorf("dimmed = %v/%v, want false/true", marks[0].Dimmed, marks[1].Dimmed)
	}
	if marks[0].Rect != hints[0].Rect || marks[0].Anchor != hints[0].AnchorPoint {
		t.Errorf("geometry not carried over: %+v", marks[0])
	}
}

func TestCapture_CanvasWithoutScreenshotter(t *testing.T) {
	img, err := Capture(context.Background(), nil, dom.Size{Width: 40, Height: 30})
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 40, 30) {
		t.Errorf("bounds = %v", img.Bounds())
	}
}

func TestAnnotatePNG(t *testing.T) {
	vp := dom.Size{Width: 64, Height: 48}
	img, _ := Capture(context.Background(), nil, vp)
	data, err := AnnotatePNG(img, vp, []hint.Report{{Label: "A", Match: true, AnchorPoint: dom.Point{X: 32, Y: 24}}})
	if err != nil {
		t.Fatal(err)
	}
	dec, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dec.Bounds().Dx() != 64 || dec.Bounds().Dy() != 48 {
		t.Errorf("decoded bounds = %v", dec.Bounds())
	}
}
