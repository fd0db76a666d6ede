package output

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/mj1618/hintnav/internal/dom"
	"github.com/mj1618/hintnav/internal/hint"
	"github.com/mj1618/hintnav/internal/platform"
	"github.com/mj1618/hintnav/internal/render"
)

// Marks converts hint reports to drawable marks. Hints that no longer
// match the typed prefix are dimmed.
func Marks(hints []hint.Report) []render.Mark {
	marks := make([]render.Mark, 0, len(hints))
	for _, h := range hints {
		marks = append(marks, render.Mark{
			Label:  h.Label,
			Rect:   h.Rect,
			Anchor: h.AnchorPoint,
			Dimmed: !h.Match,
		})
	}
	return marks
}

// Capture grabs the viewport, or a blank canvas when shot is nil.
func Capture(ctx context.Context, shot platform.Screenshotter, vp dom.Size) (image.Image, error) {
	if shot == nil {
		return render.Canvas(vp), nil
	}
	img, err := shot.Screenshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return img, nil
}

// AnnotatePNG draws hints over img and encodes the result as PNG.
func AnnotatePNG(img image.Image, vp dom.Size, hints []hint.Report) ([]byte, error) {
	out := render.Annotate(img, Marks(hints), vp)
	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
