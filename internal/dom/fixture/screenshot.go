package fixture

import (
	"context"
	"image"
	"math"

	"github.com/mj1618/hintnav/internal/render"
)

// Screenshot renders a wireframe of the document: the outline of every
// visible, laid-out box on a blank canvas.
func (d *Document) Screenshot(ctx context.Context) (image.Image, error) {
	t := d.tree()
	img := render.Canvas(t.viewport)
	for _, n := range t.nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if n == t.body || !n.LaidOut() || n.Style().Hidden() {
			continue
		}
		r := n.Rect()
		if r.Empty() {
			continue
		}
		render.DrawRect(img,
			int(math.Round(r.X)), int(math.Round(r.Y)),
			int(math.Round(r.Right())), int(math.Round(r.Bottom())),
			render.WireColor)
	}
	return img, nil
}
