package cdp

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
)

// Screenshot captures the visible viewport.
func (d *Document) Screenshot(ctx context.Context) (image.Image, error) {
	data, err := d.page.Context(ctx).Screenshot(false, nil)
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return img, nil
}
