package platform

import (
	"context"
	"image"

	"github.com/mj1618/hintnav/internal/dom"
)

// Screenshotter captures the current viewport.
type Screenshotter interface {
	// Screenshot returns the rendered viewport. The image may be larger
	// than the viewport in CSS pixels on high-density displays.
	Screenshot(ctx context.Context) (image.Image, error)
}

// Watcher pushes document changes to subscribers until ctx is cancelled.
// Backends whose documents report changes on their own leave it nil.
type Watcher interface {
	Watch(ctx context.Context) error
}

// Backend is what a provider wraps: a document that can also draw badges.
type Backend interface {
	dom.Document
	dom.OverlayHost
}
