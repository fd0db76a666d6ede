package fixture

import (
	"context"
	"fmt"

	"github.com/mj1618/hintnav/internal/dom"
	"github.com/mj1618/hintnav/internal/platform"
)

// Name is the backend name the fixture registers under.
const Name = "fixture"

func init() {
	platform.Register(Name, open)
}

// WithViewport overrides the viewport size declared by the body.
func WithViewport(vp dom.Size) Option {
	return func(d *Document) { d.viewport = &vp }
}

func open(ctx context.Context, opts platform.Options) (*platform.Provider, error) {
	if opts.FixturePath == "" {
		return nil, fmt.Errorf("fixture path is required")
	}
	fopts := []Option{WithLogger(opts.Logger)}
	if opts.Viewport != nil {
		fopts = append(fopts, WithViewport(*opts.Viewport))
	}
	doc, err := Load(opts.FixturePath, fopts...)
	if err != nil {
		return nil, err
	}
	return &platform.Provider{
		Name:          Name,
		Target:        opts.FixturePath,
		Backend:       doc,
		Screenshotter: doc,
		Watcher:       doc,
	}, nil
}
