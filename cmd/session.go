package cmd

import (
	"context"

	"github.com/mj1618/hintnav/internal/hint"
	"github.com/mj1618/hintnav/internal/platform"

	// Backends register themselves with the platform registry.
	_ "github.com/mj1618/hintnav/internal/dom/cdp"
	_ "github.com/mj1618/hintnav/internal/dom/fixture"
)

// session is an opened backend with an engine driving it.
type session struct {
	provider *platform.Provider
	engine   *hint.Engine
}

// openSession opens the configured backend.
func openSession(ctx context.Context) (*session, error) {
	opts, err := cfg.Backend.Options(logger)
	if err != nil {
		return nil, err
	}
	p, err := platform.Open(ctx, cfg.Backend.Name, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("cmd: backend opened", "backend", p.Name, "target", p.Target)
	engine := hint.New(p.Backend, p.Backend, cfg.Hint, hint.WithLogger(logger))
	return &session{provider: p, engine: engine}, nil
}

// Close removes any badges and releases the backend.
func (s *session) Close() error {
	s.engine.Stop()
	return s.provider.Close()
}
