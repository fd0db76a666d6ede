package platform

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Provider bundles one opened backend.
type Provider struct {
	Name          string
	Target        string        // page URL or file path that was opened
	Backend       Backend
	Screenshotter Screenshotter // nil when the backend cannot capture
	Watcher       Watcher       // nil when the backend reports changes itself
	Closer        func() error
}

// Close releases the backend.
func (p *Provider) Close() error {
	if p == nil || p.Closer == nil {
		return nil
	}
	return p.Closer()
}

// ErrUnknownBackend is returned when no backend is registered under a name.
var ErrUnknownBackend = errors.New("unknown backend")

// OpenFunc opens a backend. Backend packages register one via init().
// See internal/dom/cdp and internal/dom/fixture.
type OpenFunc func(ctx context.Context, opts Options) (*Provider, error)

var (
	mu       sync.RWMutex
	registry = map[string]OpenFunc{}
)

// Register makes a backend available under name. It panics on duplicates.
func Register(name string, fn OpenFunc) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[name]; dup {
		panic("platform: backend registered twice: " + name)
	}
	registry[name] = fn
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens the named backend.
func Open(ctx context.Context, name string, opts Options) (*Provider, error) {
	mu.RLock()
	fn, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownBackend, name, strings.Join(Backends(), ", "))
	}
	p, err := fn(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", name, err)
	}
	if p.Name == "" {
		p.Name = name
	}
	return p, nil
}
