package platform

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mj1618/hintnav/internal/dom"
)

// Options configures a backend.
type Options struct {
	CDPURL      string // DevTools endpoint, http(s):// or ws://
	PageMatch   string // substring of the page URL or title to attach to
	FixturePath string // HTML file for the fixture backend
	Viewport    *dom.Size
	Logger      *slog.Logger
}

// ParseViewport parses a "WIDTHxHEIGHT" string such as "1280x800".
func ParseViewport(s string) (*dom.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return nil, fmt.Errorf("invalid viewport %q: expected WIDTHxHEIGHT", s)
	}
	width, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid viewport %q: %w", s, err)
	}
	height, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid viewport %q: %w", s, err)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid viewport %q: dimensions must be positive", s)
	}
	return &dom.Size{Width: width, Height: height}, nil
}
