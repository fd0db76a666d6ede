package cdp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"

	"github.com/mj1618/hintnav/internal/platform"
)

// Name is the backend name the CDP document registers under.
const Name = "cdp"

// ErrNoPage is returned when no open page matches.
var ErrNoPage = errors.New("no matching page")

func init() {
	platform.Register(Name, open)
}

// pageInfo is the part of a target the page picker looks at.
type pageInfo struct {
	URL   string
	Title string
}

// pickPage returns the index of the first page whose URL or title contains
// match, case-insensitively. With no match string the first ordinary page
// wins; devtools and extension pages are skipped either way.
func pickPage(pages []pageInfo, match string) int {
	match = strings.ToLower(match)
	for i, p := range pages {
		if strings.HasPrefix(p.URL, "devtools://") || strings.HasPrefix(p.URL, "chrome-extension://") {
			continue
		}
		if match == "" ||
			strings.Contains(strings.ToLower(p.URL), match) ||
			strings.Contains(strings.ToLower(p.Title), match) {
			return i
		}
	}
	return -1
}

// controlURL turns a DevTools HTTP endpoint, a bare port or a ws:// URL
// into a browser websocket URL.
func controlURL(u string) (string, error) {
	if strings.HasPrefix(u, "ws://") || strings.HasPrefix(u, "wss://") {
		return u, nil
	}
	return launcher.ResolveURL(u)
}

// connect attaches to the browser behind cdpURL and reads its pages.
// Calling the returned cancel func disconnects.
func connect(ctx context.Context, cdpURL string) (rod.Pages, []pageInfo, context.CancelFunc, error) {
	ws, err := controlURL(cdpURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("resolve %s: %w", cdpURL, err)
	}

	bctx, cancel := context.WithCancel(ctx)
	b := rod.New().Context(bctx).ControlURL(ws)
	if err := b.Connect(); err != nil {
		cancel()
		return nil, nil, nil, fmt.Errorf("connect: %w", err)
	}

	pages, err := b.Pages()
	if err != nil {
		cancel()
		return nil, nil, nil, fmt.Errorf("list pages: %w", err)
	}
	infos := make([]pageInfo, len(pages))
	for i, p := range pages {
		if info, err := p.Info(); err == nil {
			infos[i] = pageInfo{URL: info.URL, Title: info.Title}
		}
	}
	return pages, infos, cancel, nil
}

func open(ctx context.Context, opts platform.Options) (*platform.Provider, error) {
	pages, infos, cancel, err := connect(ctx, opts.CDPURL)
	if err != nil {
		return nil, err
	}
	idx := pickPage(infos, opts.PageMatch)
	if idx < 0 {
		cancel()
		return nil, fmt.Errorf("%w for %q among %d pages", ErrNoPage, opts.PageMatch, len(pages))
	}

	doc := New(pages[idx], opts.Logger)
	doc.logger.Info("cdp: attached", "url", infos[idx].URL, "title", infos[idx].Title)
	return &platform.Provider{
		Name:          Name,
		Target:        infos[idx].URL,
		Backend:       doc,
		Screenshotter: doc,
		Closer: func() error {
			// Disconnect without Browser.close: the renderer belongs to the user.
			defer cancel()
			return doc.Close()
		},
	}, nil
}

// Page describes one open page of the browser.
type Page struct {
	URL      string `yaml:"url"                json:"url"`
	Title    string `yaml:"title"              json:"title"`
	Selected bool   `yaml:"selected,omitempty" json:"selected,omitempty"`
}

// ListPages lists the pages behind cdpURL and marks the one a backend
// opened with match would attach to.
func ListPages(ctx context.Context, cdpURL, match string) ([]Page, error) {
	_, infos, cancel, err := connect(ctx, cdpURL)
	if err != nil {
		return nil, err
	}
	defer cancel()
	return describePages(infos, match), nil
}

func describePages(infos []pageInfo, match string) []Page {
	idx := pickPage(infos, match)
	out := make([]Page, len(infos))
	for i, p := range infos {
		out[i] = Page{URL: p.URL, Title: p.Title, Selected: i == idx}
	}
	return out
}
