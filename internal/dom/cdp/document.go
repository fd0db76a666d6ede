// Package cdp implements dom.Document over a live Chromium renderer using
// the DevTools protocol. Geometry, style and hit testing are evaluated in
// the page; events are synthesised with dispatchEvent.
package cdp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/mj1618/hintnav/internal/dom"
)

// maxInterned bounds the node table. It is cleared on the next subtree
// change once it grows past this size.
const maxInterned = 20000

// Document is one attached page.
type Document struct {
	page   *rod.Page
	logger *slog.Logger

	mu    sync.Mutex
	nodes map[proto.DOMBackendNodeID]*Node

	subMu    sync.Mutex
	subs     map[int]func(dom.Notification)
	nextSub  int
	observed bool
	stopObs  func()

	badgeMu sync.Mutex
	badges  []*Badge
}

// New wraps an attached page.
func New(page *rod.Page, logger *slog.Logger) *Document {
	if logger == nil {
		logger = slog.Default()
	}
	return &Document{
		page:   page,
		logger: logger,
		nodes:  make(map[proto.DOMBackendNodeID]*Node),
		subs:   make(map[int]func(dom.Notification)),
	}
}

// Page returns the underlying rod page.
func (d *Document) Page() *rod.Page { return d.page }

// intern returns the canonical Node for el so that the same element always
// compares equal.
func (d *Document) intern(el *rod.Element) (*Node, error) {
	desc, err := el.Describe(0, false)
	if err != nil {
		return nil, fmt.Errorf("describe node: %w", err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if n, ok := d.nodes[desc.BackendNodeID]; ok {
		return n, nil
	}
	n := &Node{doc: d, el: el, id: desc.BackendNodeID, tag: desc.NodeName}
	d.nodes[desc.BackendNodeID] = n
	return n, nil
}

// Forget drops interned nodes when the table has grown large. Nodes already
// handed out stay usable.
func (d *Document) Forget() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.nodes) > maxInterned {
		d.nodes = make(map[proto.DOMBackendNodeID]*Node)
	}
}

// object evaluates js and returns the element it yields, or nil for null.
func (d *Document) object(res *proto.RuntimeRemoteObject, err error) (*Node, error) {
	if err != nil {
		return nil, err
	}
	if res == nil || res.Type != proto.RuntimeRemoteObjectTypeObject || res.Subtype == proto.RuntimeRemoteObjectSubtypeNull {
		return nil, nil
	}
	el, err := d.page.ElementFromObject(res)
	if err != nil {
		return nil, err
	}
	return d.intern(el)
}

// QueryAll implements dom.Document.
func (d *Document) QueryAll(selector string) ([]dom.Node, error) {
	els, err := d.page.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	out := make([]dom.Node, 0, len(els))
	for _, el := range els {
		n, err := d.intern(el)
		if err != nil {
			d.logger.Debug("cdp: skip node", "selector", selector, "err", err)
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// ElementFromPoint implements dom.Document.
func (d *Document) ElementFromPoint(p dom.Point) (dom.Node, error) {
	n, err := d.object(d.page.Evaluate(rod.Eval(`(x, y) => document.elementFromPoint(x, y)`, p.X, p.Y).ByObject()))
	if err != nil || n == nil {
		return nil, err
	}
	return n, nil
}

// Body implements dom.Document.
func (d *Document) Body() (dom.Node, error) {
	n, err := d.object(d.page.Evaluate(rod.Eval(`() => document.body`).ByObject()))
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, errors.New("document has no body")
	}
	return n, nil
}

// Viewport implements dom.Document.
func (d *Document) Viewport() (dom.Size, error) {
	var vp dom.Size
	err := d.evalJSON(`() => JSON.stringify({width: window.innerWidth, height: window.innerHeight})`, &vp)
	return vp, err
}

// Title returns the page title and URL.
func (d *Document) Title() (title, url string) {
	info, err := d.page.Info()
	if err != nil {
		return "", ""
	}
	return info.Title, info.URL
}

// BlurActive implements dom.Blurrer.
func (d *Document) BlurActive() error {
	_, err := d.page.Eval(`() => { const a = document.activeElement; if (a && a.blur) a.blur(); }`)
	return err
}

func (d *Document) evalJSON(js string, v any, args ...any) error {
	res, err := d.page.Eval(js, args...)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(res.Value.Str()), v)
}
