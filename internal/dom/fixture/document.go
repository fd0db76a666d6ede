// Package fixture implements a deterministic dom.Document over static HTML.
//
// Geometry comes from inline styles: left, top, width and height in px give
// a node's box in viewport coordinates. visibility and pointer-events are
// inherited, display: none hides a subtree from layout, and z-index decides
// paint order together with document order. The body's width and height
// give the viewport size (1280×800 when absent).
package fixture

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/andybalholm/cascadia"
	"github.com/mj1618/hintnav/internal/dom"
	"golang.org/x/net/html"
)

const (
	defaultWidth  = 1280
	defaultHeight = 800
)

// tree is one parse of the source. Reload swaps trees; nodes keep pointing
// at the tree they came from.
type tree struct {
	doc      *Document
	root     *html.Node
	body     *Node
	nodes    []*Node
	byHTML   map[*html.Node]*Node
	viewport dom.Size

	mu     sync.Mutex
	active *Node
}

func (t *tree) setActive(n *Node) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = n
}

// Document is a fixture document. It implements dom.Document,
// dom.OverlayHost and dom.Observable.
type Document struct {
	path     string
	logger   *slog.Logger
	viewport *dom.Size

	cur atomic.Pointer[tree]

	selMu sync.Mutex
	sels  map[string]cascadia.SelectorGroup

	subMu   sync.Mutex
	subs    map[int]func(dom.Notification)
	nextSub int

	badgeMu sync.Mutex
	badges  []*Badge
}

var (
	_ dom.Document    = (*Document)(nil)
	_ dom.OverlayHost = (*Document)(nil)
	_ dom.Observable  = (*Document)(nil)
)

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger used for reloads and watch errors.
func WithLogger(l *slog.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}

func newDocument(opts ...Option) *Document {
	d := &Document{
		logger: slog.Default(),
		sels:   make(map[string]cascadia.SelectorGroup),
		subs:   make(map[int]func(dom.Notification)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Parse builds a document from an HTML string.
func Parse(src string, opts ...Option) (*Document, error) {
	d := newDocument(opts...)
	t, err := d.build(strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	d.cur.Store(t)
	return d, nil
}

// Load builds a document from an HTML file. The file can later be
// re-read with Reload or Watch.
func Load(path string, opts ...Option) (*Document, error) {
	d := newDocument(opts...)
	d.path = path
	if err := d.load(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Document) load() error {
	f, err := os.Open(d.path)
	if err != nil {
		return fmt.Errorf("fixture: open %s: %w", d.path, err)
	}
	defer f.Close()
	t, err := d.build(f)
	if err != nil {
		return fmt.Errorf("fixture: %s: %w", d.path, err)
	}
	d.cur.Store(t)
	return nil
}

// Reload re-reads the source file and notifies subscribers.
func (d *Document) Reload() error {
	if d.path == "" {
		return fmt.Errorf("fixture: document was not loaded from a file")
	}
	if err := d.load(); err != nil {
		return err
	}
	d.logger.Debug("fixture: reloaded", "path", d.path)
	d.Notify(dom.SubtreeChanged)
	return nil
}

// Path returns the file the document was loaded from.
func (d *Document) Path() string { return d.path }

func (d *Document) build(r io.Reader) (*tree, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	t := &tree{
		doc:    d,
		root:   root,
		byHTML: make(map[*html.Node]*Node),
	}

	var walk func(n *html.Node, parent *Node)
	walk = func(n *html.Node, parent *Node) {
		next := parent
		if n.Type == html.ElementNode {
			node := newNode(t, n, parent, len(t.nodes))
			t.nodes = append(t.nodes, node)
			t.byHTML[n] = node
			if n.Data == "body" && t.body == nil {
				t.body = node
			}
			next = node
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, next)
		}
	}
	walk(root, nil)

	if t.body == nil {
		return nil, fmt.Errorf("document has no body")
	}
	t.viewport = dom.Size{Width: defaultWidth, Height: defaultHeight}
	if d.viewport != nil {
		t.viewport = *d.viewport
		return t, nil
	}
	if v, ok := t.body.declared("width"); ok {
		if px, ok := pixels(v); ok {
			t.viewport.Width = px
		}
	}
	if v, ok := t.body.declared("height"); ok {
		if px, ok := pixels(v); ok {
			t.viewport.Height = px
		}
	}
	return t, nil
}

func (d *Document) tree() *tree {
	return d.cur.Load()
}

func (d *Document) compile(selector string) (cascadia.SelectorGroup, error) {
	d.selMu.Lock()
	defer d.selMu.Unlock()
	if sel, ok := d.sels[selector]; ok {
		return sel, nil
	}
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, fmt.Errorf("fixture: selector %q: %w", selector, err)
	}
	d.sels[selector] = sel
	return sel, nil
}

// QueryAll implements dom.Document.
func (d *Document) QueryAll(selector string) ([]dom.Node, error) {
	sel, err := d.compile(selector)
	if err != nil {
		return nil, err
	}
	var out []dom.Node
	for _, n := range d.tree().nodes {
		if sel.Match(n.n) {
			out = append(out, n)
		}
	}
	return out, nil
}

// Query returns the first element matching selector, or nil.
func (d *Document) Query(selector string) *Node {
	sel, err := d.compile(selector)
	if err != nil {
		return nil
	}
	for _, n := range d.tree().nodes {
		if sel.Match(n.n) {
			return n
		}
	}
	return nil
}

// ByID returns the element with the given id, or nil.
func (d *Document) ByID(id string) *Node {
	for _, n := range d.tree().nodes {
		if n.Attr("id") == id {
			return n
		}
	}
	return nil
}

// Body implements dom.Document.
func (d *Document) Body() (dom.Node, error) {
	return d.tree().body, nil
}

// Viewport implements dom.Document.
func (d *Document) Viewport() (dom.Size, error) {
	return d.tree().viewport, nil
}

// ElementFromPoint returns the topmost node at p that is laid out, visible
// and accepts pointer events. Higher z-index paints above lower; within a
// level later document order paints above earlier. Points inside the
// viewport that hit nothing return the body.
func (d *Document) ElementFromPoint(p dom.Point) (dom.Node, error) {
	t := d.tree()
	if !t.viewport.Contains(p) || p.X == t.viewport.Width || p.Y == t.viewport.Height {
		return nil, nil
	}
	var (
		best  *Node
		bestZ int
	)
	for _, n := range t.nodes {
		if n == t.body || !t.inBody(n) {
			continue
		}
		if !n.LaidOut() || !n.Rect().Contains(p) {
			continue
		}
		st := n.Style()
		if st.Hidden() || st.DeclinesPointer() {
			continue
		}
		z := n.zIndex()
		if best == nil || z >= bestZ {
			best, bestZ = n, z
		}
	}
	if best == nil {
		return t.body, nil
	}
	return best, nil
}

func (t *tree) inBody(n *Node) bool {
	for cur := n.parent; cur != nil; cur = cur.parent {
		if cur == t.body {
			return true
		}
	}
	return false
}

// ActiveElement returns the focused node, or nil.
func (d *Document) ActiveElement() *Node {
	t := d.tree()
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// BlurActive implements dom.Blurrer.
func (d *Document) BlurActive() error {
	d.tree().setActive(nil)
	return nil
}

// Snapshot renders the current tree, inline style changes included.
func (d *Document) Snapshot() string {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.tree().root); err != nil {
		return ""
	}
	return buf.String()
}

// Subscribe implements dom.Observable.
func (d *Document) Subscribe(fn func(dom.Notification)) func() {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = fn
	return func() {
		d.subMu.Lock()
		defer d.subMu.Unlock()
		delete(d.subs, id)
	}
}

// Notify delivers n to every subscriber.
func (d *Document) Notify(n dom.Notification) {
	d.subMu.Lock()
	fns := make([]func(dom.Notification), 0, len(d.subs))
	for _, fn := range d.subs {
		fns = append(fns, fn)
	}
	d.subMu.Unlock()
	for _, fn := range fns {
		fn(n)
	}
}

func atoi(v string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	return i, err == nil
}
