package fixture

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/mj1618/hintnav/internal/dom"
	"golang.org/x/net/html"
)

// Node is an element of a fixture document.
type Node struct {
	t      *tree
	n      *html.Node
	parent *Node
	order  int

	mu        sync.Mutex
	decls     map[string]string
	declOrder []string
	listeners map[string][]func(*dom.Event)
	events    []dom.Event
	clicks    int
	clickErr  error
}

var _ dom.Node = (*Node)(nil)

func newNode(t *tree, n *html.Node, parent *Node, order int) *Node {
	node := &Node{t: t, n: n, parent: parent, order: order}
	node.decls, node.declOrder = parseDeclarations(node.Attr("style"))
	if len(node.decls) > 0 {
		node.syncStyleAttr()
	}
	return node
}

// Parent implements dom.Node.
func (n *Node) Parent() dom.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// TagName returns the upper-case tag name.
func (n *Node) TagName() string {
	return strings.ToUpper(n.n.Data)
}

func (n *Node) Attr(name string) string {
	for _, a := range n.n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

func (n *Node) Matches(selector string) (bool, error) {
	sel, err := n.t.doc.compile(selector)
	if err != nil {
		return false, err
	}
	return sel.Match(n.n), nil
}

func (n *Node) declared(prop string) (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	v, ok := n.decls[prop]
	return v, ok
}

// LaidOut is false when the node or an ancestor has display: none.
func (n *Node) LaidOut() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if v, ok := cur.declared("display"); ok && v == "none" {
			return false
		}
	}
	return true
}

// Rect returns the box given by inline left, top, width and height. The
// body spans the viewport when it declares no box of its own.
func (n *Node) Rect() dom.Rect {
	var r dom.Rect
	var boxed bool
	for _, f := range []struct {
		prop string
		dst  *float64
	}{
		{"left", &r.X},
		{"top", &r.Y},
		{"width", &r.Width},
		{"height", &r.Height},
	} {
		if v, ok := n.declared(f.prop); ok {
			if px, ok := pixels(v); ok {
				*f.dst = px
				boxed = true
			}
		}
	}
	if !boxed && n == n.t.body {
		vp := n.t.viewport
		return dom.Rect{Width: vp.Width, Height: vp.Height}
	}
	return r
}

// Style resolves visibility and pointer-events through inheritance.
// z-index is not inherited.
func (n *Node) Style() dom.Style {
	st := dom.Style{
		Visibility:    n.inherited("visibility", "visible"),
		PointerEvents: n.inherited("pointer-events", "auto"),
		ZIndex:        "auto",
	}
	if v, ok := n.declared("z-index"); ok && v != "" {
		st.ZIndex = v
	}
	return st
}

func (n *Node) inherited(prop, initial string) string {
	for cur := n; cur != nil; cur = cur.parent {
		if v, ok := cur.declared(prop); ok && v != "" && v != "inherit" {
			return v
		}
	}
	return initial
}

func (n *Node) InlineStyle(prop string) string {
	v, _ := n.declared(strings.ToLower(prop))
	return v
}

func (n *Node) SetInlineStyle(prop, value string) error {
	prop = strings.ToLower(strings.TrimSpace(prop))
	if prop == "" {
		return fmt.Errorf("fixture: empty style property")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if value == "" {
		delete(n.decls, prop)
	} else {
		if !slices.Contains(n.declOrder, prop) {
			n.declOrder = append(n.declOrder, prop)
		}
		n.decls[prop] = value
	}
	n.syncStyleAttr()
	return nil
}

// syncStyleAttr writes declarations back to the style attribute so that
// selectors over [style] and Snapshot see the current state.
func (n *Node) syncStyleAttr() {
	style := formatDeclarations(n.declOrder, n.decls)
	for i, a := range n.n.Attr {
		if a.Key == "style" {
			if style == "" {
				n.n.Attr = append(n.n.Attr[:i], n.n.Attr[i+1:]...)
			} else {
				n.n.Attr[i].Val = style
			}
			return
		}
	}
	if style != "" {
		n.n.Attr = append(n.n.Attr, html.Attribute{Key: "style", Val: style})
	}
}

// AddEventListener registers fn for events of type typ at this node.
func (n *Node) AddEventListener(typ string, fn func(*dom.Event)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.listeners == nil {
		n.listeners = make(map[string][]func(*dom.Event))
	}
	n.listeners[typ] = append(n.listeners[typ], fn)
}

// Dispatch records the event at the target and invokes listeners on the
// target and, for bubbling events, on each ancestor.
func (n *Node) Dispatch(ev *dom.Event) (bool, error) {
	if ev == nil {
		return false, fmt.Errorf("fixture: nil event")
	}
	n.mu.Lock()
	n.events = append(n.events, *ev)
	n.mu.Unlock()

	for cur := n; cur != nil; cur = cur.parent {
		cur.mu.Lock()
		fns := slices.Clone(cur.listeners[ev.Type])
		cur.mu.Unlock()
		for _, fn := range fns {
			fn(ev)
		}
		if !ev.Bubbles {
			break
		}
	}
	return !ev.DefaultPrevented(), nil
}

// Events returns the events dispatched with this node as target.
func (n *Node) Events() []dom.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]dom.Event(nil), n.events...)
}

// EventTypes returns the types of Events in order.
func (n *Node) EventTypes() []string {
	evs := n.Events()
	types := make([]string, len(evs))
	for i, ev := range evs {
		types[i] = ev.Type
	}
	return types
}

func (n *Node) Focus() error {
	n.t.setActive(n)
	return nil
}

// Click records a native activation and delivers a click event.
func (n *Node) Click() error {
	n.mu.Lock()
	err := n.clickErr
	if err == nil {
		n.clicks++
	}
	n.mu.Unlock()
	if err != nil {
		return err
	}
	_, err = n.Dispatch(&dom.Event{Type: "click", Bubbles: true, Cancelable: true, Point: n.Rect().Center()})
	return err
}

// Clicks returns how many native activations succeeded.
func (n *Node) Clicks() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.clicks
}

// FailClicks makes Click return err.
func (n *Node) FailClicks(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clickErr = err
}

// zIndex returns the stacking level used for hit testing: the z-index of
// the nearest ancestor-or-self that declares one.
func (n *Node) zIndex() int {
	for cur := n; cur != nil; cur = cur.parent {
		if v, ok := cur.declared("z-index"); ok {
			if z, ok := atoi(v); ok {
				return z
			}
		}
	}
	return 0
}

func (n *Node) String() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(n.TagName()))
	if id := n.Attr("id"); id != "" {
		b.WriteString("#" + id)
	}
	if cls := strings.Fields(n.Attr("class")); len(cls) > 0 {
		b.WriteString("." + strings.Join(cls, "."))
	}
	return b.String()
}
