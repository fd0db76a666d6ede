package cdp

import (
	"encoding/json"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/mj1618/hintnav/internal/dom"
)

// Node is an interned page element.
type Node struct {
	doc *Document
	el  *rod.Element
	id  proto.DOMBackendNodeID
	tag string
}

func (n *Node) Parent() dom.Node {
	p, err := n.doc.object(n.el.Evaluate(rod.Eval(`() => this.parentElement`).ByObject()))
	if err != nil || p == nil {
		return nil
	}
	return p
}

func (n *Node) TagName() string { return n.tag }

func (n *Node) Attr(name string) string {
	v, err := n.el.Attribute(name)
	if err != nil || v == nil {
		return ""
	}
	return *v
}

func (n *Node) Matches(selector string) (bool, error) {
	return n.el.Matches(selector)
}

func (n *Node) LaidOut() bool {
	res, err := n.el.Eval(`() => this.offsetParent !== null`)
	return err == nil && res.Value.Bool()
}

// jsRect mirrors DOMRect.toJSON.
type jsRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func decodeRect(s string) (dom.Rect, error) {
	var r jsRect
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return dom.Rect{}, fmt.Errorf("decode rect: %w", err)
	}
	return dom.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}, nil
}

func (n *Node) Rect() dom.Rect {
	res, err := n.el.Eval(`() => JSON.stringify(this.getBoundingClientRect())`)
	if err != nil {
		return dom.Rect{}
	}
	r, err := decodeRect(res.Value.Str())
	if err != nil {
		return dom.Rect{}
	}
	return r
}

type jsStyle struct {
	Visibility    string `json:"visibility"`
	PointerEvents string `json:"pointerEvents"`
	ZIndex        string `json:"zIndex"`
}

func decodeStyle(s string) (dom.Style, error) {
	var st jsStyle
	if err := json.Unmarshal([]byte(s), &st); err != nil {
		return dom.Style{}, fmt.Errorf("decode style: %w", err)
	}
	return dom.Style{Visibility: st.Visibility, PointerEvents: st.PointerEvents, ZIndex: st.ZIndex}, nil
}

const styleJS = `() => {
  const s = getComputedStyle(this);
  return JSON.stringify({visibility: s.visibility, pointerEvents: s.pointerEvents, zIndex: s.zIndex});
}`

func (n *Node) Style() dom.Style {
	res, err := n.el.Eval(styleJS)
	if err != nil {
		return dom.Style{}
	}
	st, err := decodeStyle(res.Value.Str())
	if err != nil {
		return dom.Style{}
	}
	return st
}

func (n *Node) InlineStyle(prop string) string {
	res, err := n.el.Eval(`(p) => this.style.getPropertyValue(p)`, prop)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

func (n *Node) SetInlineStyle(prop, value string) error {
	_, err := n.el.Eval(`(p, v) => { if (v === "") this.style.removeProperty(p); else this.style.setProperty(p, v); }`, prop, value)
	return err
}

// eventInit is the dictionary passed to the PointerEvent or MouseEvent
// constructor.
type eventInit struct {
	ClientX     float64 `json:"clientX"`
	ClientY     float64 `json:"clientY"`
	Button      int     `json:"button"`
	Buttons     int     `json:"buttons"`
	Bubbles     bool    `json:"bubbles"`
	Cancelable  bool    `json:"cancelable"`
	Composed    bool    `json:"composed"`
	PointerID   int     `json:"pointerId,omitempty"`
	PointerType string  `json:"pointerType,omitempty"`
	IsPrimary   bool    `json:"isPrimary,omitempty"`
}

func newEventInit(ev *dom.Event) eventInit {
	ei := eventInit{
		ClientX:    ev.Point.X,
		ClientY:    ev.Point.Y,
		Button:     ev.Button,
		Buttons:    ev.Buttons,
		Bubbles:    ev.Bubbles,
		Cancelable: ev.Cancelable,
		Composed:   true,
	}
	if ev.Pointer() {
		ei.PointerID = 1
		ei.PointerType = "mouse"
		ei.IsPrimary = true
	}
	return ei
}

const dispatchJS = `(type, pointer, init) => {
  const C = pointer ? PointerEvent : MouseEvent;
  return this.dispatchEvent(new C(type, Object.assign({view: window}, init)));
}`

func (n *Node) Dispatch(ev *dom.Event) (bool, error) {
	res, err := n.el.Eval(dispatchJS, ev.Type, ev.Pointer(), newEventInit(ev))
	if err != nil {
		return false, fmt.Errorf("dispatch %s: %w", ev.Type, err)
	}
	ok := res.Value.Bool()
	if !ok {
		ev.PreventDefault()
	}
	return ok, nil
}

func (n *Node) Focus() error {
	return n.el.Focus()
}

func (n *Node) Click() error {
	_, err := n.el.Eval(`() => this.click()`)
	return err
}

func (n *Node) String() string {
	return fmt.Sprintf("<%s #%d>", n.tag, n.id)
}
