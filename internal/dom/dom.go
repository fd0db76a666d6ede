// Package dom defines the boundary between the hint engine and a rendered
// visual tree. Backends (a live renderer over CDP, an HTML fixture) live in
// subpackages and implement Document, Node and OverlayHost.
package dom

import "errors"

// ErrDetached is returned when a node no longer belongs to its document.
var ErrDetached = errors.New("dom: node detached")

// Node is an element of the visual tree. Implementations must return the
// same Node value for the same underlying element within one document so
// that nodes can be compared with ==.
type Node interface {
	// Parent returns the parent element, or nil at the document element.
	Parent() Node
	TagName() string
	// Attr returns the attribute value, or "" when absent.
	Attr(name string) string
	// Matches reports whether the node matches a CSS selector. An invalid
	// selector returns an error.
	Matches(selector string) (bool, error)

	// LaidOut reports whether the node takes part in layout (it has an
	// offset parent).
	LaidOut() bool
	// Rect returns the border box in viewport coordinates.
	Rect() Rect
	// Style returns a snapshot of the computed style.
	Style() Style

	InlineStyle(prop string) string
	// SetInlineStyle sets an inline style property; an empty value removes it.
	SetInlineStyle(prop, value string) error

	// Dispatch delivers a synthetic event at the node. It returns false
	// when a listener cancelled the event.
	Dispatch(ev *Event) (bool, error)
	Focus() error
	// Click invokes the node's native activation behaviour.
	Click() error
}

// Document is a rendered tree that can be queried and hit-tested.
type Document interface {
	// QueryAll returns every element matching selector in document order.
	QueryAll(selector string) ([]Node, error)
	// ElementFromPoint returns the topmost element accepting pointer
	// events at p, or nil when nothing is there.
	ElementFromPoint(p Point) (Node, error)
	// Body returns the body element.
	Body() (Node, error)
	Viewport() (Size, error)
}

// BadgeState is the presentation state of a hint badge.
type BadgeState struct {
	Hidden bool
	Match  bool
	Exact  bool
}

// Badge is a non-interactive label drawn over the document.
type Badge interface {
	SetState(BadgeState) error
	Remove() error
}

// OverlayHost draws badges above the document at viewport coordinates.
type OverlayHost interface {
	AddBadge(label string, at Point) (Badge, error)
}

// Notification is delivered to subscribers of an Observable document.
type Notification int

const (
	// SubtreeChanged means nodes were added, removed or changed.
	SubtreeChanged Notification = iota
	// PointerActivity means the user scrolled or pressed a pointer button.
	PointerActivity
)

func (n Notification) String() string {
	switch n {
	case SubtreeChanged:
		return "subtree-changed"
	case PointerActivity:
		return "pointer-activity"
	default:
		return "unknown"
	}
}

// Observable is implemented by documents that report changes.
type Observable interface {
	// Subscribe registers fn and returns a function that removes it.
	Subscribe(fn func(Notification)) (cancel func())
}

// Blurrer is implemented by documents that can drop keyboard focus.
type Blurrer interface {
	BlurActive() error
}

// Contains reports whether n is ancestor or a descendant of ancestor.
func Contains(ancestor, n Node) bool {
	if ancestor == nil {
		return false
	}
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// Closest returns the nearest ancestor-or-self matching selector, or nil.
// Selector errors count as no match.
func Closest(n Node, selector string) Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		if ok, err := cur.Matches(selector); err == nil && ok {
			return cur
		}
	}
	return nil
}

// ClassName returns the class attribute of n.
func ClassName(n Node) string {
	if n == nil {
		return ""
	}
	return n.Attr("class")
}
