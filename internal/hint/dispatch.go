package hint

import (
	"fmt"
	"log/slog"

	"github.com/mj1618/hintnav/internal/dom"
)

// Strategy identifies how an activation was delivered.
type Strategy int

// Strategies are tried in order; the first that succeeds wins.
const (
	StrategyNone Strategy = iota
	// StrategyDirect dispatches the full hover and click sequence on the
	// target at its anchor.
	StrategyDirect
	// StrategyClickThrough hides the layers above the anchor, clicks the
	// top hit and restores the layers.
	StrategyClickThrough
	// StrategyHitTest clicks whatever is on top at the anchor.
	StrategyHitTest
	// StrategyNative invokes native activation on the closest actionable
	// ancestor.
	StrategyNative
)

func (s Strategy) String() string {
	switch s {
	case StrategyDirect:
		return "direct"
	case StrategyClickThrough:
		return "click-through"
	case StrategyHitTest:
		return "hit-test"
	case StrategyNative:
		return "native"
	default:
		return "none"
	}
}

// Activation is the outcome of dispatching to one target.
type Activation struct {
	Strategy   Strategy
	Anchor     dom.Point
	KnownInput bool
	Err        error
}

// OK reports whether some strategy delivered the activation.
func (a Activation) OK() bool { return a.Strategy != StrategyNone }

// Dispatcher synthesises pointer input that reaches a target even when
// other layers sit above it.
type Dispatcher struct {
	doc    dom.Document
	vis    *Visibility
	rules  Rules
	logger *slog.Logger
}

// NewDispatcher returns a dispatcher over doc.
func NewDispatcher(doc dom.Document, vis *Visibility, rules Rules, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{doc: doc, vis: vis, rules: rules, logger: logger}
}

// Activate delivers a click to n. Known inputs are focused first. Failure
// is only reported when the native fallback fails too.
func (d *Dispatcher) Activate(n dom.Node) Activation {
	anchor, ok := d.vis.Anchor(n)
	if !ok {
		anchor = n.Rect().Center()
	}
	act := Activation{Anchor: anchor, KnownInput: IsKnownInput(n, d.rules.Inputs)}
	if act.KnownInput {
		if err := n.Focus(); err != nil {
			d.logger.Debug("hint: focus before dispatch failed", "err", err)
		}
	}

	if d.dispatchSequence(n, dom.HoverClickSequence(anchor)) {
		act.Strategy = StrategyDirect
		return act
	}
	if d.withClickThrough(n, anchor, func() bool { return d.clickAt(anchor) }) {
		act.Strategy = StrategyClickThrough
		return act
	}
	if d.clickAt(anchor) {
		act.Strategy = StrategyHitTest
		return act
	}

	target := dom.Closest(n, ActionableSelector)
	if target == nil {
		target = n
	}
	if err := target.Click(); err != nil {
		act.Err = fmt.Errorf("native activation: %w", err)
		return act
	}
	act.Strategy = StrategyNative
	return act
}

// dispatchSequence delivers evs to n and reports whether the final event
// went through uncancelled.
func (d *Dispatcher) dispatchSequence(n dom.Node, evs []*dom.Event) bool {
	ok := false
	for _, ev := range evs {
		res, err := n.Dispatch(ev)
		if err != nil {
			d.logger.Debug("hint: dispatch failed", "event", ev.Type, "err", err)
			return false
		}
		ok = res
	}
	return ok
}

// clickAt sends the click sequence to the topmost element at p.
func (d *Dispatcher) clickAt(p dom.Point) bool {
	top, err := d.doc.ElementFromPoint(p)
	if err != nil || top == nil {
		return false
	}
	return d.dispatchSequence(top, dom.ClickSequence(p))
}

type neutralized struct {
	node dom.Node
	prop string
	prev string
}

// withClickThrough hides up to MaxNeutralize layers that sit above n at
// p, runs fn, and restores every layer in reverse order whatever fn does.
// Layers that accept pointer input get pointer-events: none; layers that
// already decline it get visibility: hidden.
func (d *Dispatcher) withClickThrough(n dom.Node, p dom.Point, fn func() bool) bool {
	var undo []neutralized
	defer func() {
		for i := len(undo) - 1; i >= 0; i-- {
			u := undo[i]
			if err := u.node.SetInlineStyle(u.prop, u.prev); err != nil {
				d.logger.Warn("hint: restore layer failed", "prop", u.prop, "err", err)
			}
		}
	}()

	for i := 0; i < d.rules.MaxNeutralize; i++ {
		top, err := d.doc.ElementFromPoint(p)
		if err != nil || top == nil || dom.Contains(n, top) {
			break
		}
		prop, value := "pointer-events", "none"
		if top.Style().DeclinesPointer() {
			prop, value = "visibility", "hidden"
		}
		prev := top.InlineStyle(prop)
		if err := top.SetInlineStyle(prop, value); err != nil {
			d.logger.Debug("hint: neutralize layer failed", "prop", prop, "err", err)
			break
		}
		undo = append(undo, neutralized{node: top, prop: prop, prev: prev})
	}
	return fn()
}
