package hint

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mj1618/hintnav/internal/dom"
)

var (
	// ErrNotActive is returned by operations that need an active scan.
	ErrNotActive = errors.New("hint mode is not active")
	// ErrUnknownLabel is returned when a label is not part of the scan.
	ErrUnknownLabel = errors.New("unknown hint label")
	// ErrNoInput is returned when no known input can take focus.
	ErrNoInput = errors.New("no known input in document")
)

// Key names understood by ForwardKey besides single letters.
const (
	KeyEscape    = "Escape"
	KeyBackspace = "Backspace"
	KeyEnter     = "Enter"
)

// Listener is told when hint mode ends on its own: after a resolution or
// after an abort. Calls are made without the engine lock held.
type Listener interface {
	HintResolved(knownInput bool)
	HintAborted()
}

// Outcome describes what a key or activation did.
type Outcome struct {
	Typed      string
	Resolved   bool
	Aborted    bool
	Label      string
	Target     *Report
	Activation Activation
}

// Engine owns one hint session at a time: the hints of the current scan,
// their badges, the typed sequence and the idle timer. All methods are
// safe for concurrent use.
type Engine struct {
	doc     dom.Document
	overlay dom.OverlayHost
	rules   Rules
	logger  *slog.Logger
	sched   Scheduler

	mu       sync.Mutex
	listener Listener
	active   bool
	hints    []*Hint
	byLabel  map[string]*Hint
	resolver *Resolver
	vis      *Visibility
	timer    Timer
	gen      uint64
	unsub    func()
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithScheduler replaces the clock used for idle resolution.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.sched = s
		}
	}
}

// WithListener sets the listener notified when hint mode ends.
func WithListener(l Listener) Option {
	return func(e *Engine) { e.listener = l }
}

// New returns an inactive engine.
func New(doc dom.Document, overlay dom.OverlayHost, rules Rules, opts ...Option) *Engine {
	e := &Engine{
		doc:      doc,
		overlay:  overlay,
		rules:    rules,
		logger:   slog.Default(),
		sched:    clockScheduler{},
		resolver: NewResolver(nil),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetListener replaces the listener.
func (e *Engine) SetListener(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listener = l
}

// Start subscribes to document notifications when the document is
// observable: subtree changes rescan an active session and pointer
// activity aborts it.
func (e *Engine) Start() {
	obs, ok := e.doc.(dom.Observable)
	if !ok {
		return
	}
	unsub := obs.Subscribe(e.notify)
	e.mu.Lock()
	if e.unsub != nil {
		e.unsub()
	}
	e.unsub = unsub
	e.mu.Unlock()
}

// Stop unsubscribes and exits hint mode.
func (e *Engine) Stop() {
	e.mu.Lock()
	unsub := e.unsub
	e.unsub = nil
	e.teardownLocked()
	e.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (e *Engine) notify(n dom.Notification) {
	switch n {
	case dom.SubtreeChanged:
		if err := e.Refresh(); err != nil {
			e.logger.Warn("hint: rescan failed", "err", err)
		}
	case dom.PointerActivity:
		e.Abort()
	}
}

// Enter starts a session with a fresh scan. Entering while active
// replaces the current session.
func (e *Engine) Enter() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.scanLocked(); err != nil {
		e.teardownLocked()
		return err
	}
	e.active = true
	e.logger.Debug("hint: entered", "hints", len(e.hints))
	return nil
}

// Refresh rescans an active session. The typed sequence is reset.
func (e *Engine) Refresh() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active {
		return nil
	}
	if err := e.scanLocked(); err != nil {
		e.teardownLocked()
		return err
	}
	e.logger.Debug("hint: rescanned", "hints", len(e.hints))
	return nil
}

// Exit ends the session without notifying the listener. It is idempotent.
func (e *Engine) Exit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.teardownLocked()
}

// Abort ends an active session and tells the listener.
func (e *Engine) Abort() {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return
	}
	e.teardownLocked()
	l := e.listener
	e.mu.Unlock()
	if l != nil {
		l.HintAborted()
	}
}

// ForwardKey feeds one key to the resolver. Keys are single letters or one
// of KeyEscape, KeyBackspace and KeyEnter; anything else is ignored, as
// are all keys while inactive.
func (e *Engine) ForwardKey(key string) Outcome {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return Outcome{}
	}
	r := e.resolver

	switch key {
	case KeyEscape:
		e.teardownLocked()
		l := e.listener
		e.mu.Unlock()
		if l != nil {
			l.HintAborted()
		}
		return Outcome{Aborted: true}

	case KeyBackspace:
		if r.Backspace() {
			e.paintLocked()
			if r.Typed() != "" {
				e.scheduleLocked()
			} else {
				e.stopTimerLocked()
			}
		}

	case KeyEnter:
		if label, ok := r.Resolve(); ok {
			return e.finishLocked(label)
		}

	default:
		c, size := utf8.DecodeRuneInString(key)
		if size == 0 || size != len(key) || !r.Type(c) {
			break
		}
		e.paintLocked()
		if r.State() == Resolved {
			return e.finishLocked(r.Label())
		}
		e.scheduleLocked()
	}

	out := Outcome{Typed: r.Typed()}
	e.mu.Unlock()
	return out
}

// Activate resolves label directly, as if it had been typed in full and
// confirmed with Enter.
func (e *Engine) Activate(label string) (Outcome, error) {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return Outcome{}, ErrNotActive
	}
	label = strings.ToUpper(strings.TrimSpace(label))
	if _, ok := e.byLabel[label]; !ok {
		e.mu.Unlock()
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	return e.finishLocked(label), nil
}

// finishLocked resolves label, unlocks and notifies the listener.
func (e *Engine) finishLocked(label string) Outcome {
	out := e.resolveLocked(label)
	l := e.listener
	e.mu.Unlock()
	if l != nil {
		l.HintResolved(out.Activation.KnownInput)
	}
	return out
}

// resolveLocked ends the session and activates the hint's target.
func (e *Engine) resolveLocked(label string) Outcome {
	h := e.byLabel[label]
	vis := e.vis
	rep := newReport(h, e.rules.Inputs, true, true)
	e.teardownLocked()

	act := NewDispatcher(e.doc, vis, e.rules, e.logger).Activate(h.Node)
	if act.KnownInput {
		if err := h.Node.Focus(); err != nil {
			e.logger.Debug("hint: focus after activation failed", "label", label, "err", err)
		}
	}
	if act.OK() {
		e.logger.Info("hint: activated", "label", label, "tag", rep.Tag, "strategy", act.Strategy.String())
	} else {
		e.logger.Warn("hint: activation failed", "label", label, "tag", rep.Tag, "err", act.Err)
	}
	return Outcome{Resolved: true, Label: label, Target: &rep, Activation: act}
}

func (e *Engine) idle(gen uint64, typed string) {
	e.mu.Lock()
	r := e.resolver
	if !e.active || gen != e.gen || r.State() != Accumulating || r.Typed() != typed {
		e.mu.Unlock()
		return
	}
	e.timer = nil
	label, ok := r.Resolve()
	if !ok {
		e.mu.Unlock()
		return
	}
	e.finishLocked(label)
}

// scanLocked replaces the current hints with a fresh scan.
func (e *Engine) scanLocked() error {
	e.clearLocked()

	vis, err := NewVisibility(e.doc, e.rules)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	cands := Collect(e.doc, e.rules, e.logger)
	ranked := Rank(vis.Filter(cands), vis.Viewport())
	labels := Labels(len(ranked), e.rules.Alphabet)

	e.vis = vis
	e.byLabel = make(map[string]*Hint, len(ranked))
	for i, c := range ranked {
		anchor, ok := vis.Anchor(c.Node)
		if !ok {
			anchor = c.Node.Rect().Center()
		}
		h := &Hint{
			Label:   labels[i],
			Node:    c.Node,
			Anchor:  anchor,
			Sources: c.Sources,
			Score:   Score(c.Node, vis.Viewport()),
		}
		if e.overlay != nil {
			badge, err := e.overlay.AddBadge(h.Label, anchor)
			if err != nil {
				e.logger.Debug("hint: badge failed", "label", h.Label, "err", err)
			} else {
				h.badge = badge
			}
		}
		e.hints = append(e.hints, h)
		e.byLabel[h.Label] = h
	}
	e.resolver = NewResolver(labels)
	e.paintLocked()
	e.logger.Debug("hint: scan", "candidates", len(cands), "hints", len(e.hints), "max_len", e.resolver.MaxLen())
	return nil
}

// paintLocked derives every badge's state from the typed sequence.
func (e *Engine) paintLocked() {
	for _, h := range e.hints {
		if h.badge == nil {
			continue
		}
		prefix, exact := e.resolver.Match(h.Label)
		st := dom.BadgeState{
			Match:  prefix,
			Exact:  exact,
			Hidden: !prefix && e.rules.HideUnmatched,
		}
		if err := h.badge.SetState(st); err != nil {
			e.logger.Debug("hint: badge state failed", "label", h.Label, "err", err)
		}
	}
}

func (e *Engine) scheduleLocked() {
	e.stopTimerLocked()
	gen, typed := e.gen, e.resolver.Typed()
	e.timer = e.sched.AfterFunc(e.rules.IdleDelay(), func() { e.idle(gen, typed) })
}

// stopTimerLocked cancels the pending timer and invalidates any callback
// already in flight.
func (e *Engine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
}

// clearLocked removes badges and resets the resolver and timer.
func (e *Engine) clearLocked() {
	e.stopTimerLocked()
	for _, h := range e.hints {
		if h.badge == nil {
			continue
		}
		if err := h.badge.Remove(); err != nil {
			e.logger.Debug("hint: badge remove failed", "label", h.Label, "err", err)
		}
	}
	e.hints = nil
	e.byLabel = nil
	e.resolver = NewResolver(nil)
}

func (e *Engine) teardownLocked() {
	e.clearLocked()
	e.active = false
}

// Active reports whether a session is running.
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Typed returns the typed sequence.
func (e *Engine) Typed() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resolver.Typed()
}

// State returns the resolver state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resolver.State()
}

// Hints returns the current hints in label order.
func (e *Engine) Hints() []Report {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Report, 0, len(e.hints))
	for _, h := range e.hints {
		prefix, exact := e.resolver.Match(h.Label)
		out = append(out, newReport(h, e.rules.Inputs, prefix, exact))
	}
	return out
}

// FocusInput focuses the first laid-out known input.
func (e *Engine) FocusInput() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, n := range FindKnownInputs(e.doc, e.rules.Inputs, e.logger) {
		if !n.LaidOut() {
			continue
		}
		return n.Focus()
	}
	return ErrNoInput
}
