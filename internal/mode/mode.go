// Package mode routes keystrokes through a small modal state machine:
// normal, hint, insert and visual-caret. Hint mode hands keys to a
// hint.Engine, which reports back when the session ends.
package mode

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/mj1618/hintnav/internal/dom"
	"github.com/mj1618/hintnav/internal/hint"
)

// Mode is the controller's current input mode.
type Mode int

const (
	Normal Mode = iota
	Hint
	Insert
	VisualCaret
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Hint:
		return "hint"
	case Insert:
		return "insert"
	case VisualCaret:
		return "visual-caret"
	default:
		return "unknown"
	}
}

// Title is the mode as shown in a status indicator.
func (m Mode) Title() string {
	switch m {
	case Normal:
		return "Normal"
	case Hint:
		return "Hint"
	case Insert:
		return "Insert"
	case VisualCaret:
		return "Visual Caret"
	default:
		return "?"
	}
}

// Key is one key press. Name is a single character or one of the
// hint.Key* names.
type Key struct {
	Name string
	Ctrl bool
	Alt  bool
	Meta bool
}

// Engine is the part of hint.Engine the controller drives.
type Engine interface {
	Enter() error
	Exit()
	ForwardKey(key string) hint.Outcome
	FocusInput() error
	SetListener(l hint.Listener)
}

// ChangeFunc observes mode transitions. It is called without the
// controller lock held.
type ChangeFunc func(from, to Mode)

// Controller owns the current mode. It implements hint.Listener.
type Controller struct {
	engine Engine
	blur   dom.Blurrer
	logger *slog.Logger

	mu       sync.Mutex
	mode     Mode
	onChange ChangeFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithBlurrer lets Escape in insert mode drop keyboard focus.
func WithBlurrer(b dom.Blurrer) Option {
	return func(c *Controller) { c.blur = b }
}

// OnChange registers fn for mode transitions.
func OnChange(fn ChangeFunc) Option {
	return func(c *Controller) { c.onChange = fn }
}

// New creates a controller in normal mode and registers it as the
// engine's listener.
func New(engine Engine, opts ...Option) *Controller {
	c := &Controller{engine: engine, logger: slog.Default()}
	for _, o := range opts {
		o(c)
	}
	engine.SetListener(c)
	return c
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// HandleKey routes k according to the current mode. Keys with ctrl, alt
// or meta held are left to the application. The outcome is non-zero only
// for keys consumed by an active hint session.
func (c *Controller) HandleKey(k Key) (hint.Outcome, error) {
	if k.Ctrl || k.Alt || k.Meta {
		return hint.Outcome{}, nil
	}
	switch c.Mode() {
	case Hint:
		return c.engine.ForwardKey(k.Name), nil
	case Insert:
		if k.Name == hint.KeyEscape {
			c.blurActive()
			c.Set(Normal)
		}
		return hint.Outcome{}, nil
	case VisualCaret:
		if k.Name == hint.KeyEscape {
			c.Set(Normal)
			return hint.Outcome{}, nil
		}
	}
	return hint.Outcome{}, c.normal(k)
}

func (c *Controller) normal(k Key) error {
	switch k.Name {
	case "f":
		c.Set(Hint)
		if err := c.engine.Enter(); err != nil {
			c.Set(Normal)
			return err
		}
	case "i":
		c.Set(Insert)
		if err := c.engine.FocusInput(); err != nil && !errors.Is(err, hint.ErrNoInput) {
			c.logger.Warn("mode: focus input failed", "err", err)
		}
	case "v":
		c.Set(VisualCaret)
	}
	return nil
}

func (c *Controller) blurActive() {
	if c.blur == nil {
		return
	}
	if err := c.blur.BlurActive(); err != nil {
		c.logger.Debug("mode: blur failed", "err", err)
	}
}

// Set switches to m. Leaving hint mode ends the engine session.
func (c *Controller) Set(m Mode) {
	c.mu.Lock()
	from := c.mode
	c.mode = m
	fn := c.onChange
	c.mu.Unlock()

	if from == m {
		return
	}
	if from == Hint {
		c.engine.Exit()
	}
	c.logger.Debug("mode: changed", "from", from.String(), "to", m.String())
	if fn != nil {
		fn(from, m)
	}
}

// HintResolved implements hint.Listener.
func (c *Controller) HintResolved(knownInput bool) {
	if knownInput {
		c.Set(Insert)
		return
	}
	c.Set(Normal)
}

// HintAborted implements hint.Listener.
func (c *Controller) HintAborted() {
	c.Set(Normal)
}
