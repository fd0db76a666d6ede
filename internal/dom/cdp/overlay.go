package cdp

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"github.com/go-rod/rod"

	"github.com/mj1618/hintnav/internal/dom"
)

//go:embed overlay.css
var overlayCSS string

const addBadgeJS = `(label, x, y, css) => {
  let layer = document.getElementById('hintnav-layer');
  if (!layer) {
    const style = document.createElement('style');
    style.setAttribute('data-hintnav', '');
    style.textContent = css;
    document.head.appendChild(style);
    layer = document.createElement('div');
    layer.id = 'hintnav-layer';
    layer.setAttribute('data-hintnav', '');
    document.body.appendChild(layer);
  }
  const b = document.createElement('div');
  b.className = 'hintnav-badge is-match';
  b.textContent = label;
  b.style.left = (x + window.scrollX) + 'px';
  b.style.top = (y + window.scrollY) + 'px';
  layer.appendChild(b);
  return b;
}`

const removeOverlayJS = `() => document.querySelectorAll('[data-hintnav]').forEach((n) => n.remove())`

// Badge is a label element inside the injected overlay layer.
type Badge struct {
	doc   *Document
	el    *rod.Element
	Label string

	mu      sync.Mutex
	removed bool
}

// AddBadge implements dom.OverlayHost. The layer and its stylesheet are
// injected on first use and carry data-hintnav so the mutation bridge
// ignores them.
func (d *Document) AddBadge(label string, at dom.Point) (dom.Badge, error) {
	res, err := d.page.Evaluate(rod.Eval(addBadgeJS, label, at.X, at.Y, overlayCSS).ByObject())
	if err != nil {
		return nil, fmt.Errorf("add badge %s: %w", label, err)
	}
	el, err := d.page.ElementFromObject(res)
	if err != nil {
		return nil, fmt.Errorf("add badge %s: %w", label, err)
	}
	b := &Badge{doc: d, el: el, Label: label}
	d.badgeMu.Lock()
	d.badges = append(d.badges, b)
	d.badgeMu.Unlock()
	return b, nil
}

// classes lists the state classes a badge carries.
func classes(s dom.BadgeState) []string {
	var out []string
	if s.Hidden {
		out = append(out, "is-hidden")
	}
	if s.Match {
		out = append(out, "is-match")
	}
	if s.Exact {
		out = append(out, "is-exact")
	}
	return out
}

func (b *Badge) SetState(s dom.BadgeState) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.removed {
		return dom.ErrDetached
	}
	_, err := b.el.Eval(`(cls) => { this.className = ['hintnav-badge', ...cls].join(' '); }`, classes(s))
	return err
}

func (b *Badge) Remove() error {
	b.mu.Lock()
	if b.removed {
		b.mu.Unlock()
		return nil
	}
	b.removed = true
	b.mu.Unlock()

	b.doc.badgeMu.Lock()
	b.doc.badges = slices.DeleteFunc(b.doc.badges, func(o *Badge) bool { return o == b })
	b.doc.badgeMu.Unlock()

	_, err := b.el.Eval(`() => this.remove()`)
	return err
}

// RemoveOverlay deletes the badge layer and its stylesheet.
func (d *Document) RemoveOverlay() error {
	d.badgeMu.Lock()
	d.badges = nil
	d.badgeMu.Unlock()
	_, err := d.page.Eval(removeOverlayJS)
	return err
}
