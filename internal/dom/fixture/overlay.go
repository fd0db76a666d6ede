package fixture

import (
	"sync"

	"github.com/mj1618/hintnav/internal/dom"
)

// Badge is a hint badge kept outside the document tree, so it never takes
// part in queries or hit testing.
type Badge struct {
	doc   *Document
	Label string
	At    dom.Point

	mu      sync.Mutex
	state   dom.BadgeState
	removed bool
}

// AddBadge implements dom.OverlayHost.
func (d *Document) AddBadge(label string, at dom.Point) (dom.Badge, error) {
	b := &Badge{doc: d, Label: label, At: at, state: dom.BadgeState{Match: true}}
	d.badgeMu.Lock()
	d.badges = append(d.badges, b)
	d.badgeMu.Unlock()
	return b, nil
}

// Badges returns the badges currently shown, in insertion order.
func (d *Document) Badges() []*Badge {
	d.badgeMu.Lock()
	defer d.badgeMu.Unlock()
	return append([]*Badge(nil), d.badges...)
}

// Badge returns the shown badge with the given label, or nil.
func (d *Document) Badge(label string) *Badge {
	for _, b := range d.Badges() {
		if b.Label == label {
			return b
		}
	}
	return nil
}

func (b *Badge) SetState(s dom.BadgeState) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.removed {
		return dom.ErrDetached
	}
	b.state = s
	return nil
}

// State returns the last state set on the badge.
func (b *Badge) State() dom.BadgeState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Badge) Remove() error {
	b.mu.Lock()
	if b.removed {
		b.mu.Unlock()
		return nil
	}
	b.removed = true
	b.mu.Unlock()

	d := b.doc
	d.badgeMu.Lock()
	defer d.badgeMu.Unlock()
	for i, other := range d.badges {
		if other == b {
			d.badges = append(d.badges[:i], d.badges[i+1:]...)
			break
		}
	}
	return nil
}
