package dom

// Event is a synthetic pointer or mouse event.
type Event struct {
	Type       string
	Point      Point
	Button     int
	Buttons    int
	Bubbles    bool
	Cancelable bool

	defaultPrevented bool
}

// Pointer reports whether the event is a PointerEvent rather than a
// MouseEvent.
func (e *Event) Pointer() bool {
	return len(e.Type) > 7 && e.Type[:7] == "pointer"
}

// PreventDefault cancels a cancelable event.
func (e *Event) PreventDefault() {
	if e.Cancelable {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether a listener cancelled the event.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

func newEvent(typ string, p Point, button, buttons int, bubbles bool) *Event {
	return &Event{
		Type:       typ,
		Point:      p,
		Button:     button,
		Buttons:    buttons,
		Bubbles:    bubbles,
		Cancelable: true,
	}
}

// HoverClickSequence returns the canonical sequence a real pointer produces
// when it enters an element and clicks it: over, enter, move, down, up and
// click. Enter events do not bubble.
func HoverClickSequence(p Point) []*Event {
	return []*Event{
		newEvent("pointerover", p, 0, 0, true),
		newEvent("mouseover", p, 0, 0, true),
		newEvent("pointerenter", p, 0, 0, false),
		newEvent("mouseenter", p, 0, 0, false),
		newEvent("pointermove", p, 0, 0, true),
		newEvent("mousemove", p, 0, 0, true),
		newEvent("pointerdown", p, 0, 1, true),
		newEvent("mousedown", p, 0, 1, true),
		newEvent("pointerup", p, 0, 0, true),
		newEvent("mouseup", p, 0, 0, true),
		newEvent("click", p, 0, 0, true),
	}
}

// ClickSequence returns the press/release/click sequence for the left
// button.
func ClickSequence(p Point) []*Event {
	return []*Event{
		newEvent("pointerdown", p, 0, 1, true),
		newEvent("mousedown", p, 0, 1, true),
		newEvent("pointerup", p, 0, 1, true),
		newEvent("mouseup", p, 0, 0, true),
		newEvent("click", p, 0, 0, true),
	}
}
