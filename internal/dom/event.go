package dom

import (
	"fmt"
	"strings"
)

// EventType names a host event.
type EventType string

const (
	// KeyDown is fired when a key is pressed (and again on OS auto-repeat).
	KeyDown EventType = "keydown"
	// KeyUp is fired when a key is released.
	KeyUp EventType = "keyup"
	// MouseMove is fired when the pointer moves.
	MouseMove EventType = "mousemove"
	// Click is fired when the primary button is pressed and released.
	Click EventType = "click"
)

// Element is the target of an event.
type Element struct {
	// Tag is the element tag name, e.g. "input" or "canvas".
	Tag string

	// ID is the element identifier.
	ID string

	// ContentEditable marks elements that accept free text.
	ContentEditable bool
}

// NewElement creates an element with the given tag.
func NewElement(tag string) *Element {
	return &Element{Tag: strings.ToLower(tag)}
}

// IsEditable reports whether typing into the element produces text.
// Text inputs, text areas, selects and content-editable elements qualify.
func (e *Element) IsEditable() bool {
	if e == nil {
		return false
	}
	if e.ContentEditable {
		return true
	}
	switch strings.ToLower(e.Tag) {
	case "input", "textarea", "select":
		return true
	}
	return false
}

// String returns a CSS-like description of the element.
func (e *Element) String() string {
	if e == nil {
		return "<nil>"
	}
	if e.ID != "" {
		return e.Tag + "#" + e.ID
	}
	return e.Tag
}

// Event is a single host event in flight.
type Event struct {
	Type   EventType
	Target *Element

	// Key is the key value reported by the keyboard, e.g. "a", " ", "Escape".
	Key string

	// Repeat is set by the OS for auto-repeated keydown events.
	Repeat bool

	// X and Y are the pointer coordinates.
	X int
	Y int

	// Buttons is the pressed-button bitmask of a pointer event.
	Buttons int

	// Synthetic marks events generated by canvaskeys rather than the user.
	Synthetic bool

	defaultPrevented   bool
	propagationStopped bool
	passive            bool
}

// PreventDefault marks the event's default action as cancelled.
// Calls from passive listeners are ignored.
func (e *Event) PreventDefault() {
	if e.passive {
		return
	}
	e.defaultPrevented = true
}

// StopPropagation prevents the event from reaching later listeners.
func (e *Event) StopPropagation() {
	e.propagationStopped = true
}

// DefaultPrevented reports whether PreventDefault took effect.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool {
	return e.propagationStopped
}

// Clone returns a fresh, undispatched copy of the event.
func (e *Event) Clone() *Event {
	return &Event{
		Type:      e.Type,
		Target:    e.Target,
		Key:       e.Key,
		Repeat:    e.Repeat,
		X:         e.X,
		Y:         e.Y,
		Buttons:   e.Buttons,
		Synthetic: e.Synthetic,
	}
}

// String returns a compact description for logs and traces.
func (e *Event) String() string {
	switch e.Type {
	case KeyDown, KeyUp:
		if e.Repeat {
			return fmt.Sprintf("%s %q (repeat)", e.Type, e.Key)
		}
		return fmt.Sprintf("%s %q", e.Type, e.Key)
	default:
		if e.Synthetic {
			return fmt.Sprintf("%s (%d,%d) buttons=%d (synthetic)", e.Type, e.X, e.Y, e.Buttons)
		}
		return fmt.Sprintf("%s (%d,%d) buttons=%d", e.Type, e.X, e.Y, e.Buttons)
	}
}
