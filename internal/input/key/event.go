package key

import (
	"fmt"

	"github.com/dshills/canvaskeys/internal/dom"
)

// Type is the key edge an event reports.
type Type uint8

const (
	// Down is a key press. The OS repeats it while the key is held.
	Down Type = iota
	// Up is a key release.
	Up
)

// String returns "keydown" or "keyup".
func (t Type) String() string {
	if t == Up {
		return string(dom.KeyUp)
	}
	return string(dom.KeyDown)
}

// Event is a normalized keyboard event.
type Event struct {
	// Type is the key edge.
	Type Type

	// Key is the raw key value, e.g. "a" or " ".
	Key string

	// Repeat marks OS auto-repeat keydowns.
	Repeat bool

	// Target is the element that had focus.
	Target *dom.Element
}

// FromDOM converts a keydown or keyup host event.
// It reports false for any other event type.
func FromDOM(ev *dom.Event) (Event, bool) {
	var t Type
	switch ev.Type {
	case dom.KeyDown:
		t = Down
	case dom.KeyUp:
		t = Up
	default:
		return Event{}, false
	}
	return Event{
		Type:   t,
		Key:    ev.Key,
		Repeat: ev.Repeat,
		Target: ev.Target,
	}, true
}

// Label returns the storable label of the event's key.
func (e Event) Label() string {
	return Label(e.Key)
}

// Normalized returns the lower-cased label used for matching.
func (e Event) Normalized() string {
	return Normalize(e.Key)
}

// FromEditable reports whether the event targets a text-entry element.
func (e Event) FromEditable() bool {
	return e.Target.IsEditable()
}

// String returns a compact description for logs.
func (e Event) String() string {
	if e.Repeat {
		return fmt.Sprintf("%s %s (repeat)", e.Type, e.Label())
	}
	return fmt.Sprintf("%s %s", e.Type, e.Label())
}
