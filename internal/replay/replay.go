// Package replay drives a document from a recorded event script.
//
// Scripts are YAML:
//
//	focus: input
//	events:
//	  - {type: keydown, key: e}
//	  - {type: keyup, key: e}
//	  - {type: mousemove, x: 10, y: 4, buttons: 1}
//
// Each event is dispatched in order and the trace records whether it
// reached the page's own bubble listeners.
package replay

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/canvaskeys/internal/dom"
)

// ErrInvalidScript is returned for scripts that cannot be replayed.
var ErrInvalidScript = errors.New("invalid replay script")

// Script is a recorded event sequence.
type Script struct {
	// Focus is the tag of the element focused before the first event.
	// Empty leaves the body focused.
	Focus string `yaml:"focus"`

	Events []Event `yaml:"events"`
}

// Event is one scripted event.
type Event struct {
	Type    string `yaml:"type"`
	Target  string `yaml:"target,omitempty"`
	Key     string `yaml:"key,omitempty"`
	Repeat  bool   `yaml:"repeat,omitempty"`
	X       int    `yaml:"x,omitempty"`
	Y       int    `yaml:"y,omitempty"`
	Buttons int    `yaml:"buttons,omitempty"`
}

var eventTypes = map[string]dom.EventType{
	string(dom.KeyDown):   dom.KeyDown,
	string(dom.KeyUp):     dom.KeyUp,
	string(dom.MouseMove): dom.MouseMove,
	string(dom.Click):     dom.Click,
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	for i := range s.Events {
		ev := &s.Events[i]
		ev.Type = strings.ToLower(ev.Type)
		if _, ok := eventTypes[ev.Type]; !ok {
			return nil, fmt.Errorf("%w: event %d: unknown type %q", ErrInvalidScript, i, ev.Type)
		}
		if ev.Type == string(dom.KeyDown) || ev.Type == string(dom.KeyUp) {
			if ev.Key == "" {
				return nil, fmt.Errorf("%w: event %d: %s without key", ErrInvalidScript, i, ev.Type)
			}
		}
	}
	return &s, nil
}

// Load reads a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Step is the outcome of one replayed event.
type Step struct {
	Event *dom.Event

	// Delivered is set when the event reached the page's bubble listeners.
	Delivered bool

	// Cancelled is set when a listener prevented the default action.
	Cancelled bool

	// Injected counts the events other listeners dispatched while this one
	// was in flight and that reached the page.
	Injected int
}

// String returns a one-line description of the step.
func (s Step) String() string {
	var b strings.Builder
	b.WriteString(s.Event.String())
	switch {
	case s.Delivered:
		b.WriteString(" -> page")
	default:
		b.WriteString(" -> consumed")
	}
	if s.Cancelled {
		b.WriteString(" (default prevented)")
	}
	if s.Injected > 0 {
		fmt.Fprintf(&b, " +%d synthetic", s.Injected)
	}
	return b.String()
}

// Trace is the result of a replay.
type Trace []Step

// Delivered returns the number of steps that reached the page.
func (t Trace) Delivered() int {
	n := 0
	for _, s := range t {
		if s.Delivered {
			n++
		}
	}
	return n
}

// String returns the trace, one step per line.
func (t Trace) String() string {
	lines := make([]string, len(t))
	for i, s := range t {
		lines[i] = fmt.Sprintf("%3d  %s", i+1, s)
	}
	return strings.Join(lines, "\n")
}

// Run dispatches every event of s on doc. The observer listeners are
// registered last, so an event counts as delivered only when no earlier
// listener stopped it.
func Run(doc *dom.Document, s *Script) Trace {
	if s.Focus != "" {
		doc.Focus(dom.NewElement(s.Focus))
	}

	var seen []*dom.Event
	observe := func(ev *dom.Event) { seen = append(seen, ev) }

	ids := make([]dom.ListenerID, 0, len(eventTypes))
	for _, t := range eventTypes {
		ids = append(ids, doc.AddEventListener(t, observe, dom.ListenerOptions{Passive: true}))
	}
	defer func() {
		for _, id := range ids {
			doc.RemoveEventListener(id)
		}
	}()

	trace := make(Trace, 0, len(s.Events))
	for _, se := range s.Events {
		current := build(se)
		seen = seen[:0]
		doc.Dispatch(current)

		step := Step{Event: current, Cancelled: current.DefaultPrevented()}
		for _, ev := range seen {
			if ev == current {
				step.Delivered = true
			} else {
				step.Injected++
			}
		}
		trace = append(trace, step)
	}
	return trace
}

func build(se Event) *dom.Event {
	ev := &dom.Event{
		Type:    eventTypes[se.Type],
		Key:     se.Key,
		Repeat:  se.Repeat,
		X:       se.X,
		Y:       se.Y,
		Buttons: se.Buttons,
	}
	if se.Target != "" {
		ev.Target = dom.NewElement(se.Target)
	}
	return ev
}
