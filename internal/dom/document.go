package dom

import (
	"runtime/debug"
	"sync"
)

// Listener handles a dispatched event.
type Listener func(ev *Event)

// ListenerOptions mirrors the options accepted by addEventListener.
type ListenerOptions struct {
	// Capture registers the listener for the capture phase.
	Capture bool

	// Passive listeners cannot cancel the default action.
	Passive bool
}

// ListenerID identifies a registration for later removal.
type ListenerID uint64

// Logger receives listener failures.
type Logger interface {
	Error(msg string, args ...any)
}

type registration struct {
	id        ListenerID
	eventType EventType
	fn        Listener
	opts      ListenerOptions
}

// Document is the event target all canvaskeys listeners attach to.
type Document struct {
	mu sync.RWMutex

	nextID    ListenerID
	listeners []registration

	body   *Element
	active *Element

	logger Logger
}

// NewDocument creates an empty document whose body has focus.
func NewDocument() *Document {
	body := NewElement("body")
	return &Document{
		body:   body,
		active: body,
	}
}

// SetLogger sets where listener panics are reported.
func (d *Document) SetLogger(l Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logger = l
}

// Body returns the document body.
func (d *Document) Body() *Element {
	return d.body
}

// Focus moves keyboard focus to el. A nil element focuses the body.
func (d *Document) Focus(el *Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el == nil {
		el = d.body
	}
	d.active = el
}

// ActiveElement returns the focused element.
func (d *Document) ActiveElement() *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.active
}

// AddEventListener registers fn for events of the given type.
func (d *Document) AddEventListener(t EventType, fn Listener, opts ListenerOptions) ListenerID {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	d.listeners = append(d.listeners, registration{
		id:        d.nextID,
		eventType: t,
		fn:        fn,
		opts:      opts,
	})
	return d.nextID
}

// RemoveEventListener removes a registration. Unknown ids are ignored.
func (d *Document) RemoveEventListener(id ListenerID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, r := range d.listeners {
		if r.id == id {
			d.listeners = append(d.listeners[:i:i], d.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of listeners registered for t.
func (d *Document) ListenerCount(t EventType) int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	n := 0
	for _, r := range d.listeners {
		if r.eventType == t {
			n++
		}
	}
	return n
}

// Dispatch delivers ev to the capture listeners and then to the bubble
// listeners. A nil Target is replaced by the focused element.
// It returns false if any listener cancelled the default action.
//
// Listeners may dispatch further events or change registrations; those
// changes apply to the next dispatch.
func (d *Document) Dispatch(ev *Event) bool {
	d.mu.RLock()
	if ev.Target == nil {
		ev.Target = d.active
	}
	snapshot := make([]registration, 0, len(d.listeners))
	for _, r := range d.listeners {
		if r.eventType == ev.Type {
			snapshot = append(snapshot, r)
		}
	}
	d.mu.RUnlock()

	for _, capture := range []bool{true, false} {
		for _, r := range snapshot {
			if r.opts.Capture != capture {
				continue
			}
			if ev.propagationStopped {
				return !ev.defaultPrevented
			}
			d.invoke(r, ev)
		}
	}
	return !ev.defaultPrevented
}

// invoke runs a single listener, recovering panics.
func (d *Document) invoke(r registration, ev *Event) {
	defer func() {
		ev.passive = false
		if p := recover(); p != nil {
			d.mu.RLock()
			logger := d.logger
			d.mu.RUnlock()
			if logger != nil {
				logger.Error("listener for %s panicked: %v\n%s", ev.Type, p, debug.Stack())
			}
		}
	}()

	ev.passive = r.opts.Passive
	r.fn(ev)
}
