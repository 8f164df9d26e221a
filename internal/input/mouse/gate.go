package mouse

import (
	"sync"

	"github.com/dshills/canvaskeys/internal/dom"
)

// Logger receives gate diagnostics.
type Logger interface {
	Debug(msg string, args ...any)
}

// GateState is a snapshot of the gate.
type GateState struct {
	// Blocked is set while native mousemove delivery is suppressed.
	Blocked bool

	// ClickPassthrough is set while clicks are converted to sentinel
	// mousemoves. It is only ever set while Blocked.
	ClickPassthrough bool

	// Last is the most recent pointer position seen by the gate in the
	// current block. It is cleared on unblock.
	Last Position

	// HasLast reports whether Last holds a recorded position.
	HasLast bool
}

// Gate suppresses and synthesizes mousemove events on a document.
type Gate struct {
	mu sync.Mutex

	doc      *dom.Document
	sentinel int
	logger   Logger

	blocked     bool
	passthrough bool
	last        *dom.Event

	moveListener  dom.ListenerID
	clickListener dom.ListenerID
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithSentinel sets the button mask that marks synthetic events.
func WithSentinel(mask int) GateOption {
	return func(g *Gate) {
		g.sentinel = mask
	}
}

// WithGateLogger sets the gate logger.
func WithGateLogger(l Logger) GateOption {
	return func(g *Gate) {
		g.logger = l
	}
}

// NewGate creates an unblocked gate over doc.
func NewGate(doc *dom.Document, opts ...GateOption) *Gate {
	g := &Gate{
		doc:      doc,
		sentinel: DefaultSentinel,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Sentinel returns the button mask of synthetic events.
func (g *Gate) Sentinel() int {
	return g.sentinel
}

// IsSynthetic reports whether ev carries the sentinel mask.
func (g *Gate) IsSynthetic(ev *dom.Event) bool {
	return ev.Buttons == g.sentinel
}

// Blocked reports whether mousemove delivery is suppressed.
func (g *Gate) Blocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.blocked
}

// State returns a snapshot of the gate.
func (g *Gate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := GateState{Blocked: g.blocked, ClickPassthrough: g.passthrough}
	if g.last != nil {
		s.Last = Position{X: g.last.X, Y: g.last.Y}
		s.HasLast = true
	}
	return s
}

// Toggle flips the blocked state, or sets it to *explicit when non-nil,
// and returns the new state. clickPassthrough applies while blocked.
//
// Blocking attaches capturing listeners for mousemove and, with
// passthrough, click. Unblocking detaches them and dispatches one sentinel
// mousemove at the position last recorded during this block, then forgets
// it.
func (g *Gate) Toggle(explicit *bool, clickPassthrough bool) bool {
	g.mu.Lock()

	next := !g.blocked
	if explicit != nil {
		next = *explicit
	}

	var terminal *dom.Event
	switch {
	case next && !g.blocked:
		g.moveListener = g.doc.AddEventListener(dom.MouseMove, g.onMove, dom.ListenerOptions{Capture: true})
		g.setPassthrough(clickPassthrough)
	case next:
		g.setPassthrough(clickPassthrough)
	case g.blocked:
		g.doc.RemoveEventListener(g.moveListener)
		g.moveListener = 0
		g.setPassthrough(false)
		if g.last != nil {
			terminal = g.synthesize(g.last)
			g.last = nil
		}
	}
	g.blocked = next
	g.mu.Unlock()

	if g.logger != nil {
		g.logger.Debug("pointer gate blocked=%v passthrough=%v", next, next && clickPassthrough)
	}
	if terminal != nil {
		g.doc.Dispatch(terminal)
	}
	return next
}

// setPassthrough attaches or detaches the click listener. Callers hold mu.
func (g *Gate) setPassthrough(on bool) {
	switch {
	case on && g.clickListener == 0:
		g.clickListener = g.doc.AddEventListener(dom.Click, g.onClick, dom.ListenerOptions{Capture: true})
	case !on && g.clickListener != 0:
		g.doc.RemoveEventListener(g.clickListener)
		g.clickListener = 0
	}
	g.passthrough = on
}

func (g *Gate) synthesize(from *dom.Event) *dom.Event {
	return &dom.Event{
		Type:      dom.MouseMove,
		Target:    from.Target,
		X:         from.X,
		Y:         from.Y,
		Buttons:   g.sentinel,
		Synthetic: true,
	}
}

func (g *Gate) onMove(ev *dom.Event) {
	g.mu.Lock()
	g.last = ev.Clone()
	g.mu.Unlock()

	if g.IsSynthetic(ev) {
		return
	}
	ev.StopPropagation()
	ev.PreventDefault()
}

func (g *Gate) onClick(ev *dom.Event) {
	g.doc.Dispatch(g.synthesize(ev))
}
