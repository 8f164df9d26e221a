package input

import (
	"sync"

	"github.com/dshills/canvaskeys/internal/action"
	"github.com/dshills/canvaskeys/internal/dom"
	"github.com/dshills/canvaskeys/internal/input/key"
)

// Matcher finds the action bound to a normalized key label.
// keymap.Registry implements it.
type Matcher interface {
	Match(label string) (action.Action, bool)
}

// Logger receives dispatcher diagnostics.
type Logger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

// Hook observes every handled key event after dispatch.
type Hook func(ev key.Event, res Result)

// Outcome says what the dispatcher did with a key event.
type Outcome uint8

const (
	// OutcomeIgnored means the event was not a key event.
	OutcomeIgnored Outcome = iota
	// OutcomeEditable means the event targeted a text input and was skipped.
	OutcomeEditable
	// OutcomeUnmatched means no action is bound to the key.
	OutcomeUnmatched
	// OutcomeRepeat means the key was already pressed.
	OutcomeRepeat
	// OutcomeStray means a keyup arrived for a key that was not pressed.
	OutcomeStray
	// OutcomeReleased means a non-hold key was released without invoking.
	OutcomeReleased
	// OutcomeInvoked means the action was invoked successfully.
	OutcomeInvoked
	// OutcomeFailed means the action was invoked but reported failure.
	OutcomeFailed
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeEditable:
		return "editable"
	case OutcomeUnmatched:
		return "unmatched"
	case OutcomeRepeat:
		return "repeat"
	case OutcomeStray:
		return "stray"
	case OutcomeReleased:
		return "released"
	case OutcomeInvoked:
		return "invoked"
	case OutcomeFailed:
		return "failed"
	default:
		return "ignored"
	}
}

// Result describes how one key event was handled.
type Result struct {
	Outcome Outcome

	// Label is the normalized key label.
	Label string

	// Action is the matched action, if any.
	Action action.Action

	// Phase is the edge passed to the invoker when one was called.
	Phase action.Phase
}

// Matched reports whether the event matched a binding. Matched events
// are consumed whether or not anything was invoked.
func (r Result) Matched() bool {
	return r.Outcome >= OutcomeRepeat
}

// Invoked reports whether the invoker was called.
func (r Result) Invoked() bool {
	return r.Outcome == OutcomeInvoked || r.Outcome == OutcomeFailed
}

// Dispatcher routes key events to actions.
type Dispatcher struct {
	mu sync.Mutex

	matcher Matcher
	invoker action.Invoker
	session *Session
	metrics *Metrics
	hooks   []Hook
	logger  Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(l Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// WithSession uses s instead of a new session.
func WithSession(s *Session) Option {
	return func(d *Dispatcher) {
		d.session = s
	}
}

// WithMetrics records into m instead of a private tracker.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithHook adds an observer called after each handled key event.
func WithHook(h Hook) Option {
	return func(d *Dispatcher) {
		d.hooks = append(d.hooks, h)
	}
}

// NewDispatcher creates a dispatcher. Invoker panics are recovered and
// count as failed invocations.
func NewDispatcher(m Matcher, inv action.Invoker, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		matcher: m,
		logger:  nopLogger{},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.session == nil {
		d.session = NewSession()
	}
	if d.metrics == nil {
		d.metrics = NewMetrics()
	}
	d.invoker = action.Safe(inv, d.logger)
	return d
}

// Session returns the dispatcher's session.
func (d *Dispatcher) Session() *Session {
	return d.session
}

// Metrics returns the dispatcher's metrics.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// ActiveKeys returns the labels currently held.
func (d *Dispatcher) ActiveKeys() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session.Active.Labels()
}

// Reset releases every held key without invoking anything.
// It is used when focus leaves the page.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.session.Active.Clear()
}

// Attach registers the dispatcher as a bubbling keydown and keyup listener
// on doc. The returned function removes both listeners.
func (d *Dispatcher) Attach(doc *dom.Document) (detach func()) {
	down := doc.AddEventListener(dom.KeyDown, d.HandleEvent, dom.ListenerOptions{})
	up := doc.AddEventListener(dom.KeyUp, d.HandleEvent, dom.ListenerOptions{})
	return func() {
		doc.RemoveEventListener(down)
		doc.RemoveEventListener(up)
	}
}

// HandleEvent handles a host keyboard event, cancelling it if it matched.
func (d *Dispatcher) HandleEvent(ev *dom.Event) {
	kev, ok := key.FromDOM(ev)
	if !ok {
		return
	}
	if res := d.HandleKey(kev); res.Matched() {
		ev.PreventDefault()
		ev.StopPropagation()
	}
}

// HandleKey runs one key event through the press/release state machine.
func (d *Dispatcher) HandleKey(ev key.Event) Result {
	timer := d.metrics.StartKeyEventTimer()
	res := d.handle(ev)
	timer.Stop()
	d.metrics.RecordOutcome(res.Outcome)

	for _, h := range d.hooks {
		h(ev, res)
	}
	return res
}

func (d *Dispatcher) handle(ev key.Event) Result {
	if ev.FromEditable() {
		return Result{Outcome: OutcomeEditable}
	}

	label := ev.Normalized()
	var res Result

	d.mu.Lock()
	switch ev.Type {
	case key.Down:
		a, ok := d.matcher.Match(label)
		if !ok {
			d.mu.Unlock()
			return Result{Outcome: OutcomeUnmatched, Label: label}
		}
		res = Result{Label: label, Action: a}
		if ev.Repeat || !d.session.Active.Add(label, a) {
			d.mu.Unlock()
			res.Outcome = OutcomeRepeat
			return res
		}
		res.Phase = action.PhasePress
	case key.Up:
		// The release belongs to the action matched at keydown, even if
		// the binding changed while the key was held.
		a, held := d.session.Active.Remove(label)
		if !held {
			d.mu.Unlock()
			if _, ok := d.matcher.Match(label); !ok {
				return Result{Outcome: OutcomeUnmatched, Label: label}
			}
			return Result{Outcome: OutcomeStray, Label: label}
		}
		res = Result{Label: label, Action: a}
		if !a.Hold {
			d.mu.Unlock()
			res.Outcome = OutcomeReleased
			return res
		}
		res.Phase = action.PhaseRelease
	default:
		d.mu.Unlock()
		return Result{Outcome: OutcomeIgnored}
	}
	d.mu.Unlock()

	timer := d.metrics.StartActionTimer()
	ok := d.invoker.Invoke(res.Action.ID, res.Phase)
	timer.StopAction()

	if ok {
		res.Outcome = OutcomeInvoked
	} else {
		res.Outcome = OutcomeFailed
		d.logger.Debug("action %s (%s) not triggered", res.Action.ID, res.Phase)
	}
	return res
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}
