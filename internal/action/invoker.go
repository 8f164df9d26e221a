package action

import (
	"runtime/debug"
)

// Phase tells an invoker which key edge triggered the call.
type Phase uint8

const (
	// PhasePress is the keydown edge. Every matched action gets one.
	PhasePress Phase = iota
	// PhaseRelease is the keyup edge. Only hold actions get one.
	PhaseRelease
)

// String returns "press" or "release".
func (p Phase) String() string {
	if p == PhaseRelease {
		return "release"
	}
	return "press"
}

// Invoker triggers the host control behind an action.
// Invoke returns false when the control cannot be found; it must not panic.
type Invoker interface {
	Invoke(id string, phase Phase) bool
}

// InvokerFunc adapts a function to Invoker.
type InvokerFunc func(id string, phase Phase) bool

// Invoke calls f.
func (f InvokerFunc) Invoke(id string, phase Phase) bool {
	return f(id, phase)
}

// Logger receives invocation failures.
type Logger interface {
	Error(msg string, args ...any)
}

// Safe wraps inv so that a panic inside it is logged and reported as a
// failed invocation instead of unwinding into the event loop.
func Safe(inv Invoker, logger Logger) Invoker {
	return InvokerFunc(func(id string, phase Phase) (ok bool) {
		defer func() {
			if r := recover(); r != nil {
				ok = false
				if logger != nil {
					logger.Error("invoking %s (%s) panicked: %v\n%s", id, phase, r, debug.Stack())
				}
			}
		}()
		return inv.Invoke(id, phase)
	})
}
