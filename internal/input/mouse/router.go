package mouse

import (
	"github.com/dshills/canvaskeys/internal/action"
)

// Router turns the pointer actions into gate toggles and forwards every
// other action to the host invoker.
type Router struct {
	gate *Gate
	next action.Invoker
}

// NewRouter creates a router in front of next. A nil next fails every
// non-pointer action.
func NewRouter(gate *Gate, next action.Invoker) *Router {
	return &Router{gate: gate, next: next}
}

// Invoke implements action.Invoker.
func (r *Router) Invoke(id string, phase action.Phase) bool {
	switch id {
	case action.PointerPin:
		if phase == action.PhasePress {
			r.gate.Toggle(nil, false)
		}
		return true
	case action.PointerHold:
		on := phase == action.PhasePress
		r.gate.Toggle(&on, false)
		return true
	case action.LineDrawing:
		if phase == action.PhasePress {
			r.gate.Toggle(nil, true)
		}
		return true
	}

	if r.next == nil {
		return false
	}
	return r.next.Invoke(id, phase)
}
