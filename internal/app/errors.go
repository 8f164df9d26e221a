package app

import (
	"errors"
	"strings"
)

// Lifecycle errors.
var (
	// ErrAlreadyStarted is returned by a second Bootstrap.
	ErrAlreadyStarted = errors.New("already started")

	// ErrClosed is returned by Bootstrap once Shutdown has run.
	ErrClosed = errors.New("application closed")
)

// OperationError is a failed lifecycle step, such as waiting for the host
// page or closing the store.
type OperationError struct {
	Op     string // "bootstrap", "close"
	Target string // what the step acted on: "host page", "store"
	Err    error
}

// NewOperationError wraps err as a failure of op on target.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Target != "" {
		b.WriteByte(' ')
		b.WriteString(e.Target)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ComponentError is a component that could not be built, which makes the
// App unusable.
type ComponentError struct {
	Component string // "store"
	Action    string // "open"
	Err       error
}

// NewComponentError wraps err as a failure of component during action.
func NewComponentError(component, action string, err error) *ComponentError {
	return &ComponentError{Component: component, Action: action, Err: err}
}

func (e *ComponentError) Error() string {
	if e == nil {
		return ""
	}
	parts := []string{e.Component}
	if e.Action != "" {
		parts = append(parts, e.Action)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *ComponentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
