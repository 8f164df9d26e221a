package input

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/canvaskeys/internal/action"
)

// ActiveKeySet holds the normalized labels of keys currently held down,
// each with the action it matched at keydown. A label is present only
// between its own keydown and keyup.
type ActiveKeySet struct {
	keys map[string]action.Action
}

// NewActiveKeySet creates an empty set.
func NewActiveKeySet() *ActiveKeySet {
	return &ActiveKeySet{keys: make(map[string]action.Action)}
}

// Add marks label as pressed for a. It returns false if it already was.
func (s *ActiveKeySet) Add(label string, a action.Action) bool {
	if _, ok := s.keys[label]; ok {
		return false
	}
	s.keys[label] = a
	return true
}

// Remove marks label as released and returns the action it was pressed
// for. ok is false if it was not pressed.
func (s *ActiveKeySet) Remove(label string) (a action.Action, ok bool) {
	a, ok = s.keys[label]
	if ok {
		delete(s.keys, label)
	}
	return a, ok
}

// Has reports whether label is pressed.
func (s *ActiveKeySet) Has(label string) bool {
	_, ok := s.keys[label]
	return ok
}

// Len returns the number of pressed labels.
func (s *ActiveKeySet) Len() int {
	return len(s.keys)
}

// Labels returns the pressed labels in sorted order.
func (s *ActiveKeySet) Labels() []string {
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Clear releases every label.
func (s *ActiveKeySet) Clear() {
	clear(s.keys)
}

// Session is the transient keyboard state of one page session.
// It is not persisted; a new session starts with nothing pressed.
type Session struct {
	// ID identifies the session in logs.
	ID uuid.UUID

	// Started is when the session was created.
	Started time.Time

	// Active is the set of held keys.
	Active *ActiveKeySet
}

// NewSession creates a session with a fresh random id.
func NewSession() *Session {
	return &Session{
		ID:      uuid.New(),
		Started: time.Now(),
		Active:  NewActiveKeySet(),
	}
}
