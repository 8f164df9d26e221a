// Package host models the canvas page canvaskeys drives: its toolbar
// controls, the anchor the settings panel attaches to and the invoker that
// clicks controls on behalf of actions.
package host

import (
	"slices"
	"sync"
)

// Control is a clickable element of the host page.
type Control struct {
	// ID is unique within a page.
	ID string

	// Label is the visible text, e.g. "+".
	Label string

	// Identifiers are stable markers a locator can match, such as icon names.
	Identifiers []string

	// Badge is a short status marker rendered next to the label.
	Badge string

	// Click performs the control's primary interaction.
	Click func()
}

// HasIdentifier reports whether the control carries ident.
func (c *Control) HasIdentifier(ident string) bool {
	return slices.Contains(c.Identifiers, ident)
}

// Page is the set of controls currently on the host page, in layout order.
type Page struct {
	mu       sync.RWMutex
	controls []*Control
}

// NewPage creates an empty page.
func NewPage() *Page {
	return &Page{}
}

// Add appends c, replacing any control with the same id in place.
func (p *Page) Add(c *Control) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i := p.index(c.ID); i >= 0 {
		p.controls[i] = c
		return
	}
	p.controls = append(p.controls, c)
}

// InsertBefore places c immediately before the control anchorID. If the
// anchor is missing, c is appended and InsertBefore returns false.
func (p *Page) InsertBefore(c *Control, anchorID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i := p.index(c.ID); i >= 0 {
		p.controls = slices.Delete(p.controls, i, i+1)
	}
	i := p.index(anchorID)
	if anchorID == "" || i < 0 {
		p.controls = append(p.controls, c)
		return false
	}
	p.controls = slices.Insert(p.controls, i, c)
	return true
}

// Remove deletes the control with the given id.
func (p *Page) Remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i := p.index(id); i >= 0 {
		p.controls = slices.Delete(p.controls, i, i+1)
	}
}

// Control returns the control with the given id.
func (p *Page) Control(id string) (*Control, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if i := p.index(id); i >= 0 {
		return p.controls[i], true
	}
	return nil, false
}

// FindByIdentifier returns the first control carrying ident.
func (p *Page) FindByIdentifier(ident string) (*Control, bool) {
	return p.Find(func(c *Control) bool { return c.HasIdentifier(ident) })
}

// FindByLabel returns the first control whose label is exactly label.
func (p *Page) FindByLabel(label string) (*Control, bool) {
	return p.Find(func(c *Control) bool { return c.Label == label })
}

// Find returns the first control matching pred.
func (p *Page) Find(pred func(*Control) bool) (*Control, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, c := range p.controls {
		if pred(c) {
			return c, true
		}
	}
	return nil, false
}

// Controls returns the controls in layout order.
func (p *Page) Controls() []*Control {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.controls)
}

// SetBadge updates the badge of a control. Unknown ids are ignored.
func (p *Page) SetBadge(id, badge string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i := p.index(id); i >= 0 {
		p.controls[i].Badge = badge
	}
}

// Loaded reports whether the page finished building its own UI, which
// is signalled by a control carrying IconReady.
func (p *Page) Loaded() bool {
	_, ok := p.FindByIdentifier(IconReady)
	return ok
}

func (p *Page) index(id string) int {
	return slices.IndexFunc(p.controls, func(c *Control) bool { return c.ID == id })
}
