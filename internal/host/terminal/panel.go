package terminal

import (
	"fmt"
	"sync"

	"github.com/dshills/canvaskeys/internal/action"
	"github.com/dshills/canvaskeys/internal/dom"
	"github.com/dshills/canvaskeys/internal/input/key"
)

// Bindings is the registry surface the settings panel edits.
type Bindings interface {
	Catalog() *action.Catalog
	Get(id string) []string
	ToggleKey(id, k string) ([]string, error)
	RevertToDefaults()
}

// Logger receives host diagnostics.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type panelRow struct {
	action action.Action
	input  *dom.Element
}

// Panel is the binding settings panel: one row per action plus a revert
// button. Focusing a row captures the next key press and toggles it on
// that action; Escape clears the row.
type Panel struct {
	mu sync.Mutex

	bindings Bindings
	doc      *dom.Document
	logger   Logger

	visible bool
	rows    []panelRow
	focused int
}

// NewPanel creates a hidden panel listing every catalog action.
func NewPanel(b Bindings, doc *dom.Document, logger Logger) *Panel {
	p := &Panel{
		bindings: b,
		doc:      doc,
		logger:   logger,
		focused:  -1,
	}
	for _, a := range b.Catalog().Actions() {
		input := dom.NewElement("input")
		input.ID = "keybind-" + a.ID
		p.rows = append(p.rows, panelRow{action: a, input: input})
	}
	return p
}

// Attach registers the panel's key capture listener on its document.
func (p *Panel) Attach() (detach func()) {
	id := p.doc.AddEventListener(dom.KeyDown, p.onKey, dom.ListenerOptions{})
	return func() { p.doc.RemoveEventListener(id) }
}

// Toggle shows or hides the panel. Hiding drops any row focus.
func (p *Panel) Toggle() {
	p.mu.Lock()
	p.visible = !p.visible
	visible := p.visible
	p.mu.Unlock()

	if !visible {
		p.Blur()
	}
}

// Visible reports whether the panel is shown.
func (p *Panel) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

// Len returns the number of action rows.
func (p *Panel) Len() int {
	return len(p.rows)
}

// Focus starts key capture on row i.
func (p *Panel) Focus(i int) {
	if i < 0 || i >= len(p.rows) {
		return
	}
	p.mu.Lock()
	p.focused = i
	p.mu.Unlock()
	p.doc.Focus(p.rows[i].input)
}

// Blur ends key capture.
func (p *Panel) Blur() {
	p.mu.Lock()
	had := p.focused >= 0
	p.focused = -1
	p.mu.Unlock()
	if had {
		p.doc.Focus(nil)
	}
}

// Revert restores every action's default keys.
func (p *Panel) Revert() {
	p.bindings.RevertToDefaults()
	p.Blur()
}

// Lines renders the panel, one string per row, followed by the revert
// button.
func (p *Panel) Lines() []string {
	p.mu.Lock()
	focused := p.focused
	p.mu.Unlock()

	out := make([]string, 0, len(p.rows)+2)
	out = append(out, "Keybinds")
	for i, r := range p.rows {
		value := key.Join(p.bindings.Get(r.action.ID))
		if i == focused {
			value = "Press a key..."
		}
		out = append(out, fmt.Sprintf("%-18s %s", r.action.Name, value))
	}
	out = append(out, "[ Revert to Defaults ]")
	return out
}

func (p *Panel) onKey(ev *dom.Event) {
	row := p.rowFor(ev.Target)
	if row == nil {
		return
	}
	ev.PreventDefault()
	ev.StopPropagation()

	keys, err := p.bindings.ToggleKey(row.action.ID, ev.Key)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("editing %s: %v", row.action.ID, err)
		}
	} else if p.logger != nil {
		p.logger.Debug("%s bound to %s", row.action.ID, key.Join(keys))
	}
	p.Blur()
}

func (p *Panel) rowFor(el *dom.Element) *panelRow {
	for i := range p.rows {
		if p.rows[i].input == el {
			return &p.rows[i]
		}
	}
	return nil
}
