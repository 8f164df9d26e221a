package host

import (
	"sync"

	"github.com/dshills/canvaskeys/internal/dom"
)

// Toolbar control ids.
const (
	ControlLogo    = "logo"
	ControlPaint   = "paint"
	ControlZoomIn  = "zoom-in"
	ControlZoomOut = "zoom-out"
	ControlEraser  = "eraser"
	ControlPicker  = "color-picker"
	ControlOpacity = "opacity"
)

// DefaultToolbar returns the canvas toolbar in layout order. Every
// control's Click calls onClick with the control id. The settings anchor
// comes last.
func DefaultToolbar(onClick func(id string)) []*Control {
	c := func(id, label string, idents ...string) *Control {
		return &Control{
			ID:          id,
			Label:       label,
			Identifiers: idents,
			Click:       func() { onClick(id) },
		}
	}
	return []*Control{
		c(ControlLogo, "canvas", IconReady),
		c(ControlPaint, "Paint", IconPaint),
		c(ControlZoomIn, LabelZoomIn),
		c(ControlZoomOut, LabelZoomOut),
		c(ControlEraser, "Eraser", IconEraser),
		c(ControlPicker, "Picker", IconColorPicker),
		c(ControlOpacity, "Opacity", IconOpacity),
		c(SettingsAnchorID, "Notes"),
	}
}

// Surface is a host page canvaskeys attaches to.
type Surface interface {
	// Document is where keyboard and pointer listeners attach.
	Document() *dom.Document

	// Page holds the host controls.
	Page() *Page

	// ToggleSettings shows or hides the binding settings panel.
	ToggleSettings()
}

// Headless is a Surface without a screen. Its toolbar records clicks
// instead of acting on them.
type Headless struct {
	doc  *dom.Document
	page *Page

	mu       sync.Mutex
	clicks   []string
	settings bool
}

// NewHeadless creates a surface whose page already holds the default
// toolbar.
func NewHeadless() *Headless {
	h := &Headless{
		doc:  dom.NewDocument(),
		page: NewPage(),
	}
	for _, c := range DefaultToolbar(h.record) {
		h.page.Add(c)
	}
	return h
}

func (h *Headless) record(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clicks = append(h.clicks, id)
}

// Document implements Surface.
func (h *Headless) Document() *dom.Document { return h.doc }

// Page implements Surface.
func (h *Headless) Page() *Page { return h.page }

// ToggleSettings implements Surface.
func (h *Headless) ToggleSettings() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.settings = !h.settings
}

// SettingsVisible reports whether the settings panel is shown.
func (h *Headless) SettingsVisible() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.settings
}

// Clicks returns the ids of the clicked controls, oldest first.
func (h *Headless) Clicks() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.clicks...)
}
