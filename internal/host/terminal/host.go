package terminal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/canvaskeys/internal/dom"
	"github.com/dshills/canvaskeys/internal/host"
	"github.com/dshills/canvaskeys/internal/input/mouse"
)

const panelWidth = 40

// Options configures a Host.
type Options struct {
	// ReleaseTimeout is the silence after which a held key is released.
	ReleaseTimeout time.Duration

	// Sentinel is the button mask of synthetic pointer events.
	Sentinel int

	// Logger receives host diagnostics. Nil discards them.
	Logger Logger
}

// Host is a terminal canvas page. It implements host.Surface.
type Host struct {
	screen tcell.Screen
	doc    *dom.Document
	page   *host.Page
	canvas *Canvas
	panel  *Panel
	bridge *KeyBridge
	logger Logger

	pointer pointerTracker

	canvasEl *dom.Element
	panelEl  *dom.Element
	buttons  map[string]*dom.Element
	spans    []span

	mu      sync.Mutex
	status  string
	quit    bool
	detachs []func()
}

// span is the screen extent of a toolbar control.
type span struct {
	x0, x1 int
	id     string
}

// New creates a host drawing on screen. Call Init before Run.
func New(screen tcell.Screen, opts Options) *Host {
	if opts.Sentinel == 0 {
		opts.Sentinel = mouse.DefaultSentinel
	}
	if opts.ReleaseTimeout <= 0 {
		opts.ReleaseTimeout = 250 * time.Millisecond
	}

	doc := dom.NewDocument()
	h := &Host{
		screen:   screen,
		doc:      doc,
		page:     host.NewPage(),
		logger:   opts.Logger,
		canvasEl: &dom.Element{Tag: "canvas", ID: "board"},
		panelEl:  &dom.Element{Tag: "div", ID: "keybinds-panel"},
		buttons:  make(map[string]*dom.Element),
	}
	h.canvas = NewCanvas(h.canvasEl, opts.Sentinel)
	h.bridge = NewKeyBridge(opts.ReleaseTimeout, func(ev *dom.Event) { doc.Dispatch(ev) })
	h.bridge.SetDeliver(h.post)
	return h
}

// Document implements host.Surface.
func (h *Host) Document() *dom.Document { return h.doc }

// Page implements host.Surface.
func (h *Host) Page() *host.Page { return h.page }

// ToggleSettings implements host.Surface.
func (h *Host) ToggleSettings() {
	if h.panel != nil {
		h.panel.Toggle()
	}
}

// Canvas returns the drawing surface.
func (h *Host) Canvas() *Canvas { return h.canvas }

// Panel returns the settings panel, or nil before Init.
func (h *Host) Panel() *Panel { return h.panel }

// SetStatus sets the text of the status line.
func (h *Host) SetStatus(format string, args ...any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = fmt.Sprintf(format, args...)
}

// Init initializes the screen, builds the toolbar and the settings panel
// over bindings, and attaches the page's own listeners.
func (h *Host) Init(bindings Bindings) error {
	if err := h.screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	h.screen.EnableMouse()
	h.screen.EnableFocus()

	h.panel = NewPanel(bindings, h.doc, h.logger)

	h.detachs = append(h.detachs,
		h.canvas.Attach(h.doc),
		h.panel.Attach(),
	)
	click := h.doc.AddEventListener(dom.Click, h.onClick, dom.ListenerOptions{})
	h.detachs = append(h.detachs, func() { h.doc.RemoveEventListener(click) })

	for _, c := range host.DefaultToolbar(h.canvas.Apply) {
		h.page.Add(c)
	}
	return nil
}

// Close restores the terminal.
func (h *Host) Close() {
	h.bridge.ReleaseAll()
	for _, d := range h.detachs {
		d()
	}
	h.screen.Fini()
}

// Run processes terminal events until ctx is done or the user presses
// Ctrl+C.
func (h *Host) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		h.post(func() { h.setQuit() })
	})
	defer stop()

	h.draw()
	for !h.quitting() {
		ev := h.screen.PollEvent()
		if ev == nil {
			return nil
		}
		h.handle(ev)
		h.draw()
	}
	return ctx.Err()
}

// post runs fn on the event loop.
func (h *Host) post(fn func()) {
	if err := h.screen.PostEvent(tcell.NewEventInterrupt(fn)); err != nil && h.logger != nil {
		h.logger.Warn("posting event: %v", err)
	}
}

func (h *Host) setQuit() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.quit = true
}

func (h *Host) quitting() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.quit
}

// handle translates one terminal event into page events.
func (h *Host) handle(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		if e.Key() == tcell.KeyCtrlC {
			h.setQuit()
			return
		}
		if k, ok := keyValue(e); ok {
			h.bridge.Press(k)
		}

	case *tcell.EventMouse:
		for _, pe := range h.pointer.translate(e, h.target) {
			h.doc.Dispatch(pe)
		}

	case *tcell.EventInterrupt:
		if fn, ok := e.Data().(func()); ok {
			fn()
		}

	case *tcell.EventFocus:
		if !e.Focused {
			h.bridge.ReleaseAll()
		}

	case *tcell.EventResize:
		h.screen.Sync()
	}
}

// target returns the element under a screen position.
func (h *Host) target(p mouse.Position) *dom.Element {
	w, _ := h.screen.Size()
	if p.Y == 0 {
		for _, s := range h.spans {
			if p.X >= s.x0 && p.X < s.x1 {
				return h.button(s.id)
			}
		}
		return h.doc.Body()
	}
	if h.panel.Visible() && p.X >= w-panelWidth {
		return h.panelEl
	}
	return h.canvasEl
}

func (h *Host) button(id string) *dom.Element {
	el, ok := h.buttons[id]
	if !ok {
		el = dom.NewElement("button")
		el.ID = id
		h.buttons[id] = el
	}
	return el
}

// onClick performs the page's own click handling for the toolbar and the
// settings panel.
func (h *Host) onClick(ev *dom.Event) {
	switch {
	case ev.Target == h.panelEl:
		row := ev.Y - 2
		switch {
		case row >= 0 && row < h.panel.Len():
			h.panel.Focus(row)
		case row == h.panel.Len():
			h.panel.Revert()
		}
	case ev.Target != nil && ev.Target.Tag == "button":
		if c, ok := h.page.Control(ev.Target.ID); ok && c.Click != nil {
			c.Click()
		}
	}
}

// draw renders the page.
func (h *Host) draw() {
	h.screen.Clear()
	w, ht := h.screen.Size()

	h.drawToolbar()

	st := h.canvas.State()
	ink := tcell.StyleDefault.Foreground(tcell.ColorAqua)
	for p, r := range st.Cells {
		if p.Y > 0 && p.Y < ht-1 {
			h.screen.SetContent(p.X, p.Y, r, nil, ink)
		}
	}
	if st.Cursor.Y > 0 && st.Cursor.Y < ht-1 {
		h.screen.SetContent(st.Cursor.X, st.Cursor.Y, '+', nil, tcell.StyleDefault.Reverse(true))
	}

	if h.panel.Visible() {
		x := w - panelWidth
		box := tcell.StyleDefault.Background(tcell.ColorDarkSlateGray)
		for y := 1; y < ht-1; y++ {
			for i := x; i < w; i++ {
				h.screen.SetContent(i, y, ' ', nil, box)
			}
		}
		for i, line := range h.panel.Lines() {
			drawText(h.screen, x+1, 1+i, box, line)
		}
	}

	h.mu.Lock()
	status := h.status
	h.mu.Unlock()
	info := fmt.Sprintf(" %s  zoom %dx  opacity %s  held %s  %s",
		st.Tool, st.Zoom, onOff(st.Opacity), strings.Join(h.bridge.Held(), ","), status)
	drawText(h.screen, 0, ht-1, tcell.StyleDefault.Reverse(true), padRight(info, w))

	h.screen.Show()
}

func (h *Host) drawToolbar() {
	h.spans = h.spans[:0]
	x := 0
	for _, c := range h.page.Controls() {
		label := "[" + c.Label
		if c.Badge != "" {
			label += " " + c.Badge
		}
		label += "]"

		style := tcell.StyleDefault
		if c.Badge != "" {
			style = style.Foreground(tcell.ColorRed)
		}
		drawText(h.screen, x, 0, style, label)
		n := len([]rune(label))
		h.spans = append(h.spans, span{x0: x, x1: x + n, id: c.ID})
		x += n + 1
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func padRight(s string, w int) string {
	if n := len([]rune(s)); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
