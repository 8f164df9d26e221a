package terminal

import (
	"sync"

	"github.com/dshills/canvaskeys/internal/dom"
	"github.com/dshills/canvaskeys/internal/host"
	"github.com/dshills/canvaskeys/internal/input/mouse"
)

// Tool is the active drawing tool.
type Tool uint8

const (
	// ToolPen paints cells.
	ToolPen Tool = iota
	// ToolEraser clears cells.
	ToolEraser
	// ToolPicker copies the ink under the pointer.
	ToolPicker
)

// String returns the tool name.
func (t Tool) String() string {
	switch t {
	case ToolEraser:
		return "eraser"
	case ToolPicker:
		return "picker"
	default:
		return "pen"
	}
}

const (
	minZoom = 1
	maxZoom = 8
)

// Ink runes painted into cells.
const (
	InkSolid  = '█'
	InkShaded = '▒'
)

// Canvas is the drawing surface. It only reacts to events targeting its
// element. Coordinates are screen cells.
type Canvas struct {
	mu sync.Mutex

	element  *dom.Element
	sentinel int

	tool     Tool
	zoom     int
	opacity  bool
	palette  bool
	ink      rune
	cursor   mouse.Position
	cells    map[mouse.Position]rune
	anchor   *mouse.Position
	lastDrag *mouse.Position
}

// NewCanvas creates an empty canvas listening for events on element.
func NewCanvas(element *dom.Element, sentinel int) *Canvas {
	return &Canvas{
		element:  element,
		sentinel: sentinel,
		zoom:     minZoom,
		ink:      InkSolid,
		cells:    make(map[mouse.Position]rune),
	}
}

// Attach registers the canvas as a bubbling mousemove and click listener.
func (c *Canvas) Attach(doc *dom.Document) (detach func()) {
	move := doc.AddEventListener(dom.MouseMove, c.onMove, dom.ListenerOptions{})
	click := doc.AddEventListener(dom.Click, c.onClick, dom.ListenerOptions{})
	return func() {
		doc.RemoveEventListener(move)
		doc.RemoveEventListener(click)
	}
}

// Apply performs the toolbar interaction of control id.
func (c *Canvas) Apply(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch id {
	case host.ControlPaint:
		c.palette = !c.palette
		c.tool = ToolPen
	case host.ControlZoomIn:
		c.zoom = min(c.zoom+1, maxZoom)
	case host.ControlZoomOut:
		c.zoom = max(c.zoom-1, minZoom)
	case host.ControlEraser:
		if c.tool == ToolEraser {
			c.tool = ToolPen
		} else {
			c.tool = ToolEraser
		}
	case host.ControlPicker:
		c.tool = ToolPicker
	case host.ControlOpacity:
		c.opacity = !c.opacity
	}
}

func (c *Canvas) onMove(ev *dom.Event) {
	if ev.Target != c.element {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := mouse.Position{X: ev.X, Y: ev.Y}
	c.cursor = p

	switch {
	case ev.Buttons == c.sentinel:
		// Synthetic moves extend a line from the previous anchor.
		from := p
		if c.anchor != nil {
			from = *c.anchor
		}
		c.stroke(from, p)
		c.anchor = &p
		c.lastDrag = nil
	case mouse.Buttons(ev.Buttons).Has(mouse.ButtonPrimary):
		from := p
		if c.lastDrag != nil {
			from = *c.lastDrag
		}
		c.stroke(from, p)
		c.lastDrag = &p
	default:
		c.lastDrag = nil
	}
}

func (c *Canvas) onClick(ev *dom.Event) {
	if ev.Target != c.element {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := mouse.Position{X: ev.X, Y: ev.Y}
	c.stroke(p, p)
}

// stroke applies the active tool along the line from a to b.
// Callers hold mu.
func (c *Canvas) stroke(a, b mouse.Position) {
	for _, p := range line(a, b) {
		switch c.tool {
		case ToolEraser:
			delete(c.cells, p)
		case ToolPicker:
			if r, ok := c.cells[p]; ok {
				c.ink = r
				c.tool = ToolPen
			}
			return
		default:
			if c.opacity {
				c.cells[p] = InkShaded
			} else {
				c.cells[p] = c.ink
			}
		}
	}
}

// line returns the cells from a to b inclusive (Bresenham).
func line(a, b mouse.Position) []mouse.Position {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := sign(b.X-a.X), sign(b.Y-a.Y)
	e := dx + dy

	out := make([]mouse.Position, 0, max(dx, -dy)+1)
	x, y := a.X, a.Y
	for {
		out = append(out, mouse.Position{X: x, Y: y})
		if x == b.X && y == b.Y {
			return out
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

// CanvasState is a snapshot of the canvas.
type CanvasState struct {
	Tool    Tool
	Zoom    int
	Opacity bool
	Palette bool
	Cursor  mouse.Position
	Cells   map[mouse.Position]rune
}

// State returns a snapshot of the canvas.
func (c *Canvas) State() CanvasState {
	c.mu.Lock()
	defer c.mu.Unlock()

	cells := make(map[mouse.Position]rune, len(c.cells))
	for p, r := range c.cells {
		cells[p] = r
	}
	return CanvasState{
		Tool:    c.tool,
		Zoom:    c.zoom,
		Opacity: c.opacity,
		Palette: c.palette,
		Cursor:  c.cursor,
		Cells:   cells,
	}
}
