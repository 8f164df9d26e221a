// Package action defines the fixed catalog of bindable actions and the
// contract used to trigger them on the host.
package action

// Action ids. The ids double as persisted keys, so they must never change.
const (
	ActionsUI   = "action"
	LineDrawing = "line_drawing"
	ZoomIn      = "zoomIn"
	ZoomOut     = "zoomOut"
	Eraser      = "eraser"
	ColorPicker = "colorPicker"
	Opacity     = "opacity"
	PointerPin  = "mousemove"
	PointerHold = "mousemove_hold"
)

// Action is a static catalog entry.
type Action struct {
	// ID is the unique, persisted identifier.
	ID string

	// Name is the display label.
	Name string

	// DefaultKeys are the key labels bound when nothing is persisted.
	DefaultKeys []string

	// Hold marks actions that stay active only while their key is held.
	// They are invoked once on press and once on release.
	Hold bool
}

// Catalog is an ordered, immutable list of actions.
// Order matters: binding lookup scans it front to back.
type Catalog struct {
	actions []Action
	index   map[string]int
}

// NewCatalog creates a catalog from the given actions.
// Later duplicates of an id are ignored.
func NewCatalog(actions ...Action) *Catalog {
	c := &Catalog{
		actions: make([]Action, 0, len(actions)),
		index:   make(map[string]int, len(actions)),
	}
	for _, a := range actions {
		if _, dup := c.index[a.ID]; dup {
			continue
		}
		a.DefaultKeys = cloneKeys(a.DefaultKeys)
		c.index[a.ID] = len(c.actions)
		c.actions = append(c.actions, a)
	}
	return c
}

// DefaultCatalog returns the catalog shipped with canvaskeys.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Action{ID: ActionsUI, Name: "Actions UI", DefaultKeys: []string{"a"}},
		Action{ID: LineDrawing, Name: "Line drawing", DefaultKeys: []string{"l"}},
		Action{ID: ZoomIn, Name: "Zoom In", DefaultKeys: []string{"=", "+"}},
		Action{ID: ZoomOut, Name: "Zoom Out", DefaultKeys: []string{"-"}},
		Action{ID: Eraser, Name: "Eraser", DefaultKeys: []string{"e", "x"}},
		Action{ID: ColorPicker, Name: "Color Picker", DefaultKeys: []string{"p", "z"}},
		Action{ID: Opacity, Name: "Opacity (hold)", DefaultKeys: []string{"v"}, Hold: true},
		Action{ID: PointerPin, Name: "Pin pointer", DefaultKeys: []string{}},
		Action{ID: PointerHold, Name: "Pin pointer (hold)", DefaultKeys: []string{}, Hold: true},
	)
}

// Actions returns the actions in catalog order.
func (c *Catalog) Actions() []Action {
	out := make([]Action, len(c.actions))
	for i, a := range c.actions {
		a.DefaultKeys = cloneKeys(a.DefaultKeys)
		out[i] = a
	}
	return out
}

// Len returns the number of actions.
func (c *Catalog) Len() int {
	return len(c.actions)
}

// Lookup returns the action with the given id.
func (c *Catalog) Lookup(id string) (Action, bool) {
	i, ok := c.index[id]
	if !ok {
		return Action{}, false
	}
	a := c.actions[i]
	a.DefaultKeys = cloneKeys(a.DefaultKeys)
	return a, true
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Defaults returns a fresh binding map built from every action's
// DefaultKeys. Callers own the result.
func (c *Catalog) Defaults() map[string][]string {
	m := make(map[string][]string, len(c.actions))
	for _, a := range c.actions {
		m[a.ID] = cloneKeys(a.DefaultKeys)
	}
	return m
}

func cloneKeys(keys []string) []string {
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}
