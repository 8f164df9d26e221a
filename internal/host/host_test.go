package host

import (
	"errors"
	"testing"

	"github.com/dshills/canvaskeys/internal/action"
)

type clickCounter map[string]int

func (cc clickCounter) control(id, label string, idents ...string) *Control {
	return &Control{
		ID:          id,
		Label:       label,
		Identifiers: idents,
		Click:       func() { cc[id]++ },
	}
}

func newToolbar(cc clickCounter) *Page {
	p := NewPage()
	p.Add(cc.control("paint", "Paint", IconPaint))
	p.Add(cc.control("zoom-in", LabelZoomIn))
	p.Add(cc.control("zoom-out", LabelZoomOut))
	p.Add(cc.control("eraser", "Eraser", IconEraser))
	p.Add(cc.control("picker", "Picker", IconColorPicker))
	p.Add(cc.control("opacity", "Opacity", IconOpacityActive))
	return p
}

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Warn(msg string, args ...any) {
	l.warnings = append(l.warnings, msg)
}

func TestInvokerClicksControls(t *testing.T) {
	cc := clickCounter{}
	page := newToolbar(cc)
	inv := NewInvoker(page, DefaultLocators(page), nil)

	tests := []struct {
		id      string
		control string
	}{
		{action.ActionsUI, "paint"},
		{action.ZoomIn, "zoom-in"},
		{action.ZoomOut, "zoom-out"},
		{action.Eraser, "eraser"},
		{action.ColorPicker, "picker"},
		{action.Opacity, "opacity"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			before := cc[tt.control]
			if !inv.Invoke(tt.id, action.PhasePress) {
				t.Fatalf("Invoke(%s) = false", tt.id)
			}
			if cc[tt.control] != before+1 {
				t.Errorf("%s clicks = %d, want %d", tt.control, cc[tt.control], before+1)
			}
		})
	}
}

func TestInvokerOpacityAlternatives(t *testing.T) {
	cc := clickCounter{}
	page := NewPage()
	page.Add(cc.control("opacity-off", "Opacity", IconOpacity))
	page.Add(cc.control("opacity-on", "Opacity", IconOpacityActive))
	inv := NewInvoker(page, DefaultLocators(page), nil)

	inv.Invoke(action.Opacity, action.PhasePress)
	inv.Invoke(action.Opacity, action.PhaseRelease)
	if cc["opacity-off"] != 2 || cc["opacity-on"] != 0 {
		t.Errorf("clicks = %v, want first identifier to win", cc)
	}

	page.Remove("opacity-off")
	inv.Invoke(action.Opacity, action.PhasePress)
	if cc["opacity-on"] != 1 {
		t.Errorf("clicks = %v, want fallback identifier", cc)
	}
}

func TestInvokerLookupFailure(t *testing.T) {
	logger := &recordingLogger{}
	page := NewPage()
	inv := NewInvoker(page, DefaultLocators(page), logger)

	if inv.Invoke(action.ZoomIn, action.PhasePress) {
		t.Error("Invoke() = true with empty page")
	}
	if _, err := inv.Locate(action.Eraser); !errors.Is(err, ErrControlNotFound) {
		t.Errorf("Locate(eraser) error = %v, want ErrControlNotFound", err)
	}
	if _, err := inv.Locate(action.PointerPin); !errors.Is(err, ErrNoLocator) {
		t.Errorf("Locate(mousemove) error = %v, want ErrNoLocator", err)
	}
	if len(logger.warnings) != 1 {
		t.Errorf("warnings = %v, want 1", logger.warnings)
	}

	page.Add(&Control{ID: "zoom-in", Label: LabelZoomIn})
	if inv.Invoke(action.ZoomIn, action.PhasePress) {
		t.Error("Invoke() = true for control without Click")
	}
}

func TestPageInsertBefore(t *testing.T) {
	page := NewPage()
	page.Add(&Control{ID: "a"})
	page.Add(&Control{ID: SettingsAnchorID})

	if !page.InsertBefore(&Control{ID: SettingsControlID}, SettingsAnchorID) {
		t.Fatal("InsertBefore() = false with anchor present")
	}
	if got := ids(page); got != "a,keybinds,palette-notes" {
		t.Errorf("layout = %s", got)
	}

	if page.InsertBefore(&Control{ID: SettingsControlID}, "missing") {
		t.Error("InsertBefore() = true with anchor missing")
	}
	if got := ids(page); got != "a,palette-notes,keybinds" {
		t.Errorf("fallback layout = %s", got)
	}
}

func TestPageBadgeAndLoaded(t *testing.T) {
	page := NewPage()
	page.Add(&Control{ID: "k"})
	page.SetBadge("k", "!")
	page.SetBadge("missing", "?")

	c, _ := page.Control("k")
	if c.Badge != "!" {
		t.Errorf("Badge = %q, want !", c.Badge)
	}
	if page.Loaded() {
		t.Error("new page is loaded")
	}
	page.Add(&Control{ID: "logo", Identifiers: []string{IconReady}})
	if !page.Loaded() {
		t.Error("Loaded() = false with ready marker present")
	}
}

func TestPageAddReplaces(t *testing.T) {
	page := NewPage()
	page.Add(&Control{ID: "x", Label: "old"})
	page.Add(&Control{ID: "y"})
	page.Add(&Control{ID: "x", Label: "new"})

	if got := ids(page); got != "x,y" {
		t.Errorf("layout = %s", got)
	}
	if c, _ := page.Control("x"); c.Label != "new" {
		t.Errorf("Label = %q, want new", c.Label)
	}
}

func ids(p *Page) string {
	s := ""
	for i, c := range p.Controls() {
		if i > 0 {
			s += ","
		}
		s += c.ID
	}
	return s
}

func TestHeadlessToolbar(t *testing.T) {
	h := NewHeadless()
	if !h.Page().Loaded() {
		t.Fatal("headless page not loaded")
	}

	inv := NewInvoker(h.Page(), DefaultLocators(h.Page()), nil)
	for _, id := range []string{action.ZoomIn, action.Opacity, action.Opacity, action.ActionsUI} {
		if !inv.Invoke(id, action.PhasePress) {
			t.Errorf("Invoke(%s) = false", id)
		}
	}

	want := []string{ControlZoomIn, ControlOpacity, ControlOpacity, ControlPaint}
	got := h.Clicks()
	if len(got) != len(want) {
		t.Fatalf("Clicks() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Clicks()[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	h.ToggleSettings()
	if !h.SettingsVisible() {
		t.Error("settings not visible after toggle")
	}
	if _, ok := h.Page().Control(SettingsAnchorID); !ok {
		t.Error("settings anchor missing from toolbar")
	}
}
