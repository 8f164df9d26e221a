package replay

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/canvaskeys/internal/dom"
)

const script = `
focus: canvas
events:
  - {type: keydown, key: e}
  - {type: KeyUp, key: e}
  - {type: mousemove, x: 3, y: 4, buttons: 1}
  - {type: click, target: button, x: 3, y: 4}
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(script))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.Focus != "canvas" || len(s.Events) != 4 {
		t.Fatalf("Parse() = %+v", s)
	}
	if s.Events[1].Type != "keyup" {
		t.Errorf("type not normalized: %q", s.Events[1].Type)
	}
	if e := s.Events[2]; e.X != 3 || e.Y != 4 || e.Buttons != 1 {
		t.Errorf("mousemove = %+v", e)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "events: [\n"},
		{"unknown type", "events:\n  - {type: wheel}\n"},
		{"key without value", "events:\n  - {type: keydown}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, ErrInvalidScript) {
				t.Errorf("Parse() error = %v, want ErrInvalidScript", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(s.Events) != 4 {
		t.Errorf("Load() events = %d, want 4", len(s.Events))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) error = nil")
	}
}

func TestRun(t *testing.T) {
	doc := dom.NewDocument()

	// Consume "e" keydowns and answer clicks with a synthetic move.
	doc.AddEventListener(dom.KeyDown, func(ev *dom.Event) {
		if ev.Key == "e" {
			ev.PreventDefault()
			ev.StopPropagation()
		}
	}, dom.ListenerOptions{})
	doc.AddEventListener(dom.Click, func(ev *dom.Event) {
		doc.Dispatch(&dom.Event{Type: dom.MouseMove, X: ev.X, Y: ev.Y, Buttons: 1337, Synthetic: true})
	}, dom.ListenerOptions{Capture: true})

	s, err := Parse([]byte(script))
	if err != nil {
		t.Fatal(err)
	}
	trace := Run(doc, s)

	want := []struct {
		delivered bool
		cancelled bool
		injected  int
	}{
		{false, true, 0},
		{true, false, 0},
		{true, false, 0},
		{true, false, 1},
	}
	if len(trace) != len(want) {
		t.Fatalf("trace has %d steps, want %d", len(trace), len(want))
	}
	for i, w := range want {
		st := trace[i]
		if st.Delivered != w.delivered || st.Cancelled != w.cancelled || st.Injected != w.injected {
			t.Errorf("step %d = %+v, want %+v", i, st, w)
		}
	}
	if trace.Delivered() != 3 {
		t.Errorf("Delivered() = %d, want 3", trace.Delivered())
	}
	if trace[0].Event.Target == nil || trace[0].Event.Target.Tag != "canvas" {
		t.Errorf("keydown target = %v, want focused canvas", trace[0].Event.Target)
	}
	if trace[3].Event.Target.Tag != "button" {
		t.Errorf("click target = %v, want button", trace[3].Event.Target)
	}
	if !strings.Contains(trace.String(), "consumed") {
		t.Errorf("String() = %q", trace.String())
	}

	for _, typ := range []dom.EventType{dom.KeyDown, dom.KeyUp, dom.MouseMove, dom.Click} {
		if n := doc.ListenerCount(typ); n > 1 {
			t.Errorf("%s listeners = %d after Run", typ, n)
		}
	}
}
