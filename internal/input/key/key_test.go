package key

import (
	"testing"

	"github.com/dshills/canvaskeys/internal/dom"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{" ", "Space"},
		{"a", "a"},
		{"A", "A"},
		{"+", "+"},
		{"Escape", "Escape"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Label(tt.raw); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{" ", "space"},
		{"Space", "space"},
		{"V", "v"},
		{"ArrowUp", "arrowup"},
		{"=", "="},
	}

	for _, tt := range tests {
		if got := Normalize(tt.raw); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestEqualAndIndexFold(t *testing.T) {
	if !Equal("V", "v") {
		t.Error("Equal(V, v) = false")
	}
	if !Equal(" ", "space") {
		t.Error(`Equal(" ", space) = false`)
	}
	if Equal("a", "b") {
		t.Error("Equal(a, b) = true")
	}

	keys := []string{"e", "X", "Space"}
	tests := []struct {
		k    string
		want int
	}{
		{"E", 0},
		{"x", 1},
		{" ", 2},
		{"q", -1},
	}
	for _, tt := range tests {
		if got := IndexFold(keys, tt.k); got != tt.want {
			t.Errorf("IndexFold(%v, %q) = %d, want %d", keys, tt.k, got, tt.want)
		}
	}
	if ContainsFold(nil, "a") {
		t.Error("ContainsFold(nil, a) = true")
	}
}

func TestJoin(t *testing.T) {
	if got := Join(nil); got != "None" {
		t.Errorf("Join(nil) = %q, want None", got)
	}
	if got := Join([]string{"=", "+"}); got != "=, +" {
		t.Errorf("Join() = %q, want %q", got, "=, +")
	}
}

func TestFromDOM(t *testing.T) {
	input := dom.NewElement("input")

	ev, ok := FromDOM(&dom.Event{Type: dom.KeyDown, Key: " ", Repeat: true, Target: input})
	if !ok {
		t.Fatal("FromDOM(keydown) reported false")
	}
	if ev.Type != Down || !ev.Repeat || ev.Label() != "Space" || ev.Normalized() != "space" {
		t.Errorf("FromDOM(keydown) = %+v", ev)
	}
	if !ev.FromEditable() {
		t.Error("FromEditable() = false for input target")
	}

	up, ok := FromDOM(&dom.Event{Type: dom.KeyUp, Key: "v"})
	if !ok || up.Type != Up {
		t.Errorf("FromDOM(keyup) = %+v, %v", up, ok)
	}
	if up.FromEditable() {
		t.Error("FromEditable() = true for nil target")
	}

	if _, ok := FromDOM(&dom.Event{Type: dom.Click}); ok {
		t.Error("FromDOM(click) reported true")
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{Event{Type: Down, Key: "a"}, "keydown a"},
		{Event{Type: Up, Key: " "}, "keyup Space"},
		{Event{Type: Down, Key: "-", Repeat: true}, "keydown - (repeat)"},
	}
	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
