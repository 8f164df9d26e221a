package terminal

import (
	"sync"
	"testing"
	"time"

	"github.com/dshills/canvaskeys/internal/dom"
)

type eventLog struct {
	mu     sync.Mutex
	events []*dom.Event
}

func (l *eventLog) emit(ev *dom.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) snapshot() []*dom.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*dom.Event(nil), l.events...)
}

func TestKeyBridgeRepeatAndManualRelease(t *testing.T) {
	var log eventLog
	b := NewKeyBridge(time.Hour, log.emit)

	b.Press("v")
	b.Press("v")
	b.Press("e")
	if got := b.Held(); len(got) != 2 || got[0] != "e" || got[1] != "v" {
		t.Errorf("Held() = %v, want [e v]", got)
	}

	b.Release("v")
	b.Release("v")
	b.ReleaseAll()

	want := []struct {
		typ    dom.EventType
		key    string
		repeat bool
	}{
		{dom.KeyDown, "v", false},
		{dom.KeyDown, "v", true},
		{dom.KeyDown, "e", false},
		{dom.KeyUp, "v", false},
		{dom.KeyUp, "e", false},
	}
	got := log.snapshot()
	if len(got) != len(want) {
		t.Fatalf("emitted %d events, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Type != w.typ || got[i].Key != w.key || got[i].Repeat != w.repeat {
			t.Errorf("event %d = %v, want %s %q repeat=%v", i, got[i], w.typ, w.key, w.repeat)
		}
	}
	if len(b.Held()) != 0 {
		t.Errorf("Held() = %v after ReleaseAll", b.Held())
	}
}

func TestKeyBridgeTimeoutRelease(t *testing.T) {
	var log eventLog
	b := NewKeyBridge(20*time.Millisecond, log.emit)

	released := make(chan struct{}, 1)
	b.SetDeliver(func(f func()) {
		f()
		released <- struct{}{}
	})

	b.Press("v")
	select {
	case <-released:
	case <-time.After(2 * time.Second):
		t.Fatal("key was never released")
	}

	got := log.snapshot()
	if len(got) != 2 || got[1].Type != dom.KeyUp || got[1].Key != "v" {
		t.Errorf("events = %v, want keydown then keyup", got)
	}
}

func TestKeyBridgeStaleExpiry(t *testing.T) {
	var log eventLog
	b := NewKeyBridge(time.Hour, log.emit)

	b.Press("v")
	b.mu.Lock()
	stale := b.held["v"].gen
	b.mu.Unlock()
	b.Press("v")

	b.expire("v", stale)
	if len(b.Held()) != 1 {
		t.Fatal("stale timer released a re-pressed key")
	}

	b.mu.Lock()
	current := b.held["v"].gen
	b.mu.Unlock()
	b.expire("v", current)
	if len(b.Held()) != 0 {
		t.Error("current timer did not release the key")
	}
	if got := log.snapshot(); got[len(got)-1].Type != dom.KeyUp {
		t.Errorf("last event = %v, want keyup", got[len(got)-1])
	}
}
