package terminal

import (
	"sort"
	"sync"
	"time"

	"github.com/dshills/canvaskeys/internal/dom"
)

// KeyBridge synthesizes key releases for a keyboard that only reports
// presses.
type KeyBridge struct {
	mu      sync.Mutex
	timeout time.Duration
	emit    func(*dom.Event)
	deliver func(func())
	held    map[string]*heldKey
	gen     uint64
}

type heldKey struct {
	timer *time.Timer
	gen   uint64
}

// NewKeyBridge creates a bridge that emits keyboard events through emit.
// A key is released after timeout without a repeat press.
func NewKeyBridge(timeout time.Duration, emit func(*dom.Event)) *KeyBridge {
	return &KeyBridge{
		timeout: timeout,
		emit:    emit,
		deliver: func(f func()) { f() },
		held:    make(map[string]*heldKey),
	}
}

// SetDeliver sets how expired timers get back to the event loop. The
// function receives the release to run; the default runs it on the timer
// goroutine.
func (b *KeyBridge) SetDeliver(deliver func(func())) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deliver = deliver
}

// Press reports a key press. The first press of a held key emits a
// keydown; later ones emit repeat keydowns and push the release back.
func (b *KeyBridge) Press(k string) {
	b.mu.Lock()
	b.gen++
	gen := b.gen
	h, repeat := b.held[k]
	if repeat {
		h.timer.Stop()
		h.gen = gen
	} else {
		h = &heldKey{gen: gen}
		b.held[k] = h
	}
	deliver := b.deliver
	h.timer = time.AfterFunc(b.timeout, func() {
		deliver(func() { b.expire(k, gen) })
	})
	b.mu.Unlock()

	b.emit(&dom.Event{Type: dom.KeyDown, Key: k, Repeat: repeat})
}

// Release emits a keyup for k if it is held.
func (b *KeyBridge) Release(k string) {
	b.mu.Lock()
	h, ok := b.held[k]
	if ok {
		h.timer.Stop()
		delete(b.held, k)
	}
	b.mu.Unlock()

	if ok {
		b.emit(&dom.Event{Type: dom.KeyUp, Key: k})
	}
}

// ReleaseAll releases every held key, in sorted order.
func (b *KeyBridge) ReleaseAll() {
	for _, k := range b.Held() {
		b.Release(k)
	}
}

// Held returns the held keys in sorted order.
func (b *KeyBridge) Held() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]string, 0, len(b.held))
	for k := range b.held {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// expire releases k unless it was pressed again after the timer started.
func (b *KeyBridge) expire(k string, gen uint64) {
	b.mu.Lock()
	h, ok := b.held[k]
	if !ok || h.gen != gen {
		b.mu.Unlock()
		return
	}
	delete(b.held, k)
	b.mu.Unlock()

	b.emit(&dom.Event{Type: dom.KeyUp, Key: k})
}
