package keymap

import (
	"context"
	"sync"

	"github.com/dshills/canvaskeys/internal/store"
)

// Persister writes binding snapshots to a store in the background.
// Only the newest pending snapshot is written.
type Persister struct {
	store  store.Store
	key    string
	logger Logger

	mu      sync.Mutex
	cond    *sync.Cond
	pending []byte
	queued  uint64
	written uint64
	closed  bool

	wake chan struct{}
	done chan struct{}
}

// NewPersister starts a persister writing under key.
func NewPersister(st store.Store, key string, logger Logger) *Persister {
	p := &Persister{
		store:  st,
		key:    key,
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)
	go p.run()
	return p
}

// Schedule queues data for writing and returns immediately.
// Calls after Close are ignored.
func (p *Persister) Schedule(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.pending = data
	p.queued++

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Flush blocks until every snapshot scheduled before the call is written.
func (p *Persister) Flush() {
	p.mu.Lock()
	defer p.mu.Unlock()

	target := p.queued
	for p.written < target {
		p.cond.Wait()
	}
}

// Close writes any pending snapshot and stops the background writer.
func (p *Persister) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.done
		return
	}
	p.closed = true
	close(p.wake)
	p.mu.Unlock()

	<-p.done
}

func (p *Persister) run() {
	defer close(p.done)
	for range p.wake {
		p.drain()
	}
	p.drain()
}

// drain writes until nothing newer than the last write is queued.
func (p *Persister) drain() {
	for {
		p.mu.Lock()
		if p.written == p.queued {
			p.mu.Unlock()
			return
		}
		data, version := p.pending, p.queued
		p.mu.Unlock()

		if err := p.store.Set(context.Background(), p.key, data); err != nil && p.logger != nil {
			p.logger.Error("persisting %s: %v", p.key, err)
		}

		p.mu.Lock()
		p.written = version
		p.cond.Broadcast()
		p.mu.Unlock()
	}
}
