package keymap

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/canvaskeys/internal/action"
	"github.com/dshills/canvaskeys/internal/input/key"
	"github.com/dshills/canvaskeys/internal/store"
)

// ErrUnknownAction is returned for action ids missing from the catalog.
var ErrUnknownAction = errors.New("unknown action")

// Logger receives registry diagnostics.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Registry owns the binding map for one session.
type Registry struct {
	mu sync.RWMutex

	catalog    *action.Catalog
	store      store.Store
	bindings   BindingMap
	persister  *Persister
	migrations []Migration
	logger     Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(l Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithMigrations replaces the storage migrations run by Load.
func WithMigrations(m []Migration) Option {
	return func(r *Registry) {
		r.migrations = m
	}
}

// NewRegistry creates a registry over catalog, persisting to st.
// Until Load is called it holds the catalog defaults.
func NewRegistry(catalog *action.Catalog, st store.Store, opts ...Option) *Registry {
	r := &Registry{
		catalog:    catalog,
		store:      st,
		bindings:   BindingMap(catalog.Defaults()),
		migrations: DefaultMigrations(),
		logger:     nopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.persister = NewPersister(st, StorageKey, r.logger)
	return r
}

// Catalog returns the action catalog.
func (r *Registry) Catalog() *action.Catalog {
	return r.catalog
}

// Load runs the storage migrations and reads the persisted map. Missing
// data yields the catalog defaults. On a read error the registry keeps the
// defaults and the error is returned.
func (r *Registry) Load(ctx context.Context) (BindingMap, error) {
	applied, err := RunMigrations(ctx, r.store, r.migrations)
	for _, name := range applied {
		r.logger.Debug("applied binding migration %s", name)
	}
	if err != nil {
		r.logger.Error("binding migrations: %v", err)
	}

	m, loadErr := r.read(ctx)

	r.mu.Lock()
	r.bindings = m
	out := m.Clone()
	r.mu.Unlock()

	if loadErr != nil {
		return out, loadErr
	}
	return out, err
}

// Reload re-reads the persisted map without running migrations.
// It is used when the store changes underneath the registry.
func (r *Registry) Reload(ctx context.Context) error {
	m, err := r.read(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.bindings = m
	r.mu.Unlock()
	return nil
}

// read loads the current map, repairing legacy entries and adding defaults
// for catalog actions the stored map does not mention.
func (r *Registry) read(ctx context.Context) (BindingMap, error) {
	raw, found, err := r.store.Get(ctx, StorageKey)
	if err != nil {
		return BindingMap(r.catalog.Defaults()), fmt.Errorf("reading bindings: %w", err)
	}
	if !found {
		return BindingMap(r.catalog.Defaults()), nil
	}

	res, err := decode(raw)
	if err != nil {
		r.logger.Warn("stored bindings unreadable, using defaults: %v", err)
		return BindingMap(r.catalog.Defaults()), nil
	}
	for _, id := range res.Skipped {
		r.logger.Warn("ignoring malformed binding for %s", id)
	}

	m := res.Bindings
	repaired := len(res.Upgraded) > 0
	for _, a := range r.catalog.Actions() {
		if _, ok := m[a.ID]; !ok {
			m[a.ID] = a.DefaultKeys
			repaired = true
		}
	}
	if repaired {
		r.schedule(m)
	}
	return m, nil
}

// Get returns the labels bound to id, or an empty list.
func (r *Registry) Get(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bindings.Keys(id)
}

// Snapshot returns a copy of the whole map.
func (r *Registry) Snapshot() BindingMap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bindings.Clone()
}

// SetKeys replaces the labels bound to id and persists in the background.
// Space characters become "Space"; empty and repeated labels are dropped.
func (r *Registry) SetKeys(id string, keys []string) error {
	if !r.catalog.Has(id) {
		return fmt.Errorf("%w: %s", ErrUnknownAction, id)
	}

	r.mu.Lock()
	r.bindings[id] = cleanKeys(keys)
	snapshot := r.bindings.Clone()
	r.mu.Unlock()

	r.schedule(snapshot)
	return nil
}

// ToggleKey removes k from id if bound (ignoring case) and appends it
// otherwise. "Escape" is reserved and clears every label of id.
// It returns the new label list.
func (r *Registry) ToggleKey(id, k string) ([]string, error) {
	if !r.catalog.Has(id) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, id)
	}

	r.mu.Lock()
	keys := cloneKeys(r.bindings[id])
	switch label := key.Label(k); {
	case label == key.Escape:
		keys = []string{}
	case label == "":
	default:
		if i := key.IndexFold(keys, label); i >= 0 {
			keys = append(keys[:i], keys[i+1:]...)
		} else {
			keys = append(keys, label)
		}
	}
	r.bindings[id] = keys
	snapshot := r.bindings.Clone()
	r.mu.Unlock()

	r.schedule(snapshot)
	return cloneKeys(keys), nil
}

// RevertToDefaults replaces the whole map with the catalog defaults.
func (r *Registry) RevertToDefaults() {
	r.mu.Lock()
	r.bindings = BindingMap(r.catalog.Defaults())
	snapshot := r.bindings.Clone()
	r.mu.Unlock()

	r.schedule(snapshot)
}

// Match returns the first catalog action bound to label, ignoring case.
func (r *Registry) Match(label string) (action.Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.catalog.Actions() {
		if key.ContainsFold(r.bindings[a.ID], label) {
			return a, true
		}
	}
	return action.Action{}, false
}

// Conflicts returns every normalized label bound to more than one action,
// with the action ids in catalog order. Match resolves these to the first.
func (r *Registry) Conflicts() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owners := make(map[string][]string)
	for _, a := range r.catalog.Actions() {
		for _, k := range r.bindings[a.ID] {
			n := key.Normalize(k)
			if len(owners[n]) > 0 && owners[n][len(owners[n])-1] == a.ID {
				continue
			}
			owners[n] = append(owners[n], a.ID)
		}
	}

	out := make(map[string][]string)
	for label, ids := range owners {
		if len(ids) > 1 {
			out[label] = ids
		}
	}
	return out
}

// Flush blocks until every scheduled write has reached the store.
func (r *Registry) Flush() {
	r.persister.Flush()
}

// Close flushes pending writes and stops the background writer.
// It does not close the store.
func (r *Registry) Close() {
	r.persister.Close()
}

func (r *Registry) schedule(m BindingMap) {
	data, err := encode(m)
	if err != nil {
		r.logger.Error("%v", err)
		return
	}
	r.persister.Schedule(data)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
