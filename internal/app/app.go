// Package app wires canvaskeys together: the binding registry over its
// store, the key dispatcher and the pointer gate in front of the host
// invoker, all listening on one host surface.
package app

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/canvaskeys/internal/action"
	"github.com/dshills/canvaskeys/internal/config"
	"github.com/dshills/canvaskeys/internal/host"
	"github.com/dshills/canvaskeys/internal/input"
	"github.com/dshills/canvaskeys/internal/input/keymap"
	"github.com/dshills/canvaskeys/internal/input/mouse"
	"github.com/dshills/canvaskeys/internal/ready"
	"github.com/dshills/canvaskeys/internal/store"
)

// Settings control shown in the host toolbar.
const (
	SettingsLabel = "Keybinds"
	ErrorBadge    = "!"
)

// watcher is implemented by stores that can report external changes.
type watcher interface {
	Watch(ctx context.Context, onChange func()) error
}

// Options configures an App.
type Options struct {
	// Logger overrides the logger built from the configuration.
	Logger *Logger

	// Catalog overrides action.DefaultCatalog.
	Catalog *action.Catalog

	// Store overrides the store opened from the configuration. The App
	// does not close a store it did not open.
	Store store.Store

	// Hooks observe every dispatched key event.
	Hooks []input.Hook
}

// App is one canvaskeys instance attached to a host surface.
type App struct {
	cfg     *config.Config
	surface host.Surface
	logger  *Logger
	runID   uuid.UUID

	store      store.Store
	ownsStore  bool
	registry   *keymap.Registry
	invoker    *host.Invoker
	gate       *mouse.Gate
	router     *mouse.Router
	dispatcher *input.Dispatcher

	mu      sync.Mutex
	status  Status
	started bool
	closed  bool
	detach  func()
	cancel  context.CancelFunc
}

// New builds the component graph: store, registry, host invoker, pointer
// gate and key dispatcher. Persisted bindings are loaded here; a failed
// load keeps the defaults. Nothing listens on the surface until Bootstrap.
func New(ctx context.Context, cfg *config.Config, surface host.Surface, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{
		cfg:     cfg,
		surface: surface,
		runID:   uuid.New(),
		status:  StatusStarting,
	}

	a.logger = opts.Logger
	if a.logger == nil {
		lc := DefaultLoggerConfig()
		lc.Level = ParseLogLevel(cfg.LogLevel)
		a.logger = NewLogger(lc)
	}
	session := input.NewSession()
	a.logger = a.logger.WithFields(map[string]any{
		"run":     a.runID.String()[:8],
		"session": session.ID.String()[:8],
	})

	a.store = opts.Store
	if a.store == nil {
		st, err := store.Open(ctx, cfg.StoreOptions())
		if err != nil {
			return nil, NewComponentError("store", "open", err)
		}
		a.store = st
		a.ownsStore = true
	}
	if fs, ok := a.store.(*store.FileStore); ok {
		fs.SetLogger(a.logger.WithComponent("store"))
	}

	catalog := opts.Catalog
	if catalog == nil {
		catalog = action.DefaultCatalog()
	}
	a.registry = keymap.NewRegistry(catalog, a.store, keymap.WithLogger(a.logger.WithComponent("keymap")))
	if _, err := a.registry.Load(ctx); err != nil {
		a.logger.Warn("loading bindings: %v", err)
	}

	page := surface.Page()
	a.invoker = host.NewInvoker(page, host.DefaultLocators(page), a.logger.WithComponent("host"))
	a.gate = mouse.NewGate(surface.Document(),
		mouse.WithSentinel(cfg.Pointer.SentinelButtons),
		mouse.WithGateLogger(a.logger.WithComponent("pointer")),
	)
	a.router = mouse.NewRouter(a.gate, a.invoker)

	dopts := []input.Option{
		input.WithLogger(a.logger.WithComponent("input")),
		input.WithSession(session),
	}
	for _, h := range opts.Hooks {
		dopts = append(dopts, input.WithHook(h))
	}
	a.dispatcher = input.NewDispatcher(a.registry, a.router, dopts...)

	surface.Document().SetLogger(a.logger.WithComponent("dom"))
	return a, nil
}

// Registry returns the binding registry.
func (a *App) Registry() *keymap.Registry { return a.registry }

// Dispatcher returns the key dispatcher.
func (a *App) Dispatcher() *input.Dispatcher { return a.dispatcher }

// Gate returns the pointer gate.
func (a *App) Gate() *mouse.Gate { return a.gate }

// RunID identifies this instance in logs.
func (a *App) RunID() uuid.UUID { return a.runID }

// Status returns the attachment status.
func (a *App) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *App) setStatus(s Status) {
	a.mu.Lock()
	a.status = s
	a.mu.Unlock()
	a.logger.Debug("status %s", s)
}

// Bootstrap waits for the host page, adds the settings control and starts
// listening for keys. A page that never becomes ready still gets the
// control, marked with an error badge. A missing anchor places the control
// at the end of the toolbar.
//
// The returned error is non-nil only when ctx ends first, Shutdown runs
// while the page is being polled, or the App was already started or
// closed.
func (a *App) Bootstrap(ctx context.Context) (Status, error) {
	a.mu.Lock()
	switch {
	case a.closed:
		a.mu.Unlock()
		return a.Status(), ErrClosed
	case a.started:
		a.mu.Unlock()
		return a.Status(), ErrAlreadyStarted
	}
	a.started = true
	// life outlives ctx and ends at Shutdown.
	life, cancel := context.WithCancel(context.WithoutCancel(ctx))
	a.cancel = cancel
	a.mu.Unlock()

	pollCtx, stopPoll := context.WithCancel(ctx)
	defer stopPoll()
	defer context.AfterFunc(life, stopPoll)()

	page := a.surface.Page()
	res := ready.Poll(pollCtx, page.Loaded, a.cfg.ReadyOptions())

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return a.status, ErrClosed
	}
	if res.Err != nil && !errors.Is(res.Err, ready.ErrNotReady) {
		return a.status, NewOperationError("bootstrap", "host page", res.Err)
	}

	settings := &host.Control{
		ID:    host.SettingsControlID,
		Label: SettingsLabel,
		Click: a.surface.ToggleSettings,
	}
	anchored := page.InsertBefore(settings, host.SettingsAnchorID)

	status := StatusReady
	switch {
	case !res.Ready:
		status = StatusError
		page.SetBadge(host.SettingsControlID, ErrorBadge)
		a.logger.Error("host page not ready: %v", res.Err)
	case !anchored:
		status = StatusDegraded
		a.logger.Warn("anchor %s missing, settings attached at fallback position", host.SettingsAnchorID)
	default:
		a.logger.Info("attached after %d attempts", res.Attempts)
	}

	a.detach = a.dispatcher.Attach(a.surface.Document())
	a.watch(life)
	a.status = status
	a.logger.Debug("status %s", status)
	return status, nil
}

// watch reloads bindings when a watchable store changes underneath us.
func (a *App) watch(ctx context.Context) {
	w, ok := a.store.(watcher)
	if !ok || !a.cfg.Store.Watch {
		return
	}
	err := w.Watch(ctx, func() {
		if err := a.registry.Reload(ctx); err != nil {
			a.logger.Warn("reloading bindings: %v", err)
			return
		}
		a.logger.Info("bindings reloaded from store")
	})
	if err != nil {
		a.logger.Warn("watching store: %v", err)
	}
}

// Shutdown detaches from the surface, releases the pointer gate, flushes
// pending binding writes and closes the store. It is safe to call more
// than once.
func (a *App) Shutdown() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	detach, cancel := a.detach, a.cancel
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if detach != nil {
		detach()
	}
	off := false
	a.gate.Toggle(&off, false)
	a.dispatcher.Reset()
	a.registry.Close()

	var err error
	if a.ownsStore {
		if cerr := a.store.Close(); cerr != nil {
			err = NewOperationError("close", "store", cerr)
		}
	}
	a.setStatus(StatusClosed)
	return err
}
