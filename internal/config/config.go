package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/canvaskeys/internal/input/mouse"
	"github.com/dshills/canvaskeys/internal/ready"
	"github.com/dshills/canvaskeys/internal/store"
)

// Duration is a time.Duration written as a Go duration string ("250ms").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the complete canvaskeys configuration.
type Config struct {
	// LogLevel is the minimum log level: debug, info, warn or error.
	LogLevel string `toml:"log_level"`

	Store    StoreConfig    `toml:"store"`
	Ready    ReadyConfig    `toml:"ready"`
	Pointer  PointerConfig  `toml:"pointer"`
	Terminal TerminalConfig `toml:"terminal"`
}

// StoreConfig selects where bindings persist.
type StoreConfig struct {
	// Backend is memory, file or sqlite.
	Backend string `toml:"backend"`
	// Path is the file or database path. A leading ~ expands to the home
	// directory.
	Path string `toml:"path"`
	// Watch reloads bindings when the file backend changes on disk.
	Watch bool `toml:"watch"`
}

// ReadyConfig bounds the wait for the host page.
type ReadyConfig struct {
	MaxAttempts int      `toml:"max_attempts"`
	Interval    Duration `toml:"interval"`
}

// PointerConfig configures the pointer gate.
type PointerConfig struct {
	// SentinelButtons is the button mask of synthetic pointer events.
	SentinelButtons int `toml:"sentinel_buttons"`
}

// TerminalConfig configures the terminal host.
type TerminalConfig struct {
	// ReleaseTimeout is the silence after which a held key is released.
	ReleaseTimeout Duration `toml:"release_timeout"`
}

// Default returns the default configuration.
func Default() *Config {
	ro := ready.DefaultOptions()
	return &Config{
		LogLevel: "info",
		Store: StoreConfig{
			Backend: string(store.BackendFile),
			Path:    DefaultStorePath(),
			Watch:   true,
		},
		Ready: ReadyConfig{
			MaxAttempts: ro.MaxAttempts,
			Interval:    Duration(ro.Interval),
		},
		Pointer: PointerConfig{
			SentinelButtons: mouse.DefaultSentinel,
		},
		Terminal: TerminalConfig{
			ReleaseTimeout: Duration(250 * time.Millisecond),
		},
	}
}

// Dir returns the canvaskeys configuration directory.
func Dir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "canvaskeys")
	}
	return ".canvaskeys"
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultStorePath returns the default binding file path.
func DefaultStorePath() string {
	return filepath.Join(Dir(), "keybinds.json")
}

// StoreOptions returns the store options described by c.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend: store.Backend(c.Store.Backend),
		Path:    expandHome(c.Store.Path),
	}
}

// ReadyOptions returns the readiness polling options described by c.
func (c *Config) ReadyOptions() ready.Options {
	return ready.Options{
		MaxAttempts: c.Ready.MaxAttempts,
		Interval:    c.Ready.Interval.Std(),
	}
}

// maxButtonMask is the largest mask a five-button pointer reports.
const maxButtonMask = 31

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}

// Validate checks every setting and returns all failures.
func (c *Config) Validate() error {
	var errs ValidationErrors
	fail := func(path, msg string, v any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
	}

	if !logLevels[c.LogLevel] {
		fail("log_level", "must be debug, info, warn or error", c.LogLevel)
	}
	switch store.Backend(c.Store.Backend) {
	case store.BackendMemory:
	case store.BackendFile, store.BackendSQLite:
		if c.Store.Path == "" {
			fail("store.path", fmt.Sprintf("required for the %s backend", c.Store.Backend), c.Store.Path)
		}
	default:
		fail("store.backend", "must be memory, file or sqlite", c.Store.Backend)
	}
	if c.Ready.MaxAttempts < 1 {
		fail("ready.max_attempts", "must be at least 1", c.Ready.MaxAttempts)
	}
	if c.Ready.Interval < 0 {
		fail("ready.interval", "must not be negative", c.Ready.Interval.Std())
	}
	if c.Pointer.SentinelButtons <= maxButtonMask {
		fail("pointer.sentinel_buttons", "must not collide with a real button mask", c.Pointer.SentinelButtons)
	}
	if c.Terminal.ReleaseTimeout <= 0 {
		fail("terminal.release_timeout", "must be positive", c.Terminal.ReleaseTimeout.Std())
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || len(path) > 1 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
