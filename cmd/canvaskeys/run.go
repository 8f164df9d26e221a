package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/canvaskeys/internal/app"
	"github.com/dshills/canvaskeys/internal/config"
	"github.com/dshills/canvaskeys/internal/host/terminal"
)

var flagLogFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the terminal canvas with the key bindings attached",
	Long: `Open a canvas page in the terminal. The toolbar holds the host controls
the bindings trigger; the Keybinds control opens the settings panel.

Terminals report no key releases: a key counts as held until it stops
repeating for terminal.release_timeout. Press Ctrl+C to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logger, closeLog, err := fileLogger(cfg)
		if err != nil {
			return err
		}
		defer closeLog()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("creating screen: %w", err)
		}
		h := terminal.New(screen, terminal.Options{
			ReleaseTimeout: cfg.Terminal.ReleaseTimeout.Std(),
			Sentinel:       cfg.Pointer.SentinelButtons,
			Logger:         logger.WithComponent("terminal"),
		})

		a, err := app.New(ctx, cfg, h, app.Options{Logger: logger})
		if err != nil {
			return err
		}
		defer func() {
			if err := a.Shutdown(); err != nil {
				logger.Error("shutdown: %v", err)
			}
		}()

		if err := h.Init(a.Registry()); err != nil {
			return err
		}
		defer h.Close()

		status, err := a.Bootstrap(ctx)
		if err != nil {
			return err
		}
		h.SetStatus("keybinds %s", status)

		if err := h.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Log file (default "+filepath.Join(config.Dir(), "canvaskeys.log")+")")
}

// fileLogger opens the log file. The terminal owns stderr while running.
func fileLogger(cfg *config.Config) (*app.Logger, func(), error) {
	path := flagLogFile
	if path == "" {
		path = filepath.Join(config.Dir(), "canvaskeys.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	lc := app.DefaultLoggerConfig()
	lc.Level = app.ParseLogLevel(cfg.LogLevel)
	lc.Output = f
	return app.NewLogger(lc), func() { f.Close() }, nil
}

// stderrLogger returns the logger used by the one-shot commands.
func stderrLogger(cfg *config.Config) *app.Logger {
	lc := app.DefaultLoggerConfig()
	lc.Level = app.ParseLogLevel(cfg.LogLevel)
	return app.NewLogger(lc)
}
