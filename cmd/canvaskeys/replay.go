package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/canvaskeys/internal/app"
	"github.com/dshills/canvaskeys/internal/host"
	"github.com/dshills/canvaskeys/internal/input/keymap"
	"github.com/dshills/canvaskeys/internal/replay"
	"github.com/dshills/canvaskeys/internal/store"
)

var flagLatencyThreshold time.Duration

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Replay an event script against a headless page",
	Long: `Replay dispatches the events of a YAML script on a headless page with the
current bindings attached, then prints which events reached the page and
which toolbar controls were clicked.

The bindings are copied from the configured store; replay never writes
back to it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		script, err := replay.Load(args[0])
		if err != nil {
			return err
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg.Store.Watch = false

		bindings, err := snapshotBindings(cmd, cfg.StoreOptions())
		if err != nil {
			return err
		}

		surface := host.NewHeadless()
		a, err := app.New(cmd.Context(), cfg, surface, app.Options{Logger: stderrLogger(cfg), Store: bindings})
		if err != nil {
			return err
		}
		defer a.Shutdown()

		status, err := a.Bootstrap(cmd.Context())
		if err != nil {
			return err
		}

		trace := replay.Run(surface.Document(), script)
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Replay %s (keybinds %s)", args[0], status)))
		fmt.Fprintln(out, trace)
		fmt.Fprintln(out)

		clicks := surface.Clicks()
		if len(clicks) == 0 {
			fmt.Fprintln(out, noneStyle.Render("no controls clicked"))
		} else {
			fmt.Fprintf(out, "clicked: %s\n", keyStyle.Render(strings.Join(clicks, ", ")))
		}
		st := a.Gate().State()
		fmt.Fprintf(out, "pointer blocked=%v passthrough=%v\n", st.Blocked, st.ClickPassthrough)

		m := a.Dispatcher().Metrics().Snapshot()
		fmt.Fprintf(out, "%d/%d events reached the page, %d actions invoked, %d failed\n",
			trace.Delivered(), len(trace), m.Invocations, m.Failures)

		health := a.Dispatcher().Metrics().HealthCheck(flagLatencyThreshold)
		style := keyStyle
		if !health.Healthy {
			style = warnStyle
		}
		fmt.Fprintf(out, "dispatch %s (peak %s, threshold %s)\n",
			style.Render(health.Message), health.PeakLatency, health.LatencyThreshold)
		return nil
	},
}

func init() {
	replayCmd.Flags().DurationVar(&flagLatencyThreshold, "latency-threshold", 16*time.Millisecond,
		"Peak key dispatch latency reported as unhealthy")
}

// snapshotBindings copies the stored bindings into memory so that
// migrations and repairs during replay stay out of the user's store.
func snapshotBindings(cmd *cobra.Command, opts store.Options) (*store.MemoryStore, error) {
	src, err := store.Open(cmd.Context(), opts)
	if err != nil {
		return nil, app.NewComponentError("store", "open", err)
	}
	defer src.Close()
	return store.CopyToMemory(cmd.Context(), src, keymap.StorageKeys()...)
}
