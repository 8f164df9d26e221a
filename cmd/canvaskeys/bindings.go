package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dshills/canvaskeys/internal/action"
	"github.com/dshills/canvaskeys/internal/app"
	"github.com/dshills/canvaskeys/internal/input/key"
	"github.com/dshills/canvaskeys/internal/input/keymap"
	"github.com/dshills/canvaskeys/internal/store"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	noneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

var bindingsCmd = &cobra.Command{
	Use:     "bindings",
	Aliases: []string{"keys"},
	Short:   "Show and edit key bindings",
}

// withRegistry opens the configured store, loads the bindings and runs fn.
// Pending writes are flushed before the store closes.
func withRegistry(cmd *cobra.Command, fn func(r *keymap.Registry) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := stderrLogger(cfg).WithComponent("keymap")

	st, err := store.Open(cmd.Context(), cfg.StoreOptions())
	if err != nil {
		return app.NewComponentError("store", "open", err)
	}
	defer st.Close()

	r := keymap.NewRegistry(action.DefaultCatalog(), st, keymap.WithLogger(logger))
	defer r.Close()
	if _, err := r.Load(cmd.Context()); err != nil {
		logger.Warn("loading bindings: %v", err)
	}
	return fn(r)
}

var bindingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every action and its keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(cmd, func(r *keymap.Registry) error {
			renderBindings(cmd.OutOrStdout(), r)
			return nil
		})
	},
}

func renderBindings(w io.Writer, r *keymap.Registry) {
	actions := r.Catalog().Actions()
	idWidth, nameWidth := len("ACTION"), len("NAME")
	for _, a := range actions {
		idWidth = max(idWidth, len(a.ID))
		nameWidth = max(nameWidth, len(a.Name))
	}
	col := func(s lipgloss.Style, width int, text string) string {
		return s.Width(width + 2).Render(text)
	}

	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
		col(headerStyle, idWidth, "ACTION"),
		col(headerStyle, nameWidth, "NAME"),
		headerStyle.Render("KEYS"),
	))
	for _, a := range actions {
		keys := r.Get(a.ID)
		rendered := noneStyle.Render(key.Join(keys))
		if len(keys) > 0 {
			rendered = keyStyle.Render(key.Join(keys))
		}
		if a.Hold {
			rendered += idStyle.Render("  (hold)")
		}
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
			col(idStyle, idWidth, a.ID),
			col(lipgloss.NewStyle(), nameWidth, a.Name),
			rendered,
		))
	}

	conflicts := r.Conflicts()
	if len(conflicts) == 0 {
		return
	}
	labels := make([]string, 0, len(conflicts))
	for label := range conflicts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	fmt.Fprintln(w)
	for _, label := range labels {
		ids := conflicts[label]
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%q is bound to %s; %s wins",
			label, strings.Join(ids, ", "), ids[0])))
	}
}

var bindingsSetCmd = &cobra.Command{
	Use:   "set <action> [keys...]",
	Short: "Replace the keys of an action (no keys clears it)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(cmd, func(r *keymap.Registry) error {
			if err := r.SetKeys(args[0], args[1:]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], key.Join(r.Get(args[0])))
			return nil
		})
	},
}

var bindingsToggleCmd = &cobra.Command{
	Use:   "toggle <action> <key>",
	Short: "Add a key to an action, or remove it if already bound (Escape clears)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(cmd, func(r *keymap.Registry) error {
			keys, err := r.ToggleKey(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], key.Join(keys))
			return nil
		})
	},
}

var bindingsRevertCmd = &cobra.Command{
	Use:   "revert",
	Short: "Restore the default keys of every action",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(cmd, func(r *keymap.Registry) error {
			r.RevertToDefaults()
			renderBindings(cmd.OutOrStdout(), r)
			return nil
		})
	},
}

func init() {
	bindingsCmd.AddCommand(bindingsListCmd)
	bindingsCmd.AddCommand(bindingsSetCmd)
	bindingsCmd.AddCommand(bindingsToggleCmd)
	bindingsCmd.AddCommand(bindingsRevertCmd)
}
