// Package main is the entry point for canvaskeys.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

// Flags shared by every command.
var (
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "canvaskeys",
	Short: "Configurable keyboard shortcuts for a canvas drawing page",
	Long: `canvaskeys binds keyboard keys to canvas toolbar actions, pins the
pointer for line drawing and keeps the bindings in a local store.

Examples:
  canvaskeys run                        # Open the terminal canvas
  canvaskeys bindings list              # Show every action and its keys
  canvaskeys bindings set zoomIn = +    # Replace the keys of an action
  canvaskeys replay session.yaml        # Replay recorded events`,
	Version:       fmt.Sprintf("%s (%s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default "+defaultConfigHint()+")")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug/info/warn/error)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(bindingsCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
