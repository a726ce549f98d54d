// Package cmd wires the CLI surface over the decoding packages. Every
// subcommand opens its inputs read-only.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

var rootCmd = &cobra.Command{
	Use:   "cratedex",
	Short: "Cratedex: read-only decoder for DJ device database exports",
	Long: `Cratedex decodes the paged database export and the section-tagged
analysis files written to DJ export media, and exposes the contents
through lookups, a line protocol and a SQLite dump.`,
	SilenceUsage: true,
}

// newLogger builds the stderr logger shared by all subcommands.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
