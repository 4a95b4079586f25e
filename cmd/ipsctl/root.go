package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
)

// logger receives library diagnostics (overlap warnings, per-record debug).
var logger = initialLogger

var initialLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// numbers formats counts and sizes with thousands separators.
var numbers = message.NewPrinter(language.English)

var rootCmd = &cobra.Command{
	Use:   "ipsctl",
	Short: "Apply, inspect, and create IPS binary patches",
	Long: `ipsctl applies IPS patches to ROM images and other binary files,
inspects and validates patch files, and creates patches by diffing two images.
A patch is checked against the target in full before any byte is written.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(os.Stderr)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// initLogger wires the library logger to w at a level chosen by the global
// flags. Logs are JSON when --json is set or w is not a terminal.
func initLogger(w io.Writer) {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if jsonOut || !isTerminal(w) {
		logger = slog.New(slog.NewJSONHandler(w, opts))
		return
	}
	logger = slog.New(slog.NewTextHandler(w, opts))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// formatSize renders a byte count the way info and apply report sizes.
func formatSize(n int64) string {
	switch {
	case n < 1024:
		return numbers.Sprintf("%d bytes", n)
	case n < 1024*1024:
		return numbers.Sprintf("%.1f KB (%d bytes)", float64(n)/1024, n)
	default:
		return numbers.Sprintf("%.1f MB (%d bytes)", float64(n)/(1024*1024), n)
	}
}
