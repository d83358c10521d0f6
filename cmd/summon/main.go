package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┬ ┬┌┬┐┌┬┐┌─┐┌┐┌
  └─┐│ │││││││ ││││
  └─┘└─┘┴ ┴┴ ┴└─┘┘└┘
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "summon",
		Short: "Composable UI with server-side rendering",
		Long: `summon composes UI trees from Go functions and renders them on
the server.

  • Positional memoization with remembered state
  • Scoped recomposition and lifecycle-aware effects
  • Deterministic HTML rendering with hydration state
  • Live pages over WebSocket`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file or project directory (default: nearest summon.json or summon.yaml)")

	rootCmd.AddCommand(
		serveCmd(&configPath),
		renderCmd(&configPath),
		pagesCmd(),
		initCmd(),
		versionCmd(),
	)
	return rootCmd
}

// printBanner prints the ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
