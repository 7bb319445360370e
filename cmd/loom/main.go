package main

import (
	"fmt"
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
  ╦  ╔═╗╔═╗╔╦╗
  ║  ║ ║║ ║║║║
  ╩═╝╚═╝╚═╝╩ ╩
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "loom",
		Short: "Reactive template binding for Go",
		Long: `Loom binds tagged markup templates to live observable stores.

Templates interleave literal markup with interpolated values; every
value position becomes a placeholder backed by a store, and changing
a store updates exactly the DOM locations bound to it.

The CLI renders template files against JSON values and serves them
for live preview.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		renderCmd(),
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
