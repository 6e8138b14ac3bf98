package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routetree/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

// projectFlags are shared by every command that loads a route
// configuration.
type projectFlags struct {
	config string
	routes string
	deny   []string
}

func newRootCmd() *cobra.Command {
	var flags projectFlags

	rootCmd := &cobra.Command{
		Use:   "routetree",
		Short: "Parse, resolve and navigate URL trees against a route configuration",
		Long: `routetree maps URLs onto trees of activated routes.

It parses URLs with matrix params and named outlets, applies redirects,
recognizes routes and runs navigations the way an application router does.
The serve command exposes a router over HTTP for inspection.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "Path to routetree.json (default: nearest one above the working directory)")
	rootCmd.PersistentFlags().StringVarP(&flags.routes, "routes", "r", "", "Route configuration file (overrides routes.file)")

	rootCmd.PersistentFlags().StringSliceVar(&flags.deny, "deny", nil, "Guard ids that reject navigations")

	rootCmd.AddCommand(
		initCmd(),
		parseCmd(),
		resolveCmd(&flags),
		navigateCmd(&flags),
		serveCmd(&flags),
		versionCmd(),
	)

	return rootCmd
}

// success prints a success message.
func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", fmt.Sprintf(format, args...))
}
