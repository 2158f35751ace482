// Package main is the entry point of the sprout route inspector.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// Environment variables backing the global flags.
const (
	envConfigPath = "SPROUT_CONFIG"
	envLogLevel   = "SPROUT_LOG_LEVEL"
	envLogFormat  = "SPROUT_LOG_FORMAT"
)

// globalFlags holds the persistent command line flags.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "sprout",
		Short: "URL routing and parameter resolution",
		Long: `sprout compiles a route table from a YAML configuration and resolves
request paths into controller, action, format and parameters.

Without --config only the built-in fallback routes are served.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", getEnvOrDefault(envConfigPath, ""),
		"Path to configuration file")
	pf.StringVar(&flags.logLevel, "log-level", getEnvOrDefault(envLogLevel, ""),
		"Log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", getEnvOrDefault(envLogFormat, ""),
		"Log format (json, console)")

	rootCmd.AddCommand(
		routesCmd(flags),
		matchCmd(flags),
		serveCmd(flags),
		versionCmd(),
	)

	return rootCmd
}
