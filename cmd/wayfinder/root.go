package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wayfinder",
	Short: "Wayfinder is a declarative navigation coordinator",
	Long: `Wayfinder drives a headless navigation tree of tabs, coordinators and presented
stacks from scenario files, and exposes it over HTTP or MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("deeplinks", "", "YAML or JSON file whose deeplinks section replaces the scenario's")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for requirement states (default: in memory)")
	rootCmd.PersistentFlags().String("redis-prefix", "wayfinder", "Key prefix used in Redis")
}
