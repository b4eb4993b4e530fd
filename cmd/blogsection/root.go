package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "blogsection",
	Short: "Server-rendered blog section",
	Long:  "blogsection renders the landing page blog section from the dashboard blog API and optionally serves that API from PostgreSQL.",
	RunE:  runServer,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("blogsection %s (commit: %s)\n", version, commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a config file (.json, .yaml or .toml)")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(importCmd)
}
