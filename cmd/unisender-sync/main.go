package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "unisender-sync",
	Short: "Unisender sync - mirror local mailing data into Unisender",
	Long: `Unisender sync keeps fields, lists, subscribers, messages and campaigns in a
local database and pushes them to the Unisender API on demand.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("unisender-sync %s (built %s)\n", version, buildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "/etc/unisender-sync/config.yaml", "Path to configuration file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(fieldCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(subscriberCmd)
	rootCmd.AddCommand(messageCmd)
	rootCmd.AddCommand(campaignCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(quotaCmd)
	rootCmd.AddCommand(logCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
