package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foxzi/unisender-sync/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	RunE:  runConfigValidate,
}

func init() {
	configCmd.AddCommand(configValidateCmd)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	fmt.Println("Configuration is valid")
	fmt.Printf("  Database path: %s\n", cfg.Database.Path)
	fmt.Printf("  API endpoint: %s/%s/api\n", cfg.Unisender.BaseURL, cfg.Unisender.Lang)
	fmt.Printf("  API timeout: %s\n", cfg.Unisender.Timeout)
	fmt.Printf("  Call quota: %v\n", cfg.Quota.Enabled)
	if cfg.Quota.Enabled {
		fmt.Printf("    Store: %s\n", cfg.Quota.Path)
		fmt.Printf("    Method limits: %d\n", len(cfg.Quota.Methods))
	}
	fmt.Printf("  Metrics: %v\n", cfg.Metrics.Enabled)
	if cfg.Metrics.Enabled {
		fmt.Printf("    Listen: %s%s\n", cfg.Metrics.ListenAddr, cfg.Metrics.Path)
	}
	fmt.Printf("  Tracker: every %s, batch %d\n", cfg.Tracker.PollInterval, cfg.Tracker.BatchSize)
	fmt.Printf("  Sync events: %v\n", cfg.Events.Enabled)
	if cfg.Events.Enabled {
		fmt.Printf("    Queue: %s\n", cfg.Events.Queue)
	}

	return nil
}
