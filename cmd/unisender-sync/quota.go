package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/foxzi/unisender-sync/internal/quota"
)

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "API call quota commands",
}

var quotaShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show configured limits and current usage",
	RunE:  runQuotaShow,
}

func init() {
	quotaCmd.AddCommand(quotaShowCmd)
}

func runQuotaShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.limiter == nil {
		fmt.Println("Call quota is disabled")
		return nil
	}

	ctx := context.Background()
	cfg := a.cfg.Quota.Config

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tKEY\tHOUR\tDAY")

	show := func(level quota.Level, key string, limit *quota.LimitConfig) error {
		if limit == nil {
			return nil
		}
		stats, err := a.limiter.GetStats(ctx, level, key)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", level, stats.Key,
			usage(stats.HourlyCount, limit.CallsPerHour),
			usage(stats.DailyCount, limit.CallsPerDay))
		return nil
	}

	if err := show(quota.LevelGlobal, "global", cfg.Global); err != nil {
		return err
	}
	if err := show(quota.LevelAPIKey, a.cfg.Unisender.APIKey, cfg.APIKey); err != nil {
		return err
	}

	methods := make([]string, 0, len(cfg.Methods))
	for method := range cfg.Methods {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	for _, method := range methods {
		if err := show(quota.LevelMethod, method, cfg.Methods[method]); err != nil {
			return err
		}
	}

	return w.Flush()
}

func usage(count, limit int) string {
	if limit == 0 {
		return fmt.Sprintf("%d/unlimited", count)
	}
	return fmt.Sprintf("%d/%d", count, limit)
}
