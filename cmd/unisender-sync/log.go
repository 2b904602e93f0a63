package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/foxzi/unisender-sync/internal/models"
)

var (
	logEntity   string
	logEntityID int64
	logStatus   string
	logLimit    int
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the sync log",
	Long: `Show remote sync attempts, newest first.

Entities: fields, subscribe_lists, subscribers, email_messages, campaigns`,
	RunE: runLog,
}

func init() {
	logCmd.Flags().StringVar(&logEntity, "entity", "", "Filter by entity")
	logCmd.Flags().Int64Var(&logEntityID, "id", 0, "Filter by local record id")
	logCmd.Flags().StringVar(&logStatus, "status", "", "Filter by status (ok, error)")
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 50, "Maximum number of entries")
}

func runLog(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.syncLog.List(models.SyncLogFilter{
		Entity:   models.Entity(logEntity),
		EntityID: logEntityID,
		Status:   logStatus,
		Limit:    logLimit,
	})
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No sync log entries")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tENTITY\tID\tMETHOD\tSTATUS\tERROR")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Entity, e.EntityID, e.Method, e.Status, orDash(e.ErrorCode))
	}
	return w.Flush()
}
