package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/foxzi/unisender-sync/internal/models"
	"github.com/foxzi/unisender-sync/internal/syncer"
)

var (
	campaignName      string
	campaignMessageID int64
	campaignContacts  []int64
	campaignGroup     bool
)

var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Campaign commands",
}

var campaignAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a local campaign",
	RunE:  runCampaignAdd,
}

var campaignListCmd = &cobra.Command{
	Use:   "list",
	Short: "List local campaigns",
	RunE:  runCampaignList,
}

var campaignCreateCmd = &cobra.Command{
	Use:   "create <id>",
	Short: "Create the campaign in Unisender",
	Args:  cobra.ExactArgs(1),
	RunE:  runCampaignCreate,
}

var campaignDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete the local campaign",
	Args:  cobra.ExactArgs(1),
	RunE:  runCampaignDelete,
}

var campaignStatusCmd = &cobra.Command{
	Use:   "status <id>",
	Short: "Show remote status and delivery counts",
	Args:  cobra.ExactArgs(1),
	RunE:  runCampaignStatus,
}

var campaignLinksCmd = &cobra.Command{
	Use:   "links <id>",
	Short: "Show links visited by recipients",
	Args:  cobra.ExactArgs(1),
	RunE:  runCampaignLinks,
}

var campaignStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show local campaign counts by status",
	RunE:  runCampaignStats,
}

func init() {
	campaignAddCmd.Flags().StringVar(&campaignName, "name", "", "Campaign name")
	campaignAddCmd.Flags().Int64Var(&campaignMessageID, "message", 0, "Local email message id")
	campaignAddCmd.Flags().Int64SliceVar(&campaignContacts, "contact", nil, "Local subscriber id (repeatable)")
	campaignAddCmd.MarkFlagRequired("name")
	campaignAddCmd.MarkFlagRequired("message")

	campaignLinksCmd.Flags().BoolVar(&campaignGroup, "group", true, "Group visits by link")

	campaignCmd.AddCommand(campaignAddCmd)
	campaignCmd.AddCommand(campaignListCmd)
	campaignCmd.AddCommand(campaignCreateCmd)
	campaignCmd.AddCommand(campaignDeleteCmd)
	campaignCmd.AddCommand(campaignStatusCmd)
	campaignCmd.AddCommand(campaignLinksCmd)
	campaignCmd.AddCommand(campaignStatsCmd)
}

func runCampaignAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	m, err := a.messages.GetByID(campaignMessageID)
	if err != nil {
		return err
	}
	if m == nil {
		return notFound("message", campaignMessageID)
	}

	c := &models.Campaign{Name: campaignName, EmailMessageID: m.ID}
	if err := a.campaigns.Create(c); err != nil {
		return err
	}
	for _, subscriberID := range campaignContacts {
		if err := a.campaigns.AddContact(c.ID, subscriberID); err != nil {
			return err
		}
	}

	fmt.Printf("Campaign %d added: %s (%d contacts)\n", c.ID, c.Name, len(campaignContacts))
	return nil
}

func runCampaignList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	campaigns, err := a.campaigns.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMESSAGE\tSTATUS\tRECIPIENTS\tOK\tFAILED\tUNISENDER ID\tLAST ERROR")
	for _, c := range campaigns {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%d\t%d\t%d\t%d\t%s\n",
			c.ID, c.Name, c.EmailMessageID, orDash(c.Status),
			c.RecipientCount, c.SuccessCount, c.ErrorCount,
			c.UnisenderID, orDash(c.LastError))
	}
	return w.Flush()
}

func loadCampaign(a *app, arg string) (*models.Campaign, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	c, err := a.campaigns.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("campaign", id)
	}
	return c, nil
}

func runCampaignCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	c, err := loadCampaign(a, args[0])
	if err != nil {
		return err
	}
	if !c.EmailMessage.Synced() {
		return fmt.Errorf("message %d is not created in Unisender yet", c.EmailMessageID)
	}

	result, err := a.syncer.CreateCampaign(context.Background(), c)
	if err != nil {
		return err
	}
	if err := remoteResult("createCampaign", c.SyncState); err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("createCampaign returned no result")
	}

	fmt.Printf("Campaign %d created in Unisender with id %d\n", c.ID, result.CampaignID)
	fmt.Printf("  Status: %s\n", result.Status)
	fmt.Printf("  Recipients: %d\n", result.Count)
	return nil
}

func runCampaignDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	c, err := loadCampaign(a, args[0])
	if err != nil {
		return err
	}
	if err := a.campaigns.Delete(c.ID); err != nil {
		return err
	}

	fmt.Printf("Campaign %d deleted\n", c.ID)
	return nil
}

// remoteCampaign returns the status facade of a created campaign
func remoteCampaign(a *app, arg string) (*syncer.CampaignStatus, error) {
	c, err := loadCampaign(a, arg)
	if err != nil {
		return nil, err
	}
	if !c.Synced() {
		return nil, fmt.Errorf("campaign %d is not created in Unisender yet", c.ID)
	}
	return a.syncer.CampaignStatus(c.UnisenderID), nil
}

func statusResult(method string, cs *syncer.CampaignStatus) error {
	return remoteResult(method, models.SyncState{LastError: cs.LastError})
}

func runCampaignStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cs, err := remoteCampaign(a, args[0])
	if err != nil {
		return err
	}
	ctx := context.Background()

	status, err := cs.GetCampaignStatus(ctx)
	if err != nil {
		return err
	}
	if err := statusResult("getCampaignStatus", cs); err != nil {
		return err
	}

	stats, err := cs.GetCampaignAggregateStats(ctx)
	if err != nil {
		return err
	}
	if err := statusResult("getCampaignAggregateStats", cs); err != nil {
		return err
	}

	fmt.Printf("Campaign %d\n", cs.CampaignID)
	fmt.Printf("  Status: %s\n", status)
	if stats == nil {
		return nil
	}
	success, failed := syncer.CountDeliveries(stats)
	fmt.Printf("  Total: %d\n", stats.Total)
	fmt.Printf("  Delivered: %d\n", success)
	fmt.Printf("  Failed: %d\n", failed)

	codes := make([]string, 0, len(stats.Data))
	for code := range stats.Data {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nDELIVERY STATUS\tCOUNT")
	for _, code := range codes {
		fmt.Fprintf(w, "%s\t%d\n", code, stats.Data[code])
	}
	return w.Flush()
}

func runCampaignLinks(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cs, err := remoteCampaign(a, args[0])
	if err != nil {
		return err
	}

	links, err := cs.GetVisitedLinks(context.Background(), campaignGroup)
	if err != nil {
		return err
	}
	if err := statusResult("getVisitedLinks", cs); err != nil {
		return err
	}
	if links == nil || len(links.Data) == 0 {
		fmt.Println("No visited links")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for i, name := range links.Fields {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, name)
	}
	fmt.Fprintln(w)
	for _, row := range links.Data {
		for i, v := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, v)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func runCampaignStats(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	counts, err := a.campaigns.CountByStatus()
	if err != nil {
		return err
	}

	statuses := make([]string, 0, len(counts))
	for status := range counts {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tCAMPAIGNS")
	for _, status := range statuses {
		fmt.Fprintf(w, "%s\t%d\n", orDash(status), counts[status])
	}
	return w.Flush()
}
