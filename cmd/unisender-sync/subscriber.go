package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/foxzi/unisender-sync/internal/models"
)

var (
	subscriberContact     string
	subscriberContactType string
	subscriberDoubleOptin int
	subscriberLists       []int64
	subscriberTags        []string
	subscriberFields      []string
)

var subscriberCmd = &cobra.Command{
	Use:   "subscriber",
	Short: "Subscriber commands",
}

var subscriberAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a local subscriber",
	RunE:  runSubscriberAdd,
}

var subscriberListCmd = &cobra.Command{
	Use:   "list",
	Short: "List local subscribers",
	RunE:  runSubscriberList,
}

var subscriberShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a subscriber with lists, tags and fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubscriberShow,
}

var subscriberAttachCmd = &cobra.Command{
	Use:   "attach <id>",
	Short: "Attach lists, tags or field values to a subscriber",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubscriberAttach,
}

var subscriberSubscribeCmd = &cobra.Command{
	Use:   "subscribe <id>",
	Short: "Subscribe the contact to its lists in Unisender",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubscriberSubscribe,
}

var subscriberUnsubscribeCmd = &cobra.Command{
	Use:   "unsubscribe <id>",
	Short: "Unsubscribe the contact from its lists in Unisender",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubscriberUnsubscribe,
}

var subscriberExcludeCmd = &cobra.Command{
	Use:   "exclude <id>",
	Short: "Exclude the contact from its lists in Unisender",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubscriberExclude,
}

func addRelationFlags(cmd *cobra.Command) {
	cmd.Flags().Int64SliceVar(&subscriberLists, "list", nil, "Local list id (repeatable)")
	cmd.Flags().StringSliceVar(&subscriberTags, "tag", nil, "Tag name (repeatable)")
	cmd.Flags().StringArrayVar(&subscriberFields, "field", nil, "Field value as <field_id>=<value> (repeatable)")
}

func init() {
	subscriberAddCmd.Flags().StringVar(&subscriberContact, "contact", "", "Email address or phone number")
	subscriberAddCmd.Flags().StringVar(&subscriberContactType, "contact-type", models.ContactEmail, "Contact type (email, phone)")
	subscriberAddCmd.Flags().IntVar(&subscriberDoubleOptin, "double-optin", 0, "double_optin value sent on subscribe")
	subscriberAddCmd.MarkFlagRequired("contact")
	addRelationFlags(subscriberAddCmd)
	addRelationFlags(subscriberAttachCmd)

	subscriberCmd.AddCommand(subscriberAddCmd)
	subscriberCmd.AddCommand(subscriberListCmd)
	subscriberCmd.AddCommand(subscriberShowCmd)
	subscriberCmd.AddCommand(subscriberAttachCmd)
	subscriberCmd.AddCommand(subscriberSubscribeCmd)
	subscriberCmd.AddCommand(subscriberUnsubscribeCmd)
	subscriberCmd.AddCommand(subscriberExcludeCmd)
}

func runSubscriberAdd(cmd *cobra.Command, args []string) error {
	if subscriberContactType != models.ContactEmail && subscriberContactType != models.ContactPhone {
		return fmt.Errorf("invalid contact type: %s", subscriberContactType)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	s := &models.Subscriber{
		Contact:     subscriberContact,
		ContactType: subscriberContactType,
		DoubleOptin: subscriberDoubleOptin,
	}
	if err := a.subscribers.Create(s); err != nil {
		return err
	}
	if err := attachRelations(a, s.ID); err != nil {
		return err
	}

	fmt.Printf("Subscriber %d added: %s\n", s.ID, s.Contact)
	return nil
}

func runSubscriberAttach(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := loadSubscriber(a, args[0])
	if err != nil {
		return err
	}
	if err := attachRelations(a, s.ID); err != nil {
		return err
	}

	fmt.Printf("Subscriber %d updated\n", s.ID)
	return nil
}

// attachRelations attaches lists, tags and field values in flag order
func attachRelations(a *app, subscriberID int64) error {
	for _, listID := range subscriberLists {
		if err := a.subscribers.AddList(subscriberID, listID); err != nil {
			return err
		}
	}
	for _, name := range subscriberTags {
		tag, err := a.tags.GetOrCreate(name)
		if err != nil {
			return err
		}
		if err := a.subscribers.AddTag(subscriberID, tag.ID); err != nil {
			return err
		}
	}
	for _, pair := range subscriberFields {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid field value %q, expected <field_id>=<value>", pair)
		}
		fieldID, err := parseID(key)
		if err != nil {
			return err
		}
		if err := a.subscribers.SetFieldValue(subscriberID, fieldID, value); err != nil {
			return err
		}
	}
	return nil
}

func runSubscriberList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	subscribers, err := a.subscribers.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCONTACT\tTYPE\tUNISENDER ID\tLAST ERROR")
	for _, s := range subscribers {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", s.ID, s.Contact, s.ContactType, s.UnisenderID, orDash(s.LastError))
	}
	return w.Flush()
}

func loadSubscriber(a *app, arg string) (*models.Subscriber, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	s, err := a.subscribers.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, notFound("subscriber", id)
	}
	return s, nil
}

func runSubscriberShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := loadSubscriber(a, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("ID:           %d\n", s.ID)
	fmt.Printf("Contact:      %s (%s)\n", s.Contact, s.ContactType)
	fmt.Printf("Double optin: %d\n", s.DoubleOptin)
	fmt.Printf("Unisender ID: %d\n", s.UnisenderID)
	if msg, ok := s.LastErrorMessage(); ok {
		fmt.Printf("Last error:   %s (%s)\n", msg, s.LastError)
	}
	fmt.Printf("List IDs:     %s\n", orDash(s.SerializeListIDs()))
	fmt.Printf("Tags:         %s\n", orDash(s.SerializeTags()))
	fmt.Printf("Fields:       %s\n", s.SerializeFields())
	return nil
}

func runSubscriberSubscribe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := loadSubscriber(a, args[0])
	if err != nil {
		return err
	}

	personID, err := a.syncer.Subscribe(context.Background(), s)
	if err != nil {
		return err
	}
	if err := remoteResult("subscribe", s.SyncState); err != nil {
		return err
	}

	fmt.Printf("Subscriber %d subscribed, person id %d\n", s.ID, personID)
	return nil
}

func runSubscriberUnsubscribe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := loadSubscriber(a, args[0])
	if err != nil {
		return err
	}

	if err := a.syncer.Unsubscribe(context.Background(), s); err != nil {
		return err
	}
	if err := remoteResult("unsubscribe", s.SyncState); err != nil {
		return err
	}

	fmt.Printf("Subscriber %d unsubscribed\n", s.ID)
	return nil
}

func runSubscriberExclude(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := loadSubscriber(a, args[0])
	if err != nil {
		return err
	}

	if err := a.syncer.Exclude(context.Background(), s); err != nil {
		return err
	}
	if err := remoteResult("exclude", s.SyncState); err != nil {
		return err
	}

	fmt.Printf("Subscriber %d excluded\n", s.ID)
	return nil
}
