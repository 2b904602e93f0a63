package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/foxzi/unisender-sync/internal/models"
)

var (
	messageSenderName  string
	messageSenderEmail string
	messageSubject     string
	messageBody        string
	messageBodyFile    string
	messageFormat      string
	messageListID      int64
)

var messageCmd = &cobra.Command{
	Use:   "message",
	Short: "Email message commands",
}

var messageAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a local email message",
	RunE:  runMessageAdd,
}

var messageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List local email messages",
	RunE:  runMessageList,
}

var messageCreateCmd = &cobra.Command{
	Use:   "create <id>",
	Short: "Create the message in Unisender",
	Args:  cobra.ExactArgs(1),
	RunE:  runMessageCreate,
}

var messageDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete the message from Unisender and locally",
	Args:  cobra.ExactArgs(1),
	RunE:  runMessageDelete,
}

func init() {
	messageAddCmd.Flags().StringVar(&messageSenderName, "sender-name", "", "Sender name")
	messageAddCmd.Flags().StringVar(&messageSenderEmail, "sender-email", "", "Sender email")
	messageAddCmd.Flags().StringVar(&messageSubject, "subject", "", "Message subject")
	messageAddCmd.Flags().StringVar(&messageBody, "body", "", "Message body")
	messageAddCmd.Flags().StringVar(&messageBodyFile, "body-file", "", "Read message body from file")
	messageAddCmd.Flags().StringVar(&messageFormat, "format", models.BodyHTML, "Body format (html, markdown)")
	messageAddCmd.Flags().Int64Var(&messageListID, "list", 0, "Local list id")
	messageAddCmd.MarkFlagRequired("sender-name")
	messageAddCmd.MarkFlagRequired("sender-email")
	messageAddCmd.MarkFlagRequired("subject")
	messageAddCmd.MarkFlagRequired("list")
	messageAddCmd.MarkFlagsMutuallyExclusive("body", "body-file")

	messageCmd.AddCommand(messageAddCmd)
	messageCmd.AddCommand(messageListCmd)
	messageCmd.AddCommand(messageCreateCmd)
	messageCmd.AddCommand(messageDeleteCmd)
}

func runMessageAdd(cmd *cobra.Command, args []string) error {
	if messageFormat != models.BodyHTML && messageFormat != models.BodyMarkdown {
		return fmt.Errorf("invalid body format: %s", messageFormat)
	}

	body := messageBody
	if messageBodyFile != "" {
		data, err := os.ReadFile(messageBodyFile)
		if err != nil {
			return fmt.Errorf("failed to read body file: %w", err)
		}
		body = string(data)
	}
	if body == "" {
		return fmt.Errorf("message body is required (use --body or --body-file)")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	list, err := a.lists.GetByID(messageListID)
	if err != nil {
		return err
	}
	if list == nil {
		return notFound("list", messageListID)
	}

	m := &models.EmailMessage{
		SenderName:  messageSenderName,
		SenderEmail: messageSenderEmail,
		Subject:     messageSubject,
		Body:        body,
		BodyFormat:  messageFormat,
		ListID:      list.ID,
	}
	if err := a.messages.Create(m); err != nil {
		return err
	}

	fmt.Printf("Message %d added for list %s\n", m.ID, list.Title)
	return nil
}

func runMessageList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	messages, err := a.messages.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSUBJECT\tLIST\tFORMAT\tUNISENDER ID\tLAST ERROR")
	for _, m := range messages {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
			m.ID, m.Subject, m.List.Title, m.BodyFormat, m.UnisenderID, orDash(m.LastError))
	}
	return w.Flush()
}

func loadMessage(a *app, arg string) (*models.EmailMessage, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	m, err := a.messages.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, notFound("message", id)
	}
	return m, nil
}

func runMessageCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	m, err := loadMessage(a, args[0])
	if err != nil {
		return err
	}
	if !m.List.Synced() {
		return fmt.Errorf("list %d is not created in Unisender yet", m.List.ID)
	}

	id, err := a.syncer.CreateEmailMessage(context.Background(), m)
	if err != nil {
		return err
	}
	if err := remoteResult("createEmailMessage", m.SyncState); err != nil {
		return err
	}

	fmt.Printf("Message %d created in Unisender with id %d\n", m.ID, id)
	return nil
}

func runMessageDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	m, err := loadMessage(a, args[0])
	if err != nil {
		return err
	}

	if m.Synced() {
		if err := a.syncer.DeleteMessage(context.Background(), m); err != nil {
			return err
		}
		if err := remoteResult("deleteMessage", m.SyncState); err != nil {
			return err
		}
	}

	if err := a.messages.Delete(m.ID); err != nil {
		return err
	}

	fmt.Printf("Message %d deleted\n", m.ID)
	return nil
}
