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
	listTitle     string
	listBeforeURL string
	listAfterURL  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Subscribe list commands",
}

var listAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a local subscribe list",
	RunE:  runListAdd,
}

var listListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List local subscribe lists",
	RunE:  runListList,
}

var listCreateCmd = &cobra.Command{
	Use:   "create <id>",
	Short: "Create the list in Unisender",
	Args:  cobra.ExactArgs(1),
	RunE:  runListCreate,
}

var listUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change the list title locally and in Unisender",
	Args:  cobra.ExactArgs(1),
	RunE:  runListUpdate,
}

var listDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete the list from Unisender and locally",
	Args:  cobra.ExactArgs(1),
	RunE:  runListDelete,
}

func init() {
	listAddCmd.Flags().StringVar(&listTitle, "title", "", "List title")
	listAddCmd.Flags().StringVar(&listBeforeURL, "before-subscribe-url", "", "Page shown before subscription")
	listAddCmd.Flags().StringVar(&listAfterURL, "after-subscribe-url", "", "Page shown after subscription")
	listAddCmd.MarkFlagRequired("title")

	listUpdateCmd.Flags().StringVar(&listTitle, "title", "", "New list title")
	listUpdateCmd.MarkFlagRequired("title")

	listCmd.AddCommand(listAddCmd)
	listCmd.AddCommand(listListCmd)
	listCmd.AddCommand(listCreateCmd)
	listCmd.AddCommand(listUpdateCmd)
	listCmd.AddCommand(listDeleteCmd)
}

func runListAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	l := &models.SubscribeList{
		Title:              listTitle,
		BeforeSubscribeURL: listBeforeURL,
		AfterSubscribeURL:  listAfterURL,
	}
	if err := a.lists.Create(l); err != nil {
		return err
	}

	fmt.Printf("List %d added: %s\n", l.ID, l.Title)
	return nil
}

func runListList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	lists, err := a.lists.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tUNISENDER ID\tLAST ERROR")
	for _, l := range lists {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", l.ID, l.Title, l.UnisenderID, orDash(l.LastError))
	}
	return w.Flush()
}

func loadList(a *app, arg string) (*models.SubscribeList, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	l, err := a.lists.GetByID(id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, notFound("list", id)
	}
	return l, nil
}

func runListCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	l, err := loadList(a, args[0])
	if err != nil {
		return err
	}

	id, err := a.syncer.CreateList(context.Background(), l)
	if err != nil {
		return err
	}
	if err := remoteResult("createList", l.SyncState); err != nil {
		return err
	}

	fmt.Printf("List %d created in Unisender with id %d\n", l.ID, id)
	return nil
}

func runListUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	l, err := loadList(a, args[0])
	if err != nil {
		return err
	}

	l.Title = listTitle
	if err := a.lists.Update(l); err != nil {
		return err
	}

	if err := a.syncer.UpdateList(context.Background(), l); err != nil {
		return err
	}
	if err := remoteResult("updateList", l.SyncState); err != nil {
		return err
	}

	fmt.Printf("List %d renamed to %s\n", l.ID, l.Title)
	return nil
}

func runListDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	l, err := loadList(a, args[0])
	if err != nil {
		return err
	}

	if l.Synced() {
		if err := a.syncer.DeleteList(context.Background(), l); err != nil {
			return err
		}
		if err := remoteResult("deleteList", l.SyncState); err != nil {
			return err
		}
	}

	if err := a.lists.Delete(l.ID); err != nil {
		return err
	}

	fmt.Printf("List %d deleted\n", l.ID)
	return nil
}
