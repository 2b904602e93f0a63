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
	fieldName string
	fieldType string
)

var fieldCmd = &cobra.Command{
	Use:   "field",
	Short: "Custom subscriber field commands",
}

var fieldAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a local field",
	RunE:  runFieldAdd,
}

var fieldListCmd = &cobra.Command{
	Use:   "list",
	Short: "List local fields",
	RunE:  runFieldList,
}

var fieldCreateCmd = &cobra.Command{
	Use:   "create <id>",
	Short: "Create the field in Unisender",
	Args:  cobra.ExactArgs(1),
	RunE:  runFieldCreate,
}

var fieldUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Rename the field locally and in Unisender",
	Args:  cobra.ExactArgs(1),
	RunE:  runFieldUpdate,
}

var fieldDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete the field from Unisender and locally",
	Args:  cobra.ExactArgs(1),
	RunE:  runFieldDelete,
}

func init() {
	fieldAddCmd.Flags().StringVar(&fieldName, "name", "", "Field name")
	fieldAddCmd.Flags().StringVar(&fieldType, "type", models.FieldTypeString, "Field type (string, text, number, date, bool)")
	fieldAddCmd.MarkFlagRequired("name")

	fieldUpdateCmd.Flags().StringVar(&fieldName, "name", "", "New field name")
	fieldUpdateCmd.MarkFlagRequired("name")

	fieldCmd.AddCommand(fieldAddCmd)
	fieldCmd.AddCommand(fieldListCmd)
	fieldCmd.AddCommand(fieldCreateCmd)
	fieldCmd.AddCommand(fieldUpdateCmd)
	fieldCmd.AddCommand(fieldDeleteCmd)
}

func runFieldAdd(cmd *cobra.Command, args []string) error {
	if !models.ValidFieldType(fieldType) {
		return fmt.Errorf("invalid field type: %s", fieldType)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	f := &models.Field{Name: fieldName, Type: fieldType}
	if err := a.fields.Create(f); err != nil {
		return err
	}

	fmt.Printf("Field %d added: %s (%s)\n", f.ID, f.Name, f.Type)
	return nil
}

func runFieldList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	fields, err := a.fields.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tUNISENDER ID\tLAST ERROR")
	for _, f := range fields {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", f.ID, f.Name, f.Type, f.UnisenderID, orDash(f.LastError))
	}
	return w.Flush()
}

func loadField(a *app, arg string) (*models.Field, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	f, err := a.fields.GetByID(id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, notFound("field", id)
	}
	return f, nil
}

func runFieldCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := loadField(a, args[0])
	if err != nil {
		return err
	}

	id, err := a.syncer.CreateField(context.Background(), f)
	if err != nil {
		return err
	}
	if err := remoteResult("createField", f.SyncState); err != nil {
		return err
	}

	fmt.Printf("Field %d created in Unisender with id %d\n", f.ID, id)
	return nil
}

func runFieldUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := loadField(a, args[0])
	if err != nil {
		return err
	}

	f.Name = fieldName
	if err := a.fields.Update(f); err != nil {
		return err
	}

	id, err := a.syncer.UpdateField(context.Background(), f)
	if err != nil {
		return err
	}
	if err := remoteResult("updateField", f.SyncState); err != nil {
		return err
	}

	fmt.Printf("Field %d renamed to %s (unisender id %d)\n", f.ID, f.Name, id)
	return nil
}

func runFieldDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := loadField(a, args[0])
	if err != nil {
		return err
	}

	if f.Synced() {
		if err := a.syncer.DeleteField(context.Background(), f); err != nil {
			return err
		}
		if err := remoteResult("deleteField", f.SyncState); err != nil {
			return err
		}
	}

	if err := a.fields.Delete(f.ID); err != nil {
		return err
	}

	fmt.Printf("Field %d deleted\n", f.ID)
	return nil
}
