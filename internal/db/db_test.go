package db

import (
	"path/filepath"
	"testing"
)

func TestNewAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sync.db")

	d, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer d.Close()

	if err := d.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	// Migrations are idempotent
	if err := d.Migrate(); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}

	tables := []string{
		"fields", "tags", "subscribe_lists", "subscribers",
		"subscriber_lists", "subscriber_tags", "subscriber_fields",
		"email_messages", "campaigns", "campaign_contacts", "sync_log",
	}
	for _, table := range tables {
		var name string
		err := d.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not created: %v", table, err)
		}
	}
}

func TestForeignKeysEnabled(t *testing.T) {
	d, err := New(filepath.Join(t.TempDir(), "fk.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer d.Close()

	if err := d.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	_, err = d.Exec("INSERT INTO subscriber_lists (subscriber_id, list_id) VALUES (999, 999)")
	if err == nil {
		t.Error("insert with missing parents should fail")
	}
}
