package repository

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/foxzi/unisender-sync/internal/db"
	"github.com/foxzi/unisender-sync/internal/models"
)

// setupTestDB creates an in-memory SQLite database with all migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// Every connection to :memory: is a separate database
	conn.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := db.Migrate(conn); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

func createList(t *testing.T, conn *sql.DB, title string) *models.SubscribeList {
	t.Helper()
	l := &models.SubscribeList{Title: title}
	if err := NewListRepository(conn).Create(l); err != nil {
		t.Fatalf("Create() list error = %v", err)
	}
	return l
}

func createField(t *testing.T, conn *sql.DB, name string) *models.Field {
	t.Helper()
	f := &models.Field{Name: name}
	if err := NewFieldRepository(conn).Create(f); err != nil {
		t.Fatalf("Create() field error = %v", err)
	}
	return f
}

func createSubscriber(t *testing.T, conn *sql.DB, contact, contactType string) *models.Subscriber {
	t.Helper()
	s := &models.Subscriber{Contact: contact, ContactType: contactType}
	if err := NewSubscriberRepository(conn).Create(s); err != nil {
		t.Fatalf("Create() subscriber error = %v", err)
	}
	return s
}

func TestFieldRepository(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewFieldRepository(conn)

	f := &models.Field{Name: "test"}
	if err := repo.Create(f); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if f.ID == 0 {
		t.Error("Create() did not set ID")
	}
	if f.Type != models.FieldTypeString {
		t.Errorf("Create() type = %q, want string", f.Type)
	}

	got, err := repo.GetByID(f.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "test" || got.UnisenderID != 0 {
		t.Errorf("GetByID() = %+v", got)
	}

	got.Name = "renamed"
	if err := repo.Update(got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	fields, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(fields) != 1 || fields[0].Name != "renamed" {
		t.Errorf("List() = %+v", fields)
	}

	if err := repo.Delete(f.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	got, err = repo.GetByID(f.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got != nil {
		t.Error("GetByID() should return nil after delete")
	}
}

func TestTagRepository_GetOrCreate(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewTagRepository(conn)

	first, err := repo.GetOrCreate("vip")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	second, err := repo.GetOrCreate("vip")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("GetOrCreate() ids differ: %d != %d", first.ID, second.ID)
	}

	tags, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tags) != 1 {
		t.Errorf("List() len = %d, want 1", len(tags))
	}
}

func TestSubscriberRepository_Relations(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewSubscriberRepository(conn)
	tags := NewTagRepository(conn)

	s := createSubscriber(t, conn, "9123456789", models.ContactPhone)
	list1 := createList(t, conn, "test")
	list2 := createList(t, conn, "test_2")
	field1 := createField(t, conn, "test")
	field2 := createField(t, conn, "test_2")

	// attach in reverse creation order
	for _, id := range []int64{list2.ID, list1.ID, list2.ID} {
		if err := repo.AddList(s.ID, id); err != nil {
			t.Fatalf("AddList() error = %v", err)
		}
	}
	for _, name := range []string{"b", "a"} {
		tag, err := tags.GetOrCreate(name)
		if err != nil {
			t.Fatalf("GetOrCreate() error = %v", err)
		}
		if err := repo.AddTag(s.ID, tag.ID); err != nil {
			t.Fatalf("AddTag() error = %v", err)
		}
	}
	if err := repo.SetFieldValue(s.ID, field2.ID, "two"); err != nil {
		t.Fatalf("SetFieldValue() error = %v", err)
	}
	if err := repo.SetFieldValue(s.ID, field1.ID, "one"); err != nil {
		t.Fatalf("SetFieldValue() error = %v", err)
	}
	// re-setting keeps position
	if err := repo.SetFieldValue(s.ID, field2.ID, "two-updated"); err != nil {
		t.Fatalf("SetFieldValue() error = %v", err)
	}

	got, err := repo.GetByID(s.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.ContactType != models.ContactPhone {
		t.Errorf("ContactType = %q, want phone", got.ContactType)
	}
	if len(got.Lists) != 2 {
		t.Fatalf("Lists len = %d, want 2", len(got.Lists))
	}
	wantListIDs := fmt.Sprintf("%d,%d", list2.ID, list1.ID)
	if got.SerializeListIDs() != wantListIDs {
		t.Errorf("SerializeListIDs() = %q, want %q", got.SerializeListIDs(), wantListIDs)
	}
	if got.SerializeTags() != "b,a" {
		t.Errorf("SerializeTags() = %q, want b,a", got.SerializeTags())
	}

	want := "fields[phone]=9123456789&fields[test_2]=two-updated&fields[test]=one"
	if got.SerializeFields() != want {
		t.Errorf("SerializeFields() = %q, want %q", got.SerializeFields(), want)
	}
}

func TestSubscriberRepository_DefaultContactType(t *testing.T) {
	conn := setupTestDB(t)
	s := createSubscriber(t, conn, "mail@example.com", "")

	got, err := NewSubscriberRepository(conn).GetByID(s.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.ContactType != models.ContactEmail {
		t.Errorf("ContactType = %q, want email", got.ContactType)
	}
	if got.SerializeFields() != "fields[email]=mail@example.com" {
		t.Errorf("SerializeFields() = %q", got.SerializeFields())
	}
}

func TestMessageRepository_GetByIDJoinsList(t *testing.T) {
	conn := setupTestDB(t)
	list := createList(t, conn, "news")
	if err := NewSyncStateRepository(conn).Save(models.EntityList, list.ID, models.SyncState{UnisenderID: 55}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	repo := NewMessageRepository(conn)
	m := &models.EmailMessage{
		SenderName:  "test",
		SenderEmail: "test@example.com",
		Subject:     "test",
		Body:        "<p>test</p>",
		ListID:      list.ID,
	}
	if err := repo.Create(m); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(m.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.BodyFormat != models.BodyHTML {
		t.Errorf("BodyFormat = %q, want html", got.BodyFormat)
	}
	if got.List.Title != "news" || got.List.UnisenderID != 55 {
		t.Errorf("List = %+v", got.List)
	}

	messages, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(messages) != 1 {
		t.Errorf("List() len = %d, want 1", len(messages))
	}
}

func createCampaign(t *testing.T, conn *sql.DB) *models.Campaign {
	t.Helper()
	list := createList(t, conn, "news")
	m := &models.EmailMessage{SenderName: "a", SenderEmail: "a@example.com", Subject: "s", Body: "b", ListID: list.ID}
	if err := NewMessageRepository(conn).Create(m); err != nil {
		t.Fatalf("Create() message error = %v", err)
	}
	c := &models.Campaign{Name: "test", EmailMessageID: m.ID}
	if err := NewCampaignRepository(conn).Create(c); err != nil {
		t.Fatalf("Create() campaign error = %v", err)
	}
	return c
}

func TestCampaignRepository_Contacts(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewCampaignRepository(conn)
	c := createCampaign(t, conn)

	s1 := createSubscriber(t, conn, "mail@example.com", "")
	s2 := createSubscriber(t, conn, "mail_2@example.com", "")
	for _, id := range []int64{s2.ID, s1.ID} {
		if err := repo.AddContact(c.ID, id); err != nil {
			t.Fatalf("AddContact() error = %v", err)
		}
	}

	got, err := repo.GetByID(c.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.SerializeContacts() != "mail_2@example.com,mail@example.com" {
		t.Errorf("SerializeContacts() = %q", got.SerializeContacts())
	}
	if got.EmailMessage.ID != c.EmailMessageID || got.EmailMessage.List.Title != "news" {
		t.Errorf("EmailMessage = %+v", got.EmailMessage)
	}
}

func TestCampaignRepository_Tracking(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewCampaignRepository(conn)
	states := NewSyncStateRepository(conn)

	createCampaign(t, conn) // draft, never created remotely
	running := createCampaign(t, conn)
	done := createCampaign(t, conn)

	for _, c := range []*models.Campaign{running, done} {
		if err := states.Save(models.EntityCampaign, c.ID, models.SyncState{UnisenderID: c.ID * 10}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
	running.Status = "scheduled"
	done.Status = "completed"
	done.SuccessCount = 5
	done.ErrorCount = 1
	for _, c := range []*models.Campaign{running, done} {
		if err := repo.UpdateTracking(c); err != nil {
			t.Fatalf("UpdateTracking() error = %v", err)
		}
	}

	trackable, err := repo.ListTrackable(10)
	if err != nil {
		t.Fatalf("ListTrackable() error = %v", err)
	}
	if len(trackable) != 1 || trackable[0].ID != running.ID {
		t.Errorf("ListTrackable() = %+v, want only campaign %d", trackable, running.ID)
	}

	counts, err := repo.CountByStatus()
	if err != nil {
		t.Fatalf("CountByStatus() error = %v", err)
	}
	if counts[""] != 1 || counts["scheduled"] != 1 || counts["completed"] != 1 {
		t.Errorf("CountByStatus() = %v", counts)
	}

	got, err := repo.GetByID(done.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.SuccessCount != 5 || got.ErrorCount != 1 || !got.IsFinal() {
		t.Errorf("GetByID() = %+v", got)
	}
}

func TestCampaignRepository_ListTrackableLeastRecentlyPolled(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewCampaignRepository(conn)
	states := NewSyncStateRepository(conn)

	var ids []int64
	for i := 0; i < 3; i++ {
		c := createCampaign(t, conn)
		if err := states.Save(models.EntityCampaign, c.ID, models.SyncState{UnisenderID: c.ID * 10}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		ids = append(ids, c.ID)
	}

	trackable, err := repo.ListTrackable(2)
	if err != nil {
		t.Fatalf("ListTrackable() error = %v", err)
	}
	if len(trackable) != 2 || trackable[0].ID != ids[0] || trackable[1].ID != ids[1] {
		t.Fatalf("ListTrackable(2) = %+v, want campaigns %d and %d", trackable, ids[0], ids[1])
	}

	for _, c := range trackable {
		if err := repo.MarkPolled(c.ID); err != nil {
			t.Fatalf("MarkPolled() error = %v", err)
		}
	}

	trackable, err = repo.ListTrackable(2)
	if err != nil {
		t.Fatalf("ListTrackable() error = %v", err)
	}
	if len(trackable) != 2 || trackable[0].ID != ids[2] {
		t.Errorf("ListTrackable(2) after polling = %+v, want campaign %d first", trackable, ids[2])
	}
}

func TestSyncStateRepository_UnknownEntity(t *testing.T) {
	conn := setupTestDB(t)
	if err := NewSyncStateRepository(conn).Save(models.Entity("users"), 1, models.SyncState{}); err == nil {
		t.Error("Save() should fail for unknown entity")
	}
}

func TestSyncStateRepository_Save(t *testing.T) {
	conn := setupTestDB(t)
	f := createField(t, conn, "test")

	repo := NewSyncStateRepository(conn)
	if err := repo.Save(models.EntityField, f.ID, models.SyncState{LastError: "invalid_arg"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := NewFieldRepository(conn).GetByID(f.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.LastError != "invalid_arg" {
		t.Errorf("LastError = %q, want invalid_arg", got.LastError)
	}
}

func TestSyncLogRepository(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewSyncLogRepository(conn)

	entries := []*models.SyncLogEntry{
		{Entity: models.EntityField, EntityID: 1, Method: "createField", Status: models.SyncOK},
		{Entity: models.EntityField, EntityID: 1, Method: "updateField", Status: models.SyncError, ErrorCode: "invalid_arg"},
		{Entity: models.EntityList, EntityID: 2, Method: "createList", Status: models.SyncOK},
	}
	for _, e := range entries {
		if err := repo.Record(e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if e.ID == "" {
			t.Error("Record() did not set ID")
		}
	}

	got, err := repo.List(models.SyncLogFilter{Entity: models.EntityField, EntityID: 1})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List() len = %d, want 2", len(got))
	}
	if got[0].Method != "updateField" {
		t.Errorf("List()[0].Method = %q, want newest first", got[0].Method)
	}

	failed, err := repo.List(models.SyncLogFilter{Status: models.SyncError})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(failed) != 1 || failed[0].ErrorCode != "invalid_arg" {
		t.Errorf("List(error) = %+v", failed)
	}

	limited, err := repo.List(models.SyncLogFilter{Limit: 1})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("List(limit 1) len = %d", len(limited))
	}
}
