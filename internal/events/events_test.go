package events

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/foxzi/unisender-sync/internal/models"
)

type memoryStore struct {
	entries []models.SyncLogEntry
	err     error
}

func (s *memoryStore) Record(e *models.SyncLogEntry) error {
	if s.err != nil {
		return s.err
	}
	e.ID = "entry-1"
	s.entries = append(s.entries, *e)
	return nil
}

type recordingPublisher struct {
	published []models.SyncLogEntry
	err       error
}

func (p *recordingPublisher) Publish(e *models.SyncLogEntry) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, *e)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLog_Record(t *testing.T) {
	store := &memoryStore{}
	pub := &recordingPublisher{}
	l := NewLog(store, pub, testLogger())

	e := &models.SyncLogEntry{Entity: models.EntityField, EntityID: 3, Method: "createField", Status: models.SyncOK}
	if err := l.Record(e); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if len(store.entries) != 1 {
		t.Fatalf("stored %d entries, want 1", len(store.entries))
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d entries, want 1", len(pub.published))
	}
	if pub.published[0].ID != "entry-1" {
		t.Errorf("published ID = %q, want id assigned by store", pub.published[0].ID)
	}
}

func TestLog_RecordPublishFailure(t *testing.T) {
	store := &memoryStore{}
	pub := &recordingPublisher{err: errors.New("connection closed")}
	l := NewLog(store, pub, testLogger())

	e := &models.SyncLogEntry{Entity: models.EntityList, EntityID: 1, Method: "createList", Status: models.SyncOK}
	if err := l.Record(e); err != nil {
		t.Fatalf("Record() error = %v, want publish failure ignored", err)
	}
	if len(store.entries) != 1 {
		t.Errorf("stored %d entries, want 1", len(store.entries))
	}
}

func TestLog_RecordStoreFailure(t *testing.T) {
	store := &memoryStore{err: errors.New("disk full")}
	pub := &recordingPublisher{}
	l := NewLog(store, pub, testLogger())

	if err := l.Record(&models.SyncLogEntry{Method: "subscribe"}); err == nil {
		t.Fatal("Record() expected error")
	}
	if len(pub.published) != 0 {
		t.Errorf("published %d entries, want none", len(pub.published))
	}
}

func TestEncode(t *testing.T) {
	e := &models.SyncLogEntry{
		ID:        "abc",
		Entity:    models.EntityCampaign,
		EntityID:  7,
		Method:    "createCampaign",
		Status:    models.SyncError,
		ErrorCode: "invalid_arg",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	body, err := Encode(e)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got["entity"] != "campaigns" || got["method"] != "createCampaign" || got["error_code"] != "invalid_arg" {
		t.Errorf("Encode() = %s", body)
	}
	if got["entity_id"] != float64(7) {
		t.Errorf("entity_id = %v, want 7", got["entity_id"])
	}
}
