package models

import "time"

// Sync log statuses
const (
	SyncOK    = "ok"
	SyncError = "error"
)

// SyncLogEntry records one remote sync attempt
type SyncLogEntry struct {
	ID        string    `json:"id"`
	Entity    Entity    `json:"entity"`
	EntityID  int64     `json:"entity_id"`
	Method    string    `json:"method"`
	Status    string    `json:"status"`
	ErrorCode string    `json:"error_code,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SyncLogFilter for listing sync log entries
type SyncLogFilter struct {
	Entity   Entity
	EntityID int64
	Status   string
	Limit    int
}
