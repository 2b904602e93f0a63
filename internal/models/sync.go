package models

import "github.com/foxzi/unisender-sync/internal/errcodes"

// Entity names a synced record type. The value doubles as its table name.
type Entity string

const (
	EntityField        Entity = "fields"
	EntityList         Entity = "subscribe_lists"
	EntitySubscriber   Entity = "subscribers"
	EntityEmailMessage Entity = "email_messages"
	EntityCampaign     Entity = "campaigns"
)

// SyncState is the remote bookkeeping carried by every synced record
type SyncState struct {
	UnisenderID int64  `json:"unisender_id,omitempty"` // 0 until created remotely
	LastError   string `json:"last_error,omitempty"`   // remote error code
}

// LastErrorMessage returns the readable message for the stored error code.
// The second result is false when no error is stored.
func (s SyncState) LastErrorMessage() (string, bool) {
	if s.LastError == "" {
		return "", false
	}
	return errcodes.Message(s.LastError), true
}

// Synced reports whether the record has a remote id
func (s SyncState) Synced() bool {
	return s.UnisenderID != 0
}
