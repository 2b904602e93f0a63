package models

import "time"

// Field types accepted by createField
const (
	FieldTypeString = "string"
	FieldTypeText   = "text"
	FieldTypeNumber = "number"
	FieldTypeDate   = "date"
	FieldTypeBool   = "bool"
)

// Field represents a custom subscriber attribute
type Field struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	SyncState
}

// ValidFieldType reports whether t is accepted by the remote API
func ValidFieldType(t string) bool {
	switch t {
	case FieldTypeString, FieldTypeText, FieldTypeNumber, FieldTypeDate, FieldTypeBool:
		return true
	}
	return false
}

// Tag is a local label attached to subscribers
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
