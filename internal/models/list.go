package models

import "time"

// SubscribeList represents a remote mailing list
type SubscribeList struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"title"`
	BeforeSubscribeURL string    `json:"before_subscribe_url,omitempty"`
	AfterSubscribeURL  string    `json:"after_subscribe_url,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	SyncState
}
