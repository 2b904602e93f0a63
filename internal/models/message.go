package models

import "time"

// Body formats
const (
	BodyHTML     = "html"
	BodyMarkdown = "markdown"
)

// EmailMessage is an email template bound to a subscribe list
type EmailMessage struct {
	ID          int64         `json:"id"`
	SenderName  string        `json:"sender_name"`
	SenderEmail string        `json:"sender_email"`
	Subject     string        `json:"subject"`
	Body        string        `json:"body"`
	BodyFormat  string        `json:"body_format"` // html, markdown
	ListID      int64         `json:"list_id"`
	List        SubscribeList `json:"list"` // joined
	CreatedAt   time.Time     `json:"created_at"`
	SyncState
}
