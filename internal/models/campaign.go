package models

import (
	"slices"
	"strings"
	"time"
)

// FinalCampaignStatuses are remote statuses after which a campaign no longer changes
var FinalCampaignStatuses = []string{"completed", "stopped", "canceled", "declined"}

// Campaign is a send job for a message and a set of contacts
type Campaign struct {
	ID             int64        `json:"id"`
	Name           string       `json:"name"`
	EmailMessageID int64        `json:"email_message_id"`
	EmailMessage   EmailMessage `json:"email_message"` // joined
	Contacts       []Subscriber `json:"contacts,omitempty"`
	Status         string       `json:"status"`
	RecipientCount int          `json:"recipient_count"`
	SuccessCount   int          `json:"success_count"`
	ErrorCount     int          `json:"error_count"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	SyncState
}

// SerializeContacts joins the contacts of the campaign with commas
func (c *Campaign) SerializeContacts() string {
	contacts := make([]string, len(c.Contacts))
	for i, s := range c.Contacts {
		contacts[i] = s.Contact
	}
	return strings.Join(contacts, ",")
}

// IsFinal reports whether the remote status will not change anymore
func (c *Campaign) IsFinal() bool {
	return slices.Contains(FinalCampaignStatuses, c.Status)
}
