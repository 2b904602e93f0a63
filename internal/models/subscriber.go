package models

import (
	"strconv"
	"strings"
	"time"
)

// Contact types
const (
	ContactEmail = "email"
	ContactPhone = "phone"
)

// Subscriber is a contact with its list memberships, tags and field values.
// Lists, Tags and Fields are kept in attachment order.
type Subscriber struct {
	ID          int64             `json:"id"`
	Contact     string            `json:"contact"`
	ContactType string            `json:"contact_type"` // email, phone
	DoubleOptin int               `json:"double_optin"`
	Lists       []SubscribeList   `json:"lists,omitempty"`
	Tags        []Tag             `json:"tags,omitempty"`
	Fields      []SubscriberField `json:"fields,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	SyncState
}

// SubscriberField holds one field value of a subscriber
type SubscriberField struct {
	ID           int64  `json:"id"`
	SubscriberID int64  `json:"subscriber_id"`
	Field        Field  `json:"field"`
	Value        string `json:"value"`
}

// ContactKey returns the fields[...] key the contact is sent under
func (s *Subscriber) ContactKey() string {
	if s.ContactType == "" || s.ContactType == ContactEmail {
		return "fields[email]"
	}
	return "fields[phone]"
}

// SerializeFields builds the fields parameter string:
// fields[email]=<contact>&fields[<name>]=<value>...
// Values are concatenated as is.
func (s *Subscriber) SerializeFields() string {
	var b strings.Builder
	b.WriteString(s.ContactKey())
	b.WriteByte('=')
	b.WriteString(s.Contact)
	for _, f := range s.Fields {
		b.WriteString("&fields[")
		b.WriteString(f.Field.Name)
		b.WriteString("]=")
		b.WriteString(f.Value)
	}
	return b.String()
}

// SerializeListIDs joins the primary keys of the attached lists with commas
func (s *Subscriber) SerializeListIDs() string {
	ids := make([]string, len(s.Lists))
	for i, l := range s.Lists {
		ids[i] = strconv.FormatInt(l.ID, 10)
	}
	return strings.Join(ids, ",")
}

// SerializeTags joins the attached tag names with commas
func (s *Subscriber) SerializeTags() string {
	names := make([]string, len(s.Tags))
	for i, t := range s.Tags {
		names[i] = t.Name
	}
	return strings.Join(names, ",")
}
