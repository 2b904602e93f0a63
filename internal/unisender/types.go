package unisender

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Failure is the error part of a response. Code is preferred over Error
// when both are present.
type Failure struct {
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// Failed reports whether the response carries an error
func (f Failure) Failed() bool {
	return f.Error != "" || f.Code != ""
}

// ErrorCode returns the remote error code, empty on success
func (f Failure) ErrorCode() string {
	if f.Code != "" {
		return f.Code
	}
	return f.Error
}

// Warning is a non-fatal notice attached to a response
type Warning struct {
	Warning string `json:"warning"`
	Index   int    `json:"index,omitempty"`
}

// Envelope is the response of every call except updateField
type Envelope[T any] struct {
	Result *T `json:"result,omitempty"`
	Failure
	Warnings []Warning `json:"warnings,omitempty"`
}

// FlatID is the response of updateField. Unlike every other call the id is
// returned at the top level instead of under result.
type FlatID struct {
	ID int64 `json:"id"`
	Failure
}

// Empty is the result of calls that return nothing. The API sends either
// {} or [] for it.
type Empty struct{}

func (e *Empty) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")),
		len(data) > 0 && (data[0] == '{' || data[0] == '['):
		return nil
	}
	return fmt.Errorf("unexpected empty result: %s", data)
}

// IDResult is returned by createField and createList
type IDResult struct {
	ID int64 `json:"id"`
}

// SubscribeResult is returned by subscribe
type SubscribeResult struct {
	PersonID int64 `json:"person_id"`
}

// MessageResult is returned by createEmailMessage
type MessageResult struct {
	MessageID int64 `json:"message_id"`
}

// CampaignResult is returned by createCampaign
type CampaignResult struct {
	CampaignID int64  `json:"campaign_id"`
	Status     string `json:"status"`
	Count      int    `json:"count"`
}

// CampaignStatusResult is returned by getCampaignStatus
type CampaignStatusResult struct {
	Status       string `json:"status"`
	CreationTime string `json:"creation_time,omitempty"`
	StartTime    string `json:"start_time,omitempty"`
}

// AggregateStats is returned by getCampaignAggregateStats. Data maps a
// delivery status (ok_delivered, err_user_unknown, ...) to a count.
type AggregateStats struct {
	Total int            `json:"total"`
	Data  map[string]int `json:"data"`
}

// VisitedLinks is returned by getVisitedLinks as a table
type VisitedLinks struct {
	Fields []string `json:"fields"`
	Data   [][]any  `json:"data"`
}

// Rows returns the table rows keyed by field name
func (v *VisitedLinks) Rows() []map[string]any {
	rows := make([]map[string]any, 0, len(v.Data))
	for _, values := range v.Data {
		row := make(map[string]any, len(v.Fields))
		for i, name := range v.Fields {
			if i < len(values) {
				row[name] = values[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// CreateFieldRequest represents createField parameters
type CreateFieldRequest struct {
	Name string
	Type string
}

func (r *CreateFieldRequest) values() url.Values {
	v := url.Values{}
	v.Set("name", r.Name)
	if r.Type != "" {
		v.Set("type", r.Type)
	}
	return v
}

// UpdateFieldRequest represents updateField parameters
type UpdateFieldRequest struct {
	ID   int64
	Name string
}

func (r *UpdateFieldRequest) values() url.Values {
	v := url.Values{}
	v.Set("id", formatID(r.ID))
	v.Set("name", r.Name)
	return v
}

// CreateListRequest represents createList parameters
type CreateListRequest struct {
	Title              string
	BeforeSubscribeURL string
	AfterSubscribeURL  string
}

func (r *CreateListRequest) values() url.Values {
	v := url.Values{}
	v.Set("title", r.Title)
	if r.BeforeSubscribeURL != "" {
		v.Set("before_subscribe_url", r.BeforeSubscribeURL)
	}
	if r.AfterSubscribeURL != "" {
		v.Set("after_subscribe_url", r.AfterSubscribeURL)
	}
	return v
}

// UpdateListRequest represents updateList parameters
type UpdateListRequest struct {
	ID    int64
	Title string
}

func (r *UpdateListRequest) values() url.Values {
	v := url.Values{}
	v.Set("id", formatID(r.ID))
	v.Set("title", r.Title)
	return v
}

// SubscribeRequest represents subscribe parameters. Fields is the serialized
// fields[name]=value&fields[...] string. Values are taken as is and escaped
// on the wire, so they may contain '&', '+' or '='.
type SubscribeRequest struct {
	ListIDs     string
	Fields      string
	Tags        string
	DoubleOptin int
}

func (r *SubscribeRequest) values() url.Values {
	v := url.Values{}
	for _, pair := range splitFields(r.Fields) {
		key, value, _ := strings.Cut(pair, "=")
		v.Set(key, value)
	}
	v.Set("list_ids", r.ListIDs)
	if r.Tags != "" {
		v.Set("tags", r.Tags)
	}
	v.Set("double_optin", strconv.Itoa(r.DoubleOptin))
	return v
}

// splitFields cuts a serialized fields string on its fields[ boundaries
func splitFields(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "&fields[")
	for i := 1; i < len(parts); i++ {
		parts[i] = "fields[" + parts[i]
	}
	return parts
}

// ContactRequest represents unsubscribe and exclude parameters
type ContactRequest struct {
	ContactType string
	Contact     string
	ListIDs     string
}

func (r *ContactRequest) values() url.Values {
	v := url.Values{}
	v.Set("contact_type", r.ContactType)
	v.Set("contact", r.Contact)
	if r.ListIDs != "" {
		v.Set("list_ids", r.ListIDs)
	}
	return v
}

// CreateEmailMessageRequest represents createEmailMessage parameters
type CreateEmailMessageRequest struct {
	SenderName  string
	SenderEmail string
	Subject     string
	Body        string
	ListID      int64
}

func (r *CreateEmailMessageRequest) values() url.Values {
	v := url.Values{}
	v.Set("sender_name", r.SenderName)
	v.Set("sender_email", r.SenderEmail)
	v.Set("subject", r.Subject)
	v.Set("body", r.Body)
	v.Set("list_id", formatID(r.ListID))
	return v
}

// CreateCampaignRequest represents createCampaign parameters
type CreateCampaignRequest struct {
	MessageID int64
	Contacts  string
}

func (r *CreateCampaignRequest) values() url.Values {
	v := url.Values{}
	v.Set("message_id", formatID(r.MessageID))
	if r.Contacts != "" {
		v.Set("contacts", r.Contacts)
	}
	return v
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
