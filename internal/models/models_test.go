package models

import (
	"testing"

	"github.com/foxzi/unisender-sync/internal/errcodes"
)

func TestSubscriber_SerializeFields(t *testing.T) {
	field1 := Field{ID: 1, Name: "test"}
	field2 := Field{ID: 2, Name: "test_2"}

	tests := []struct {
		name       string
		subscriber Subscriber
		want       string
	}{
		{
			name:       "email without fields",
			subscriber: Subscriber{Contact: "mail@example.com", ContactType: ContactEmail},
			want:       "fields[email]=mail@example.com",
		},
		{
			name:       "default contact type is email",
			subscriber: Subscriber{Contact: "mail@example.com"},
			want:       "fields[email]=mail@example.com",
		},
		{
			name:       "phone without fields",
			subscriber: Subscriber{Contact: "9123456789", ContactType: ContactPhone},
			want:       "fields[phone]=9123456789",
		},
		{
			name: "email with one field",
			subscriber: Subscriber{
				Contact: "mail@example.com",
				Fields:  []SubscriberField{{Field: field1, Value: "test_value"}},
			},
			want: "fields[email]=mail@example.com&fields[test]=test_value",
		},
		{
			name: "email with two fields",
			subscriber: Subscriber{
				Contact: "mail@example.com",
				Fields: []SubscriberField{
					{Field: field1, Value: "test_value"},
					{Field: field2, Value: "test_value_2"},
				},
			},
			want: "fields[email]=mail@example.com&fields[test]=test_value&fields[test_2]=test_value_2",
		},
		{
			name: "phone keeps attachment order",
			subscriber: Subscriber{
				Contact:     "9123456789",
				ContactType: ContactPhone,
				Fields: []SubscriberField{
					{Field: field2, Value: "b"},
					{Field: field1, Value: "a"},
				},
			},
			want: "fields[phone]=9123456789&fields[test_2]=b&fields[test]=a",
		},
		{
			name: "values are not escaped",
			subscriber: Subscriber{
				Contact: "a+b@example.com",
				Fields:  []SubscriberField{{Field: field1, Value: "x y&z"}},
			},
			want: "fields[email]=a+b@example.com&fields[test]=x y&z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.subscriber.SerializeFields(); got != tt.want {
				t.Errorf("SerializeFields() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSubscriber_SerializeListIDs(t *testing.T) {
	s := &Subscriber{Contact: "mail@example.com"}
	if got := s.SerializeListIDs(); got != "" {
		t.Errorf("SerializeListIDs() = %q, want empty", got)
	}

	s.Lists = append(s.Lists, SubscribeList{ID: 3, Title: "test"})
	if got := s.SerializeListIDs(); got != "3" {
		t.Errorf("SerializeListIDs() = %q, want %q", got, "3")
	}

	s.Lists = append(s.Lists, SubscribeList{ID: 1, Title: "test_2"})
	if got := s.SerializeListIDs(); got != "3,1" {
		t.Errorf("SerializeListIDs() = %q, want %q", got, "3,1")
	}
}

func TestSubscriber_SerializeTags(t *testing.T) {
	s := &Subscriber{Contact: "mail@example.com"}
	if got := s.SerializeTags(); got != "" {
		t.Errorf("SerializeTags() = %q, want empty", got)
	}

	s.Tags = append(s.Tags, Tag{ID: 1, Name: "test"})
	if got := s.SerializeTags(); got != "test" {
		t.Errorf("SerializeTags() = %q, want %q", got, "test")
	}

	s.Tags = append(s.Tags, Tag{ID: 2, Name: "test_2"})
	if got := s.SerializeTags(); got != "test,test_2" {
		t.Errorf("SerializeTags() = %q, want %q", got, "test,test_2")
	}
}

func TestCampaign_SerializeContacts(t *testing.T) {
	c := &Campaign{Name: "test"}
	if got := c.SerializeContacts(); got != "" {
		t.Errorf("SerializeContacts() = %q, want empty", got)
	}

	c.Contacts = append(c.Contacts, Subscriber{Contact: "mail@example.com"})
	if got := c.SerializeContacts(); got != "mail@example.com" {
		t.Errorf("SerializeContacts() = %q, want %q", got, "mail@example.com")
	}

	c.Contacts = append(c.Contacts, Subscriber{Contact: "mail_2@example.com"})
	if got := c.SerializeContacts(); got != "mail@example.com,mail_2@example.com" {
		t.Errorf("SerializeContacts() = %q", got)
	}
}

func TestSyncState_LastErrorMessage(t *testing.T) {
	f := &Field{Name: "test"}

	if msg, ok := f.LastErrorMessage(); ok {
		t.Errorf("LastErrorMessage() = %q, want no error", msg)
	}

	f.LastError = "invalid_arg"
	msg, ok := f.LastErrorMessage()
	if !ok {
		t.Fatal("LastErrorMessage() reported no error")
	}
	if msg != errcodes.Common["invalid_arg"] {
		t.Errorf("LastErrorMessage() = %q, want %q", msg, errcodes.Common["invalid_arg"])
	}

	f.LastError = "test"
	msg, _ = f.LastErrorMessage()
	if msg != errcodes.DefaultMessage {
		t.Errorf("LastErrorMessage() = %q, want default message", msg)
	}
}

func TestCampaign_IsFinal(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"scheduled", false},
		{"in_progress", false},
		{"", false},
		{"completed", true},
		{"canceled", true},
	}

	for _, tt := range tests {
		c := &Campaign{Status: tt.status}
		if got := c.IsFinal(); got != tt.want {
			t.Errorf("IsFinal(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestValidFieldType(t *testing.T) {
	if !ValidFieldType(FieldTypeNumber) {
		t.Error("ValidFieldType(number) = false")
	}
	if ValidFieldType("blob") {
		t.Error("ValidFieldType(blob) = true")
	}
}
