package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/foxzi/unisender-sync/internal/models"
)

type SubscriberRepository struct {
	db *sql.DB
}

func NewSubscriberRepository(db *sql.DB) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

const subscriberColumns = "id, contact, contact_type, double_optin, unisender_id, last_error, created_at"

func scanSubscriber(row interface{ Scan(...any) error }, s *models.Subscriber) error {
	return row.Scan(&s.ID, &s.Contact, &s.ContactType, &s.DoubleOptin, &s.UnisenderID, &s.LastError, &s.CreatedAt)
}

// Create creates a new subscriber
func (r *SubscriberRepository) Create(s *models.Subscriber) error {
	if s.ContactType == "" {
		s.ContactType = models.ContactEmail
	}
	s.CreatedAt = time.Now()

	res, err := r.db.Exec(`
		INSERT INTO subscribers (contact, contact_type, double_optin, unisender_id, last_error, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.Contact, s.ContactType, s.DoubleOptin, s.UnisenderID, s.LastError, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create subscriber: %w", err)
	}
	s.ID, err = res.LastInsertId()
	return err
}

// GetByID returns a subscriber with lists, tags and field values in
// attachment order
func (r *SubscriberRepository) GetByID(id int64) (*models.Subscriber, error) {
	s := &models.Subscriber{}
	err := scanSubscriber(r.db.QueryRow("SELECT "+subscriberColumns+" FROM subscribers WHERE id = ?", id), s)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if s.Lists, err = r.GetLists(id); err != nil {
		return nil, err
	}
	if s.Tags, err = r.GetTags(id); err != nil {
		return nil, err
	}
	if s.Fields, err = r.GetFields(id); err != nil {
		return nil, err
	}
	return s, nil
}

// List returns all subscribers without relations
func (r *SubscriberRepository) List() ([]models.Subscriber, error) {
	rows, err := r.db.Query("SELECT " + subscriberColumns + " FROM subscribers ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subscribers := []models.Subscriber{}
	for rows.Next() {
		var s models.Subscriber
		if err := scanSubscriber(rows, &s); err != nil {
			return nil, err
		}
		subscribers = append(subscribers, s)
	}
	return subscribers, rows.Err()
}

// Delete deletes a subscriber
func (r *SubscriberRepository) Delete(id int64) error {
	_, err := r.db.Exec("DELETE FROM subscribers WHERE id = ?", id)
	return err
}

// AddList attaches a list. Attaching twice is a no-op.
func (r *SubscriberRepository) AddList(subscriberID, listID int64) error {
	_, err := r.db.Exec(
		"INSERT OR IGNORE INTO subscriber_lists (subscriber_id, list_id) VALUES (?, ?)",
		subscriberID, listID,
	)
	if err != nil {
		return fmt.Errorf("failed to add list: %w", err)
	}
	return nil
}

// AddTag attaches a tag. Attaching twice is a no-op.
func (r *SubscriberRepository) AddTag(subscriberID, tagID int64) error {
	_, err := r.db.Exec(
		"INSERT OR IGNORE INTO subscriber_tags (subscriber_id, tag_id) VALUES (?, ?)",
		subscriberID, tagID,
	)
	if err != nil {
		return fmt.Errorf("failed to add tag: %w", err)
	}
	return nil
}

// SetFieldValue sets the value of a field. Re-setting a field replaces the
// value and keeps its original position.
func (r *SubscriberRepository) SetFieldValue(subscriberID, fieldID int64, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO subscriber_fields (subscriber_id, field_id, value)
		VALUES (?, ?, ?)
		ON CONFLICT(subscriber_id, field_id) DO UPDATE SET value = excluded.value`,
		subscriberID, fieldID, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set field value: %w", err)
	}
	return nil
}

// GetLists returns attached lists in attachment order
func (r *SubscriberRepository) GetLists(subscriberID int64) ([]models.SubscribeList, error) {
	rows, err := r.db.Query(`
		SELECT l.id, l.title, l.before_subscribe_url, l.after_subscribe_url, l.unisender_id, l.last_error, l.created_at
		FROM subscriber_lists sl
		JOIN subscribe_lists l ON sl.list_id = l.id
		WHERE sl.subscriber_id = ?
		ORDER BY sl.id`, subscriberID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []models.SubscribeList{}
	for rows.Next() {
		var l models.SubscribeList
		if err := scanList(rows, &l); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

// GetTags returns attached tags in attachment order
func (r *SubscriberRepository) GetTags(subscriberID int64) ([]models.Tag, error) {
	rows, err := r.db.Query(`
		SELECT t.id, t.name, t.created_at
		FROM subscriber_tags st
		JOIN tags t ON st.tag_id = t.id
		WHERE st.subscriber_id = ?
		ORDER BY st.id`, subscriberID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// GetFields returns field values in attachment order
func (r *SubscriberRepository) GetFields(subscriberID int64) ([]models.SubscriberField, error) {
	rows, err := r.db.Query(`
		SELECT sf.id, sf.subscriber_id, sf.value,
			f.id, f.name, f.type, f.unisender_id, f.last_error, f.created_at
		FROM subscriber_fields sf
		JOIN fields f ON sf.field_id = f.id
		WHERE sf.subscriber_id = ?
		ORDER BY sf.id`, subscriberID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []models.SubscriberField{}
	for rows.Next() {
		var v models.SubscriberField
		err := rows.Scan(&v.ID, &v.SubscriberID, &v.Value,
			&v.Field.ID, &v.Field.Name, &v.Field.Type, &v.Field.UnisenderID, &v.Field.LastError, &v.Field.CreatedAt)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
