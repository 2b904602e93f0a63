package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/foxzi/unisender-sync/internal/models"
)

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageSelect = `
	SELECT m.id, m.sender_name, m.sender_email, m.subject, m.body, m.body_format, m.list_id,
		m.unisender_id, m.last_error, m.created_at,
		l.id, l.title, l.before_subscribe_url, l.after_subscribe_url, l.unisender_id, l.last_error, l.created_at
	FROM email_messages m
	JOIN subscribe_lists l ON m.list_id = l.id`

func scanMessage(row interface{ Scan(...any) error }, m *models.EmailMessage) error {
	return row.Scan(
		&m.ID, &m.SenderName, &m.SenderEmail, &m.Subject, &m.Body, &m.BodyFormat, &m.ListID,
		&m.UnisenderID, &m.LastError, &m.CreatedAt,
		&m.List.ID, &m.List.Title, &m.List.BeforeSubscribeURL, &m.List.AfterSubscribeURL,
		&m.List.UnisenderID, &m.List.LastError, &m.List.CreatedAt,
	)
}

// Create creates a new email message
func (r *MessageRepository) Create(m *models.EmailMessage) error {
	if m.BodyFormat == "" {
		m.BodyFormat = models.BodyHTML
	}
	m.CreatedAt = time.Now()

	res, err := r.db.Exec(`
		INSERT INTO email_messages (sender_name, sender_email, subject, body, body_format, list_id, unisender_id, last_error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.SenderName, m.SenderEmail, m.Subject, m.Body, m.BodyFormat, m.ListID, m.UnisenderID, m.LastError, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	m.ID, err = res.LastInsertId()
	return err
}

// GetByID returns a message with its list
func (r *MessageRepository) GetByID(id int64) (*models.EmailMessage, error) {
	m := &models.EmailMessage{}
	err := scanMessage(r.db.QueryRow(messageSelect+" WHERE m.id = ?", id), m)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// List returns all messages with their lists
func (r *MessageRepository) List() ([]models.EmailMessage, error) {
	rows, err := r.db.Query(messageSelect + " ORDER BY m.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.EmailMessage{}
	for rows.Next() {
		var m models.EmailMessage
		if err := scanMessage(rows, &m); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// Delete deletes a message
func (r *MessageRepository) Delete(id int64) error {
	_, err := r.db.Exec("DELETE FROM email_messages WHERE id = ?", id)
	return err
}
