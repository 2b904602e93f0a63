package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/foxzi/unisender-sync/internal/models"
)

type ListRepository struct {
	db *sql.DB
}

func NewListRepository(db *sql.DB) *ListRepository {
	return &ListRepository{db: db}
}

const listColumns = "id, title, before_subscribe_url, after_subscribe_url, unisender_id, last_error, created_at"

func scanList(row interface{ Scan(...any) error }, l *models.SubscribeList) error {
	return row.Scan(&l.ID, &l.Title, &l.BeforeSubscribeURL, &l.AfterSubscribeURL, &l.UnisenderID, &l.LastError, &l.CreatedAt)
}

// Create creates a new subscribe list
func (r *ListRepository) Create(l *models.SubscribeList) error {
	l.CreatedAt = time.Now()

	res, err := r.db.Exec(`
		INSERT INTO subscribe_lists (title, before_subscribe_url, after_subscribe_url, unisender_id, last_error, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		l.Title, l.BeforeSubscribeURL, l.AfterSubscribeURL, l.UnisenderID, l.LastError, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create list: %w", err)
	}
	l.ID, err = res.LastInsertId()
	return err
}

// GetByID returns a list by ID
func (r *ListRepository) GetByID(id int64) (*models.SubscribeList, error) {
	l := &models.SubscribeList{}
	err := scanList(r.db.QueryRow("SELECT "+listColumns+" FROM subscribe_lists WHERE id = ?", id), l)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// List returns all lists
func (r *ListRepository) List() ([]models.SubscribeList, error) {
	rows, err := r.db.Query("SELECT " + listColumns + " FROM subscribe_lists ORDER BY id")
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

// Update updates list attributes
func (r *ListRepository) Update(l *models.SubscribeList) error {
	_, err := r.db.Exec(`
		UPDATE subscribe_lists SET title = ?, before_subscribe_url = ?, after_subscribe_url = ?
		WHERE id = ?`,
		l.Title, l.BeforeSubscribeURL, l.AfterSubscribeURL, l.ID,
	)
	return err
}

// Delete deletes a list
func (r *ListRepository) Delete(id int64) error {
	_, err := r.db.Exec("DELETE FROM subscribe_lists WHERE id = ?", id)
	return err
}
