package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/foxzi/unisender-sync/internal/models"
)

type TagRepository struct {
	db *sql.DB
}

func NewTagRepository(db *sql.DB) *TagRepository {
	return &TagRepository{db: db}
}

// GetOrCreate returns the tag with the given name, creating it if needed
func (r *TagRepository) GetOrCreate(name string) (*models.Tag, error) {
	_, err := r.db.Exec("INSERT OR IGNORE INTO tags (name, created_at) VALUES (?, ?)", name, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	t := &models.Tag{}
	err = r.db.QueryRow("SELECT id, name, created_at FROM tags WHERE name = ?", name).
		Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return t, nil
}

// List returns all tags
func (r *TagRepository) List() ([]models.Tag, error) {
	rows, err := r.db.Query("SELECT id, name, created_at FROM tags ORDER BY name")
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
