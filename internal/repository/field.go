package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/foxzi/unisender-sync/internal/models"
)

type FieldRepository struct {
	db *sql.DB
}

func NewFieldRepository(db *sql.DB) *FieldRepository {
	return &FieldRepository{db: db}
}

// Create creates a new field
func (r *FieldRepository) Create(f *models.Field) error {
	if f.Type == "" {
		f.Type = models.FieldTypeString
	}
	f.CreatedAt = time.Now()

	res, err := r.db.Exec(`
		INSERT INTO fields (name, type, unisender_id, last_error, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		f.Name, f.Type, f.UnisenderID, f.LastError, f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create field: %w", err)
	}
	f.ID, err = res.LastInsertId()
	return err
}

// GetByID returns a field by ID
func (r *FieldRepository) GetByID(id int64) (*models.Field, error) {
	f := &models.Field{}
	err := r.db.QueryRow(`
		SELECT id, name, type, unisender_id, last_error, created_at
		FROM fields WHERE id = ?`, id,
	).Scan(&f.ID, &f.Name, &f.Type, &f.UnisenderID, &f.LastError, &f.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// List returns all fields
func (r *FieldRepository) List() ([]models.Field, error) {
	rows, err := r.db.Query(`
		SELECT id, name, type, unisender_id, last_error, created_at
		FROM fields ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := []models.Field{}
	for rows.Next() {
		var f models.Field
		if err := rows.Scan(&f.ID, &f.Name, &f.Type, &f.UnisenderID, &f.LastError, &f.CreatedAt); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

// Update updates field attributes
func (r *FieldRepository) Update(f *models.Field) error {
	_, err := r.db.Exec("UPDATE fields SET name = ?, type = ? WHERE id = ?", f.Name, f.Type, f.ID)
	return err
}

// Delete deletes a field
func (r *FieldRepository) Delete(id int64) error {
	_, err := r.db.Exec("DELETE FROM fields WHERE id = ?", id)
	return err
}
