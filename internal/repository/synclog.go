package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/foxzi/unisender-sync/internal/models"
	"github.com/google/uuid"
)

type SyncLogRepository struct {
	db *sql.DB
}

func NewSyncLogRepository(db *sql.DB) *SyncLogRepository {
	return &SyncLogRepository{db: db}
}

// Record adds a sync log entry
func (r *SyncLogRepository) Record(e *models.SyncLogEntry) error {
	e.ID = uuid.New().String()
	e.CreatedAt = time.Now()

	_, err := r.db.Exec(`
		INSERT INTO sync_log (id, entity, entity_id, method, status, error_code, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Entity, e.EntityID, e.Method, e.Status, e.ErrorCode, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record sync log entry: %w", err)
	}
	return nil
}

// List returns sync log entries, newest first
func (r *SyncLogRepository) List(filter models.SyncLogFilter) ([]models.SyncLogEntry, error) {
	query := "SELECT id, entity, entity_id, method, status, error_code, created_at FROM sync_log WHERE 1=1"
	args := []any{}

	if filter.Entity != "" {
		query += " AND entity = ?"
		args = append(args, filter.Entity)
	}
	if filter.EntityID != 0 {
		query += " AND entity_id = ?"
		args = append(args, filter.EntityID)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.SyncLogEntry{}
	for rows.Next() {
		var e models.SyncLogEntry
		if err := rows.Scan(&e.ID, &e.Entity, &e.EntityID, &e.Method, &e.Status, &e.ErrorCode, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
