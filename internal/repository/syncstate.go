package repository

import (
	"database/sql"
	"fmt"

	"github.com/foxzi/unisender-sync/internal/models"
)

// SyncStateRepository writes the remote bookkeeping of any synced record
type SyncStateRepository struct {
	db *sql.DB
}

func NewSyncStateRepository(db *sql.DB) *SyncStateRepository {
	return &SyncStateRepository{db: db}
}

// Save stores the remote id and last error of a record
func (r *SyncStateRepository) Save(entity models.Entity, id int64, state models.SyncState) error {
	switch entity {
	case models.EntityField, models.EntityList, models.EntitySubscriber,
		models.EntityEmailMessage, models.EntityCampaign:
	default:
		return fmt.Errorf("unknown entity: %s", entity)
	}

	_, err := r.db.Exec(
		"UPDATE "+string(entity)+" SET unisender_id = ?, last_error = ? WHERE id = ?",
		state.UnisenderID, state.LastError, id,
	)
	if err != nil {
		return fmt.Errorf("failed to save %s sync state: %w", entity, err)
	}
	return nil
}
