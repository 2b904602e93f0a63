package syncer

import (
	"context"

	"github.com/foxzi/unisender-sync/internal/models"
	"github.com/foxzi/unisender-sync/internal/unisender"
)

// CreateField creates the field remotely and returns its remote id
func (s *Syncer) CreateField(ctx context.Context, f *models.Field) (int64, error) {
	fieldType := f.Type
	if fieldType == "" {
		fieldType = models.FieldTypeString
	}

	resp, err := s.api.CreateField(ctx, &unisender.CreateFieldRequest{Name: f.Name, Type: fieldType})
	if err != nil {
		return 0, callError("createField", err)
	}

	var id int64
	code := createCode(resp)
	if code == "" {
		id = resp.Result.ID
		f.UnisenderID = id
	}
	if err := s.settle(models.EntityField, f.ID, &f.SyncState, "createField", code); err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateField renames the remote field. The returned id comes from the top
// level of the response.
func (s *Syncer) UpdateField(ctx context.Context, f *models.Field) (int64, error) {
	resp, err := s.api.UpdateField(ctx, &unisender.UpdateFieldRequest{ID: f.UnisenderID, Name: f.Name})
	if err != nil {
		return 0, callError("updateField", err)
	}

	var id int64
	if !resp.Failed() {
		id = resp.ID
	}
	if err := s.settle(models.EntityField, f.ID, &f.SyncState, "updateField", resp.ErrorCode()); err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteField deletes the remote field
func (s *Syncer) DeleteField(ctx context.Context, f *models.Field) error {
	resp, err := s.api.DeleteField(ctx, f.UnisenderID)
	if err != nil {
		return callError("deleteField", err)
	}

	if !resp.Failed() {
		f.UnisenderID = 0
	}
	return s.settle(models.EntityField, f.ID, &f.SyncState, "deleteField", resp.ErrorCode())
}
