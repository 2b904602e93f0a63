package syncer

import (
	"context"

	"github.com/foxzi/unisender-sync/internal/models"
	"github.com/foxzi/unisender-sync/internal/unisender"
)

// CreateList creates the list remotely and returns its remote id
func (s *Syncer) CreateList(ctx context.Context, l *models.SubscribeList) (int64, error) {
	resp, err := s.api.CreateList(ctx, &unisender.CreateListRequest{
		Title:              l.Title,
		BeforeSubscribeURL: l.BeforeSubscribeURL,
		AfterSubscribeURL:  l.AfterSubscribeURL,
	})
	if err != nil {
		return 0, callError("createList", err)
	}

	var id int64
	code := createCode(resp)
	if code == "" {
		id = resp.Result.ID
		l.UnisenderID = id
	}
	if err := s.settle(models.EntityList, l.ID, &l.SyncState, "createList", code); err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateList changes the remote list title
func (s *Syncer) UpdateList(ctx context.Context, l *models.SubscribeList) error {
	resp, err := s.api.UpdateList(ctx, &unisender.UpdateListRequest{ID: l.UnisenderID, Title: l.Title})
	if err != nil {
		return callError("updateList", err)
	}
	return s.settle(models.EntityList, l.ID, &l.SyncState, "updateList", resp.ErrorCode())
}

// DeleteList deletes the remote list
func (s *Syncer) DeleteList(ctx context.Context, l *models.SubscribeList) error {
	resp, err := s.api.DeleteList(ctx, l.UnisenderID)
	if err != nil {
		return callError("deleteList", err)
	}

	if !resp.Failed() {
		l.UnisenderID = 0
	}
	return s.settle(models.EntityList, l.ID, &l.SyncState, "deleteList", resp.ErrorCode())
}
