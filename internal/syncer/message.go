package syncer

import (
	"context"

	"github.com/foxzi/unisender-sync/internal/models"
	"github.com/foxzi/unisender-sync/internal/render"
	"github.com/foxzi/unisender-sync/internal/unisender"
)

// CreateEmailMessage creates the message remotely for the list's remote id
// and returns the remote message id. Markdown bodies are sent as HTML.
func (s *Syncer) CreateEmailMessage(ctx context.Context, m *models.EmailMessage) (int64, error) {
	body, err := render.Body(m)
	if err != nil {
		return 0, err
	}

	resp, err := s.api.CreateEmailMessage(ctx, &unisender.CreateEmailMessageRequest{
		SenderName:  m.SenderName,
		SenderEmail: m.SenderEmail,
		Subject:     m.Subject,
		Body:        body,
		ListID:      m.List.UnisenderID,
	})
	if err != nil {
		return 0, callError("createEmailMessage", err)
	}

	var id int64
	code := createCode(resp)
	if code == "" {
		id = resp.Result.MessageID
		m.UnisenderID = id
	}
	if err := s.settle(models.EntityEmailMessage, m.ID, &m.SyncState, "createEmailMessage", code); err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteMessage deletes the remote message
func (s *Syncer) DeleteMessage(ctx context.Context, m *models.EmailMessage) error {
	resp, err := s.api.DeleteMessage(ctx, m.UnisenderID)
	if err != nil {
		return callError("deleteMessage", err)
	}

	if !resp.Failed() {
		m.UnisenderID = 0
	}
	return s.settle(models.EntityEmailMessage, m.ID, &m.SyncState, "deleteMessage", resp.ErrorCode())
}
