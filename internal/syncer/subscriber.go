package syncer

import (
	"context"

	"github.com/foxzi/unisender-sync/internal/models"
	"github.com/foxzi/unisender-sync/internal/unisender"
)

// Subscribe adds the subscriber to its lists and returns the remote person id
func (s *Syncer) Subscribe(ctx context.Context, sub *models.Subscriber) (int64, error) {
	resp, err := s.api.Subscribe(ctx, &unisender.SubscribeRequest{
		ListIDs:     sub.SerializeListIDs(),
		Fields:      sub.SerializeFields(),
		Tags:        sub.SerializeTags(),
		DoubleOptin: sub.DoubleOptin,
	})
	if err != nil {
		return 0, callError("subscribe", err)
	}

	var id int64
	code := createCode(resp)
	if code == "" {
		id = resp.Result.PersonID
		sub.UnisenderID = id
	}
	if err := s.settle(models.EntitySubscriber, sub.ID, &sub.SyncState, "subscribe", code); err != nil {
		return 0, err
	}
	return id, nil
}

// Unsubscribe marks the subscriber as unsubscribed from its lists
func (s *Syncer) Unsubscribe(ctx context.Context, sub *models.Subscriber) error {
	resp, err := s.api.Unsubscribe(ctx, contactRequest(sub))
	if err != nil {
		return callError("unsubscribe", err)
	}
	return s.settle(models.EntitySubscriber, sub.ID, &sub.SyncState, "unsubscribe", resp.ErrorCode())
}

// Exclude removes the subscriber from its lists
func (s *Syncer) Exclude(ctx context.Context, sub *models.Subscriber) error {
	resp, err := s.api.Exclude(ctx, contactRequest(sub))
	if err != nil {
		return callError("exclude", err)
	}
	return s.settle(models.EntitySubscriber, sub.ID, &sub.SyncState, "exclude", resp.ErrorCode())
}

func contactRequest(sub *models.Subscriber) *unisender.ContactRequest {
	contactType := sub.ContactType
	if contactType == "" {
		contactType = models.ContactEmail
	}
	return &unisender.ContactRequest{
		ContactType: contactType,
		Contact:     sub.Contact,
		ListIDs:     sub.SerializeListIDs(),
	}
}
