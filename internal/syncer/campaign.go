package syncer

import (
	"context"

	"github.com/foxzi/unisender-sync/internal/metrics"
	"github.com/foxzi/unisender-sync/internal/models"
	"github.com/foxzi/unisender-sync/internal/unisender"
)

// CreateCampaign schedules the campaign's message for its contacts and
// returns the result as sent by the API
func (s *Syncer) CreateCampaign(ctx context.Context, c *models.Campaign) (*unisender.CampaignResult, error) {
	resp, err := s.api.CreateCampaign(ctx, &unisender.CreateCampaignRequest{
		MessageID: c.EmailMessage.UnisenderID,
		Contacts:  c.SerializeContacts(),
	})
	if err != nil {
		return nil, callError("createCampaign", err)
	}

	var result *unisender.CampaignResult
	code := createCode(resp)
	if code == "" {
		result = resp.Result
		c.UnisenderID = result.CampaignID
	}

	// the remote campaign exists from here on, record its id before the
	// tracking columns
	if err := s.settle(models.EntityCampaign, c.ID, &c.SyncState, "createCampaign", code); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	c.Status = result.Status
	c.RecipientCount = result.Count
	if err := s.campaigns.UpdateTracking(c); err != nil {
		return nil, err
	}
	metrics.IncCampaignStatusChange(c.Status)
	return result, nil
}
