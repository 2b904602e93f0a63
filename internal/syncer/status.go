package syncer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/foxzi/unisender-sync/internal/errcodes"
	"github.com/foxzi/unisender-sync/internal/models"
	"github.com/foxzi/unisender-sync/internal/unisender"
)

// CampaignStatus reads delivery state of one remote campaign. It is not
// stored; failures are kept on LastError.
type CampaignStatus struct {
	CampaignID int64
	LastError  string

	api    unisender.API
	logger *slog.Logger
}

// NewCampaignStatus creates a status facade for a remote campaign id
func NewCampaignStatus(api unisender.API, campaignID int64, logger *slog.Logger) *CampaignStatus {
	if logger == nil {
		logger = slog.Default()
	}
	return &CampaignStatus{
		CampaignID: campaignID,
		api:        api,
		logger:     logger,
	}
}

// LastErrorMessage returns the readable message of the last failure
func (c *CampaignStatus) LastErrorMessage() (string, bool) {
	return models.SyncState{LastError: c.LastError}.LastErrorMessage()
}

func (c *CampaignStatus) record(method, code string) bool {
	c.LastError = code
	if code == "" {
		return true
	}
	c.logger.Warn("unisender call failed",
		"campaign_id", c.CampaignID,
		"method", method,
		"code", code,
		"message", errcodes.Message(code))
	return false
}

// GetCampaignStatus returns the remote status, empty on failure
func (c *CampaignStatus) GetCampaignStatus(ctx context.Context) (string, error) {
	resp, err := c.api.GetCampaignStatus(ctx, c.CampaignID)
	if err != nil {
		return "", callError("getCampaignStatus", err)
	}
	if !c.record("getCampaignStatus", resp.ErrorCode()) || resp.Result == nil {
		return "", nil
	}
	return resp.Result.Status, nil
}

// GetCampaignAggregateStats returns delivery counts grouped by status, nil on
// failure
func (c *CampaignStatus) GetCampaignAggregateStats(ctx context.Context) (*unisender.AggregateStats, error) {
	resp, err := c.api.GetCampaignAggregateStats(ctx, c.CampaignID)
	if err != nil {
		return nil, callError("getCampaignAggregateStats", err)
	}
	if !c.record("getCampaignAggregateStats", resp.ErrorCode()) {
		return nil, nil
	}
	return resp.Result, nil
}

// GetVisitedLinks returns the links visited by recipients, nil on failure
func (c *CampaignStatus) GetVisitedLinks(ctx context.Context, group bool) (*unisender.VisitedLinks, error) {
	resp, err := c.api.GetVisitedLinks(ctx, c.CampaignID, group)
	if err != nil {
		return nil, callError("getVisitedLinks", err)
	}
	if !c.record("getVisitedLinks", resp.ErrorCode()) {
		return nil, nil
	}
	return resp.Result, nil
}

// GetSuccessCount returns the number of deliveries with an ok_* status.
// The second result is false on failure. Each call requests the aggregate
// stats again; when both counts are needed call GetCampaignAggregateStats
// once and pass the result to CountDeliveries.
func (c *CampaignStatus) GetSuccessCount(ctx context.Context) (int, bool, error) {
	stats, err := c.GetCampaignAggregateStats(ctx)
	if err != nil || stats == nil {
		return 0, false, err
	}
	success, _ := CountDeliveries(stats)
	return success, true, nil
}

// GetErrorCount returns the number of deliveries with an err_* status.
// The second result is false on failure. Like GetSuccessCount it makes its
// own getCampaignAggregateStats call.
func (c *CampaignStatus) GetErrorCount(ctx context.Context) (int, bool, error) {
	stats, err := c.GetCampaignAggregateStats(ctx)
	if err != nil || stats == nil {
		return 0, false, err
	}
	_, failed := CountDeliveries(stats)
	return failed, true, nil
}

// CountDeliveries sums the ok_* and err_* statuses of aggregate stats
func CountDeliveries(stats *unisender.AggregateStats) (success, failed int) {
	for status, count := range stats.Data {
		switch {
		case strings.HasPrefix(status, "ok_"):
			success += count
		case strings.HasPrefix(status, "err_"):
			failed += count
		}
	}
	return success, failed
}
