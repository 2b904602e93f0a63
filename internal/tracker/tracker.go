// Package tracker polls Unisender for the status of campaigns that are still
// in flight and stores what it finds.
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/foxzi/unisender-sync/internal/metrics"
	"github.com/foxzi/unisender-sync/internal/models"
	"github.com/foxzi/unisender-sync/internal/syncer"
	"github.com/foxzi/unisender-sync/internal/unisender"
)

// StatusCompleted is the remote status after which delivery counts are final
const StatusCompleted = "completed"

// CampaignStore loads and updates tracked campaigns. ListTrackable returns
// the least recently polled campaigns first.
type CampaignStore interface {
	ListTrackable(limit int) ([]models.Campaign, error)
	UpdateTracking(c *models.Campaign) error
	MarkPolled(id int64) error
}

// Config holds tracker configuration
type Config struct {
	BatchSize    int
	PollInterval time.Duration
}

// DefaultConfig returns default tracker configuration
func DefaultConfig() Config {
	return Config{
		BatchSize:    50,
		PollInterval: time.Minute,
	}
}

// Tracker refreshes campaign status in the background
type Tracker struct {
	api       unisender.API
	campaigns CampaignStore
	logger    *slog.Logger

	batchSize    int
	pollInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new tracker
func New(api unisender.API, campaigns CampaignStore, logger *slog.Logger, cfg Config) *Tracker {
	def := DefaultConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Tracker{
		api:          api,
		campaigns:    campaigns,
		logger:       logger.With("component", "tracker"),
		batchSize:    cfg.BatchSize,
		pollInterval: cfg.PollInterval,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start starts the tracker
func (t *Tracker) Start() {
	t.wg.Add(1)
	go t.run()
	t.logger.Info("tracker started", "batch_size", t.batchSize, "poll_interval", t.pollInterval)
}

// Stop stops the tracker gracefully
func (t *Tracker) Stop() {
	t.logger.Info("stopping tracker...")
	t.cancel()
	t.wg.Wait()
	t.logger.Info("tracker stopped")
}

func (t *Tracker) run() {
	defer t.wg.Done()

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	t.Poll(t.ctx)

	for {
		select {
		case <-t.ctx.Done():
			return
		case <-ticker.C:
			t.Poll(t.ctx)
		}
	}
}

// Poll refreshes one batch of trackable campaigns and returns how many of
// them changed
func (t *Tracker) Poll(ctx context.Context) int {
	metrics.IncTrackerPolls()

	campaigns, err := t.campaigns.ListTrackable(t.batchSize)
	if err != nil {
		t.logger.Error("failed to list trackable campaigns", "error", err)
		return 0
	}

	changed := 0
	for i := range campaigns {
		select {
		case <-ctx.Done():
			return changed
		default:
		}

		updated, err := t.track(ctx, &campaigns[i])
		if errors.Is(err, unisender.ErrQuotaExceeded) {
			t.logger.Warn("call quota exhausted, skipping rest of batch", "error", err)
			return changed
		}
		if markErr := t.campaigns.MarkPolled(campaigns[i].ID); markErr != nil {
			t.logger.Error("failed to mark campaign polled", "campaign_id", campaigns[i].ID, "error", markErr)
		}
		if err != nil {
			t.logger.Error("failed to track campaign", "campaign_id", campaigns[i].ID, "error", err)
			continue
		}
		if updated {
			changed++
		}
	}
	return changed
}

func (t *Tracker) track(ctx context.Context, c *models.Campaign) (bool, error) {
	cs := syncer.NewCampaignStatus(t.api, c.UnisenderID, t.logger)

	status, err := cs.GetCampaignStatus(ctx)
	if err != nil {
		return false, err
	}
	if status == "" {
		return false, nil
	}

	previous := *c
	c.Status = status

	if status == StatusCompleted {
		stats, err := cs.GetCampaignAggregateStats(ctx)
		if err != nil {
			return false, err
		}
		if stats != nil {
			c.SuccessCount, c.ErrorCount = syncer.CountDeliveries(stats)
			if stats.Total > 0 {
				c.RecipientCount = stats.Total
			}
		}
	}

	if c.Status == previous.Status &&
		c.SuccessCount == previous.SuccessCount &&
		c.ErrorCount == previous.ErrorCount &&
		c.RecipientCount == previous.RecipientCount {
		return false, nil
	}

	if err := t.campaigns.UpdateTracking(c); err != nil {
		return false, err
	}

	if c.Status != previous.Status {
		metrics.IncCampaignStatusChange(c.Status)
		t.logger.Info("campaign status changed",
			"campaign_id", c.ID,
			"unisender_id", c.UnisenderID,
			"from", previous.Status,
			"to", c.Status)
	}
	return true, nil
}
