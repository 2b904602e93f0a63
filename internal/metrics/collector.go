package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// CampaignCounter reports local campaign counts keyed by status
type CampaignCounter interface {
	CountByStatus() (map[string]int, error)
}

// Collector refreshes gauges that are derived from local state
type Collector struct {
	metrics   *Metrics
	campaigns CampaignCounter
	interval  time.Duration
	startTime time.Time
	logger    *slog.Logger

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewCollector creates a new gauge collector
func NewCollector(m *Metrics, campaigns CampaignCounter, interval time.Duration, logger *slog.Logger) *Collector {
	if interval == 0 {
		interval = 15 * time.Second
	}
	return &Collector{
		metrics:   m,
		campaigns: campaigns,
		interval:  interval,
		startTime: time.Now(),
		logger:    logger.With("component", "metrics_collector"),
		stopCh:    make(chan struct{}),
	}
}

// Start begins periodic gauge updates
func (c *Collector) Start(ctx context.Context) {
	c.wg.Add(1)
	go c.loop(ctx)
}

// Stop stops the collector
func (c *Collector) Stop() {
	close(c.stopCh)
	c.wg.Wait()
}

func (c *Collector) loop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.Collect()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.Collect()
		}
	}
}

// Collect updates all gauges once
func (c *Collector) Collect() {
	c.metrics.UptimeSeconds.Set(time.Since(c.startTime).Seconds())

	counts, err := c.campaigns.CountByStatus()
	if err != nil {
		c.logger.Error("failed to count campaigns", "error", err)
		return
	}

	c.metrics.CampaignsByStatus.Reset()
	for status, n := range counts {
		if status == "" {
			status = "draft"
		}
		c.metrics.CampaignsByStatus.WithLabelValues(status).Add(float64(n))
	}
}
