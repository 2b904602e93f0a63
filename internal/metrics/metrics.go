package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	globalMetrics *Metrics
	globalMu      sync.RWMutex
)

// Metrics holds all Prometheus metrics for unisender-sync
type Metrics struct {
	// Remote API calls
	APICallsTotal          *prometheus.CounterVec
	APICallDurationSeconds *prometheus.HistogramVec
	APIErrorsTotal         *prometheus.CounterVec
	QuotaDeniedTotal       *prometheus.CounterVec

	// Sync outcomes per entity
	SyncTotal *prometheus.CounterVec

	// Campaign tracking
	CampaignsByStatus          *prometheus.GaugeVec
	CampaignStatusChangesTotal *prometheus.CounterVec
	TrackerPollsTotal          prometheus.Counter

	UptimeSeconds prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a new Metrics instance with all metrics registered
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		APICallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unisender_api_calls_total",
				Help: "Total number of Unisender API calls",
			},
			[]string{"method", "outcome"},
		),
		APICallDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "unisender_api_call_duration_seconds",
				Help:    "Unisender API call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		APIErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unisender_api_errors_total",
				Help: "Total number of error envelopes by error code",
			},
			[]string{"code"},
		),
		QuotaDeniedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unisender_quota_denied_total",
				Help: "Total number of calls refused by the local call quota",
			},
			[]string{"level"},
		),
		SyncTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unisender_sync_total",
				Help: "Total number of record sync attempts",
			},
			[]string{"entity", "status"},
		),
		CampaignsByStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "unisender_campaigns",
				Help: "Number of local campaigns by remote status",
			},
			[]string{"status"},
		),
		CampaignStatusChangesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unisender_campaign_status_changes_total",
				Help: "Total number of campaign status changes seen by the tracker",
			},
			[]string{"status"},
		),
		TrackerPollsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "unisender_tracker_polls_total",
				Help: "Total number of tracker poll rounds",
			},
		),
		UptimeSeconds: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "unisender_sync_uptime_seconds",
				Help: "Process uptime in seconds",
			},
		),
		registry: reg,
	}

	reg.MustRegister(
		m.APICallsTotal,
		m.APICallDurationSeconds,
		m.APIErrorsTotal,
		m.QuotaDeniedTotal,
		m.SyncTotal,
		m.CampaignsByStatus,
		m.CampaignStatusChangesTotal,
		m.TrackerPollsTotal,
		m.UptimeSeconds,
	)

	return m
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// SetGlobal sets the global metrics instance
func SetGlobal(m *Metrics) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalMetrics = m
}

// Global returns the global metrics instance
func Global() *Metrics {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalMetrics
}

// ObserveAPICall records one API call. outcome is ok, error or transport.
func ObserveAPICall(method, outcome string, d time.Duration) {
	m := Global()
	if m != nil {
		m.APICallsTotal.WithLabelValues(method, outcome).Inc()
		m.APICallDurationSeconds.WithLabelValues(method).Observe(d.Seconds())
	}
}

// IncAPIErrors increments the error envelope counter
func IncAPIErrors(code string) {
	m := Global()
	if m != nil {
		m.APIErrorsTotal.WithLabelValues(code).Inc()
	}
}

// IncQuotaDenied increments the quota denial counter
func IncQuotaDenied(level string) {
	m := Global()
	if m != nil {
		m.QuotaDeniedTotal.WithLabelValues(level).Inc()
	}
}

// IncSync increments the sync outcome counter
func IncSync(entity, status string) {
	m := Global()
	if m != nil {
		m.SyncTotal.WithLabelValues(entity, status).Inc()
	}
}

// IncCampaignStatusChange counts a campaign moving to status
func IncCampaignStatusChange(status string) {
	m := Global()
	if m != nil {
		m.CampaignStatusChangesTotal.WithLabelValues(status).Inc()
	}
}

// IncTrackerPolls counts a tracker poll round
func IncTrackerPolls() {
	m := Global()
	if m != nil {
		m.TrackerPollsTotal.Inc()
	}
}
