package metrics

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func TestNew(t *testing.T) {
	m := New()
	if m == nil {
		t.Fatal("New() returned nil")
	}
	if m.Registry() == nil {
		t.Error("Registry() returned nil")
	}
	if m.APICallsTotal == nil {
		t.Error("APICallsTotal is nil")
	}
	if m.CampaignsByStatus == nil {
		t.Error("CampaignsByStatus is nil")
	}
}

func TestGlobalMetrics(t *testing.T) {
	if Global() != nil {
		t.Error("Global() should be nil before SetGlobal")
	}

	m := New()
	SetGlobal(m)
	if Global() != m {
		t.Error("Global() did not return the set metrics")
	}

	SetGlobal(nil)
}

func TestHelpersWithoutGlobal(t *testing.T) {
	// must not panic
	ObserveAPICall("createField", "ok", time.Millisecond)
	IncAPIErrors("invalid_arg")
	IncQuotaDenied("global")
	IncSync("fields", "ok")
	IncCampaignStatusChange("completed")
	IncTrackerPolls()
}

func TestObserveAPICall(t *testing.T) {
	m := New()
	SetGlobal(m)
	defer SetGlobal(nil)

	ObserveAPICall("subscribe", "ok", 20*time.Millisecond)
	ObserveAPICall("subscribe", "ok", 30*time.Millisecond)
	ObserveAPICall("subscribe", "error", 10*time.Millisecond)

	counter, err := m.APICallsTotal.GetMetricWithLabelValues("subscribe", "ok")
	if err != nil {
		t.Fatalf("Failed to get counter: %v", err)
	}
	if v := counterValue(t, counter); v != 2 {
		t.Errorf("Expected counter value 2, got %f", v)
	}

	var metric dto.Metric
	hist, err := m.APICallDurationSeconds.GetMetricWithLabelValues("subscribe")
	if err != nil {
		t.Fatalf("Failed to get histogram: %v", err)
	}
	if err := hist.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 3 {
		t.Errorf("Expected 3 samples, got %d", metric.Histogram.GetSampleCount())
	}
}

func TestIncAPIErrors(t *testing.T) {
	m := New()
	SetGlobal(m)
	defer SetGlobal(nil)

	IncAPIErrors("invalid_arg")
	IncAPIErrors("invalid_arg")
	IncAPIErrors("access_denied")

	counter, err := m.APIErrorsTotal.GetMetricWithLabelValues("invalid_arg")
	if err != nil {
		t.Fatalf("Failed to get counter: %v", err)
	}
	if v := counterValue(t, counter); v != 2 {
		t.Errorf("Expected counter value 2, got %f", v)
	}
}

type staticCounter map[string]int

func (s staticCounter) CountByStatus() (map[string]int, error) {
	return s, nil
}

func TestCollector_Collect(t *testing.T) {
	m := New()
	c := NewCollector(m, staticCounter{"scheduled": 2, "": 1}, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))

	c.Collect()

	var metric dto.Metric
	if err := m.CampaignsByStatus.WithLabelValues("scheduled").Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() != 2 {
		t.Errorf("Expected 2 scheduled campaigns, got %f", metric.Gauge.GetValue())
	}

	metric.Reset()
	if err := m.CampaignsByStatus.WithLabelValues("draft").Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() != 1 {
		t.Errorf("Expected 1 draft campaign, got %f", metric.Gauge.GetValue())
	}
}

func TestServer_Handler(t *testing.T) {
	m := New()
	m.TrackerPollsTotal.Inc()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		allowed    []string
		path       string
		remoteAddr string
		wantStatus int
		wantBody   string
	}{
		{name: "health", path: "/health", remoteAddr: "10.0.0.1:1234", wantStatus: http.StatusOK, wantBody: "OK"},
		{name: "metrics open", path: "/metrics", remoteAddr: "10.0.0.1:1234", wantStatus: http.StatusOK, wantBody: "unisender_tracker_polls_total"},
		{name: "metrics allowed cidr", allowed: []string{"10.0.0.0/8"}, path: "/metrics", remoteAddr: "10.1.2.3:1234", wantStatus: http.StatusOK},
		{name: "metrics denied", allowed: []string{"192.168.1.1"}, path: "/metrics", remoteAddr: "10.1.2.3:1234", wantStatus: http.StatusForbidden},
		{name: "health ignores filter", allowed: []string{"192.168.1.1"}, path: "/health", remoteAddr: "10.1.2.3:1234", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewServer(m, "", "", tt.allowed, logger)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.RemoteAddr = tt.remoteAddr
			rec := httptest.NewRecorder()

			srv.Handler().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body does not contain %q", tt.wantBody)
			}
		})
	}
}

func TestServer_ForwardedFor(t *testing.T) {
	srv := NewServer(New(), "", "", []string{"203.0.113.7"}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
