package quota

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"
)

func setupTestDB(t *testing.T) *bolt.DB {
	t.Helper()

	db, err := OpenStore(filepath.Join(t.TempDir(), "quota.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func TestNewLimiterDefaultConfig(t *testing.T) {
	db := setupTestDB(t)

	limiter, err := NewLimiter(db, nil)
	if err != nil {
		t.Fatalf("NewLimiter() error = %v", err)
	}
	defer limiter.Stop()

	if limiter.config.FlushInterval != 10*time.Second {
		t.Errorf("expected default FlushInterval=10s, got %v", limiter.config.FlushInterval)
	}
}

func TestAllowGlobalLimit(t *testing.T) {
	db := setupTestDB(t)

	limiter, err := NewLimiter(db, &Config{
		Global:        &LimitConfig{CallsPerHour: 3},
		FlushInterval: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewLimiter() error = %v", err)
	}
	defer limiter.Stop()

	ctx := context.Background()
	req := &Request{Method: "subscribe", APIKey: "test-api-key"}

	for i := 0; i < 3; i++ {
		result, err := limiter.Allow(ctx, req)
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if !result.Allowed {
			t.Fatalf("call %d should be allowed", i+1)
		}
	}

	result, err := limiter.Allow(ctx, req)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if result.Allowed {
		t.Fatal("4th call should be denied")
	}
	if result.DeniedBy != LevelGlobal {
		t.Errorf("DeniedBy = %v, want %v", result.DeniedBy, LevelGlobal)
	}
	if result.RetryAfter <= 0 || result.RetryAfter > time.Hour {
		t.Errorf("RetryAfter = %v, want within an hour", result.RetryAfter)
	}
}

func TestAllowMethodLimit(t *testing.T) {
	db := setupTestDB(t)

	limiter, err := NewLimiter(db, &Config{
		Methods: map[string]*LimitConfig{
			"createCampaign": {CallsPerDay: 1},
		},
		FlushInterval: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewLimiter() error = %v", err)
	}
	defer limiter.Stop()

	ctx := context.Background()

	result, _ := limiter.Allow(ctx, &Request{Method: "createCampaign"})
	if !result.Allowed {
		t.Fatal("first createCampaign should be allowed")
	}

	result, _ = limiter.Allow(ctx, &Request{Method: "createCampaign"})
	if result.Allowed {
		t.Fatal("second createCampaign should be denied")
	}
	if result.DeniedBy != LevelMethod {
		t.Errorf("DeniedBy = %v, want %v", result.DeniedBy, LevelMethod)
	}

	// other methods are not limited
	result, _ = limiter.Allow(ctx, &Request{Method: "subscribe"})
	if !result.Allowed {
		t.Error("subscribe should be allowed")
	}
}

func TestAllowWindowReset(t *testing.T) {
	db := setupTestDB(t)

	limiter, err := NewLimiter(db, &Config{
		Global:        &LimitConfig{CallsPerHour: 1},
		FlushInterval: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewLimiter() error = %v", err)
	}
	defer limiter.Stop()

	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	ctx := context.Background()
	req := &Request{Method: "exclude"}

	if result, _ := limiter.Allow(ctx, req); !result.Allowed {
		t.Fatal("first call should be allowed")
	}
	if result, _ := limiter.Allow(ctx, req); result.Allowed {
		t.Fatal("second call should be denied")
	}

	now = now.Add(61 * time.Minute)
	if result, _ := limiter.Allow(ctx, req); !result.Allowed {
		t.Error("call after window reset should be allowed")
	}
}

func TestCountersPersist(t *testing.T) {
	db := setupTestDB(t)
	cfg := &Config{
		APIKey:        &LimitConfig{CallsPerDay: 10},
		FlushInterval: time.Hour,
	}

	limiter, err := NewLimiter(db, cfg)
	if err != nil {
		t.Fatalf("NewLimiter() error = %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := limiter.Allow(ctx, &Request{Method: "subscribe", APIKey: "secret-key-123"}); err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
	}
	if err := limiter.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	reloaded, err := NewLimiter(db, cfg)
	if err != nil {
		t.Fatalf("NewLimiter() error = %v", err)
	}
	defer reloaded.Stop()

	stats, err := reloaded.GetStats(ctx, LevelAPIKey, "secret-key-123")
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.DailyCount != 2 {
		t.Errorf("DailyCount = %d, want 2", stats.DailyCount)
	}
	if stats.Key != keyFingerprint("secret-key-123") || strings.Contains(stats.Key, "secret") {
		t.Errorf("Key = %q, want fingerprint", stats.Key)
	}
}

func TestAllowAPIKeysCountedSeparately(t *testing.T) {
	db := setupTestDB(t)
	cfg := &Config{APIKey: &LimitConfig{CallsPerHour: 1}}

	limiter, err := NewLimiter(db, cfg)
	if err != nil {
		t.Fatalf("NewLimiter() error = %v", err)
	}
	defer limiter.Stop()

	ctx := context.Background()
	for _, key := range []string{"abc-first-key-xyz", "abc-other-key-xyz", "short", "tiny"} {
		result, err := limiter.Allow(ctx, &Request{Method: "subscribe", APIKey: key})
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if !result.Allowed {
			t.Errorf("first call for key %q denied by %s", key, result.DeniedBy)
		}
	}

	result, err := limiter.Allow(ctx, &Request{Method: "subscribe", APIKey: "abc-first-key-xyz"})
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if result.Allowed || result.DeniedBy != LevelAPIKey {
		t.Errorf("second call = %+v, want denied by api_key", result)
	}
}

func TestGetStatsUnknownKey(t *testing.T) {
	db := setupTestDB(t)

	limiter, err := NewLimiter(db, nil)
	if err != nil {
		t.Fatalf("NewLimiter() error = %v", err)
	}
	defer limiter.Stop()

	stats, err := limiter.GetStats(context.Background(), LevelMethod, "deleteList")
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.HourlyCount != 0 || stats.DailyCount != 0 {
		t.Errorf("unexpected counts for unknown key: %+v", stats)
	}
}
