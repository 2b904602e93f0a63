package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	bolt "go.etcd.io/bbolt"

	"github.com/foxzi/unisender-sync/internal/config"
	"github.com/foxzi/unisender-sync/internal/db"
	"github.com/foxzi/unisender-sync/internal/events"
	"github.com/foxzi/unisender-sync/internal/models"
	"github.com/foxzi/unisender-sync/internal/quota"
	"github.com/foxzi/unisender-sync/internal/repository"
	"github.com/foxzi/unisender-sync/internal/syncer"
	"github.com/foxzi/unisender-sync/internal/unisender"
)

// app holds everything a command needs
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	db        *db.DB
	quotaDB   *bolt.DB
	limiter   *quota.Limiter
	api       *unisender.Client
	publisher *events.AMQPPublisher

	fields      *repository.FieldRepository
	tags        *repository.TagRepository
	lists       *repository.ListRepository
	subscribers *repository.SubscriberRepository
	messages    *repository.MessageRepository
	campaigns   *repository.CampaignRepository
	syncLog     *repository.SyncLogRepository
	syncer      *syncer.Syncer
}

func newApp() (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(); err != nil {
		database.Close()
		return nil, err
	}

	a := &app{
		cfg:         cfg,
		logger:      logger,
		db:          database,
		fields:      repository.NewFieldRepository(database.DB),
		tags:        repository.NewTagRepository(database.DB),
		lists:       repository.NewListRepository(database.DB),
		subscribers: repository.NewSubscriberRepository(database.DB),
		messages:    repository.NewMessageRepository(database.DB),
		campaigns:   repository.NewCampaignRepository(database.DB),
		syncLog:     repository.NewSyncLogRepository(database.DB),
	}

	opts := []unisender.Option{
		unisender.WithLogger(logger),
		unisender.WithHTTPClient(&http.Client{Timeout: cfg.Unisender.Timeout}),
	}
	if cfg.Quota.Enabled {
		a.quotaDB, err = quota.OpenStore(cfg.Quota.Path)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.limiter, err = quota.NewLimiter(a.quotaDB, &cfg.Quota.Config)
		if err != nil {
			a.Close()
			return nil, err
		}
		opts = append(opts, unisender.WithLimiter(a.limiter))
	}

	var syncLog syncer.SyncLog = a.syncLog
	if cfg.Events.Enabled {
		a.publisher, err = events.Dial(cfg.Events.URL, cfg.Events.Queue)
		if err != nil {
			a.Close()
			return nil, err
		}
		syncLog = events.NewLog(a.syncLog, a.publisher, logger)
	}

	a.api = unisender.NewClient(cfg.Unisender.BaseURL, cfg.Unisender.Lang, cfg.Unisender.APIKey, opts...)
	a.syncer = syncer.New(a.api,
		repository.NewSyncStateRepository(database.DB),
		syncLog,
		a.campaigns,
		logger,
	)

	return a, nil
}

// Close flushes quota counters and closes the stores and the broker connection
func (a *app) Close() {
	if a.limiter != nil {
		if err := a.limiter.Stop(); err != nil {
			a.logger.Error("failed to persist quota counters", "error", err)
		}
	}
	if a.quotaDB != nil {
		a.quotaDB.Close()
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("failed to close event publisher", "error", err)
		}
	}
	a.db.Close()
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %s", arg)
	}
	return id, nil
}

// remoteResult turns a stored remote error code into a command error
func remoteResult(method string, state models.SyncState) error {
	msg, failed := state.LastErrorMessage()
	if !failed {
		return nil
	}
	return fmt.Errorf("%s failed: %s (%s)", method, msg, state.LastError)
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d not found", kind, id)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
