package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/foxzi/unisender-sync/internal/quota"
)

// Environment variables overriding the file
const (
	EnvAPIKey  = "UNISENDER_API_KEY"
	EnvBaseURL = "UNISENDER_BASE_URL"
	EnvDBPath  = "UNISENDER_DB_PATH"
	EnvAMQPURL = "UNISENDER_AMQP_URL"
)

type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Unisender UnisenderConfig `yaml:"unisender"`
	Quota     QuotaConfig     `yaml:"quota"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Tracker   TrackerConfig   `yaml:"tracker"`
	Events    EventsConfig    `yaml:"events"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type UnisenderConfig struct {
	BaseURL string        `yaml:"base_url"`
	Lang    string        `yaml:"lang"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// QuotaConfig enables the local call budget. Limits are inlined from quota.Config.
type QuotaConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Path         string `yaml:"path"`
	quota.Config `yaml:",inline"`
}

type MetricsConfig struct {
	Enabled         bool          `yaml:"enabled"`
	ListenAddr      string        `yaml:"listen_addr"`
	Path            string        `yaml:"path"`
	AllowedIPs      []string      `yaml:"allowed_ips"`
	CollectInterval time.Duration `yaml:"collect_interval"`
}

type TrackerConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	BatchSize    int           `yaml:"batch_size"`
}

// EventsConfig publishes sync log entries to a RabbitMQ queue
type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Queue   string `yaml:"queue"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the config file. A .env file next to it or in the working
// directory is loaded first; environment variables win over the file.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	setDefaults(cfg)
	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func loadDotEnv(configPath string) error {
	candidates := []string{".env"}
	if dir := filepath.Dir(configPath); dir != "." {
		candidates = append(candidates, filepath.Join(dir, ".env"))
	}

	for _, file := range candidates {
		err := godotenv.Load(file)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return fmt.Errorf("failed to load %s: %w", file, err)
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Database.Path == "" {
		cfg.Database.Path = "/var/lib/unisender-sync/sync.db"
	}
	if cfg.Unisender.BaseURL == "" {
		cfg.Unisender.BaseURL = "https://api.unisender.com"
	}
	if cfg.Unisender.Lang == "" {
		cfg.Unisender.Lang = "en"
	}
	if cfg.Unisender.Timeout == 0 {
		cfg.Unisender.Timeout = 30 * time.Second
	}
	if cfg.Quota.Path == "" {
		cfg.Quota.Path = "/var/lib/unisender-sync/quota.db"
	}
	if cfg.Metrics.ListenAddr == "" {
		cfg.Metrics.ListenAddr = ":9100"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.CollectInterval == 0 {
		cfg.Metrics.CollectInterval = 15 * time.Second
	}
	if cfg.Tracker.PollInterval == 0 {
		cfg.Tracker.PollInterval = time.Minute
	}
	if cfg.Tracker.BatchSize == 0 {
		cfg.Tracker.BatchSize = 50
	}
	if cfg.Events.Queue == "" {
		cfg.Events.Queue = "unisender_sync_events"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.Unisender.APIKey = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.Unisender.BaseURL = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv(EnvAMQPURL); v != "" {
		cfg.Events.URL = v
	}
}

func validate(cfg *Config) error {
	if cfg.Unisender.APIKey == "" {
		return fmt.Errorf("unisender.api_key is required (or set %s)", EnvAPIKey)
	}
	u, err := url.Parse(cfg.Unisender.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("unisender.base_url must be an absolute URL")
	}
	if cfg.Unisender.Timeout < 0 {
		return fmt.Errorf("unisender.timeout must not be negative")
	}
	if cfg.Tracker.PollInterval < time.Second {
		return fmt.Errorf("tracker.poll_interval must be at least 1s")
	}
	if cfg.Tracker.BatchSize < 0 {
		return fmt.Errorf("tracker.batch_size must not be negative")
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text")
	}
	if cfg.Events.Enabled && cfg.Events.URL == "" {
		return fmt.Errorf("events.url is required when events are enabled (or set %s)", EnvAMQPURL)
	}
	if cfg.Quota.Enabled {
		for method, limit := range cfg.Quota.Methods {
			if limit == nil {
				return fmt.Errorf("quota.methods.%s has no limits", method)
			}
		}
	}
	return nil
}
