package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type FeedConfig struct {
	BaseURL string        `yaml:"base_url"`
	TTL     time.Duration `yaml:"ttl"`
	Backoff time.Duration `yaml:"backoff"`
	Timeout time.Duration `yaml:"timeout"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Feeds struct {
		Calendar FeedConfig `yaml:"calendar"`
		Rates    FeedConfig `yaml:"rates"`
		News     FeedConfig `yaml:"news"`
		Schedule FeedConfig `yaml:"schedule"`
		// MaxRPS caps outbound requests per upstream host.
		MaxRPS float64 `yaml:"max_rps"`
	} `yaml:"feeds"`
	Strength struct {
		Pivot        string        `yaml:"pivot"`
		Codes        []string      `yaml:"codes"`
		LookbackDays int           `yaml:"lookback_days"`
		TTL          time.Duration `yaml:"ttl"`
	} `yaml:"strength"`
	Merge struct {
		TTL time.Duration `yaml:"ttl"`
	} `yaml:"merge"`
	Retention struct {
		Window        time.Duration `yaml:"window"`
		SweepInterval time.Duration `yaml:"sweep_interval"`
		SpeechesKey   string        `yaml:"speeches_key"`
		ScheduleKey   string        `yaml:"schedule_key"`
	} `yaml:"retention"`
	Store struct {
		Type string `yaml:"type"` // file, redis, or memory
		Path string `yaml:"path"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"store"`
	Archive struct {
		Enabled    bool `yaml:"enabled"`
		ClickHouse struct {
			Host         string        `yaml:"host"`
			Port         int           `yaml:"port"`
			Database     string        `yaml:"database"`
			User         string        `yaml:"user"`
			Password     string        `yaml:"password"`
			DialTimeout  time.Duration `yaml:"dial_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
		} `yaml:"clickhouse"`
	} `yaml:"archive"`
	Publish struct {
		Enabled bool     `yaml:"enabled"`
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"publish"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("CALENDAR_URL"); v != "" {
		c.Feeds.Calendar.BaseURL = v
	}
	if v := os.Getenv("RATES_URL"); v != "" {
		c.Feeds.Rates.BaseURL = v
	}
	if v := os.Getenv("NEWS_URL"); v != "" {
		c.Feeds.News.BaseURL = v
	}
	if v := os.Getenv("SCHEDULE_URL"); v != "" {
		c.Feeds.Schedule.BaseURL = v
	}
	if v := os.Getenv("STORE_TYPE"); v != "" {
		c.Store.Type = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Store.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Publish.Brokers = strings.Split(v, ",")
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	defFeed := func(f *FeedConfig, ttl time.Duration) {
		if f.TTL == 0 {
			f.TTL = ttl
		}
		if f.Backoff == 0 {
			f.Backoff = 30 * time.Minute
		}
		if f.Timeout == 0 {
			f.Timeout = 15 * time.Second
		}
	}
	defFeed(&c.Feeds.Calendar, 15*time.Minute)
	defFeed(&c.Feeds.Rates, 4*time.Hour)
	defFeed(&c.Feeds.News, 10*time.Minute)
	defFeed(&c.Feeds.Schedule, 30*time.Minute)

	if c.Feeds.MaxRPS == 0 {
		c.Feeds.MaxRPS = 2
	}
	if c.Strength.Pivot == "" {
		c.Strength.Pivot = "USD"
	}
	if len(c.Strength.Codes) == 0 {
		c.Strength.Codes = []string{"USD", "EUR", "GBP", "JPY", "CHF", "CAD", "AUD", "NZD"}
	}
	if c.Strength.LookbackDays == 0 {
		c.Strength.LookbackDays = 7
	}
	if c.Strength.TTL == 0 {
		c.Strength.TTL = 4 * time.Hour
	}
	if c.Merge.TTL == 0 {
		c.Merge.TTL = 2 * time.Minute
	}
	if c.Retention.Window == 0 {
		c.Retention.Window = 7 * 24 * time.Hour
	}
	if c.Retention.SweepInterval == 0 {
		c.Retention.SweepInterval = 30 * time.Second
	}
	if c.Retention.SpeechesKey == "" {
		c.Retention.SpeechesKey = "cb_speeches"
	}
	if c.Retention.ScheduleKey == "" {
		c.Retention.ScheduleKey = "schedule"
	}
	if c.Store.Type == "" {
		c.Store.Type = "file"
	}
	if c.Store.Path == "" {
		c.Store.Path = "data"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Store.Type {
	case "file", "redis", "memory":
	default:
		return fmt.Errorf("store.type must be 'file', 'redis' or 'memory', got '%s'", c.Store.Type)
	}
	if c.Store.Type == "redis" && c.Store.Redis.Addr == "" {
		return fmt.Errorf("store.redis.addr is required for redis store")
	}
	if c.Publish.Enabled && len(c.Publish.Brokers) == 0 {
		return fmt.Errorf("publish.brokers cannot be empty when publishing is enabled")
	}
	if c.Publish.Enabled && c.Publish.Topic == "" {
		return fmt.Errorf("publish.topic is required when publishing is enabled")
	}
	if c.Archive.Enabled && c.Archive.ClickHouse.Host == "" {
		return fmt.Errorf("archive.clickhouse.host is required when archiving is enabled")
	}
	if c.Merge.TTL >= c.Feeds.Calendar.TTL {
		return fmt.Errorf("merge.ttl must be shorter than any source ttl")
	}
	return nil
}
