package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

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
	} `yaml:"log"`
	Scan struct {
		BollingerWindow       int           `yaml:"bollinger_window"`
		BollingerNumStdDev    float64       `yaml:"bollinger_num_std_dev"`
		RSIWindow             int           `yaml:"rsi_window"`
		HugTolerancePct       float64       `yaml:"hug_tolerance_pct"`
		HugMinConsecutiveBars int           `yaml:"hug_min_consecutive_bars"`
		Schedule              string        `yaml:"schedule"`
		CycleTimeout          time.Duration `yaml:"cycle_timeout"`
		LookbackDays          int           `yaml:"lookback_days"`
		TailLength            int           `yaml:"tail_length"`
		Workers               int           `yaml:"workers"`
		RunOnStart            bool          `yaml:"run_on_start"`
	} `yaml:"scan"`
	Stream struct {
		SubscriberBuffer int `yaml:"subscriber_buffer"`
	} `yaml:"stream"`
	Provider struct {
		Type    string        `yaml:"type"` // "clickhouse" or "http"
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"provider"`
	Redis struct {
		Addr       string `yaml:"addr"`
		Password   string `yaml:"password"`
		DB         int    `yaml:"db"`
		TickersKey string `yaml:"tickers_key"`
	} `yaml:"redis"`
	ClickHouse struct {
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Database     string        `yaml:"database"`
		User         string        `yaml:"user"`
		Password     string        `yaml:"password"`
		DialTimeout time.Duration `yaml:"dial_timeout"`
		ReadTimeout time.Duration `yaml:"read_timeout"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		Compression  string        `yaml:"compression"`
		RequiredAcks int           `yaml:"required_acks"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
	} `yaml:"kafka"`
	Cache struct {
		SummaryTTL time.Duration `yaml:"summary_ttl"`
		MaxEntries int           `yaml:"max_entries"`
	} `yaml:"cache"`
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

// LoadWithEnv loads config from YAML and overrides with environment
// variables, for deployments that inject addresses and secrets at
// runtime.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("PROVIDER_BASE_URL"); v != "" {
		c.Provider.BaseURL = v
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Scan.BollingerWindow == 0 {
		c.Scan.BollingerWindow = 20
	}
	if c.Scan.BollingerNumStdDev == 0 {
		c.Scan.BollingerNumStdDev = 2
	}
	if c.Scan.RSIWindow == 0 {
		c.Scan.RSIWindow = 6
	}
	if c.Scan.HugTolerancePct == 0 {
		c.Scan.HugTolerancePct = 0.01
	}
	if c.Scan.HugMinConsecutiveBars == 0 {
		c.Scan.HugMinConsecutiveBars = 2
	}
	if c.Scan.Schedule == "" {
		c.Scan.Schedule = "30 21 * * 1-5" // after US close, weekdays
	}
	if c.Scan.CycleTimeout == 0 {
		c.Scan.CycleTimeout = 5 * time.Minute
	}
	if c.Scan.LookbackDays == 0 {
		c.Scan.LookbackDays = 130
	}
	if c.Scan.TailLength == 0 {
		c.Scan.TailLength = 7
	}
	if c.Scan.Workers == 0 {
		c.Scan.Workers = 8
	}
	if c.Stream.SubscriberBuffer == 0 {
		c.Stream.SubscriberBuffer = 8
	}
	if c.Provider.Type == "" {
		c.Provider.Type = "clickhouse"
	}
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = 15 * time.Second
	}
	if c.Redis.TickersKey == "" {
		c.Redis.TickersKey = "stockscan:tickers"
	}
	if c.Cache.SummaryTTL == 0 {
		c.Cache.SummaryTTL = 10 * time.Minute
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = 500
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Scan.BollingerWindow < 2 {
		return fmt.Errorf("scan.bollinger_window must be >= 2")
	}
	if c.Scan.RSIWindow < 1 {
		return fmt.Errorf("scan.rsi_window must be >= 1")
	}
	if c.Scan.HugTolerancePct < 0 {
		return fmt.Errorf("scan.hug_tolerance_pct must be >= 0")
	}
	if c.Scan.HugMinConsecutiveBars < 1 {
		return fmt.Errorf("scan.hug_min_consecutive_bars must be >= 1")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}
	switch c.Provider.Type {
	case "clickhouse":
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required for provider type 'clickhouse'")
		}
	case "http":
		if c.Provider.BaseURL == "" {
			return fmt.Errorf("provider.base_url is required for provider type 'http'")
		}
	default:
		return fmt.Errorf("provider.type must be 'clickhouse' or 'http', got '%s'", c.Provider.Type)
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka.topic is required when kafka is enabled")
		}
	}
	return nil
}
