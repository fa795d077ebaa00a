package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FuturesMapping maps a canonical futures code to its upstream symbol and exchange.
type FuturesMapping struct {
	Symbol   string         `yaml:"symbol"`
	Exchange string         `yaml:"exchange"`
	Name     string         `yaml:"name"`
	Fallback *FallbackQuote `yaml:"fallback"`
}

// FallbackQuote is the last known quote served for a futures code while the
// upstream is unavailable. Prices are decimal strings.
type FallbackQuote struct {
	Last          string `yaml:"last"`
	PercentChange string `yaml:"percent_change"`
	Volume        int64  `yaml:"volume"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		RateLimit       struct {
			Burst     float64 `yaml:"burst"`
			PerSecond float64 `yaml:"per_second"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Logger struct {
		Level      string `yaml:"level"`
		Format     string `yaml:"format"`
		Output     string `yaml:"output"`
		TimeFormat string `yaml:"time_format"`
	} `yaml:"logger"`
	TwelveData struct {
		APIKey          string                    `yaml:"api_key"`
		BaseURL         string                    `yaml:"base_url"`
		RequestInterval time.Duration             `yaml:"request_interval"`
		Timeout         time.Duration             `yaml:"timeout"`
		Symbols         []string                  `yaml:"symbols"`
		Futures         map[string]FuturesMapping `yaml:"futures"`
	} `yaml:"twelvedata"`
	ChartCache struct {
		Backend string        `yaml:"backend"` // memory | redis | layered
		TTL     time.Duration `yaml:"ttl"`
		MaxSize int           `yaml:"max_size"`
		Redis   struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"chart_cache"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML bytes, applies defaults and validates.
func Parse(b []byte) (*Config, error) {
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
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyEnv()
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TWELVEDATA_API_KEY"); v != "" {
		c.TwelveData.APIKey = v
	}
	if v := os.Getenv("TWELVEDATA_BASE_URL"); v != "" {
		c.TwelveData.BaseURL = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.TwelveData.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.ChartCache.Redis.Host = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Server.RateLimit.Burst <= 0 {
		c.Server.RateLimit.Burst = 10
	}
	if c.Server.RateLimit.PerSecond <= 0 {
		c.Server.RateLimit.PerSecond = 5
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Output == "" {
		c.Logger.Output = "stdout"
	}
	if c.TwelveData.BaseURL == "" {
		c.TwelveData.BaseURL = "https://api.twelvedata.com"
	}
	if c.TwelveData.RequestInterval <= 0 {
		c.TwelveData.RequestInterval = time.Second
	}
	if c.TwelveData.Timeout <= 0 {
		c.TwelveData.Timeout = 10 * time.Second
	}
	if c.ChartCache.Backend == "" {
		c.ChartCache.Backend = "memory"
	}
	if c.ChartCache.TTL <= 0 {
		c.ChartCache.TTL = 5 * time.Minute
	}
	if c.ChartCache.Redis.Host == "" {
		c.ChartCache.Redis.Host = "localhost"
	}
	if c.ChartCache.Redis.Port == 0 {
		c.ChartCache.Redis.Port = 6379
	}
	if c.ChartCache.Redis.Prefix == "" {
		c.ChartCache.Redis.Prefix = "martrade"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "martrade.quotes"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.TwelveData.APIKey == "" {
		return fmt.Errorf("twelvedata.api_key is required")
	}
	for code, m := range c.TwelveData.Futures {
		if m.Exchange == "" {
			return fmt.Errorf("twelvedata.futures.%s.exchange is required", code)
		}
		if m.Fallback != nil && m.Fallback.Last == "" {
			return fmt.Errorf("twelvedata.futures.%s.fallback.last is required", code)
		}
	}
	switch c.ChartCache.Backend {
	case "memory", "redis", "layered":
	default:
		return fmt.Errorf("chart_cache.backend must be 'memory', 'redis' or 'layered', got '%s'", c.ChartCache.Backend)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}
