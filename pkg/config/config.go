package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"NavPull/pkg/util"

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
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Tracker struct {
		HoldingsFile    string        `yaml:"holdings_file"`
		SnapshotFile    string        `yaml:"snapshot_file"`
		ReferenceFile   string        `yaml:"reference_file"`
		FreshnessWindow time.Duration `yaml:"freshness_window"`
		CheckInterval   time.Duration `yaml:"check_interval"`
	} `yaml:"tracker"`
	Finnhub struct {
		APIKey         string        `yaml:"api_key"`
		BaseURL        string        `yaml:"base_url"`
		WebSocketURL   string        `yaml:"websocket_url"`
		StreamEnabled  bool          `yaml:"stream_enabled"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		PingInterval   time.Duration `yaml:"ping_interval"`
		QuoteTimeout   time.Duration `yaml:"quote_timeout"`
		RateLimit      float64       `yaml:"rate_limit"`
	} `yaml:"finnhub"`
	Telegram struct {
		BotToken string        `yaml:"bot_token"`
		ChatID   string        `yaml:"chat_id"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"telegram"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		AlertTopic   string   `yaml:"alert_topic"`
		LogTopic     string   `yaml:"log_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
	} `yaml:"kafka"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
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
// variables, so secrets never have to live in the file.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FINNHUB_KEY"); v != "" {
		c.Finnhub.APIKey = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.Finnhub.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("HOLDINGS_FILE"); v != "" {
		c.Tracker.HoldingsFile = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Tracker.FreshnessWindow <= 0 {
		c.Tracker.FreshnessWindow = 60 * time.Second
	}
	if c.Tracker.CheckInterval <= 0 {
		c.Tracker.CheckInterval = 60 * time.Second
	}
	if c.Telegram.Timeout <= 0 {
		c.Telegram.Timeout = 5 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Tracker.HoldingsFile == "" {
		return fmt.Errorf("tracker.holdings_file is required")
	}
	if c.Tracker.SnapshotFile == "" {
		return fmt.Errorf("tracker.snapshot_file is required")
	}
	if c.Tracker.ReferenceFile == "" {
		return fmt.Errorf("tracker.reference_file is required")
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
		}
		if c.Kafka.AlertTopic == "" {
			return fmt.Errorf("kafka.alert_topic is required when kafka is enabled")
		}
	}
	if c.Redis.Enabled && c.Redis.Host == "" {
		return fmt.Errorf("redis.host is required when redis is enabled")
	}
	return nil
}
