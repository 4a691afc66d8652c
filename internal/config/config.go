package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Schedule struct {
	Interval time.Duration `yaml:"interval"` // time between invocations
	Timeout  time.Duration `yaml:"timeout"`  // bound on one invocation
	Once     bool          `yaml:"once"`     // run a single invocation then exit
}

type PriceProvider struct {
	Type      string        `yaml:"type"` // coindesk | coingecko
	BaseURL   string        `yaml:"base_url"`
	APIKey    string        `yaml:"api_key"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

type Price struct {
	Currency string        `yaml:"currency"`
	Provider PriceProvider `yaml:"provider"`
}

type Retry struct {
	MaxRetries int           `yaml:"max_retries"`
	Backoff    time.Duration `yaml:"backoff"`
	MaxBackoff time.Duration `yaml:"max_backoff"`
}

type LogSinkConfig struct {
	Enable bool `yaml:"enable"`
}

type LokiConfig struct {
	URL       string        `yaml:"url"`       // http://loki:3100
	TenantID  string        `yaml:"tenant_id"` // optional multi-tenancy
	Job       string        `yaml:"job"`       // label value
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	Retry     Retry         `yaml:"retry"`
}

type VictoriaConfig struct {
	URL       string        `yaml:"url"` // http://victoria-metrics:8428
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	Retry     Retry         `yaml:"retry"`
}

type KafkaConfig struct {
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic"`
	BatchTimeout time.Duration `yaml:"batch_timeout"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"` // redis:6379
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

type Sinks struct {
	Log      LogSinkConfig  `yaml:"log"`
	Loki     LokiConfig     `yaml:"loki"`
	Victoria VictoriaConfig `yaml:"victoria"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Redis    RedisConfig    `yaml:"redis"`
}

type Metrics struct {
	ListenAddress string        `yaml:"listen_address"` // empty disables the endpoint
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
}

type Log struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // json | text
}

type Config struct {
	Env      string   `yaml:"env"`
	Schedule Schedule `yaml:"schedule"`
	Price    Price    `yaml:"price"`
	Sinks    Sinks    `yaml:"sinks"`
	Metrics  Metrics  `yaml:"metrics"`
	Log      Log      `yaml:"log"`
}

func Default() Config {
	return Config{
		Env: "dev",
		Schedule: Schedule{
			Interval: time.Minute,
			Timeout:  30 * time.Second,
		},
		Price: Price{
			Currency: "USD",
			Provider: PriceProvider{
				Type:      "coindesk",
				Timeout:   10 * time.Second,
				UserAgent: "btc-price-publisher/1.0",
			},
		},
		Sinks: Sinks{
			Log: LogSinkConfig{Enable: true},
		},
		Metrics: Metrics{ListenAddress: ":9108"},
		Log:     Log{Level: "info", Format: "json"},
	}
}

// Load reads YAML config from path. A missing file yields defaults.
// Environment variables override endpoints and secrets.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("parse yaml: %w", err)
			}
		}
	}
	applyEnv(&c)
	applyDefaults(&c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func applyDefaults(c *Config) {
	if c.Schedule.Interval == 0 {
		c.Schedule.Interval = time.Minute
	}
	if c.Schedule.Timeout == 0 {
		c.Schedule.Timeout = 30 * time.Second
	}
	if c.Price.Currency == "" {
		c.Price.Currency = "USD"
	}
	c.Price.Currency = strings.ToUpper(strings.TrimSpace(c.Price.Currency))
	if c.Price.Provider.Type == "" {
		c.Price.Provider.Type = "coindesk"
	}
	if c.Price.Provider.Timeout == 0 {
		c.Price.Provider.Timeout = 10 * time.Second
	}
	if c.Sinks.Loki.Job == "" {
		c.Sinks.Loki.Job = "btc-price-publisher"
	}
	if c.Sinks.Kafka.BatchTimeout == 0 {
		c.Sinks.Kafka.BatchTimeout = 10 * time.Millisecond
	}
	if c.Sinks.Redis.Channel == "" {
		c.Sinks.Redis.Channel = "bitcoin-price"
	}
	if c.Metrics.ReadTimeout == 0 {
		c.Metrics.ReadTimeout = 5 * time.Second
	}
	if c.Metrics.WriteTimeout == 0 {
		c.Metrics.WriteTimeout = 5 * time.Second
	}
	if c.Metrics.IdleTimeout == 0 {
		c.Metrics.IdleTimeout = 60 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

func applyEnv(c *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PRICE_BASE_URL"); v != "" {
		c.Price.Provider.BaseURL = v
	}
	if v := os.Getenv("PRICE_API_KEY"); v != "" {
		c.Price.Provider.APIKey = v
	}
	if v := os.Getenv("LOKI_URL"); v != "" {
		c.Sinks.Loki.URL = v
	}
	if v := os.Getenv("VICTORIA_URL"); v != "" {
		c.Sinks.Victoria.URL = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Sinks.Kafka.Brokers = splitCSV(v)
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Sinks.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Sinks.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Sinks.Redis.Password = v
	}
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	switch c.Price.Provider.Type {
	case "coindesk", "coingecko":
	default:
		return fmt.Errorf("unknown price provider: %s", c.Price.Provider.Type)
	}
	if c.Schedule.Interval < 0 {
		return fmt.Errorf("schedule.interval must be positive, got %s", c.Schedule.Interval)
	}
	if c.Schedule.Timeout < 0 {
		return fmt.Errorf("schedule.timeout must be positive, got %s", c.Schedule.Timeout)
	}
	if len(c.Sinks.Kafka.Brokers) > 0 && strings.TrimSpace(c.Sinks.Kafka.Topic) == "" {
		return errors.New("sinks.kafka.topic is required when brokers are set")
	}
	if !c.Sinks.AnyEnabled() {
		return errors.New("no sinks configured (need log, loki, victoria, kafka or redis)")
	}
	return nil
}

// AnyEnabled reports whether at least one sink would be built.
func (s Sinks) AnyEnabled() bool {
	return s.Log.Enable ||
		strings.TrimSpace(s.Loki.URL) != "" ||
		strings.TrimSpace(s.Victoria.URL) != "" ||
		len(s.Kafka.Brokers) > 0 ||
		strings.TrimSpace(s.Redis.Addr) != ""
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
