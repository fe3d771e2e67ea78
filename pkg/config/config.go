package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"PriceBoard/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Server      Server `yaml:"server"`
	Log         Log    `yaml:"log"`
	Metrics     struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`

	Tickers  []string `yaml:"tickers" validate:"required,min=1,dive,required"`
	Defaults struct {
		Period   string `yaml:"period" default:"1d" validate:"required"`
		Interval string `yaml:"interval" default:"1m" validate:"required"`
	} `yaml:"defaults"`
	Options struct {
		Periods   []string `yaml:"periods"`
		Intervals []string `yaml:"intervals"`
	} `yaml:"options"`
	UI     UI                `yaml:"ui"`
	Colors map[string]string `yaml:"colors"`

	CacheTTLSeconds         int  `yaml:"cache_ttl_seconds" default:"600" validate:"gte=0"`
	NegativeCacheTTLSeconds *int `yaml:"negative_cache_ttl_seconds" validate:"omitempty,gte=0"`

	Source    Source    `yaml:"source"`
	Prefetch  Prefetch  `yaml:"prefetch"`
	Redis     Redis     `yaml:"redis"`
	RateLimit RateLimit `yaml:"rate_limit"`
}

type Server struct {
	Port            int           `yaml:"port" default:"8080" validate:"gt=0,lt=65536"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
}

type Log struct {
	Level      string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format     string `yaml:"format" default:"json" validate:"oneof=json console"`
	Output     string `yaml:"output" default:"stdout"`
	TimeFormat string `yaml:"time_format" default:"2006-01-02T15:04:05Z07:00"`
	Collector  struct {
		Enabled   bool          `yaml:"enabled" default:"true"`
		Interval  time.Duration `yaml:"interval" default:"1m"`
		Threshold int           `yaml:"threshold" default:"100"`
	} `yaml:"collector"`
}

type UI struct {
	ColumnsPerRow   int     `yaml:"columns_per_row" default:"3" validate:"gt=0"`
	ChartHeight     int     `yaml:"chart_height" default:"350" validate:"gt=0"`
	TimeOffsetHours float64 `yaml:"time_offset_hours"`
	TimeLabel       string  `yaml:"time_label" default:"Time (UTC)"`
}

type Source struct {
	Type        string            `yaml:"type" default:"yahoo" validate:"oneof=yahoo mock"`
	DownloadURL string            `yaml:"download_url" default:"https://query2.finance.yahoo.com"`
	HistoryURL  string            `yaml:"history_url" default:"https://query1.finance.yahoo.com"`
	Timeout     time.Duration     `yaml:"timeout" default:"10s"`
	UserAgent   string            `yaml:"user_agent"`
	Proxy       string            `yaml:"proxy"`
	AutoAdjust  *bool             `yaml:"auto_adjust" default:"true"`
	SymbolMap   map[string]string `yaml:"symbol_map"`
}

type Prefetch struct {
	Enabled     bool   `yaml:"enabled"`
	Cron        string `yaml:"cron" default:"@every 5m"`
	Concurrency int    `yaml:"concurrency" default:"4" validate:"gt=0"`
}

type Redis struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr" default:"localhost:6379" validate:"required_if=Enabled true"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix" default:"priceboard"`
}

type RateLimit struct {
	RefreshBurst  float64 `yaml:"refresh_burst" default:"3" validate:"gt=0"`
	RefreshPerSec float64 `yaml:"refresh_per_sec" default:"0.2" validate:"gt=0"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML, fills defaults and validates.
func Parse(b []byte) (*Config, error) {
	var c Config
	// Defaults first so explicit zero values in the file survive.
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
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
	if err := c.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("TICKERS"); v != "" {
		c.Tickers = util.SplitList(v)
	}
	if v := getenv("CACHE_TTL_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CACHE_TTL_SECONDS: %w", err)
		}
		c.CacheTTLSeconds = n
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := getenv("HTTPS_PROXY"); v != "" && c.Source.Proxy == "" {
		c.Source.Proxy = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := getenv("SERVER_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SERVER_PORT: %w", err)
		}
		c.Server.Port = n
	}
	return nil
}

var validate = validator.New()

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// AutoAdjustEnabled reports whether adjusted closes are requested.
func (s Source) AutoAdjustEnabled() bool {
	return s.AutoAdjust == nil || *s.AutoAdjust
}

// PeriodOptions returns the selectable periods, always including the default.
func (c *Config) PeriodOptions() []string {
	return withDefault(c.Options.Periods, c.Defaults.Period)
}

// IntervalOptions returns the selectable intervals, always including the default.
func (c *Config) IntervalOptions() []string {
	return withDefault(c.Options.Intervals, c.Defaults.Interval)
}

func withDefault(opts []string, def string) []string {
	for _, o := range opts {
		if o == def {
			return opts
		}
	}
	return append([]string{def}, opts...)
}

// Color returns the configured colour for ticker, or "" to let the client pick.
func (c *Config) Color(ticker string) string {
	return c.Colors[ticker]
}
