package store

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mode             string            `yaml:"mode"`        // LIVE or STATIC market data
	Exchange         string            `yaml:"exchange"`    // e.g. NSE
	ExchangeTimezone string            `yaml:"exchange_timezone"` // IANA name, e.g. Asia/Kolkata
	Universe         []string          `yaml:"universe"`
	HorizonDays      int               `yaml:"horizon_days"` // trading days each forecast covers
	HistoryDays      int               `yaml:"history_days"` // calendar days of daily bars to fetch
	InstrumentTokens map[string]int    `yaml:"instrument_tokens"`
	LLM              struct {
		Provider    string  `yaml:"provider"` // OPENAI, CLAUDE or NONE
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
		System      string  `yaml:"system"`
	} `yaml:"llm"`
	News struct {
		Enabled     bool `yaml:"enabled"`
		MaxArticles int  `yaml:"max_articles"`
	} `yaml:"news"`
	Recorder struct {
		Driver string `yaml:"driver"` // sqlite or none
		Path   string `yaml:"path"`
	} `yaml:"recorder"`
	Schedule struct {
		Cron string `yaml:"cron"` // 6-field spec with seconds
	} `yaml:"schedule"`
}

func (c *Config) Validate() error {
	if c.Mode != "LIVE" && c.Mode != "STATIC" {
		return fmt.Errorf("invalid mode '%s': must be 'LIVE' or 'STATIC'", c.Mode)
	}
	if len(c.Universe) == 0 {
		return errors.New("universe cannot be empty")
	}
	if _, err := time.LoadLocation(c.ExchangeTimezone); err != nil {
		return fmt.Errorf("invalid exchange_timezone '%s': %w", c.ExchangeTimezone, err)
	}
	if c.HorizonDays <= 0 {
		return fmt.Errorf("horizon_days must be positive, got %d", c.HorizonDays)
	}
	if c.HistoryDays < 45 {
		// 30 trading days plus weekends; anything shorter guarantees an
		// insufficient-history failure on every run.
		return fmt.Errorf("history_days must be at least 45, got %d", c.HistoryDays)
	}
	switch c.LLM.Provider {
	case "OPENAI", "CLAUDE", "NONE":
	default:
		return fmt.Errorf("llm.provider must be 'OPENAI', 'CLAUDE' or 'NONE', got '%s'", c.LLM.Provider)
	}
	if c.Recorder.Driver != "sqlite" && c.Recorder.Driver != "none" {
		return fmt.Errorf("recorder.driver must be 'sqlite' or 'none', got '%s'", c.Recorder.Driver)
	}
	return nil
}

// Location resolves the configured exchange timezone. Validate guarantees
// this cannot fail on a loaded config.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ExchangeTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Mode == "" {
		c.Mode = "STATIC"
	}
	if c.Exchange == "" {
		c.Exchange = "NSE"
	}
	if c.ExchangeTimezone == "" {
		c.ExchangeTimezone = "Asia/Kolkata"
	}
	if c.HorizonDays == 0 {
		c.HorizonDays = 5
	}
	if c.HistoryDays == 0 {
		c.HistoryDays = 400
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "NONE"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 512
	}
	if c.News.MaxArticles == 0 {
		c.News.MaxArticles = 10
	}
	if c.Recorder.Driver == "" {
		c.Recorder.Driver = "none"
	}
	if c.Schedule.Cron == "" {
		// Weekdays shortly after the 16:00 close in the exchange timezone.
		c.Schedule.Cron = "0 15 16 * * 1-5"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
