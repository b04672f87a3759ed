package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/newthinker/insiderlog/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Scan      ScanConfig                `mapstructure:"scan"`
	Feeds     FeedsConfig               `mapstructure:"feeds"`
	Scoring   ScoringConfig             `mapstructure:"scoring"`
	Sectors   map[string]string         `mapstructure:"sectors"`
	State     StateConfig               `mapstructure:"state"`
	Report    ReportConfig              `mapstructure:"report"`
	Notifiers map[string]NotifierConfig `mapstructure:"notifiers"`
	LLM       LLMConfig                 `mapstructure:"llm"`
	Server    ServerConfig              `mapstructure:"server"`
	Metrics   MetricsConfig             `mapstructure:"metrics"`
}

// ScanConfig holds the thresholds that gate what a run surfaces.
// Every historically drifting constant lives here.
type ScanConfig struct {
	LookbackHours       int     `mapstructure:"lookback_hours"`
	MinPurchaseDollars  float64 `mapstructure:"min_purchase_dollars"`
	MinTargetRaisePct   float64 `mapstructure:"min_target_raise_pct"`
	MaxAnalystSignals   int     `mapstructure:"max_analyst_signals"`
	RequireRatingChange bool    `mapstructure:"require_rating_change"`
}

type FeedsConfig struct {
	Edgar EdgarConfig `mapstructure:"edgar"`
	FMP   FMPConfig   `mapstructure:"fmp"`
}

// EdgarConfig configures the SEC filing feed client. The SEC rejects
// requests without an identifying User-Agent.
type EdgarConfig struct {
	FeedURL     string `mapstructure:"feed_url"`
	UserAgent   string `mapstructure:"user_agent"`
	MaxFilings  int    `mapstructure:"max_filings"`
	Concurrency int    `mapstructure:"concurrency"`
}

type FMPConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// ScoringConfig holds the conviction score weights and caps.
// The shape is fixed (saturating components, additive, globally clamped);
// the point values are tunable.
type ScoringConfig struct {
	MaxScore          float64 `mapstructure:"max_score"`
	BreadthCap        float64 `mapstructure:"breadth_cap"`
	BreadthSaturation int     `mapstructure:"breadth_saturation"`
	DollarCap         float64 `mapstructure:"dollar_cap"`
	DollarSaturation  float64 `mapstructure:"dollar_saturation"`
	SeniorityCap      float64 `mapstructure:"seniority_cap"`
	AnalystBonus      float64 `mapstructure:"analyst_bonus"`
}

type StateConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	Title     string `mapstructure:"title"`
	Subtitle  string `mapstructure:"subtitle"`
	Archive   bool   `mapstructure:"archive"`
}

type NotifierConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Email notifier fields
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
	// Webhook notifier fields
	URL     string            `mapstructure:"url"`
	Headers map[string]string `mapstructure:"headers"`
}

type LLMConfig struct {
	Provider string       `mapstructure:"provider"`
	Claude   ClaudeConfig `mapstructure:"claude"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
	Ollama   OllamaConfig `mapstructure:"ollama"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OllamaConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
}

type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ScanInterval string `mapstructure:"scan_interval"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults. The thresholds match
// the operational profile this system has run with longest: $50k minimum
// purchase, 10% minimum target raise, top 5 analyst signals.
func Defaults() *Config {
	return &Config{
		Scan: ScanConfig{
			LookbackHours:       24,
			MinPurchaseDollars:  50_000,
			MinTargetRaisePct:   0.10,
			MaxAnalystSignals:   5,
			RequireRatingChange: true,
		},
		Feeds: FeedsConfig{
			Edgar: EdgarConfig{
				FeedURL:     "https://www.sec.gov/cgi-bin/browse-edgar?action=getcurrent&CIK=&type=4&company=&dateb=&owner=only&start=0&count=100&output=atom",
				UserAgent:   "insiderlog/1.0 (contact: ops@example.com)",
				MaxFilings:  100,
				Concurrency: 4,
			},
			FMP: FMPConfig{
				BaseURL: "https://financialmodelingprep.com/api/v4/price-target-latest-news",
			},
		},
		Scoring: ScoringConfig{
			MaxScore:          10,
			BreadthCap:        3,
			BreadthSaturation: 3,
			DollarCap:         3,
			DollarSaturation:  1_000_000,
			SeniorityCap:      3,
			AnalystBonus:      1,
		},
		State: StateConfig{
			Type: "localfs",
			Path: "data",
		},
		Report: ReportConfig{
			OutputDir: "docs",
			Title:     "Daily Insider Log",
			Subtitle:  "Rare insider buys, summarized in plain English.",
			Archive:   true,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ScanInterval: "1h",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors. A bad threshold silently
// changes every downstream decision, so validation failures are fatal at
// startup rather than recovered.
func (c *Config) Validate() error {
	if c.Scan.LookbackHours <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("lookback_hours must be positive, got %d", c.Scan.LookbackHours))
	}
	if c.Scan.MinPurchaseDollars < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("min_purchase_dollars cannot be negative, got %f", c.Scan.MinPurchaseDollars))
	}
	if c.Scan.MinTargetRaisePct < 0 || c.Scan.MinTargetRaisePct > 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("min_target_raise_pct must be between 0 and 1, got %f", c.Scan.MinTargetRaisePct))
	}
	if c.Scan.MaxAnalystSignals < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("max_analyst_signals cannot be negative, got %d", c.Scan.MaxAnalystSignals))
	}

	if c.Scoring.MaxScore <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("max_score must be positive, got %f", c.Scoring.MaxScore))
	}
	if c.Scoring.BreadthCap < 0 || c.Scoring.DollarCap < 0 ||
		c.Scoring.SeniorityCap < 0 || c.Scoring.AnalystBonus < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("score component caps cannot be negative"))
	}
	if c.Scoring.BreadthSaturation < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("breadth_saturation must be at least 1, got %d", c.Scoring.BreadthSaturation))
	}
	if c.Scoring.DollarSaturation <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("dollar_saturation must be positive, got %f", c.Scoring.DollarSaturation))
	}

	if c.Feeds.Edgar.UserAgent == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("edgar user_agent is required by the SEC"))
	}
	if c.Feeds.Edgar.Concurrency < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("edgar concurrency must be at least 1, got %d", c.Feeds.Edgar.Concurrency))
	}

	switch c.State.Type {
	case "localfs":
		if c.State.Path == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("state path required for localfs"))
		}
	case "s3":
		if c.State.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required when state type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown state type: %s", c.State.Type))
	}

	// LLM validation - if provider set, check config exists
	if c.LLM.Provider != "" {
		switch c.LLM.Provider {
		case "claude":
			if c.LLM.Claude.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("claude api_key required when provider is claude"))
			}
		case "openai":
			if c.LLM.OpenAI.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("openai api_key required when provider is openai"))
			}
		case "ollama":
			if c.LLM.Ollama.Endpoint == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("ollama endpoint required when provider is ollama"))
			}
		}
	}

	return nil
}
