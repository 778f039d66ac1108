package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	SourcesFile  string `mapstructure:"sources_file"`
	KeywordsFile string `mapstructure:"keywords_file"`

	DataDir      string `mapstructure:"data_dir"`
	NewsFile     string `mapstructure:"news_file"`
	SeenURLsFile string `mapstructure:"seen_urls_file"`

	MaxArticlesPerSource int           `mapstructure:"max_articles_per_source"`
	ArticleDelayMs       int64         `mapstructure:"article_delay_ms"`
	SourceDelayMs        int64         `mapstructure:"source_delay_ms"`
	FetchTimeoutSeconds  int64         `mapstructure:"fetch_timeout_seconds"`
	ArticleDelay         time.Duration `mapstructure:"-"`
	SourceDelay          time.Duration `mapstructure:"-"`
	FetchTimeout         time.Duration `mapstructure:"-"`

	RequireKeywords bool `mapstructure:"require_keywords"`

	SubmitEnabled     bool          `mapstructure:"submit_enabled"`
	APIBaseURL        string        `mapstructure:"api_base_url"`
	APISubmitEndpoint string        `mapstructure:"api_submit_endpoint"`
	APITimeoutSeconds int64         `mapstructure:"api_timeout_seconds"`
	APITimeout        time.Duration `mapstructure:"-"`

	FetchIntervalMinutes int `mapstructure:"fetch_interval_minutes"`

	ExportFile        string `mapstructure:"export_file"`
	ExportSQSQueueURL string `mapstructure:"export_sqs_queue_url"`
	ExportSQSRegion   string `mapstructure:"export_sqs_region"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "aqparat-news-aggregator")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("sources_file", "./configs/sources.yaml")
	v.SetDefault("keywords_file", "./configs/keywords.yaml")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("news_file", "news_articles.json")
	v.SetDefault("seen_urls_file", "seen_urls.db")
	v.SetDefault("max_articles_per_source", 10)
	v.SetDefault("article_delay_ms", 500)
	v.SetDefault("source_delay_ms", 1000)
	v.SetDefault("fetch_timeout_seconds", 15)
	v.SetDefault("require_keywords", true)
	v.SetDefault("submit_enabled", false)
	v.SetDefault("api_base_url", "http://localhost:8000")
	v.SetDefault("api_submit_endpoint", "/api/news/submit")
	v.SetDefault("api_timeout_seconds", 10)
	v.SetDefault("fetch_interval_minutes", 30)
	v.SetDefault("export_file", "crm_export.json")
	v.SetDefault("export_sqs_queue_url", "")
	v.SetDefault("export_sqs_region", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.MaxArticlesPerSource <= 0 {
		return nil, fmt.Errorf("invalid max_articles_per_source (must be positive)")
	}
	if cfg.ArticleDelayMs < 0 || cfg.SourceDelayMs < 0 {
		return nil, fmt.Errorf("invalid politeness delay (must not be negative)")
	}
	if cfg.FetchTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid fetch_timeout_seconds (must be positive seconds)")
	}
	if cfg.APITimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid api_timeout_seconds (must be positive seconds)")
	}
	if cfg.FetchIntervalMinutes <= 0 {
		return nil, fmt.Errorf("invalid fetch_interval_minutes (must be positive minutes)")
	}
	cfg.ArticleDelay = time.Duration(cfg.ArticleDelayMs) * time.Millisecond
	cfg.SourceDelay = time.Duration(cfg.SourceDelayMs) * time.Millisecond
	cfg.FetchTimeout = time.Duration(cfg.FetchTimeoutSeconds) * time.Second
	cfg.APITimeout = time.Duration(cfg.APITimeoutSeconds) * time.Second

	return &cfg, nil
}

// NewsPath returns the article store file path under the data directory.
func (c *Config) NewsPath() string { return filepath.Join(c.DataDir, c.NewsFile) }

// LedgerPath returns the seen-URLs ledger path under the data directory.
func (c *Config) LedgerPath() string { return filepath.Join(c.DataDir, c.SeenURLsFile) }

// ExportPath returns the CRM export file path under the data directory.
func (c *Config) ExportPath() string { return filepath.Join(c.DataDir, c.ExportFile) }
