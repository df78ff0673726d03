package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the pipeline. Every credential is
// injected here at load time; stages receive the sections they need and never
// read the process environment themselves.
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Sources   SourcesConfig   `mapstructure:"sources"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Relevance RelevanceConfig `mapstructure:"relevance"`
	Email     EmailConfig     `mapstructure:"email"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug      bool          `mapstructure:"debug"`
	RunTimeout time.Duration `mapstructure:"run_timeout"`
}

// StorageConfig selects the object-storage backend and the fixed keys the
// stages share state through.
type StorageConfig struct {
	Backend string     `mapstructure:"backend"` // fs or s3
	FS      FSConfig   `mapstructure:"fs"`
	S3      S3Config   `mapstructure:"s3"`
	Keys    KeysConfig `mapstructure:"keys"`
}

// FSConfig contains filesystem storage settings
type FSConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// S3Config contains object storage connection settings.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// KeysConfig fixes the object keys for the three shared files.
type KeysConfig struct {
	Articles  string `mapstructure:"articles"`
	Interests string `mapstructure:"interests"`
	Ledger    string `mapstructure:"ledger"`
}

func (s StorageConfig) Validate() error {
	switch s.Backend {
	case "fs":
		if strings.TrimSpace(s.FS.DataDir) == "" {
			return fmt.Errorf("storage.fs.data_dir required for fs backend")
		}
	case "s3":
		if strings.TrimSpace(s.S3.Endpoint) == "" {
			return fmt.Errorf("storage.s3.endpoint required for s3 backend")
		}
		if strings.TrimSpace(s.S3.Bucket) == "" {
			return fmt.Errorf("storage.s3.bucket required for s3 backend")
		}
	default:
		return fmt.Errorf("storage.backend must be fs or s3, got %q", s.Backend)
	}
	if s.Keys.Articles == "" || s.Keys.Interests == "" || s.Keys.Ledger == "" {
		return errors.New("storage.keys.{articles,interests,ledger} are required")
	}
	return nil
}

// SourcesConfig contains collector source configurations.
type SourcesConfig struct {
	RSS          RSSConfig          `mapstructure:"rss"`
	NewsAPI      NewsAPIConfig      `mapstructure:"newsapi"`
	YouTube      YouTubeConfig      `mapstructure:"youtube"`
	Bluesky      BlueskyConfig      `mapstructure:"bluesky"`
	HackerNews   HackerNewsConfig   `mapstructure:"hackernews"`
	CustomSearch CustomSearchConfig `mapstructure:"custom_search"`
	Enrich       EnrichConfig       `mapstructure:"enrich"`
}

// RSSConfig contains RSS feed settings
type RSSConfig struct {
	Feeds           []string                 `mapstructure:"feeds"`
	Window          time.Duration            `mapstructure:"window"`
	WindowOverrides map[string]time.Duration `mapstructure:"window_overrides"`
}

// NewsAPIConfig contains NewsAPI settings
type NewsAPIConfig struct {
	APIKey     string   `mapstructure:"api_key"`
	Endpoint   string   `mapstructure:"endpoint"`
	Queries    []string `mapstructure:"queries"`
	MaxResults int      `mapstructure:"max_results"`
}

// YouTubeConfig contains YouTube Data API settings
type YouTubeConfig struct {
	APIKey   string    `mapstructure:"api_key"`
	Endpoint string    `mapstructure:"endpoint"`
	Channels []Channel `mapstructure:"channels"`
}

// Channel names a monitored YouTube channel.
type Channel struct {
	Name string `mapstructure:"name"`
	ID   string `mapstructure:"id"`
}

// BlueskyConfig contains Bluesky search settings
type BlueskyConfig struct {
	Host       string   `mapstructure:"host"`
	Identifier string   `mapstructure:"identifier"`
	Password   string   `mapstructure:"password"`
	Keywords   []string `mapstructure:"keywords"`
	MaxResults int      `mapstructure:"max_results"`
}

// HackerNewsConfig contains Hacker News settings
type HackerNewsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Endpoint   string `mapstructure:"endpoint"`
	MaxStories int    `mapstructure:"max_stories"`
}

// CustomSearchConfig contains Google Custom Search settings for the social
// collector stage.
type CustomSearchConfig struct {
	APIKey   string   `mapstructure:"api_key"`
	EngineID string   `mapstructure:"engine_id"`
	Endpoint string   `mapstructure:"endpoint"`
	Handles  []Handle `mapstructure:"handles"`
}

// Handle names a monitored X/Twitter account.
type Handle struct {
	Name   string `mapstructure:"name"`
	Handle string `mapstructure:"handle"`
}

// EnrichConfig controls readability extraction for items without a summary.
type EnrichConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func (s SourcesConfig) Validate() error {
	if len(s.RSS.Feeds) == 0 && s.NewsAPI.APIKey == "" && s.YouTube.APIKey == "" &&
		s.Bluesky.Identifier == "" && !s.HackerNews.Enabled {
		return errors.New("sources: no collector source configured")
	}
	if s.RSS.Window <= 0 {
		return errors.New("sources.rss.window must be positive")
	}
	return nil
}

func (c CustomSearchConfig) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("sources.custom_search.api_key required")
	}
	if strings.TrimSpace(c.EngineID) == "" {
		return errors.New("sources.custom_search.engine_id required")
	}
	if len(c.Handles) == 0 {
		return errors.New("sources.custom_search.handles required")
	}
	return nil
}

// EmbeddingConfig contains embedding provider settings.
type EmbeddingConfig struct {
	Provider  string        `mapstructure:"provider"` // openai
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	BatchSize int           `mapstructure:"batch_size"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

func (e EmbeddingConfig) Validate() error {
	if strings.TrimSpace(e.Provider) == "" {
		return errors.New("embedding.provider required")
	}
	if strings.TrimSpace(e.APIKey) == "" {
		return errors.New("embedding.api_key required")
	}
	if e.BatchSize <= 0 {
		return errors.New("embedding.batch_size must be positive")
	}
	return nil
}

// RelevanceConfig contains scoring and selection settings.
type RelevanceConfig struct {
	Threshold       float64                  `mapstructure:"threshold"`
	Window          time.Duration            `mapstructure:"window"`
	WindowOverrides map[string]time.Duration `mapstructure:"window_overrides"`
	SourceWeights   map[string]float64       `mapstructure:"source_weights"`
	UseCredibility  bool                     `mapstructure:"use_credibility"`
}

func (r RelevanceConfig) Validate() error {
	if r.Threshold < -1 || r.Threshold > 1 {
		return fmt.Errorf("relevance.threshold must be within [-1,1], got %v", r.Threshold)
	}
	if r.Window <= 0 {
		return errors.New("relevance.window must be positive")
	}
	for source, w := range r.SourceWeights {
		if w < 0 || w > 1 {
			return fmt.Errorf("relevance.source_weights[%s] must be within [0,1]", source)
		}
	}
	return nil
}

// EmailConfig contains digest delivery settings.
type EmailConfig struct {
	Domain     string        `mapstructure:"domain"`
	APIKey     string        `mapstructure:"api_key"`
	APIBase    string        `mapstructure:"api_base"`
	From       string        `mapstructure:"from"`
	Recipients []string      `mapstructure:"recipients"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

func (e EmailConfig) Validate() error {
	if strings.TrimSpace(e.Domain) == "" {
		return errors.New("email.domain required")
	}
	if strings.TrimSpace(e.APIKey) == "" {
		return errors.New("email.api_key required")
	}
	if len(e.Recipients) == 0 {
		return errors.New("email.recipients required")
	}
	return nil
}

// ScheduleConfig contains the optional built-in cron schedule for serve mode.
type ScheduleConfig struct {
	Cron string `mapstructure:"cron"`
}

// LoadConfig loads configuration from an optional JSON file and NEWSINTEL_*
// environment variables. Structural problems are returned immediately so a
// misconfigured run aborts before any side effect; credential checks for the
// individual stages happen in each stage's Validate.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")

	v.SetDefault("general.run_timeout", 30*time.Minute)
	v.SetDefault("storage.backend", "fs")
	v.SetDefault("storage.fs.data_dir", "./data")
	v.SetDefault("storage.keys.articles", "news_rss.csv")
	v.SetDefault("storage.keys.interests", "interests_only_embeddings.json")
	v.SetDefault("storage.keys.ledger", "sent_articles.txt")
	v.SetDefault("sources.rss.window", 48*time.Hour)
	v.SetDefault("sources.newsapi.endpoint", "https://newsapi.org/v2/everything")
	v.SetDefault("sources.newsapi.max_results", 50)
	v.SetDefault("sources.youtube.endpoint", "https://www.googleapis.com/youtube/v3")
	v.SetDefault("sources.bluesky.host", "https://bsky.social")
	v.SetDefault("sources.bluesky.max_results", 25)
	v.SetDefault("sources.hackernews.endpoint", "https://hacker-news.firebaseio.com/v0")
	v.SetDefault("sources.hackernews.max_stories", 30)
	v.SetDefault("sources.custom_search.endpoint", "https://www.googleapis.com/customsearch/v1")
	v.SetDefault("sources.enrich.timeout", 20*time.Second)
	v.SetDefault("embedding.provider", "openai")
	v.SetDefault("embedding.model", "text-embedding-3-large")
	v.SetDefault("embedding.batch_size", 40)
	v.SetDefault("embedding.timeout", 60*time.Second)
	v.SetDefault("relevance.threshold", 0.615)
	v.SetDefault("relevance.window", 48*time.Hour)
	v.SetDefault("email.api_base", "https://api.mailgun.net/v3")
	v.SetDefault("email.timeout", 30*time.Second)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("NEWSINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only surfaces keys viper already knows about, so every
	// credential key gets an empty default to make NEWSINTEL_* injection work
	// without a config file.
	for _, key := range []string{
		"storage.s3.access_key_id", "storage.s3.secret_access_key",
		"sources.newsapi.api_key", "sources.youtube.api_key",
		"sources.bluesky.identifier", "sources.bluesky.password",
		"sources.custom_search.api_key", "sources.custom_search.engine_id",
		"embedding.api_key",
		"email.domain", "email.api_key", "email.from",
	} {
		v.SetDefault(key, "")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Running purely on env vars and defaults is fine; an explicit file
		// that cannot be read is not.
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Storage.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Relevance.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
