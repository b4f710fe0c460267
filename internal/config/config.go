// Package config loads scholarseek configuration from an optional TOML
// file with SCHOLARSEEK_* environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/scholarseek/scholarseek/internal/index"
)

// ErrInvalidThreshold is returned when the configured decision threshold
// falls outside [0, 1].
var ErrInvalidThreshold = errors.New("config: threshold must be in [0, 1]")

// Config is the full runtime configuration.
type Config struct {
	// DataDir holds the SQLite database; empty means ~/.scholarseek/data.
	DataDir string `toml:"data_dir"`

	Crawl      CrawlConfig      `toml:"crawl"`
	Search     SearchConfig     `toml:"search"`
	Classifier ClassifierConfig `toml:"classifier"`
	Schedule   ScheduleConfig   `toml:"schedule"`
}

// CrawlConfig controls the BFS crawler.
type CrawlConfig struct {
	SeedURL                   string  `toml:"seed_url"`
	UserAgent                 string  `toml:"user_agent"`
	DelaySeconds              float64 `toml:"delay_seconds"`
	Workers                   int     `toml:"workers"`
	MaxProfiles               int     `toml:"max_profiles"`
	MaxPublicationsPerProfile int     `toml:"max_publications_per_profile"`
	MaxAbstractTokens         int     `toml:"max_abstract_tokens"`
}

// Delay returns the politeness interval as a duration.
func (c CrawlConfig) Delay() time.Duration {
	return time.Duration(c.DelaySeconds * float64(time.Second))
}

// SearchConfig controls ranking.
type SearchConfig struct {
	TopK int `toml:"top_k"`

	// Field multipliers applied at scoring time.
	TitleWeight    float64 `toml:"title_weight"`
	AuthorsWeight  float64 `toml:"authors_weight"`
	KeywordsWeight float64 `toml:"keywords_weight"`
	YearWeight     float64 `toml:"year_weight"`
	AbstractWeight float64 `toml:"abstract_weight"`
}

// FieldWeights converts the configured multipliers to an index weight table.
func (c SearchConfig) FieldWeights() index.Weights {
	return index.Weights{
		index.FieldTitle:    c.TitleWeight,
		index.FieldAuthors:  c.AuthorsWeight,
		index.FieldKeywords: c.KeywordsWeight,
		index.FieldYear:     c.YearWeight,
		index.FieldAbstract: c.AbstractWeight,
	}
}

// ClassifierConfig controls training and the decision layer.
type ClassifierConfig struct {
	Threshold   float64 `toml:"threshold"`
	Alpha       float64 `toml:"alpha"`
	MaxFeatures int     `toml:"max_features"`
}

// ScheduleConfig controls the periodic crawl trigger.
type ScheduleConfig struct {
	// Cron is a standard 5-field cron expression.
	Cron string `toml:"cron"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Crawl: CrawlConfig{
			SeedURL:                   "https://pureportal.coventry.ac.uk/en/organisations/ics-research-centre-for-computational-science-and-mathematical-mo",
			UserAgent:                 "scholarseek/1.0 (academic publication crawler)",
			DelaySeconds:              2,
			Workers:                   4,
			MaxProfiles:               10,
			MaxPublicationsPerProfile: 50,
			MaxAbstractTokens:         512,
		},
		Search: SearchConfig{
			TopK:           10,
			TitleWeight:    3.0,
			AuthorsWeight:  2.5,
			KeywordsWeight: 2.0,
			YearWeight:     1.5,
			AbstractWeight: 1.0,
		},
		Classifier: ClassifierConfig{
			Threshold:   0.30,
			Alpha:       0.1,
			MaxFeatures: 5000,
		},
		Schedule: ScheduleConfig{
			// every Monday at 02:00
			Cron: "0 2 * * 1",
		},
	}
}

// Load builds the configuration: defaults, then the TOML file at path
// (missing file is fine when path is empty), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks configured values against their legal ranges.
func (c Config) Validate() error {
	if c.Classifier.Threshold < 0 || c.Classifier.Threshold > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, c.Classifier.Threshold)
	}
	if c.Classifier.Alpha <= 0 {
		return fmt.Errorf("config: alpha must be positive, got %v", c.Classifier.Alpha)
	}
	if c.Crawl.DelaySeconds < 0 {
		return fmt.Errorf("config: crawl delay must be non-negative, got %v", c.Crawl.DelaySeconds)
	}
	if c.Search.TopK <= 0 {
		return fmt.Errorf("config: top_k must be positive, got %d", c.Search.TopK)
	}
	for field, weight := range c.Search.FieldWeights() {
		if weight < 0 {
			return fmt.Errorf("config: %s weight must be non-negative, got %v", field, weight)
		}
	}
	return nil
}

// applyEnv overlays SCHOLARSEEK_* environment variables.
func applyEnv(cfg *Config) {
	setString(&cfg.DataDir, "SCHOLARSEEK_DATA_DIR")
	setString(&cfg.Crawl.SeedURL, "SCHOLARSEEK_SEED_URL")
	setString(&cfg.Crawl.UserAgent, "SCHOLARSEEK_USER_AGENT")
	setFloat(&cfg.Crawl.DelaySeconds, "SCHOLARSEEK_CRAWL_DELAY_SECONDS")
	setInt(&cfg.Crawl.Workers, "SCHOLARSEEK_CRAWL_WORKERS")
	setInt(&cfg.Crawl.MaxProfiles, "SCHOLARSEEK_MAX_PROFILES")
	setFloat(&cfg.Classifier.Threshold, "SCHOLARSEEK_THRESHOLD")
	setFloat(&cfg.Classifier.Alpha, "SCHOLARSEEK_ALPHA")
	setInt(&cfg.Search.TopK, "SCHOLARSEEK_TOP_K")
	setString(&cfg.Schedule.Cron, "SCHOLARSEEK_SCHEDULE_CRON")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
