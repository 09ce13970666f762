// Package config loads and validates the run-scoped configuration for the
// daily brief pipeline. Settings come from an optional YAML file (path in
// BRIEF_CONFIG) merged over built-in defaults, with environment variables
// overriding secrets and deployment coordinates. Validation is fail-closed:
// a missing required coordinate aborts the run before anything is written.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"daily-brief/internal/domain/entity"
)

const (
	configPathEnv = "BRIEF_CONFIG"

	timezoneEnv  = "TZ"
	thresholdEnv = "NEWS_IMPORTANCE_THRESHOLD"
	outputDirEnv = "OUTPUT_DIR"

	repoEnv   = "GITHUB_REPO"
	branchEnv = "GITHUB_REF_NAME"

	notionTokenEnv     = "NOTION_TOKEN"
	notionDatabaseEnv  = "NOTION_DAILY_DB_ID"
	notionTitlePropEnv = "NOTION_DAILY_TITLE_PROP"

	openAIKeyEnv    = "OPENAI_API_KEY"
	anthropicKeyEnv = "ANTHROPIC_API_KEY"
	summarizerEnv   = "SUMMARIZER_PROVIDER"
)

// GroupConfig describes one feed group: its stable id, feed URLs and the
// focus prompt appended to scoring and summarization instructions.
type GroupConfig struct {
	ID     string   `yaml:"id"`
	URLs   []string `yaml:"urls"`
	Prompt string   `yaml:"prompt"`
}

// PublishConfig carries the coordinates audio artifacts are published under.
// Repo is "owner/name"; committed files become reachable at
// https://raw.githubusercontent.com/{repo}/{branch}/{path}.
type PublishConfig struct {
	Repo      string `yaml:"repo"`
	Branch    string `yaml:"branch"`
	OutputDir string `yaml:"outputDir"`
}

// NotionConfig carries document store coordinates. TitleProp is the database
// property holding the page title (the run's date string).
type NotionConfig struct {
	Token      string `yaml:"token"`
	DatabaseID string `yaml:"databaseId"`
	TitleProp  string `yaml:"titleProp"`
	BaseURL    string `yaml:"baseUrl"`
}

// AIConfig carries model selection for scoring, summarization and speech.
type AIConfig struct {
	OpenAIKey    string `yaml:"openAiKey"`
	AnthropicKey string `yaml:"anthropicKey"`
	// Summarizer selects the summarization provider: "openai" or "claude".
	Summarizer   string `yaml:"summarizer"`
	ScoreModel   string `yaml:"scoreModel"`
	SummaryModel string `yaml:"summaryModel"`
	SpeechModel  string `yaml:"speechModel"`
	SpeechVoice  string `yaml:"speechVoice"`
}

// Config is the read-only run configuration threaded explicitly through each
// pipeline component. It is never stored in process-wide mutable state, so
// tests can run the pipeline with varied configurations side by side.
type Config struct {
	Timezone       string `yaml:"timezone"`
	Threshold      int    `yaml:"threshold"`
	FreshnessHours int    `yaml:"freshnessHours"`

	// KeepUndated keeps items whose timestamps could not be parsed
	// (fail-open freshness). A recorded policy choice, not a bug.
	KeepUndated *bool `yaml:"keepUndated"`

	// DedupPreferLonger keeps the duplicate with the longer raw text;
	// when false (or tied) the first-seen duplicate wins.
	DedupPreferLonger *bool `yaml:"dedupPreferLonger"`

	RoundupMaxItems int `yaml:"roundupMaxItems"`
	SectionMaxItems int `yaml:"sectionMaxItems"`

	Groups  []GroupConfig `yaml:"groups"`
	Publish PublishConfig `yaml:"publish"`
	Notion  NotionConfig  `yaml:"notion"`
	AI      AIConfig      `yaml:"ai"`

	location *time.Location
}

// Load reads YAML configuration (if present), applies environment overrides,
// resolves the timezone and validates the result.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.bindTimezone(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// KeepUndatedItems resolves the fail-open freshness policy (default true).
func (c *Config) KeepUndatedItems() bool {
	return c.KeepUndated == nil || *c.KeepUndated
}

// PreferLongerDuplicate resolves the dedup tie-break policy (default true).
func (c *Config) PreferLongerDuplicate() bool {
	return c.DedupPreferLonger == nil || *c.DedupPreferLonger
}

// Location returns the resolved run timezone.
func (c *Config) Location() *time.Location {
	if c.location != nil {
		return c.location
	}
	return time.UTC
}

// DateString formats the given instant as the run's page title, YYYY-MM-DD
// in the configured timezone.
func (c *Config) DateString(now time.Time) string {
	return now.In(c.Location()).Format("2006-01-02")
}

// EntityGroups maps the configured groups into domain values, preserving
// the configured order. That order is the stable section order on the page.
func (c *Config) EntityGroups() []entity.Group {
	groups := make([]entity.Group, 0, len(c.Groups))
	for _, g := range c.Groups {
		groups = append(groups, entity.Group{ID: g.ID, URLs: g.URLs, Prompt: g.Prompt})
	}
	return groups
}

// Validate checks the configuration fail-closed. Any error here is fatal at
// run start, before any external write happens.
func (c *Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 100 {
		return &entity.ValidationError{Field: "threshold", Message: fmt.Sprintf("must be in [0,100], got %d", c.Threshold)}
	}
	if c.FreshnessHours <= 0 {
		return &entity.ValidationError{Field: "freshnessHours", Message: fmt.Sprintf("must be positive, got %d", c.FreshnessHours)}
	}
	if c.RoundupMaxItems <= 0 {
		return &entity.ValidationError{Field: "roundupMaxItems", Message: "must be positive"}
	}
	if c.SectionMaxItems <= 0 {
		return &entity.ValidationError{Field: "sectionMaxItems", Message: "must be positive"}
	}
	if len(c.Groups) == 0 {
		return &entity.ValidationError{Field: "groups", Message: "at least one feed group is required"}
	}
	for _, g := range c.Groups {
		if g.ID == "" {
			return &entity.ValidationError{Field: "groups", Message: "group id must not be empty"}
		}
		if len(g.URLs) == 0 {
			return &entity.ValidationError{Field: "groups", Message: fmt.Sprintf("group %q has no feed URLs", g.ID)}
		}
	}
	if c.Publish.Repo == "" {
		return &entity.ValidationError{Field: "publish.repo", Message: "GITHUB_REPO is required"}
	}
	if c.Publish.Branch == "" {
		return &entity.ValidationError{Field: "publish.branch", Message: "publish branch is required"}
	}
	if c.Notion.Token == "" {
		return &entity.ValidationError{Field: "notion.token", Message: "NOTION_TOKEN is required"}
	}
	if c.Notion.DatabaseID == "" {
		return &entity.ValidationError{Field: "notion.databaseId", Message: "NOTION_DAILY_DB_ID is required"}
	}
	if c.AI.OpenAIKey == "" {
		return &entity.ValidationError{Field: "ai.openAiKey", Message: "OPENAI_API_KEY is required"}
	}
	if c.AI.Summarizer == "claude" && c.AI.AnthropicKey == "" {
		return &entity.ValidationError{Field: "ai.anthropicKey", Message: "ANTHROPIC_API_KEY is required for the claude summarizer"}
	}
	if c.AI.Summarizer != "openai" && c.AI.Summarizer != "claude" {
		return &entity.ValidationError{Field: "ai.summarizer", Message: fmt.Sprintf("unknown provider %q", c.AI.Summarizer)}
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(timezoneEnv); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv(thresholdEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Threshold = parsed
		}
	}
	if v := os.Getenv(outputDirEnv); v != "" {
		c.Publish.OutputDir = v
	}
	if v := os.Getenv(repoEnv); v != "" {
		c.Publish.Repo = v
	}
	if v := os.Getenv(branchEnv); v != "" {
		c.Publish.Branch = v
	}
	if v := os.Getenv(notionTokenEnv); v != "" {
		c.Notion.Token = v
	}
	if v := os.Getenv(notionDatabaseEnv); v != "" {
		c.Notion.DatabaseID = v
	}
	if v := os.Getenv(notionTitlePropEnv); v != "" {
		c.Notion.TitleProp = v
	}
	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.AI.OpenAIKey = v
	}
	if v := os.Getenv(anthropicKeyEnv); v != "" {
		c.AI.AnthropicKey = v
	}
	if v := os.Getenv(summarizerEnv); v != "" {
		c.AI.Summarizer = v
	}
}

func (c *Config) bindTimezone() error {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	c.location = loc
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Timezone:        "America/Toronto",
		Threshold:       70,
		FreshnessHours:  24,
		RoundupMaxItems: 6,
		SectionMaxItems: 5,
		Groups:          DefaultGroups(),
		Publish: PublishConfig{
			Branch:    "main",
			OutputDir: "public/daily",
		},
		Notion: NotionConfig{
			TitleProp: "Name",
			BaseURL:   "https://api.notion.com",
		},
		AI: AIConfig{
			Summarizer:   "openai",
			ScoreModel:   "gpt-4o-mini",
			SummaryModel: "gpt-4o-mini",
			SpeechModel:  "gpt-4o-mini-tts",
			SpeechVoice:  "alloy",
		},
	}
}

// DefaultGroups returns the built-in feed catalog used when the config file
// does not define its own groups.
func DefaultGroups() []GroupConfig {
	return []GroupConfig{
		{
			ID: "guardian",
			URLs: []string{
				"https://www.theguardian.com/world/rss",
				"https://www.theguardian.com/uk/culture/rss",
				"https://www.theguardian.com/lifeandstyle/rss",
			},
			Prompt: "Mix of world, culture, and lifestyle stories.",
		},
		{
			ID: "bbc",
			URLs: []string{
				"https://feeds.bbci.co.uk/news/rss.xml",
				"https://feeds.bbci.co.uk/news/technology/rss.xml",
			},
			Prompt: "Prioritize Scotland and broader UK coverage.",
		},
		{
			ID: "montreal_gazette",
			URLs: []string{
				"https://montrealgazette.com/category/news/local-news/feed",
			},
			Prompt: "Local Montreal news with civic impact.",
		},
		{
			ID: "ai",
			URLs: []string{
				"https://feeds.arstechnica.com/arstechnica/ai",
				"https://www.techmeme.com/feed.xml",
			},
			Prompt: "AI/tech developments relevant to startups.",
		},
	}
}
