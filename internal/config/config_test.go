package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BRIEF_CONFIG", "")
	t.Setenv("GITHUB_REPO", "owner/repo")
	t.Setenv("NOTION_TOKEN", "secret-token")
	t.Setenv("NOTION_DAILY_DB_ID", "db-123")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("SUMMARIZER_PROVIDER", "")
	t.Setenv("NEWS_IMPORTANCE_THRESHOLD", "")
	t.Setenv("NOTION_DAILY_TITLE_PROP", "")
	t.Setenv("GITHUB_REF_NAME", "")
	t.Setenv("OUTPUT_DIR", "")
	t.Setenv("TZ", "")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 70, cfg.Threshold)
	assert.Equal(t, 24, cfg.FreshnessHours)
	assert.Equal(t, 6, cfg.RoundupMaxItems)
	assert.Equal(t, 5, cfg.SectionMaxItems)
	assert.Equal(t, "America/Toronto", cfg.Timezone)
	assert.Equal(t, "main", cfg.Publish.Branch)
	assert.Equal(t, "public/daily", cfg.Publish.OutputDir)
	assert.Equal(t, "Name", cfg.Notion.TitleProp)
	assert.Equal(t, "openai", cfg.AI.Summarizer)
	assert.True(t, cfg.KeepUndatedItems())
	assert.True(t, cfg.PreferLongerDuplicate())
	assert.Len(t, cfg.Groups, 4)
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("NEWS_IMPORTANCE_THRESHOLD", "55")
	t.Setenv("GITHUB_REF_NAME", "release")
	t.Setenv("NOTION_DAILY_TITLE_PROP", "Title")
	t.Setenv("TZ", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 55, cfg.Threshold)
	assert.Equal(t, "release", cfg.Publish.Branch)
	assert.Equal(t, "Title", cfg.Notion.TitleProp)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoad_YAMLFile(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "brief.yaml")
	yaml := `
timezone: UTC
threshold: 80
freshnessHours: 48
keepUndated: false
groups:
  - id: tech
    urls: ["https://example.com/feed.xml"]
    prompt: "Tech only."
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("BRIEF_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 80, cfg.Threshold)
	assert.Equal(t, 48, cfg.FreshnessHours)
	assert.False(t, cfg.KeepUndatedItems())
	require.Len(t, cfg.Groups, 1)
	assert.Equal(t, "tech", cfg.Groups[0].ID)
}

func TestLoad_MissingRequiredCoordinatesIsFatal(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{name: "missing repo", unset: "GITHUB_REPO"},
		{name: "missing notion token", unset: "NOTION_TOKEN"},
		{name: "missing notion database", unset: "NOTION_DAILY_DB_ID"},
		{name: "missing openai key", unset: "OPENAI_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_ClaudeSummarizerRequiresAnthropicKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SUMMARIZER_PROVIDER", "claude")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("ANTHROPIC_API_KEY", "ak-test")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "claude", cfg.AI.Summarizer)
}

func TestValidate_ThresholdBounds(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("NEWS_IMPORTANCE_THRESHOLD", "101")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("NEWS_IMPORTANCE_THRESHOLD", "0")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Threshold)
}

func TestDateString(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TZ", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	at := time.Date(2026, 8, 31, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-31", cfg.DateString(at))
}

func TestEntityGroups_PreservesOrder(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	groups := cfg.EntityGroups()
	require.Len(t, groups, 4)
	assert.Equal(t, "guardian", groups[0].ID)
	assert.Equal(t, "bbc", groups[1].ID)
	assert.Equal(t, "montreal_gazette", groups[2].ID)
	assert.Equal(t, "ai", groups[3].ID)
}
