package brief

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-brief/internal/domain/entity"
)

func scoredArticle(title, group string, score int, at time.Time) entity.Article {
	return entity.Article{
		Title:       title,
		URL:         "https://example.com/" + title,
		SourceGroup: group,
		PublishedAt: at,
	}.WithScore(score, "reason")
}

func TestBuildSections_PartitionsByGroupInConfiguredOrder(t *testing.T) {
	groups := []entity.Group{{ID: "guardian"}, {ID: "bbc"}}
	at := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	sections := BuildSections(groups, []entity.Article{
		{Title: "b1", SourceGroup: "bbc", PublishedAt: at},
		{Title: "g1", SourceGroup: "guardian", PublishedAt: at},
		{Title: "b2", SourceGroup: "bbc", PublishedAt: at.Add(time.Hour)},
	})

	require.Len(t, sections, 2)
	assert.Equal(t, "guardian", sections[0].Group.ID)
	assert.Equal(t, "bbc", sections[1].Group.ID)

	// Freshest first within a group.
	require.Len(t, sections[1].Articles, 2)
	assert.Equal(t, "b2", sections[1].Articles[0].Title)
}

func TestBuildSections_EmptyGroupStillYieldsSection(t *testing.T) {
	groups := []entity.Group{{ID: "guardian"}, {ID: "montreal_gazette"}}

	sections := BuildSections(groups, []entity.Article{
		{Title: "g1", SourceGroup: "guardian"},
	})

	require.Len(t, sections, 2)
	assert.True(t, sections[1].Empty())
}

func TestSelectRoundup_InclusiveLowerBound(t *testing.T) {
	at := time.Now()
	articles := []entity.Article{
		scoredArticle("at-threshold", "bbc", 70, at),
		scoredArticle("below", "bbc", 69, at),
	}

	roundup := SelectRoundup(articles, 70, 6)

	require.Len(t, roundup.Articles, 1)
	assert.Equal(t, "at-threshold", roundup.Articles[0].Title)
}

func TestSelectRoundup_NilScoreExcluded(t *testing.T) {
	at := time.Now()
	articles := []entity.Article{
		{Title: "unscored", SourceGroup: "bbc", PublishedAt: at},
		scoredArticle("scored", "bbc", 90, at),
	}

	roundup := SelectRoundup(articles, 70, 6)

	require.Len(t, roundup.Articles, 1)
	assert.Equal(t, "scored", roundup.Articles[0].Title)
}

func TestSelectRoundup_SortsByScoreThenRecency(t *testing.T) {
	base := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	articles := []entity.Article{
		scoredArticle("older-high", "bbc", 90, base),
		scoredArticle("newer-high", "guardian", 90, base.Add(time.Hour)),
		scoredArticle("top", "ai", 95, base),
	}

	roundup := SelectRoundup(articles, 70, 6)

	require.Len(t, roundup.Articles, 3)
	assert.Equal(t, "top", roundup.Articles[0].Title)
	assert.Equal(t, "newer-high", roundup.Articles[1].Title)
	assert.Equal(t, "older-high", roundup.Articles[2].Title)
}

func TestSelectRoundup_CapsAtMaxItems(t *testing.T) {
	at := time.Now()
	var articles []entity.Article
	for i := 0; i < 10; i++ {
		articles = append(articles, scoredArticle(string(rune('a'+i)), "bbc", 80+i, at))
	}

	roundup := SelectRoundup(articles, 70, 6)

	assert.Len(t, roundup.Articles, 6)
}

func TestSelectRoundup_MonotonicSupersetWhenThresholdLowered(t *testing.T) {
	at := time.Now()
	var articles []entity.Article
	for i, score := range []int{45, 55, 65, 70, 75, 85} {
		articles = append(articles, scoredArticle(string(rune('a'+i)), "bbc", score, at))
	}

	strict := SelectRoundup(articles, 70, 0)
	relaxed := SelectRoundup(articles, 50, 0)

	strictTitles := make(map[string]bool)
	for _, a := range relaxed.Articles {
		strictTitles[a.Title] = true
	}
	for _, a := range strict.Articles {
		assert.True(t, strictTitles[a.Title],
			"article %q present at threshold 70 but missing at threshold 50", a.Title)
	}
	assert.Greater(t, len(relaxed.Articles), len(strict.Articles))
}

func TestSelectRoundup_EmptyStillExists(t *testing.T) {
	roundup := SelectRoundup(nil, 70, 6)

	assert.True(t, roundup.Empty())
	assert.Equal(t, 70, roundup.Threshold)
}
