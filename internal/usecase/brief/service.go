// Package brief implements the content aggregation pipeline: fetch feed
// groups, filter and deduplicate, score, select the roundup, summarize,
// synthesize and publish audio, and hand the assembled block sequence to the
// page synchronizer. One call to Run is one complete daily run.
package brief

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"daily-brief/internal/config"
	"daily-brief/internal/domain/entity"
	"daily-brief/internal/usecase/publish"
)

const (
	// feedParallelism bounds concurrent feed fetches.
	feedParallelism = 5

	// aiParallelism bounds concurrent scoring and content-fetch calls
	// (rate-limited APIs).
	aiParallelism = 5

	// minRawTextLength is the feed content length below which the full
	// article body is fetched, when a ContentFetcher is wired.
	minRawTextLength = 600
)

// Service orchestrates one pipeline run. All collaborators are injected so
// tests can drive the full run against fakes.
type Service struct {
	cfg        *config.Config
	feeds      FeedFetcher
	content    ContentFetcher
	scorer     Scorer
	summarizer Summarizer
	speech     SpeechSynthesizer
	converter  AudioConverter
	artifacts  ArtifactPublisher
	pages      publish.Service
	logger     *slog.Logger
}

// NewService creates a pipeline service with the provided dependencies.
// content and converter may be nil: content enhancement then stays off and
// the mp3 artifact is referenced instead of an ogg variant.
func NewService(
	cfg *config.Config,
	feeds FeedFetcher,
	content ContentFetcher,
	scorer Scorer,
	summarizer Summarizer,
	speech SpeechSynthesizer,
	converter AudioConverter,
	artifacts ArtifactPublisher,
	pages publish.Service,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:        cfg,
		feeds:      feeds,
		content:    content,
		scorer:     scorer,
		summarizer: summarizer,
		speech:     speech,
		converter:  converter,
		artifacts:  artifacts,
		pages:      pages,
		logger:     logger,
	}
}

// RunStats contains statistics about one pipeline run.
type RunStats struct {
	Date            string
	Feeds           int
	FeedErrors      int
	Items           int
	Filter          FilterStats
	ScoreFailures   int
	SummaryFailures int
	AudioFailures   int
	Blocks          int
	PageState       entity.PageState
	Duration        time.Duration
}

// Run executes the whole pipeline for the given reference time. Per-feed and
// per-item failures degrade their unit and are reported in the stats; only
// an empty fetch result or a failed page write is fatal.
func (s *Service) Run(ctx context.Context, now time.Time) (*RunStats, error) {
	start := time.Now()
	date := s.cfg.DateString(now)
	logger := s.logger.With(slog.String("run_date", date))
	stats := &RunStats{Date: date}

	articles := s.fetchAllFeeds(ctx, logger, stats)
	stats.Items = len(articles)
	if len(articles) == 0 {
		return stats, ErrNoArticles
	}

	filtered, filterStats := FilterArticles(articles, FilterPolicy{
		Now:          now,
		Window:       time.Duration(s.cfg.FreshnessHours) * time.Hour,
		KeepUndated:  s.cfg.KeepUndatedItems(),
		PreferLonger: s.cfg.PreferLongerDuplicate(),
	})
	stats.Filter = filterStats
	logger.Info("articles filtered",
		slog.Int("input", filterStats.Input),
		slog.Int("survivors", filterStats.Survivors),
		slog.Int("stale", filterStats.Stale),
		slog.Int("duplicates", filterStats.Duplicates),
		slog.Int("malformed", filterStats.Malformed))

	filtered = s.enhanceContent(ctx, logger, filtered)

	var scoreFailures atomic.Int64
	scored := s.scoreAll(ctx, logger, filtered, &scoreFailures)
	stats.ScoreFailures = int(scoreFailures.Load())

	groups := s.cfg.EntityGroups()
	sections := BuildSections(groups, scored)
	roundup := SelectRoundup(scored, s.cfg.Threshold, s.cfg.RoundupMaxItems)
	roundup.RenderedSummary = RenderRoundupMarkdown(roundup, groups)

	// Summaries and audio artifacts are produced concurrently, but nothing
	// past the Wait below starts before every artifact is committed. The
	// sections and roundup are read-only from that point on.
	var summaryFailures, audioFailures atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(aiParallelism)
	for i := range sections {
		g.Go(func() error {
			s.processSection(gctx, logger, date, &sections[i], &summaryFailures, &audioFailures)
			return nil
		})
	}
	g.Go(func() error {
		roundup.AudioRef = s.produceAudio(gctx, logger, date, "roundup", roundup.RenderedSummary, &audioFailures)
		return nil
	})
	_ = g.Wait()

	stats.SummaryFailures = int(summaryFailures.Load())
	stats.AudioFailures = int(audioFailures.Load())

	blocks := BuildPageBlocks(roundup, sections)
	stats.Blocks = len(blocks)

	page, err := s.pages.SyncPage(ctx, date, blocks)
	if err != nil {
		return stats, fmt.Errorf("synchronize page: %w", err)
	}
	stats.PageState = page.State

	s.pages.Notify(ctx, page, publish.ReadyCommentText)

	stats.Duration = time.Since(start)
	logger.Info("daily brief run completed",
		slog.Int("feeds", stats.Feeds),
		slog.Int("feed_errors", stats.FeedErrors),
		slog.Int("items", stats.Items),
		slog.Int("survivors", stats.Filter.Survivors),
		slog.Int("score_failures", stats.ScoreFailures),
		slog.Int("summary_failures", stats.SummaryFailures),
		slog.Int("audio_failures", stats.AudioFailures),
		slog.Int("blocks", stats.Blocks),
		slog.String("page_state", string(stats.PageState)),
		slog.Duration("duration", stats.Duration))

	return stats, nil
}

// fetchAllFeeds fetches every feed of every group concurrently. A failing
// feed is logged and skipped so it cannot take the other feeds down with it.
func (s *Service) fetchAllFeeds(ctx context.Context, logger *slog.Logger, stats *RunStats) []entity.Article {
	var (
		mu         sync.Mutex
		articles   []entity.Article
		feedErrors atomic.Int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(feedParallelism)

	for _, group := range s.cfg.Groups {
		for _, feedURL := range group.URLs {
			stats.Feeds++
			g.Go(func() error {
				items, err := s.feeds.Fetch(gctx, feedURL)
				if err != nil {
					feedErrors.Add(1)
					logger.Warn("failed to fetch feed",
						slog.String("group", group.ID),
						slog.String("feed_url", feedURL),
						slog.Any("error", err))
					return nil
				}

				mu.Lock()
				for _, item := range items {
					articles = append(articles, entity.Article{
						Title:       strings.TrimSpace(item.Title),
						URL:         strings.TrimSpace(item.URL),
						SourceGroup: group.ID,
						PublishedAt: item.PublishedAt,
						RawText:     item.Content,
					})
				}
				mu.Unlock()
				return nil
			})
		}
	}
	_ = g.Wait()

	stats.FeedErrors = int(feedErrors.Load())
	return articles
}

// enhanceContent replaces short feed content with the extracted full article
// body. Failures fall back to the feed content.
func (s *Service) enhanceContent(ctx context.Context, logger *slog.Logger, articles []entity.Article) []entity.Article {
	if s.content == nil {
		return articles
	}

	enhanced := make([]entity.Article, len(articles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(aiParallelism)

	for i, a := range articles {
		g.Go(func() error {
			enhanced[i] = a
			if len(a.RawText) >= minRawTextLength || a.URL == "" {
				return nil
			}
			body, err := s.content.FetchContent(gctx, a.URL)
			if err != nil {
				logger.Debug("content enhancement failed, keeping feed content",
					slog.String("url", a.URL),
					slog.Any("error", err))
				return nil
			}
			enhanced[i] = a.WithRawText(body)
			return nil
		})
	}
	_ = g.Wait()

	return enhanced
}

// scoreAll scores every article concurrently. A failed scoring call leaves
// the article unscored: it stays in its section, out of the roundup.
func (s *Service) scoreAll(ctx context.Context, logger *slog.Logger, articles []entity.Article, failures *atomic.Int64) []entity.Article {
	prompts := make(map[string]string, len(s.cfg.Groups))
	for _, g := range s.cfg.Groups {
		prompts[g.ID] = g.Prompt
	}

	scored := make([]entity.Article, len(articles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(aiParallelism)

	for i, a := range articles {
		g.Go(func() error {
			score, reason, err := s.scorer.Score(gctx, a, prompts[a.SourceGroup])
			if err != nil {
				failures.Add(1)
				logger.Warn("scoring failed, article stays unscored",
					slog.String("title", a.Title),
					slog.String("group", a.SourceGroup),
					slog.Any("error", err))
				scored[i] = a
				return nil
			}
			scored[i] = a.WithScore(score, reason)
			return nil
		})
	}
	_ = g.Wait()

	return scored
}

// processSection renders one section's summary and produces its audio.
func (s *Service) processSection(ctx context.Context, logger *slog.Logger, date string, sec *entity.Section, summaryFailures, audioFailures *atomic.Int64) {
	body := entity.EmptySectionText
	if !sec.Empty() {
		items := sec.Articles
		if len(items) > s.cfg.SectionMaxItems {
			items = items[:s.cfg.SectionMaxItems]
		}
		summary, err := s.summarizer.Summarize(ctx, items, sec.Group.Prompt)
		if err != nil {
			summaryFailures.Add(1)
			logger.Warn("summarization failed for section",
				slog.String("group", sec.Group.ID),
				slog.Any("error", err))
			body = SummaryUnavailableText
		} else {
			body = strings.TrimSpace(summary)
		}
	}
	sec.RenderedSummary = SectionHeading(sec.Group) + "\n" + body

	sec.AudioRef = s.produceAudio(ctx, logger, date, sec.Group.ID, sec.RenderedSummary, audioFailures)
}

// produceAudio synthesizes speech for the given text and publishes the
// artifacts under {outputDir}/{date}/{name}.{ext}. It returns the resolved
// URL of the committed artifact, or "" when production failed; the caller
// then renders an explicit placeholder instead of a dangling reference.
func (s *Service) produceAudio(ctx context.Context, logger *slog.Logger, date, name, text string, failures *atomic.Int64) string {
	mp3, err := s.speech.Synthesize(ctx, text)
	if err != nil {
		failures.Add(1)
		logger.Warn("speech synthesis failed",
			slog.String("artifact", name),
			slog.Any("error", err))
		return ""
	}

	mp3Path := fmt.Sprintf("%s/%s/%s.mp3", s.cfg.Publish.OutputDir, date, name)
	if err := s.artifacts.Publish(ctx, mp3Path, mp3); err != nil {
		failures.Add(1)
		logger.Warn("artifact publish failed",
			slog.String("path", mp3Path),
			slog.Any("error", err))
		return ""
	}

	if s.converter == nil {
		return s.artifacts.URL(mp3Path)
	}

	ogg, err := s.converter.ToOgg(ctx, mp3)
	if err != nil {
		logger.Warn("audio conversion failed, referencing mp3",
			slog.String("artifact", name),
			slog.Any("error", err))
		return s.artifacts.URL(mp3Path)
	}

	oggPath := fmt.Sprintf("%s/%s/%s.ogg", s.cfg.Publish.OutputDir, date, name)
	if err := s.artifacts.Publish(ctx, oggPath, ogg); err != nil {
		logger.Warn("ogg publish failed, referencing mp3",
			slog.String("path", oggPath),
			slog.Any("error", err))
		return s.artifacts.URL(mp3Path)
	}

	return s.artifacts.URL(oggPath)
}
