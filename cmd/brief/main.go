// Command brief runs one complete daily news brief: fetch the configured
// feed groups, score and summarize, publish audio artifacts, and synchronize
// the dated page in the document store. It is designed to run once per
// invocation under an external scheduler and exits non-zero on fatal errors.
package main

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"
	"os"
	"time"

	"daily-brief/internal/config"
	"daily-brief/internal/infra/artifact"
	"daily-brief/internal/infra/fetcher"
	"daily-brief/internal/infra/notion"
	"daily-brief/internal/infra/scorer"
	"daily-brief/internal/infra/scraper"
	"daily-brief/internal/infra/speech"
	"daily-brief/internal/infra/summarizer"
	"daily-brief/internal/observability/logging"
	"daily-brief/internal/usecase/brief"
	"daily-brief/internal/usecase/publish"
)

// runTimeout bounds the whole pipeline run. A wedged external API surfaces
// as a failed run instead of a scheduler job that never ends.
const runTimeout = 30 * time.Minute

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.String("timezone", cfg.Timezone),
		slog.Int("threshold", cfg.Threshold),
		slog.Int("groups", len(cfg.Groups)),
		slog.String("summarizer", cfg.AI.Summarizer))

	svc, err := setupService(logger, cfg)
	if err != nil {
		logger.Error("service setup failed", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	stats, err := svc.Run(ctx, time.Now())
	if err != nil {
		logger.Error("daily brief run failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("daily brief run finished",
		slog.String("date", stats.Date),
		slog.String("page_state", string(stats.PageState)),
		slog.Duration("duration", stats.Duration))
}

// setupService wires the pipeline service with all its adapters.
func setupService(logger *slog.Logger, cfg *config.Config) (*brief.Service, error) {
	feedFetcher := scraper.NewRSSFetcher(newHTTPClient())
	contentFetcher := setupContentFetcher(logger)

	articleScorer := scorer.NewOpenAI(cfg.AI.OpenAIKey, cfg.AI.ScoreModel)

	sum, err := summarizer.New(cfg.AI)
	if err != nil {
		return nil, err
	}

	synthesizer := speech.NewOpenAI(cfg.AI.OpenAIKey, cfg.AI.SpeechModel, cfg.AI.SpeechVoice)
	publisher := artifact.NewRepoPublisher(os.Getenv("WORKTREE_ROOT"), cfg.Publish.Repo, cfg.Publish.Branch)

	store := notion.NewClient(cfg.Notion)
	pages := publish.NewService(store, logger)

	return brief.NewService(
		cfg,
		feedFetcher,
		contentFetcher,
		articleScorer,
		sum,
		synthesizer,
		nil, // no audio converter wired; mp3 artifacts are referenced directly
		publisher,
		pages,
		logger,
	), nil
}

// setupContentFetcher builds the optional full-text fetcher. Configuration
// errors disable enhancement rather than failing the run; feed content is a
// workable fallback.
func setupContentFetcher(logger *slog.Logger) brief.ContentFetcher {
	fetchConfig, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Warn("content fetch configuration invalid, enhancement disabled",
			slog.Any("error", err))
		return nil
	}
	if !fetchConfig.Enabled {
		logger.Info("content enhancement disabled")
		return nil
	}

	logger.Info("content enhancement enabled",
		slog.Duration("timeout", fetchConfig.Timeout),
		slog.Int("max_redirects", fetchConfig.MaxRedirects))
	return fetcher.NewReadabilityFetcher(fetchConfig)
}

// newHTTPClient builds the shared feed-fetch HTTP client. TLS 1.2+ only.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}
