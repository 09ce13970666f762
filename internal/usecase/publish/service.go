// Package publish implements the page synchronization and notification use
// cases: find-or-create the daily page, replace its body with the newly
// built block sequence, and attach the completion comment.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"daily-brief/internal/domain/entity"
)

// ReadyCommentText is the completion signal attached to the synchronized page.
const ReadyCommentText = "✅ Daily news brief is ready – Roundup + section audios added."

// DocumentStore is the interface to the external document store.
// Implementations own their rate limiting, retries and circuit breaking;
// an error surfacing here means the operation failed for good.
type DocumentStore interface {
	// FindPageByTitle returns the id of the page whose title exactly equals
	// the given string, or entity.ErrNotFound when no such page exists.
	FindPageByTitle(ctx context.Context, title string) (string, error)

	// CreatePage creates a new page with the given title and body blocks,
	// returning its external id.
	CreatePage(ctx context.Context, title string, blocks []entity.Block) (string, error)

	// ReplaceBlocks discards the page's existing body and writes the given
	// block sequence, as close to atomically as the store supports.
	ReplaceBlocks(ctx context.Context, pageID string, blocks []entity.Block) error

	// AppendComment attaches a comment to the page.
	AppendComment(ctx context.Context, pageID string, text string) error
}

// Service synchronizes the single per-date page and fires the completion
// notification.
type Service interface {
	// SyncPage upserts the page for the given title: NOT_FOUND → CREATED,
	// FOUND → UPDATED. The body is fully replaced in both cases, which is
	// what makes re-running a date idempotent. Failure here is fatal for
	// the run: no partial page is preferable to a broken one.
	SyncPage(ctx context.Context, title string, blocks []entity.Block) (entity.Page, error)

	// Notify attaches the completion comment to the synchronized page.
	// Fire-and-forget: failure is logged and never reverses or fails the
	// already-committed page update.
	Notify(ctx context.Context, page entity.Page, text string)
}

type service struct {
	store  DocumentStore
	logger *slog.Logger
}

// NewService creates a page synchronization service backed by the given store.
func NewService(store DocumentStore, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{store: store, logger: logger}
}

// SyncPage implements Service.SyncPage as a single upsert: the lookup and
// the create share one call site, so "at most one page per date" has no
// race window to widen if the pipeline is ever parallelized.
func (s *service) SyncPage(ctx context.Context, title string, blocks []entity.Block) (entity.Page, error) {
	page := entity.Page{Title: title, Blocks: blocks}

	pageID, err := s.store.FindPageByTitle(ctx, title)
	switch {
	case errors.Is(err, entity.ErrNotFound):
		pageID, err = s.store.CreatePage(ctx, title, blocks)
		if err != nil {
			return entity.Page{}, fmt.Errorf("create page %q: %w", title, err)
		}
		page.PageID = pageID
		page.State = entity.PageCreated

	case err != nil:
		return entity.Page{}, fmt.Errorf("look up page %q: %w", title, err)

	default:
		if err := s.store.ReplaceBlocks(ctx, pageID, blocks); err != nil {
			return entity.Page{}, fmt.Errorf("replace blocks of page %q: %w", title, err)
		}
		page.PageID = pageID
		page.State = entity.PageUpdated
	}

	s.logger.Info("page synchronized",
		slog.String("title", title),
		slog.String("page_id", page.PageID),
		slog.String("state", string(page.State)),
		slog.Int("blocks", len(blocks)))

	return page, nil
}

// Notify implements Service.Notify.
func (s *service) Notify(ctx context.Context, page entity.Page, text string) {
	if err := s.store.AppendComment(ctx, page.PageID, text); err != nil {
		s.logger.Warn("completion comment failed",
			slog.String("page_id", page.PageID),
			slog.Any("error", err))
		return
	}
	s.logger.Info("completion comment added", slog.String("page_id", page.PageID))
}
