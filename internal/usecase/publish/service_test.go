package publish_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/usecase/publish"
)

// fakeStore is an in-memory DocumentStore recording every operation.
type fakeStore struct {
	pages    map[string]*storedPage // keyed by title
	nextID   int
	ops      []string
	findErr  error
	writeErr error
}

type storedPage struct {
	id     string
	blocks []entity.Block
}

func newFakeStore() *fakeStore {
	return &fakeStore{pages: map[string]*storedPage{}}
}

func (f *fakeStore) FindPageByTitle(_ context.Context, title string) (string, error) {
	f.ops = append(f.ops, "find:"+title)
	if f.findErr != nil {
		return "", f.findErr
	}
	p, ok := f.pages[title]
	if !ok {
		return "", entity.ErrNotFound
	}
	return p.id, nil
}

func (f *fakeStore) CreatePage(_ context.Context, title string, blocks []entity.Block) (string, error) {
	f.ops = append(f.ops, "create:"+title)
	if f.writeErr != nil {
		return "", f.writeErr
	}
	f.nextID++
	id := fmt.Sprintf("page-%d", f.nextID)
	f.pages[title] = &storedPage{id: id, blocks: append([]entity.Block(nil), blocks...)}
	return id, nil
}

func (f *fakeStore) ReplaceBlocks(_ context.Context, pageID string, blocks []entity.Block) error {
	f.ops = append(f.ops, "replace:"+pageID)
	if f.writeErr != nil {
		return f.writeErr
	}
	for _, p := range f.pages {
		if p.id == pageID {
			p.blocks = append([]entity.Block(nil), blocks...)
			return nil
		}
	}
	return entity.ErrNotFound
}

func (f *fakeStore) AppendComment(_ context.Context, pageID, text string) error {
	f.ops = append(f.ops, "comment:"+pageID)
	if f.writeErr != nil {
		return f.writeErr
	}
	return nil
}

func sampleBlocks() []entity.Block {
	return []entity.Block{
		entity.Heading(2, entity.PlainSpans("Roundup")),
		entity.Paragraph(entity.PlainSpans("Some paragraph.")),
	}
}

func TestSyncPage_CreatesWhenAbsent(t *testing.T) {
	store := newFakeStore()
	svc := publish.NewService(store, nil)

	page, err := svc.SyncPage(context.Background(), "2026-08-31", sampleBlocks())

	require.NoError(t, err)
	assert.Equal(t, entity.PageCreated, page.State)
	assert.Equal(t, "page-1", page.PageID)
	assert.Equal(t, []string{"find:2026-08-31", "create:2026-08-31"}, store.ops)
}

func TestSyncPage_UpdatesWhenPresent(t *testing.T) {
	store := newFakeStore()
	svc := publish.NewService(store, nil)

	_, err := svc.SyncPage(context.Background(), "2026-08-31", sampleBlocks())
	require.NoError(t, err)

	page, err := svc.SyncPage(context.Background(), "2026-08-31", sampleBlocks())
	require.NoError(t, err)

	assert.Equal(t, entity.PageUpdated, page.State)
	assert.Equal(t, "page-1", page.PageID, "existing page identity is reused, never duplicated")
	assert.Len(t, store.pages, 1)
}

func TestSyncPage_Idempotent(t *testing.T) {
	store := newFakeStore()
	svc := publish.NewService(store, nil)
	blocks := sampleBlocks()

	_, err := svc.SyncPage(context.Background(), "2026-08-31", blocks)
	require.NoError(t, err)
	afterFirst := append([]entity.Block(nil), store.pages["2026-08-31"].blocks...)

	_, err = svc.SyncPage(context.Background(), "2026-08-31", blocks)
	require.NoError(t, err)

	if diff := cmp.Diff(afterFirst, store.pages["2026-08-31"].blocks); diff != "" {
		t.Errorf("page body changed across identical runs (-first +second):\n%s", diff)
	}
}

func TestSyncPage_BodyFullyReplaced(t *testing.T) {
	store := newFakeStore()
	svc := publish.NewService(store, nil)

	_, err := svc.SyncPage(context.Background(), "2026-08-31", sampleBlocks())
	require.NoError(t, err)

	replacement := []entity.Block{entity.Paragraph(entity.PlainSpans("fresh body"))}
	_, err = svc.SyncPage(context.Background(), "2026-08-31", replacement)
	require.NoError(t, err)

	require.Len(t, store.pages["2026-08-31"].blocks, 1)
	assert.Equal(t, "fresh body", store.pages["2026-08-31"].blocks[0].PlainText())
}

func TestSyncPage_LookupFailureIsFatal(t *testing.T) {
	store := newFakeStore()
	store.findErr = errors.New("store unreachable")
	svc := publish.NewService(store, nil)

	_, err := svc.SyncPage(context.Background(), "2026-08-31", sampleBlocks())

	require.Error(t, err)
	assert.NotContains(t, store.ops, "create:2026-08-31", "no partial page on lookup failure")
}

func TestSyncPage_WriteFailureIsFatal(t *testing.T) {
	store := newFakeStore()
	store.writeErr = errors.New("store unreachable")
	svc := publish.NewService(store, nil)

	_, err := svc.SyncPage(context.Background(), "2026-08-31", sampleBlocks())

	require.Error(t, err)
}

func TestNotify_FailureIsSwallowed(t *testing.T) {
	store := newFakeStore()
	svc := publish.NewService(store, nil)

	page, err := svc.SyncPage(context.Background(), "2026-08-31", sampleBlocks())
	require.NoError(t, err)

	store.writeErr = errors.New("comments api down")
	assert.NotPanics(t, func() {
		svc.Notify(context.Background(), page, publish.ReadyCommentText)
	})

	// The page body is untouched by the failed notification.
	assert.Len(t, store.pages["2026-08-31"].blocks, 2)
}
