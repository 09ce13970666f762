package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish_WritesFileAndRecordsCommit(t *testing.T) {
	root := t.TempDir()
	p := NewRepoPublisher(root, "owner/repo", "main")

	data := []byte("mp3 bytes")
	err := p.Publish(context.Background(), "public/daily/2026-08-31/roundup.mp3", data)
	require.NoError(t, err)

	written, err := os.ReadFile(filepath.Join(root, "public", "daily", "2026-08-31", "roundup.mp3"))
	require.NoError(t, err)
	assert.Equal(t, data, written)

	assert.True(t, p.Committed("public/daily/2026-08-31/roundup.mp3"))
	assert.False(t, p.Committed("public/daily/2026-08-31/guardian.mp3"))
}

func TestURL(t *testing.T) {
	p := NewRepoPublisher(t.TempDir(), "owner/repo", "main")

	assert.Equal(t,
		"https://raw.githubusercontent.com/owner/repo/main/public/daily/2026-08-31/roundup.mp3",
		p.URL("public/daily/2026-08-31/roundup.mp3"))
}

func TestPublish_RejectsUnsafePaths(t *testing.T) {
	p := NewRepoPublisher(t.TempDir(), "owner/repo", "main")

	for _, path := range []string{"", "/etc/passwd", "../outside.mp3", "a/../../b.mp3"} {
		err := p.Publish(context.Background(), path, []byte("x"))
		assert.Error(t, err, "path %q must be rejected", path)
	}
}

func TestPublish_CanceledContext(t *testing.T) {
	p := NewRepoPublisher(t.TempDir(), "owner/repo", "main")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Publish(ctx, "public/daily/x.mp3", []byte("x"))
	require.Error(t, err)
	assert.False(t, p.Committed("public/daily/x.mp3"))
}
