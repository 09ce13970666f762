// Package artifact publishes audio files into the repository worktree. Once
// written there, the surrounding workflow commit makes them reachable at
// their raw.githubusercontent.com URL; the in-process ledger lets the
// pipeline assert an artifact was committed before referencing it.
package artifact

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// RepoPublisher writes artifacts under the repository worktree root and
// resolves their public raw URLs.
//
// Safe for concurrent use.
type RepoPublisher struct {
	root   string
	repo   string
	branch string

	mu        sync.Mutex
	committed map[string]bool
}

// NewRepoPublisher creates a publisher rooted at the given worktree
// directory. repo is "owner/name"; branch names the ref raw URLs point at.
func NewRepoPublisher(root, repo, branch string) *RepoPublisher {
	if root == "" {
		root = "."
	}
	return &RepoPublisher{
		root:      root,
		repo:      repo,
		branch:    branch,
		committed: make(map[string]bool),
	}
}

// Publish writes the artifact at the given repository-relative path,
// creating parent directories as needed. The path is recorded as committed
// only after the write fully succeeded.
func (p *RepoPublisher) Publish(ctx context.Context, relPath string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateRelPath(relPath); err != nil {
		return err
	}

	fullPath := filepath.Join(p.root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", relPath, err)
	}

	p.mu.Lock()
	p.committed[relPath] = true
	p.mu.Unlock()

	slog.Info("artifact published",
		slog.String("path", relPath),
		slog.Int("bytes", len(data)))

	return nil
}

// URL resolves the public raw URL of a repository-relative path.
func (p *RepoPublisher) URL(relPath string) string {
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s", p.repo, p.branch, relPath)
}

// Committed reports whether the path was successfully published this run.
func (p *RepoPublisher) Committed(relPath string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.committed[relPath]
}

// validateRelPath rejects absolute paths and traversal outside the worktree.
func validateRelPath(relPath string) error {
	if relPath == "" {
		return fmt.Errorf("empty artifact path")
	}
	if strings.HasPrefix(relPath, "/") {
		return fmt.Errorf("artifact path must be relative, got %q", relPath)
	}
	clean := filepath.ToSlash(filepath.Clean(relPath))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("artifact path escapes the worktree: %q", relPath)
	}
	return nil
}
