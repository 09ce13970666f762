// Package notion implements the document store port against the Notion REST
// API. Requests are rate limited to the documented API ceiling and run
// through retry and circuit breaker protection; HTTP failures are mapped so
// 5xx and 429 responses retry while 4xx responses fail fast.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"daily-brief/internal/config"
	"daily-brief/internal/domain/entity"
	"daily-brief/internal/resilience/circuitbreaker"
	"daily-brief/internal/resilience/retry"
)

const (
	apiVersion = "2022-06-28"

	// requestsPerSecond matches the Notion API average rate limit.
	requestsPerSecond = 3

	// maxBlocksPerRequest is the API ceiling on children per write.
	maxBlocksPerRequest = 100

	requestTimeout = 30 * time.Second
)

// Client is a minimal Notion REST client covering the operations the daily
// brief needs: query a database by title, create a page, replace a page's
// children and attach a comment.
//
// Safe for concurrent use.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	databaseID     string
	titleProp      string
	limiter        *rate.Limiter
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewClient creates a client from the Notion configuration.
func NewClient(cfg config.NotionConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.notion.com"
	}
	return &Client{
		httpClient:     &http.Client{Timeout: requestTimeout},
		baseURL:        baseURL,
		token:          cfg.Token,
		databaseID:     cfg.DatabaseID,
		titleProp:      cfg.TitleProp,
		limiter:        rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		circuitBreaker: circuitbreaker.New(circuitbreaker.NotionAPIConfig()),
		retryConfig:    retry.DocumentStoreConfig(),
	}
}

type queryRequest struct {
	Filter   queryFilter `json:"filter"`
	PageSize int         `json:"page_size"`
}

type queryFilter struct {
	Property string      `json:"property"`
	Title    titleEquals `json:"title"`
}

type titleEquals struct {
	Equals string `json:"equals"`
}

type objectRef struct {
	ID string `json:"id"`
}

type listResponse struct {
	Results    []objectRef `json:"results"`
	HasMore    bool        `json:"has_more"`
	NextCursor string      `json:"next_cursor"`
}

// FindPageByTitle returns the id of the page whose title property exactly
// equals the given string, or entity.ErrNotFound when no page matches.
func (c *Client) FindPageByTitle(ctx context.Context, title string) (string, error) {
	body := queryRequest{
		Filter:   queryFilter{Property: c.titleProp, Title: titleEquals{Equals: title}},
		PageSize: 1,
	}

	raw, err := c.doRequest(ctx, http.MethodPost,
		fmt.Sprintf("/v1/databases/%s/query", c.databaseID), body)
	if err != nil {
		return "", fmt.Errorf("query database: %w", err)
	}

	var resp listResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode query response: %w", err)
	}
	if len(resp.Results) == 0 {
		return "", entity.ErrNotFound
	}

	return resp.Results[0].ID, nil
}

// CreatePage creates a database page titled with the given string and writes
// the block sequence as its body, chunked to the API's children ceiling.
func (c *Client) CreatePage(ctx context.Context, title string, blocks []entity.Block) (string, error) {
	children := apiBlocks(blocks)

	first := children
	if len(first) > maxBlocksPerRequest {
		first = first[:maxBlocksPerRequest]
	}

	body := map[string]any{
		"parent": map[string]any{"database_id": c.databaseID},
		"properties": map[string]any{
			c.titleProp: map[string]any{
				"title": []map[string]any{
					{"text": map[string]any{"content": title}},
				},
			},
		},
		"children": first,
	}

	raw, err := c.doRequest(ctx, http.MethodPost, "/v1/pages", body)
	if err != nil {
		return "", fmt.Errorf("create page: %w", err)
	}

	var page objectRef
	if err := json.Unmarshal(raw, &page); err != nil {
		return "", fmt.Errorf("decode page response: %w", err)
	}

	if len(children) > maxBlocksPerRequest {
		if err := c.appendChildren(ctx, page.ID, children[maxBlocksPerRequest:]); err != nil {
			return "", err
		}
	}

	return page.ID, nil
}

// ReplaceBlocks deletes every existing child of the page, then appends the
// new block sequence. The Notion API has no atomic replace; delete-then-
// append is the closest available and a failed run leaves the page for the
// next run to rewrite rather than a duplicate page.
func (c *Client) ReplaceBlocks(ctx context.Context, pageID string, blocks []entity.Block) error {
	existing, err := c.listChildren(ctx, pageID)
	if err != nil {
		return err
	}

	for _, child := range existing {
		if _, err := c.doRequest(ctx, http.MethodDelete, "/v1/blocks/"+child.ID, nil); err != nil {
			return fmt.Errorf("delete block %s: %w", child.ID, err)
		}
	}

	return c.appendChildren(ctx, pageID, apiBlocks(blocks))
}

// AppendComment attaches a comment to the page.
func (c *Client) AppendComment(ctx context.Context, pageID, text string) error {
	body := map[string]any{
		"parent": map[string]any{"page_id": pageID},
		"rich_text": []map[string]any{
			{"text": map[string]any{"content": text}},
		},
	}

	if _, err := c.doRequest(ctx, http.MethodPost, "/v1/comments", body); err != nil {
		return fmt.Errorf("append comment: %w", err)
	}
	return nil
}

// listChildren pages through the block children of the given parent.
func (c *Client) listChildren(ctx context.Context, parentID string) ([]objectRef, error) {
	var all []objectRef
	cursor := ""

	for {
		path := fmt.Sprintf("/v1/blocks/%s/children?page_size=%d", parentID, maxBlocksPerRequest)
		if cursor != "" {
			path += "&start_cursor=" + url.QueryEscape(cursor)
		}

		raw, err := c.doRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, fmt.Errorf("list children of %s: %w", parentID, err)
		}

		var resp listResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("decode children response: %w", err)
		}

		all = append(all, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			return all, nil
		}
		cursor = resp.NextCursor
	}
}

// appendChildren appends blocks to a parent in API-sized chunks, in order.
func (c *Client) appendChildren(ctx context.Context, parentID string, children []map[string]any) error {
	for start := 0; start < len(children); start += maxBlocksPerRequest {
		end := start + maxBlocksPerRequest
		if end > len(children) {
			end = len(children)
		}

		body := map[string]any{"children": children[start:end]}
		if _, err := c.doRequest(ctx, http.MethodPatch, "/v1/blocks/"+parentID+"/children", body); err != nil {
			return fmt.Errorf("append children to %s: %w", parentID, err)
		}
	}
	return nil
}

// doRequest executes one API call with rate limiting, retry and circuit
// breaker protection, returning the raw response body.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	var raw []byte

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.roundTrip(ctx, method, path, body)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("notion circuit breaker open, request rejected",
					slog.String("service", c.circuitBreaker.Name()),
					slog.String("path", path),
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("notion api unavailable: circuit breaker open")
			}
			return err
		}

		raw = cbResult.([]byte)
		return nil
	})

	if retryErr != nil {
		return nil, retryErr
	}
	return raw, nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any) (interface{}, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: string(raw)}
	}

	return raw, nil
}
