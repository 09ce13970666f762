// Package scorer assigns an importance score to each article using the
// OpenAI chat API with a JSON response contract.
package scorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/resilience/circuitbreaker"
	"daily-brief/internal/resilience/retry"
	"daily-brief/internal/utils/text"
)

const (
	// maxInputRunes caps the article text sent per scoring call. Scores
	// stabilize well before this; anything longer only burns tokens.
	maxInputRunes = 6000

	scoreTimeout = 60 * time.Second
)

const systemPrompt = `You are a news importance rater. Rate the importance of the article for the reader profile given below. Respond with a JSON object of the form {"score": <0-100>, "reason": "<one sentence>"}. Higher scores mean the reader should not miss the story.`

// scoreResponse is the JSON contract the model is instructed to follow.
type scoreResponse struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// OpenAI implements the scorer port with retry and circuit breaker
// protection. A scoring failure is never fatal for the run; the caller
// leaves the article unscored.
type OpenAI struct {
	client         *openai.Client
	model          string
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewOpenAI creates a scorer using the given API key and model.
func NewOpenAI(apiKey, model string) *OpenAI {
	return newWithClient(openai.NewClient(apiKey), model)
}

func newWithClient(client *openai.Client, model string) *OpenAI {
	return &OpenAI{
		client:         client,
		model:          model,
		circuitBreaker: circuitbreaker.New(circuitbreaker.AIAPIConfig("openai-score")),
		retryConfig:    retry.AIAPIConfig(),
	}
}

// Score rates one article against the group's focus prompt. It returns the
// model's score clamped to [0,100] and its one-line reason.
func (o *OpenAI) Score(ctx context.Context, article entity.Article, focus string) (int, string, error) {
	ctx, cancel := context.WithTimeout(ctx, scoreTimeout)
	defer cancel()

	var result scoreResponse

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doScore(ctx, article, focus)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("scoring circuit breaker open, request rejected",
					slog.String("service", o.circuitBreaker.Name()),
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("scoring api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(scoreResponse)
		return nil
	})

	if retryErr != nil {
		return 0, "", fmt.Errorf("score %q: %w", article.Title, retryErr)
	}

	return clampScore(result.Score), result.Reason, nil
}

func (o *OpenAI) doScore(ctx context.Context, article entity.Article, focus string) (interface{}, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(article, focus)},
		},
	})
	if err != nil {
		return scoreResponse{}, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return scoreResponse{}, fmt.Errorf("openai api returned empty response")
	}

	return parseScoreResponse(resp.Choices[0].Message.Content)
}

// buildUserPrompt renders the article and the group focus for the model.
func buildUserPrompt(article entity.Article, focus string) string {
	var b strings.Builder
	if focus != "" {
		b.WriteString("Reader profile: ")
		b.WriteString(focus)
		b.WriteString("\n\n")
	}
	b.WriteString("Title: ")
	b.WriteString(article.Title)
	b.WriteString("\nURL: ")
	b.WriteString(article.URL)
	if article.RawText != "" {
		b.WriteString("\n\n")
		b.WriteString(text.Truncate(article.RawText, maxInputRunes))
	}
	return b.String()
}

// parseScoreResponse decodes the model's JSON answer. A response that is not
// the agreed object shape is an error; the caller retries or degrades.
func parseScoreResponse(raw string) (scoreResponse, error) {
	var parsed scoreResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return scoreResponse{}, fmt.Errorf("unexpected scoring response %q: %w", raw, err)
	}
	return parsed, nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
