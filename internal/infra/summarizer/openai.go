package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"daily-brief/internal/domain/entity"
	"daily-brief/internal/resilience/circuitbreaker"
	"daily-brief/internal/resilience/retry"
)

const summarizeTimeout = 60 * time.Second

// OpenAI implements the summarizer port using OpenAI's chat API with retry
// and circuit breaker protection.
type OpenAI struct {
	client         *openai.Client
	model          string
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewOpenAI creates an OpenAI summarizer with the given API key and model.
func NewOpenAI(apiKey, model string) *OpenAI {
	return newOpenAIWithClient(openai.NewClient(apiKey), model)
}

func newOpenAIWithClient(client *openai.Client, model string) *OpenAI {
	return &OpenAI{
		client:         client,
		model:          model,
		circuitBreaker: circuitbreaker.New(circuitbreaker.AIAPIConfig("openai-summary")),
		retryConfig:    retry.AIAPIConfig(),
	}
}

// Summarize renders a markdown bullet-list summary of the given articles.
func (o *OpenAI) Summarize(ctx context.Context, articles []entity.Article, focus string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, summarizeTimeout)
	defer cancel()

	var result string

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doSummarize(ctx, articles, focus)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("summarizer circuit breaker open, request rejected",
					slog.String("service", o.circuitBreaker.Name()),
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("summarizer unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		return "", fmt.Errorf("openai summarize failed after retries: %w", retryErr)
	}

	return result, nil
}

func (o *OpenAI) doSummarize(ctx context.Context, articles []entity.Article, focus string) (interface{}, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(articles, focus)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai api returned empty response")
	}

	return resp.Choices[0].Message.Content, nil
}
