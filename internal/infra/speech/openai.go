// Package speech turns rendered brief text into spoken audio using OpenAI's
// text-to-speech API.
package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"daily-brief/internal/resilience/circuitbreaker"
	"daily-brief/internal/resilience/retry"
	"daily-brief/internal/utils/text"
)

const (
	// maxInputRunes is the TTS API input ceiling.
	maxInputRunes = 4096

	synthesizeTimeout = 120 * time.Second
)

// OpenAI implements the speech synthesizer port. It returns mp3 bytes; the
// caller owns publication and any further conversion.
type OpenAI struct {
	client         *openai.Client
	model          string
	voice          string
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewOpenAI creates a synthesizer with the given API key, model and voice.
func NewOpenAI(apiKey, model, voice string) *OpenAI {
	return newWithClient(openai.NewClient(apiKey), model, voice)
}

func newWithClient(client *openai.Client, model, voice string) *OpenAI {
	return &OpenAI{
		client:         client,
		model:          model,
		voice:          voice,
		circuitBreaker: circuitbreaker.New(circuitbreaker.AIAPIConfig("openai-tts")),
		retryConfig:    retry.AIAPIConfig(),
	}
}

// Synthesize renders the given text as mp3 audio. Text past the API input
// ceiling is cut; a daily brief unit fits well under it in practice.
func (o *OpenAI) Synthesize(ctx context.Context, input string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, synthesizeTimeout)
	defer cancel()

	if text.CountRunes(input) > maxInputRunes {
		slog.Warn("speech input truncated",
			slog.Int("input_runes", text.CountRunes(input)),
			slog.Int("limit", maxInputRunes))
		input = text.Truncate(input, maxInputRunes-3)
	}

	var audio []byte

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doSynthesize(ctx, input)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("tts circuit breaker open, request rejected",
					slog.String("service", o.circuitBreaker.Name()),
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("tts api unavailable: circuit breaker open")
			}
			return err
		}

		audio = cbResult.([]byte)
		return nil
	})

	if retryErr != nil {
		return nil, fmt.Errorf("speech synthesis failed after retries: %w", retryErr)
	}

	return audio, nil
}

func (o *OpenAI) doSynthesize(ctx context.Context, input string) (interface{}, error) {
	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(o.model),
		Input:          input,
		Voice:          openai.SpeechVoice(o.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai tts error: %w", err)
	}
	defer func() { _ = resp.Close() }()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read tts response: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("openai tts returned empty audio")
	}

	return audio, nil
}
