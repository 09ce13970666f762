package summarizer

import (
	"fmt"

	"daily-brief/internal/config"
	"daily-brief/internal/usecase/brief"
)

// New selects the summarization provider from the configuration.
func New(cfg config.AIConfig) (brief.Summarizer, error) {
	switch cfg.Summarizer {
	case "openai":
		return NewOpenAI(cfg.OpenAIKey, cfg.SummaryModel), nil
	case "claude":
		return NewClaude(cfg.AnthropicKey), nil
	default:
		return nil, fmt.Errorf("unknown summarizer provider %q", cfg.Summarizer)
	}
}
