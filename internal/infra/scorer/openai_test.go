package scorer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-brief/internal/domain/entity"
)

func newTestScorer(t *testing.T, handler http.HandlerFunc) *OpenAI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return newWithClient(openai.NewClientWithConfig(cfg), "gpt-4o-mini")
}

func chatResponse(content string) []byte {
	resp := map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
			},
		},
	}
	raw, _ := json.Marshal(resp)
	return raw
}

func TestScore_ParsesModelResponse(t *testing.T) {
	s := newTestScorer(t, func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "Council votes")
		assert.Contains(t, req.Messages[1].Content, "civic impact")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(chatResponse(`{"score": 82, "reason": "major local policy change"}`))
	})

	article := entity.Article{
		Title:   "Council votes on transit",
		URL:     "https://news.test/transit",
		RawText: "The council voted to expand transit funding.",
	}

	score, reason, err := s.Score(context.Background(), article, "Local news with civic impact.")

	require.NoError(t, err)
	assert.Equal(t, 82, score)
	assert.Equal(t, "major local policy change", reason)
}

func TestScore_ClampsOutOfRangeScores(t *testing.T) {
	s := newTestScorer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(chatResponse(`{"score": 140, "reason": "overshoot"}`))
	})

	score, _, err := s.Score(context.Background(), entity.Article{Title: "t"}, "")

	require.NoError(t, err)
	assert.Equal(t, 100, score)
}

func TestScore_MalformedResponseFails(t *testing.T) {
	s := newTestScorer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(chatResponse(`the article seems quite important`))
	})

	_, _, err := s.Score(context.Background(), entity.Article{Title: "t"}, "")
	assert.Error(t, err)
}

func TestParseScoreResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    scoreResponse
		wantErr bool
	}{
		{
			name: "valid object",
			raw:  `{"score": 55, "reason": "routine update"}`,
			want: scoreResponse{Score: 55, Reason: "routine update"},
		},
		{
			name: "surrounding whitespace",
			raw:  "\n  {\"score\": 7, \"reason\": \"minor\"}  \n",
			want: scoreResponse{Score: 7, Reason: "minor"},
		},
		{name: "prose", raw: "score is 80", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseScoreResponse(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildUserPrompt_TruncatesLongBodies(t *testing.T) {
	long := make([]rune, maxInputRunes+500)
	for i := range long {
		long[i] = 'a'
	}

	prompt := buildUserPrompt(entity.Article{Title: "t", RawText: string(long)}, "")
	assert.Less(t, len(prompt), maxInputRunes+200)
}
