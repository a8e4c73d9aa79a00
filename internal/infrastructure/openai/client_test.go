package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/makoto-diary/api/internal/diary/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL + "/v1"}, nil)
	require.NotNil(t, client)
	return client, server
}

func chatResponse(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"model":   DefaultModel,
		"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"}},
	}
}

func TestNewClientWithoutKey(t *testing.T) {
	assert.Nil(t, NewClient(Config{}, nil))
}

func TestGenerateSendsRequestSettings(t *testing.T) {
	var captured map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse(`{"title":"雨の日💕","content":"本文です"}`))
	})

	post, err := client.Generate(context.Background(), "system", "user", "雨の日")
	require.NoError(t, err)
	assert.Equal(t, domain.GeneratedPost{Title: "雨の日💕", Content: "本文です"}, post)

	assert.Equal(t, DefaultModel, captured["model"])
	assert.InDelta(t, DefaultTemperature, captured["temperature"], 0.0001)
	assert.EqualValues(t, DefaultMaxTokens, captured["max_tokens"])
	assert.Equal(t, map[string]any{"type": "json_object"}, captured["response_format"])
	messages := captured["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "user", messages[1].(map[string]any)["content"])
}

func TestGenerateSurfacesProviderMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`))
	})

	_, err := client.Generate(context.Background(), "s", "u", "t")
	var genErr *domain.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, http.StatusTooManyRequests, genErr.Status)
	assert.Equal(t, "Rate limit reached", genErr.Message)
}

func TestGenerateOfflineWhenUnreachable(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.Generate(context.Background(), "s", "u", "t")
	assert.True(t, errors.Is(err, domain.ErrGenerationOffline))
}

func TestGenerateFallsBackOnMalformedContent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse(`ここです "title": "夜の予感", "content": "会いたいな" おわり`))
	})

	post, err := client.Generate(context.Background(), "s", "u", "t")
	require.NoError(t, err)
	assert.Equal(t, domain.GeneratedPost{Title: "夜の予感", Content: "会いたいな"}, post)
}

func TestParseGeneratedPost(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		theme string
		want  domain.GeneratedPost
	}{
		{
			name: "json",
			raw:  `{"title":"X","content":"Y"}`,
			want: domain.GeneratedPost{Title: "X", Content: "Y"},
		},
		{
			name: "pattern fallback",
			raw:  `garbage "title": "X" more "content": "Y" tail`,
			want: domain.GeneratedPost{Title: "X", Content: "Y"},
		},
		{
			name:  "defaults",
			raw:   "ただのテキスト",
			theme: "雨",
			want:  domain.GeneratedPost{Title: "雨", Content: "ただのテキスト"},
		},
		{
			name:  "json with empty title",
			raw:   `{"content":"Y"}`,
			theme: "雨",
			want:  domain.GeneratedPost{Title: "雨", Content: "Y"},
		},
		{
			name: "empty",
			want: domain.GeneratedPost{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseGeneratedPost(tc.raw, tc.theme))
		})
	}
}

func TestMapErrorGeneric(t *testing.T) {
	err := mapError(errors.New("boom"))
	var genErr *domain.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "AI生成に失敗しました", genErr.Message)
}
