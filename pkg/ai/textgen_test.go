package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-insights/pkg/config"
)

func TestCohereClient_Generate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/chat", r.URL.Path)
		assert.Equal(t, "Bearer co-key", r.Header.Get("Authorization"))

		var req cohereChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "command-r-plus", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "summarise this", req.Messages[0].Content)

		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":[{"type":"text","text":"Minutes: "},{"type":"text","text":"done"}]}}`))
	}))
	defer ts.Close()

	client := NewCohereClient("co-key", "", ts.URL, ts.Client())
	out, err := client.Generate(context.Background(), "summarise this")
	require.NoError(t, err)
	assert.Equal(t, "Minutes: done", out)
}

func TestCohereClient_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid api token"}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	client := NewCohereClient("bad", "", ts.URL, ts.Client())
	_, err := client.Generate(context.Background(), "x")
	assert.ErrorContains(t, err, "status 401")
}

func TestGroqClient_Generate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gq-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Key points"}}]}`))
	}))
	defer ts.Close()

	client := NewGroqClient("gq-key", "", ts.URL, ts.Client())
	out, err := client.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Key points", out)
}

type countingGenerator struct{ calls int }

func (c *countingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	c.calls++
	return prompt, nil
}

func TestRateLimitedGenerator_RespectsContext(t *testing.T) {
	inner := &countingGenerator{}
	gen := NewRateLimitedGenerator(inner, 1)

	_, err := gen.Generate(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = gen.Generate(ctx, "second")
	assert.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestNewTextGenerator_SelectsProvider(t *testing.T) {
	gen, err := NewTextGenerator(config.GenerationConfig{Provider: "groq", GroqAPIKey: "k"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &GroqClient{}, gen)

	gen, err = NewTextGenerator(config.GenerationConfig{Provider: "cohere", CohereAPIKey: "k", RequestsPerMinute: 10}, nil)
	require.NoError(t, err)
	assert.IsType(t, &RateLimitedGenerator{}, gen)

	_, err = NewTextGenerator(config.GenerationConfig{Provider: "other"}, nil)
	assert.Error(t, err)
}
