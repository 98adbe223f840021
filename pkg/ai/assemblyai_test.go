package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-insights/pkg/config"
)

func newAssemblyAIServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/upload", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "audio-bytes", string(body))
		_ = json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.assemblyai.test/upload/1"})
	})
	mux.HandleFunc("/v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		var payload TranscribeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.True(t, payload.SpeakerLabels)
		assert.Equal(t, "https://cdn.assemblyai.test/upload/1", payload.AudioURL)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "transcript-123", "status": "queued"})
	})
	mux.HandleFunc("/v2/transcript/transcript-123", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{
			"id": "transcript-123",
			"status": "completed",
			"text": "Hi there. Hello.",
			"language_code": "en",
			"utterances": [
				{"speaker": "A", "start": 0, "end": 2000, "text": "Hi there.", "confidence": 0.91},
				{"speaker": "B", "start": 2100, "end": 3050, "text": "Hello.", "confidence": 0.88}
			]
		}`))
	})
	mux.HandleFunc("/v2/transcript/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	})
	return httptest.NewServer(mux)
}

func TestAssemblyAIClient_UploadSubmitGet(t *testing.T) {
	ts := newAssemblyAIServer(t)
	defer ts.Close()

	client := NewAssemblyAIClient(config.AssemblyAIConfig{APIKey: "test-key", BaseURL: ts.URL}, ts.Client())
	ctx := context.Background()

	uploadURL, err := client.Upload(ctx, strings.NewReader("audio-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.assemblyai.test/upload/1", uploadURL)

	job, err := client.SubmitTranscript(ctx, TranscribeRequest{AudioURL: uploadURL, SpeakerLabels: true})
	require.NoError(t, err)
	assert.Equal(t, "transcript-123", job.ID)
	assert.Equal(t, "queued", job.Status)

	tr, err := client.GetTranscript(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", tr.Status)
	require.Len(t, tr.Utterances, 2)
	assert.Equal(t, "B", tr.Utterances[1].Speaker)
	assert.EqualValues(t, 2100, tr.Utterances[1].Start)
}

func TestAssemblyAIClient_NonSuccessStatus(t *testing.T) {
	ts := newAssemblyAIServer(t)
	defer ts.Close()

	client := NewAssemblyAIClient(config.AssemblyAIConfig{APIKey: "test-key", BaseURL: ts.URL}, ts.Client())

	_, err := client.GetTranscript(context.Background(), "missing")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestSummaryClient_SubmitAndGet(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v2/transcript":
			var payload map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, true, payload["summarization"])
			assert.Equal(t, "informative", payload["summary_model"])
			assert.Equal(t, "bullets", payload["summary_type"])
			_, _ = w.Write([]byte(`{"id":"sum-1","status":"queued"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/v2/transcript/sum-1":
			_, _ = w.Write([]byte(`{"id":"sum-1","status":"completed","summary":"- Budget approved"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	client := NewSummaryClient(config.AssemblyAIConfig{APIKey: "test-key", BaseURL: ts.URL}, ts.Client())
	ctx := context.Background()

	job, err := client.Submit(ctx, "https://cdn.assemblyai.test/upload/1", "")
	require.NoError(t, err)
	assert.Equal(t, "sum-1", job.ID)

	got, err := client.Get(ctx, "sum-1")
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, "- Budget approved", got.Summary)
}
