package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/johnquangdev/meeting-insights/pkg/config"
)

const defaultAssemblyAIBaseURL = "https://api.assemblyai.com"

// AssemblyAIClient is a minimal REST client for the upload and transcript endpoints
type AssemblyAIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided config.
func NewAssemblyAIClient(cfg config.AssemblyAIConfig, httpClient *http.Client) *AssemblyAIClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultAssemblyAIBaseURL
	}
	if httpClient == nil {
		// uploads of long recordings can take minutes
		httpClient = &http.Client{Timeout: 10 * time.Minute}
	}
	return &AssemblyAIClient{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client:  httpClient,
	}
}

// TranscribeRequest is payload for /v2/transcript
type TranscribeRequest struct {
	AudioURL      string `json:"audio_url"`
	SpeakerLabels bool   `json:"speaker_labels,omitempty"`
	LanguageCode  string `json:"language_code,omitempty"`
}

// UtteranceResponse is one diarized turn; times are milliseconds
type UtteranceResponse struct {
	Speaker    string  `json:"speaker"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// TranscriptResponse is the subset of the transcript resource the pipeline reads
type TranscriptResponse struct {
	ID           string              `json:"id"`
	Status       string              `json:"status"`
	Text         string              `json:"text"`
	Error        string              `json:"error"`
	LanguageCode string              `json:"language_code"`
	Utterances   []UtteranceResponse `json:"utterances"`
}

// APIError is returned for non-2xx responses
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("assemblyai returned status %d: %s", e.StatusCode, e.Body)
}

// Upload streams audio to /v2/upload and returns the private upload URL
func (c *AssemblyAIClient) Upload(ctx context.Context, audio io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/upload", audio)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	var out struct {
		UploadURL string `json:"upload_url"`
	}
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("upload audio: %w", err)
	}
	if out.UploadURL == "" {
		return "", fmt.Errorf("upload audio: empty upload_url in response")
	}
	return out.UploadURL, nil
}

// SubmitTranscript creates a transcript job
func (c *AssemblyAIClient) SubmitTranscript(ctx context.Context, payload TranscribeRequest) (*TranscriptResponse, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/transcript", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var tr TranscriptResponse
	if err := c.do(req, &tr); err != nil {
		return nil, fmt.Errorf("submit transcript: %w", err)
	}
	if tr.ID == "" {
		return nil, fmt.Errorf("submit transcript: empty id in response")
	}
	return &tr, nil
}

// GetTranscript fetches the current state of a transcript job
func (c *AssemblyAIClient) GetTranscript(ctx context.Context, transcriptID string) (*TranscriptResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/transcript/"+transcriptID, nil)
	if err != nil {
		return nil, err
	}

	var tr TranscriptResponse
	if err := c.do(req, &tr); err != nil {
		return nil, fmt.Errorf("get transcript %s: %w", transcriptID, err)
	}
	return &tr, nil
}

func (c *AssemblyAIClient) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
