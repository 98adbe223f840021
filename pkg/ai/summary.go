package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/johnquangdev/meeting-insights/pkg/config"
)

// SummaryTranscript is the part of an SDK transcript the summary job needs
type SummaryTranscript struct {
	ID      string
	Status  string
	Summary string
	Error   string
}

// SummaryClient submits bullet-style summarisation jobs through the official SDK
type SummaryClient struct {
	sdk *aai.Client
}

// NewSummaryClient creates the SDK-backed summary client
func NewSummaryClient(cfg config.AssemblyAIConfig, httpClient *http.Client) *SummaryClient {
	opts := []aai.ClientOption{aai.WithAPIKey(cfg.APIKey)}
	if base := strings.TrimRight(cfg.BaseURL, "/"); base != "" {
		opts = append(opts, aai.WithBaseURL(base))
	}
	if httpClient != nil {
		opts = append(opts, aai.WithHTTPClient(httpClient))
	}
	return &SummaryClient{sdk: aai.NewClientWithOptions(opts...)}
}

// Submit requests an informative, bulleted summary of an uploaded file
func (c *SummaryClient) Submit(ctx context.Context, audioURL, languageCode string) (*SummaryTranscript, error) {
	params := &aai.TranscriptOptionalParams{
		Summarization: aai.Bool(true),
		SummaryModel:  aai.SummaryModel("informative"),
		SummaryType:   aai.SummaryType("bullets"),
	}
	if languageCode != "" {
		params.LanguageCode = aai.TranscriptLanguageCode(languageCode)
	}

	transcript, err := c.sdk.Transcripts.SubmitFromURL(ctx, audioURL, params)
	if err != nil {
		return nil, fmt.Errorf("submit summary transcript: %w", err)
	}
	out := toSummaryTranscript(transcript)
	if out.ID == "" {
		return nil, fmt.Errorf("submit summary transcript: empty id in response")
	}
	return out, nil
}

// Get fetches the summary job
func (c *SummaryClient) Get(ctx context.Context, transcriptID string) (*SummaryTranscript, error) {
	transcript, err := c.sdk.Transcripts.Get(ctx, transcriptID)
	if err != nil {
		return nil, fmt.Errorf("get summary transcript %s: %w", transcriptID, err)
	}
	return toSummaryTranscript(transcript), nil
}

func toSummaryTranscript(t aai.Transcript) *SummaryTranscript {
	return &SummaryTranscript{
		ID:      deref(t.ID),
		Status:  string(t.Status),
		Summary: deref(t.Summary),
		Error:   deref(t.Error),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
