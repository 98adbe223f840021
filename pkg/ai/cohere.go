package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// CohereClient calls the Cohere v2 chat endpoint
type CohereClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewCohereClient creates a Cohere client
func NewCohereClient(apiKey, model, baseURL string, httpClient *http.Client) *CohereClient {
	if baseURL == "" {
		baseURL = "https://api.cohere.com"
	}
	if model == "" {
		model = "command-r-plus"
	}
	return &CohereClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

type cohereMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type cohereChatRequest struct {
	Model    string          `json:"model"`
	Messages []cohereMessage `json:"messages"`
}

type cohereChatResponse struct {
	Message struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
}

// Generate sends one user message and returns the concatenated text content
func (c *CohereClient) Generate(ctx context.Context, prompt string) (string, error) {
	b, err := json.Marshal(cohereChatRequest{
		Model:    c.model,
		Messages: []cohereMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/chat", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("cohere returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var cr cohereChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, part := range cr.Message.Content {
		if part.Type == "" || part.Type == "text" {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response from cohere")
	}
	return sb.String(), nil
}
