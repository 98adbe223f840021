package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/johnquangdev/meeting-insights/pkg/config"
)

// TextGenerator is a single-shot text generation endpoint
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewTextGenerator builds the configured provider client, throttled to the
// configured requests per minute.
func NewTextGenerator(cfg config.GenerationConfig, httpClient *http.Client) (TextGenerator, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}

	var gen TextGenerator
	switch strings.ToLower(cfg.Provider) {
	case "", "cohere":
		gen = NewCohereClient(cfg.CohereAPIKey, cfg.CohereModel, cfg.CohereBaseURL, httpClient)
	case "groq":
		gen = NewGroqClient(cfg.GroqAPIKey, cfg.GroqModel, cfg.GroqBaseURL, httpClient)
	default:
		return nil, fmt.Errorf("unsupported generation provider %q", cfg.Provider)
	}

	if cfg.RequestsPerMinute > 0 {
		gen = NewRateLimitedGenerator(gen, cfg.RequestsPerMinute)
	}
	return gen, nil
}

// RateLimitedGenerator waits for a token before each call
type RateLimitedGenerator struct {
	next    TextGenerator
	limiter *rate.Limiter
}

// NewRateLimitedGenerator allows requestsPerMinute calls, bursting up to the same amount
func NewRateLimitedGenerator(next TextGenerator, requestsPerMinute int) *RateLimitedGenerator {
	return &RateLimitedGenerator{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute),
	}
}

// Generate implements TextGenerator
func (g *RateLimitedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}
	return g.next.Generate(ctx, prompt)
}
