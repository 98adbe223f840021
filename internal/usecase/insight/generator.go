package insight

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/meeting-insights/internal/usecase/errors"
	"github.com/johnquangdev/meeting-insights/pkg/ai"
)

const structuredSummaryPrompt = `You are a meeting assistant. Read the meeting transcript below. Each line has the form "Speaker X | [start-end] text" with times in seconds.

Write the following four sections, each starting with its label on its own line:
Minutes:
Agenda:
Key Points:
Action Items:

Under Action Items, name the responsible speaker when the transcript makes it clear. Use plain text and do not invent content that is not in the transcript.

Transcript:
%s`

const speakerSummaryPrompt = `You are a meeting assistant. Below is everything %s said during a meeting, in order.

Summarize this person's individual contribution in a short paragraph: the topics they raised, positions they took, and anything they committed to doing. Refer to them as %s.

Contributions:
%s`

// Generator produces meeting insights from diarized utterances
type Generator struct {
	llm     ai.TextGenerator
	workers int
	logger  *zap.Logger
}

// NewGenerator creates an insight generator that runs at most workers
// per-speaker calls at once
func NewGenerator(llm ai.TextGenerator, workers int, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers < 1 {
		workers = 1
	}
	return &Generator{llm: llm, workers: workers, logger: logger}
}

// Generate asks for a structured whole-meeting summary and one summary per
// distinct speaker. Any failed call fails the whole run; no partial insights
// are returned.
func (g *Generator) Generate(ctx context.Context, utterances entities.Utterances) (*entities.Insights, error) {
	rendered := Render(utterances)

	structured, err := g.llm.Generate(ctx, fmt.Sprintf(structuredSummaryPrompt, rendered))
	if err != nil {
		return nil, fmt.Errorf("%w: structured summary: %v", usecaseErrors.ErrInsightGenerationFailed, err)
	}

	speakers := Partition(rendered)
	summaries := make(map[string]string, len(speakers))
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for _, sp := range speakers {
		eg.Go(func() error {
			key := SpeakerKey(sp.Code)
			text, err := g.llm.Generate(egCtx, fmt.Sprintf(speakerSummaryPrompt, key, key, sp.Text))
			if err != nil {
				return fmt.Errorf("%w: summary for %s: %v", usecaseErrors.ErrInsightGenerationFailed, key, err)
			}
			mu.Lock()
			summaries[key] = text
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	g.logger.Info("🧠 Insights generated",
		zap.Int("speakers", len(summaries)),
		zap.Int("summary_length", len(structured)),
	)

	return &entities.Insights{
		StructuredSummary: structured,
		SpeakerSummaries:  summaries,
	}, nil
}
