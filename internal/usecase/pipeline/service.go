package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/meeting-insights/internal/usecase/errors"
	"github.com/johnquangdev/meeting-insights/internal/usecase/insight"
	"github.com/johnquangdev/meeting-insights/internal/usecase/transcription"
	"github.com/johnquangdev/meeting-insights/pkg/config"
)

// MeetingResolver looks up a meeting owned by an organisation
type MeetingResolver interface {
	Resolve(ctx context.Context, organisationID uuid.UUID, externalID string) (*entities.Meeting, error)
}

// Transcriber runs the provider transcription jobs for a meeting
type Transcriber interface {
	Transcribe(ctx context.Context, meetingExternalID string, organisationID uuid.UUID) (*transcription.Result, error)
}

// InsightGenerator derives summaries from diarized utterances
type InsightGenerator interface {
	Generate(ctx context.Context, utterances entities.Utterances) (*entities.Insights, error)
}

// Archiver stores a transcript snapshot; failures are logged, not returned
type Archiver interface {
	Archive(ctx context.Context, meeting *entities.Meeting, t *entities.Transcript, reason string) error
}

// Service runs the transcript-enrichment pipeline, inline or through the
// job queue
type Service struct {
	meetings    MeetingResolver
	transcripts repositories.TranscriptRepository
	jobs        repositories.PipelineJobRepository
	transcriber Transcriber
	insights    InsightGenerator
	archiver    Archiver
	cfg         config.PipelineConfig
	logger      *zap.Logger

	wake            chan struct{}
	workerStopChan  chan struct{}
	workerWg        sync.WaitGroup
	workerMutex     sync.Mutex
	isWorkerRunning bool
}

// NewService creates the pipeline service. archiver may be nil.
func NewService(
	meetings MeetingResolver,
	transcripts repositories.TranscriptRepository,
	jobs repositories.PipelineJobRepository,
	transcriber Transcriber,
	insights InsightGenerator,
	archiver Archiver,
	cfg config.PipelineConfig,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Service{
		meetings:    meetings,
		transcripts: transcripts,
		jobs:        jobs,
		transcriber: transcriber,
		insights:    insights,
		archiver:    archiver,
		cfg:         cfg,
		logger:      logger,
		wake:        make(chan struct{}, cfg.Workers),
	}
}

// Transcribe runs the whole pipeline for a meeting on the calling goroutine
// and returns the persisted transcript
func (s *Service) Transcribe(ctx context.Context, organisationID uuid.UUID, meetingExternalID string) (*entities.Transcript, error) {
	meeting, err := s.meetings.Resolve(ctx, organisationID, meetingExternalID)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, meeting)
}

// run transcribes, generates insights and persists the result in one
// transaction. Nothing is written unless every stage succeeded.
func (s *Service) run(ctx context.Context, meeting *entities.Meeting) (*entities.Transcript, error) {
	s.logger.Info("🎙️ Transcription pipeline started",
		zap.String("meeting_id", meeting.ExternalMeetingID),
	)

	result, err := s.transcriber.Transcribe(ctx, meeting.ExternalMeetingID, meeting.OrganisationID)
	if err != nil {
		return nil, err
	}

	insights, err := s.insights.Generate(ctx, result.Utterances)
	if err != nil {
		return nil, err
	}

	t := entities.NewTranscript(meeting.ID)
	t.FullTranscript = insight.Render(result.Utterances)
	t.Summary = result.Summary
	t.Utterances = result.Utterances
	t.Language = result.LanguageCode
	t.SetInsights(*insights)

	if err := s.transcripts.SaveResult(ctx, t, entities.MeetingStatusSummarized); err != nil {
		return nil, fmt.Errorf("failed to save transcript: %w", err)
	}

	s.logger.Info("✅ Transcript saved",
		zap.String("meeting_id", meeting.ExternalMeetingID),
		zap.String("transcript_id", t.ID.String()),
	)

	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, meeting, t, "transcribed"); err != nil {
			s.logger.Warn("⚠️ Failed to archive transcript",
				zap.String("meeting_id", meeting.ExternalMeetingID),
				zap.Error(err),
			)
		}
	}

	return t, nil
}

// GetTranscript returns the stored transcript, or nil when the meeting has none
func (s *Service) GetTranscript(ctx context.Context, organisationID uuid.UUID, meetingExternalID string) (*entities.Transcript, error) {
	meeting, err := s.meetings.Resolve(ctx, organisationID, meetingExternalID)
	if err != nil {
		return nil, err
	}
	t, err := s.transcripts.GetByMeetingID(ctx, meeting.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}
	return t, nil
}

// Enqueue records a transcribe request for the worker pool
func (s *Service) Enqueue(ctx context.Context, organisationID uuid.UUID, meetingExternalID string) (*entities.PipelineJob, error) {
	meeting, err := s.meetings.Resolve(ctx, organisationID, meetingExternalID)
	if err != nil {
		return nil, err
	}

	job := entities.NewPipelineJob(meeting)
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.logger.Info("📥 Transcription job queued",
		zap.String("job_id", job.ID.String()),
		zap.String("meeting_id", meetingExternalID),
	)

	select {
	case s.wake <- struct{}{}:
	default:
	}

	return job, nil
}

// GetJob returns a job the organisation owns
func (s *Service) GetJob(ctx context.Context, organisationID, jobID uuid.UUID) (*entities.PipelineJob, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	if job == nil || job.OrganisationID != organisationID {
		return nil, fmt.Errorf("job %s: %w", jobID, usecaseErrors.ErrJobNotFound)
	}
	return job, nil
}
