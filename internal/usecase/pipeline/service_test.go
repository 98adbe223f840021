package pipeline

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-insights/internal/adapter/repository"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/testutil"
	usecaseErrors "github.com/johnquangdev/meeting-insights/internal/usecase/errors"
	"github.com/johnquangdev/meeting-insights/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-insights/internal/usecase/speaker"
	"github.com/johnquangdev/meeting-insights/internal/usecase/transcription"
	"github.com/johnquangdev/meeting-insights/pkg/config"
)

type stubTranscriber struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ string, _ uuid.UUID) (*transcription.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &transcription.Result{
		FullText:     "hello there. hi.",
		Summary:      "- greetings",
		LanguageCode: "en",
		Utterances: entities.Utterances{
			{Speaker: "A", Start: 0, End: 1200, Text: "hello there."},
			{Speaker: "B", Start: 1300, End: 2000, Text: "hi."},
		},
	}, nil
}

func (s *stubTranscriber) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubInsights struct {
	err error
}

func (s stubInsights) Generate(_ context.Context, utterances entities.Utterances) (*entities.Insights, error) {
	if s.err != nil {
		return nil, s.err
	}
	summaries := map[string]string{}
	for _, code := range utterances.Speakers() {
		summaries["Speaker "+code] = "summary of " + code
	}
	return &entities.Insights{StructuredSummary: "Minutes: greetings", SpeakerSummaries: summaries}, nil
}

type recordingArchiver struct {
	mu      sync.Mutex
	reasons []string
	err     error
}

func (a *recordingArchiver) Archive(_ context.Context, _ *entities.Meeting, _ *entities.Transcript, reason string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reasons = append(a.reasons, reason)
	return a.err
}

type fixture struct {
	svc         *Service
	meetings    *repository.MeetingRepository
	transcripts *repository.TranscriptRepository
	jobs        *repository.PipelineJobRepository
	transcriber *stubTranscriber
	archiver    *recordingArchiver
	orgID       uuid.UUID
	meeting     *entities.Meeting
}

func newFixture(t *testing.T, insights InsightGenerator) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	meetings := repository.NewMeetingRepository(db)
	transcripts := repository.NewTranscriptRepository(db)
	jobs := repository.NewPipelineJobRepository(db)

	orgID := uuid.New()
	m := &entities.Meeting{OrganisationID: orgID, ExternalMeetingID: "987654321"}
	require.NoError(t, meetings.Create(context.Background(), m))

	transcriber := &stubTranscriber{}
	archiver := &recordingArchiver{}
	cfg := config.PipelineConfig{
		Workers:         2,
		JobTimeout:      time.Minute,
		JobPollInterval: 20 * time.Millisecond,
	}
	svc := NewService(meeting.NewService(meetings, "secret", nil), transcripts, jobs, transcriber, insights, archiver, cfg, nil)

	return &fixture{
		svc:         svc,
		meetings:    meetings,
		transcripts: transcripts,
		jobs:        jobs,
		transcriber: transcriber,
		archiver:    archiver,
		orgID:       orgID,
		meeting:     m,
	}
}

func TestService_Transcribe_PersistsResult(t *testing.T) {
	f := newFixture(t, stubInsights{})
	ctx := context.Background()

	tr, err := f.svc.Transcribe(ctx, f.orgID, f.meeting.ExternalMeetingID)
	require.NoError(t, err)
	assert.Equal(t, "Speaker A | [0-1.2] hello there.\nSpeaker B | [1.3-2] hi.", tr.FullTranscript)
	assert.Equal(t, "- greetings", tr.Summary)
	assert.False(t, tr.SpeakersUpdated)

	stored, err := f.svc.GetTranscript(ctx, f.orgID, f.meeting.ExternalMeetingID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, tr.ID, stored.ID)
	assert.Len(t, stored.Utterances, 2)
	assert.Equal(t, "Minutes: greetings", stored.MeetingInsights().StructuredSummary)
	assert.Equal(t, "summary of B", stored.MeetingInsights().SpeakerSummaries["Speaker B"])

	m, err := f.meetings.FindByExternalID(ctx, f.meeting.ExternalMeetingID)
	require.NoError(t, err)
	assert.Equal(t, entities.MeetingStatusSummarized, m.Status)
	assert.Equal(t, []string{"transcribed"}, f.archiver.reasons)
}

func TestService_Transcribe_StoredTranscriptRelabels(t *testing.T) {
	f := newFixture(t, stubInsights{})
	ctx := context.Background()

	_, err := f.svc.Transcribe(ctx, f.orgID, f.meeting.ExternalMeetingID)
	require.NoError(t, err)

	speakers := speaker.NewService(meeting.NewService(f.meetings, "secret", nil), f.transcripts, nil, nil)
	relabeled, err := speakers.Relabel(ctx, f.orgID, f.meeting.ExternalMeetingID, map[string]string{"A": "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "Alice | [0-1.2] hello there.\nSpeaker B | [1.3-2] hi.", relabeled.FullTranscript)

	stored, err := f.svc.GetTranscript(ctx, f.orgID, f.meeting.ExternalMeetingID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.SpeakersUpdated)
	assert.Contains(t, stored.FullTranscript, "Alice | [0-1.2] hello there.")
	assert.NotContains(t, stored.FullTranscript, "Speaker A")
	assert.Equal(t, "Alice", stored.Utterances[0].Speaker)
	assert.Equal(t, "summary of A", stored.MeetingInsights().SpeakerSummaries["Alice"])
}

func TestService_Transcribe_FailureWritesNothing(t *testing.T) {
	t.Run("transcription failed", func(t *testing.T) {
		f := newFixture(t, stubInsights{})
		f.transcriber.err = fmt.Errorf("job dia-1: %w", usecaseErrors.ErrTranscriptionFailed)

		_, err := f.svc.Transcribe(context.Background(), f.orgID, f.meeting.ExternalMeetingID)
		assert.ErrorIs(t, err, usecaseErrors.ErrTranscriptionFailed)

		stored, err := f.svc.GetTranscript(context.Background(), f.orgID, f.meeting.ExternalMeetingID)
		require.NoError(t, err)
		assert.Nil(t, stored)
		assert.Empty(t, f.archiver.reasons)
	})

	t.Run("insight generation failed", func(t *testing.T) {
		f := newFixture(t, stubInsights{err: fmt.Errorf("speaker B: %w", usecaseErrors.ErrInsightGenerationFailed)})

		_, err := f.svc.Transcribe(context.Background(), f.orgID, f.meeting.ExternalMeetingID)
		assert.ErrorIs(t, err, usecaseErrors.ErrInsightGenerationFailed)

		stored, err := f.svc.GetTranscript(context.Background(), f.orgID, f.meeting.ExternalMeetingID)
		require.NoError(t, err)
		assert.Nil(t, stored)

		m, err := f.meetings.FindByExternalID(context.Background(), f.meeting.ExternalMeetingID)
		require.NoError(t, err)
		assert.Equal(t, entities.MeetingStatusScheduled, m.Status)
	})
}

func TestService_Transcribe_ArchiveFailureIsNotFatal(t *testing.T) {
	f := newFixture(t, stubInsights{})
	f.archiver.err = fmt.Errorf("bucket unavailable")

	tr, err := f.svc.Transcribe(context.Background(), f.orgID, f.meeting.ExternalMeetingID)
	require.NoError(t, err)
	assert.NotNil(t, tr)
}

func TestService_Transcribe_ForeignOrganisation(t *testing.T) {
	f := newFixture(t, stubInsights{})

	_, err := f.svc.Transcribe(context.Background(), uuid.New(), f.meeting.ExternalMeetingID)
	assert.ErrorIs(t, err, usecaseErrors.ErrForbidden)
	assert.Zero(t, f.transcriber.Calls())

	_, err = f.svc.Transcribe(context.Background(), f.orgID, "unknown")
	assert.ErrorIs(t, err, usecaseErrors.ErrMeetingNotFound)
}

func TestService_GetJob(t *testing.T) {
	f := newFixture(t, stubInsights{})
	ctx := context.Background()

	job, err := f.svc.Enqueue(ctx, f.orgID, f.meeting.ExternalMeetingID)
	require.NoError(t, err)
	assert.Equal(t, entities.PipelineJobStatusPending, job.Status)

	got, err := f.svc.GetJob(ctx, f.orgID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)

	_, err = f.svc.GetJob(ctx, uuid.New(), job.ID)
	assert.ErrorIs(t, err, usecaseErrors.ErrJobNotFound)

	_, err = f.svc.GetJob(ctx, f.orgID, uuid.New())
	assert.ErrorIs(t, err, usecaseErrors.ErrJobNotFound)
}

func waitForJob(t *testing.T, f *fixture, jobID uuid.UUID) *entities.PipelineJob {
	t.Helper()
	var job *entities.PipelineJob
	require.Eventually(t, func() bool {
		var err error
		job, err = f.svc.GetJob(context.Background(), f.orgID, jobID)
		return err == nil && job.IsFinished()
	}, 5*time.Second, 20*time.Millisecond)
	return job
}

func TestService_Workers(t *testing.T) {
	t.Run("completes queued job", func(t *testing.T) {
		f := newFixture(t, stubInsights{})
		ctx := context.Background()

		require.NoError(t, f.svc.StartWorkers(ctx))
		defer func() { _ = f.svc.StopWorkers() }()

		job, err := f.svc.Enqueue(ctx, f.orgID, f.meeting.ExternalMeetingID)
		require.NoError(t, err)

		done := waitForJob(t, f, job.ID)
		assert.Equal(t, entities.PipelineJobStatusCompleted, done.Status)
		require.NotNil(t, done.TranscriptID)

		stored, err := f.svc.GetTranscript(ctx, f.orgID, f.meeting.ExternalMeetingID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, *done.TranscriptID, stored.ID)
		assert.Equal(t, 1, f.transcriber.Calls())
	})

	t.Run("records failure", func(t *testing.T) {
		f := newFixture(t, stubInsights{})
		f.transcriber.err = fmt.Errorf("job dia-1: %w", usecaseErrors.ErrTranscriptionTimeout)
		ctx := context.Background()

		require.NoError(t, f.svc.StartWorkers(ctx))
		defer func() { _ = f.svc.StopWorkers() }()

		job, err := f.svc.Enqueue(ctx, f.orgID, f.meeting.ExternalMeetingID)
		require.NoError(t, err)

		done := waitForJob(t, f, job.ID)
		assert.Equal(t, entities.PipelineJobStatusFailed, done.Status)
		require.NotNil(t, done.LastError)
		assert.Contains(t, *done.LastError, "timed out")
		assert.Equal(t, 1, f.transcriber.Calls())
	})

	t.Run("start twice", func(t *testing.T) {
		f := newFixture(t, stubInsights{})
		require.NoError(t, f.svc.StartWorkers(context.Background()))
		assert.Error(t, f.svc.StartWorkers(context.Background()))
		require.NoError(t, f.svc.StopWorkers())
		assert.Error(t, f.svc.StopWorkers())
	})
}
