package transcription

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/usecase/staging"
	usecaseErrors "github.com/johnquangdev/meeting-insights/internal/usecase/errors"
	"github.com/johnquangdev/meeting-insights/pkg/ai"
	"github.com/johnquangdev/meeting-insights/pkg/config"
	"github.com/johnquangdev/meeting-insights/pkg/poller"
)

// DiarizationAPI is the REST path of the transcription provider
type DiarizationAPI interface {
	Upload(ctx context.Context, audio io.Reader) (string, error)
	SubmitTranscript(ctx context.Context, payload ai.TranscribeRequest) (*ai.TranscriptResponse, error)
	GetTranscript(ctx context.Context, transcriptID string) (*ai.TranscriptResponse, error)
}

// SummaryAPI is the SDK path of the transcription provider
type SummaryAPI interface {
	Submit(ctx context.Context, audioURL, languageCode string) (*ai.SummaryTranscript, error)
	Get(ctx context.Context, transcriptID string) (*ai.SummaryTranscript, error)
}

// CredentialResolver hands out a usable credential for an organisation
type CredentialResolver interface {
	FreshCredential(ctx context.Context, organisationID uuid.UUID) (*entities.Credential, error)
}

// AssetStager downloads the meeting's audio to scratch storage
type AssetStager interface {
	StageAudio(ctx context.Context, meetingExternalID string, cred *entities.Credential) (*staging.StagedAsset, error)
}

// Result is the reconciled output of the diarization and summary jobs
type Result struct {
	FullText     string
	Summary      string
	LanguageCode string
	Utterances   entities.Utterances
	Diarization  entities.TranscriptionJob
	SummaryJob   entities.TranscriptionJob
}

// Orchestrator runs one meeting's audio through both provider jobs
type Orchestrator struct {
	credentials  CredentialResolver
	stager       AssetStager
	diarization  DiarizationAPI
	summary      SummaryAPI
	languageCode string
	diarizePoll  *poller.Poller
	summaryPoll  *poller.Poller
	logger       *zap.Logger
}

// NewOrchestrator creates a transcription orchestrator
func NewOrchestrator(
	credentials CredentialResolver,
	stager AssetStager,
	diarization DiarizationAPI,
	summary SummaryAPI,
	aaiCfg config.AssemblyAIConfig,
	pipelineCfg config.PipelineConfig,
	logger *zap.Logger,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		credentials:  credentials,
		stager:       stager,
		diarization:  diarization,
		summary:      summary,
		languageCode: aaiCfg.LanguageCode,
		diarizePoll: poller.New(pipelineCfg.PollInterval, pipelineCfg.DiarizationTimeout,
			poller.WithLogger(logger), poller.WithName(string(entities.TranscriptionJobDiarization))),
		summaryPoll: poller.New(pipelineCfg.PollInterval, pipelineCfg.SummaryTimeout,
			poller.WithLogger(logger), poller.WithName(string(entities.TranscriptionJobSummary))),
		logger: logger,
	}
}

// Transcribe stages the recording, uploads it once and drives the
// diarization and summary jobs to completion. The staged file is removed
// before Transcribe returns on every path.
func (o *Orchestrator) Transcribe(ctx context.Context, meetingExternalID string, organisationID uuid.UUID) (*Result, error) {
	cred, err := o.credentials.FreshCredential(ctx, organisationID)
	if err != nil {
		return nil, err
	}

	asset, err := o.stager.StageAudio(ctx, meetingExternalID, cred)
	if err != nil {
		return nil, err
	}
	defer o.cleanup(asset)

	uploadURL, err := o.upload(ctx, asset)
	o.cleanup(asset)
	if err != nil {
		return nil, err
	}

	o.logger.Info("📤 Audio uploaded, starting transcription jobs",
		zap.String("meeting_id", meetingExternalID),
	)

	result := &Result{
		Diarization: entities.TranscriptionJob{Kind: entities.TranscriptionJobDiarization},
		SummaryJob:  entities.TranscriptionJob{Kind: entities.TranscriptionJobSummary},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return o.runDiarization(gctx, uploadURL, &result.Diarization)
	})
	g.Go(func() error {
		return o.runSummary(gctx, uploadURL, &result.SummaryJob)
	})
	if err := g.Wait(); err != nil {
		o.logger.Error("❌ Transcription failed",
			zap.String("meeting_id", meetingExternalID),
			zap.Error(err),
		)
		return nil, err
	}

	result.FullText = result.Diarization.Text
	result.Utterances = result.Diarization.Utterances
	result.Summary = result.SummaryJob.Summary
	result.LanguageCode = result.Diarization.LanguageCode
	if result.LanguageCode == "" {
		result.LanguageCode = o.languageCode
	}

	o.logger.Info("✅ Transcription completed",
		zap.String("meeting_id", meetingExternalID),
		zap.Int("utterances", len(result.Utterances)),
	)

	return result, nil
}

func (o *Orchestrator) upload(ctx context.Context, asset *staging.StagedAsset) (string, error) {
	f, err := os.Open(asset.LocalPath)
	if err != nil {
		return "", fmt.Errorf("%w: open staged audio: %v", usecaseErrors.ErrTranscriptionFailed, err)
	}
	defer f.Close()

	uploadURL, err := o.diarization.Upload(ctx, f)
	if err != nil {
		return "", fmt.Errorf("%w: %v", usecaseErrors.ErrTranscriptionFailed, err)
	}
	return uploadURL, nil
}

func (o *Orchestrator) runDiarization(ctx context.Context, uploadURL string, job *entities.TranscriptionJob) error {
	submitted, err := o.diarization.SubmitTranscript(ctx, ai.TranscribeRequest{
		AudioURL:      uploadURL,
		SpeakerLabels: true,
		LanguageCode:  o.languageCode,
	})
	if err != nil {
		return fmt.Errorf("%w: submit diarization job: %v", usecaseErrors.ErrTranscriptionFailed, err)
	}
	job.RemoteID = submitted.ID
	job.Status = jobStatus(submitted.Status)

	var latest *ai.TranscriptResponse
	_, err = o.diarizePoll.Run(ctx, func(ctx context.Context) (poller.Phase, error) {
		tr, err := o.diarization.GetTranscript(ctx, job.RemoteID)
		if err != nil {
			return poller.PhasePending, err
		}
		latest = tr
		job.Status = jobStatus(tr.Status)
		job.Error = tr.Error
		return phaseOf(job.Status), nil
	})
	if err != nil {
		return jobError(job, err)
	}

	job.Text = latest.Text
	job.LanguageCode = latest.LanguageCode
	job.Utterances = make(entities.Utterances, 0, len(latest.Utterances))
	for _, u := range latest.Utterances {
		job.Utterances = append(job.Utterances, entities.Utterance{
			Speaker:    u.Speaker,
			Start:      u.Start,
			End:        u.End,
			Text:       u.Text,
			Confidence: u.Confidence,
		})
	}
	return nil
}

func (o *Orchestrator) runSummary(ctx context.Context, uploadURL string, job *entities.TranscriptionJob) error {
	submitted, err := o.summary.Submit(ctx, uploadURL, o.languageCode)
	if err != nil {
		return fmt.Errorf("%w: submit summary job: %v", usecaseErrors.ErrTranscriptionFailed, err)
	}
	job.RemoteID = submitted.ID
	job.Status = jobStatus(submitted.Status)

	_, err = o.summaryPoll.Run(ctx, func(ctx context.Context) (poller.Phase, error) {
		st, err := o.summary.Get(ctx, job.RemoteID)
		if err != nil {
			return poller.PhasePending, err
		}
		job.Status = jobStatus(st.Status)
		job.Error = st.Error
		job.Summary = st.Summary
		return phaseOf(job.Status), nil
	})
	if err != nil {
		return jobError(job, err)
	}
	return nil
}

func (o *Orchestrator) cleanup(asset *staging.StagedAsset) {
	if err := asset.Cleanup(); err != nil {
		o.logger.Warn("⚠️ Failed to remove staged audio",
			zap.String("path", asset.LocalPath),
			zap.Error(err),
		)
	}
}

func jobStatus(status string) entities.TranscriptionJobStatus {
	return entities.TranscriptionJobStatus(status)
}

func phaseOf(status entities.TranscriptionJobStatus) poller.Phase {
	switch status {
	case entities.TranscriptionJobCompleted:
		return poller.PhaseDone
	case entities.TranscriptionJobError:
		return poller.PhaseFailed
	default:
		return poller.PhasePending
	}
}

func jobError(job *entities.TranscriptionJob, err error) error {
	switch {
	case errors.Is(err, poller.ErrTimedOut):
		return fmt.Errorf("%w: %s job %s: %v", usecaseErrors.ErrTranscriptionTimeout, job.Kind, job.RemoteID, err)
	case errors.Is(err, poller.ErrJobFailed):
		return fmt.Errorf("%w: %s job %s: %s", usecaseErrors.ErrTranscriptionFailed, job.Kind, job.RemoteID, job.Error)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %s job %s: %v", usecaseErrors.ErrTranscriptionFailed, job.Kind, job.RemoteID, err)
	}
}
