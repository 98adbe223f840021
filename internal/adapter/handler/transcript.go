package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/adapter/dto/transcript"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// PipelineService runs and reads transcriptions
type PipelineService interface {
	Transcribe(ctx context.Context, organisationID uuid.UUID, meetingExternalID string) (*entities.Transcript, error)
	GetTranscript(ctx context.Context, organisationID uuid.UUID, meetingExternalID string) (*entities.Transcript, error)
	Enqueue(ctx context.Context, organisationID uuid.UUID, meetingExternalID string) (*entities.PipelineJob, error)
	GetJob(ctx context.Context, organisationID, jobID uuid.UUID) (*entities.PipelineJob, error)
}

// Transcript handles transcription HTTP requests
type Transcript struct {
	pipeline PipelineService
	logger   *zap.Logger
}

// NewTranscriptHandler creates a new transcript handler
func NewTranscriptHandler(pipeline PipelineService, logger *zap.Logger) *Transcript {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transcript{
		pipeline: pipeline,
		logger:   logger,
	}
}

// Transcribe handles POST /transcribe/:meeting_id
// @Summary      Transcribe a meeting recording
// @Description  Downloads the Zoom audio recording, runs diarization and summarization, generates insights and stores the transcript. With async=true the request is queued.
// @Tags         Transcripts
// @Produce      json
// @Security     BearerAuth
// @Param        meeting_id  path      string  true   "Zoom meeting ID"
// @Param        async       query     bool    false  "Queue the request and return a job"
// @Success      200  {object}  transcript.TranscriptResponse
// @Success      202  {object}  transcript.JobAcceptedResponse
// @Failure      400  {object}  common.ErrorResponse
// @Failure      401  {object}  common.ErrorResponse
// @Failure      403  {object}  common.ErrorResponse
// @Failure      404  {object}  common.ErrorResponse
// @Failure      500  {object}  common.ErrorResponse
// @Router       /transcribe/{meeting_id} [post]
func (h *Transcript) Transcribe(c echo.Context) error {
	var req transcript.TranscribeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	orgID, err := organisationOf(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if req.Async {
		job, err := h.pipeline.Enqueue(c.Request().Context(), orgID, req.MeetingID)
		if err != nil {
			return HandleError(h.logger, c, err)
		}
		return HandleSuccess(h.logger, c, http.StatusAccepted, transcript.JobAcceptedResponse{
			JobID:  job.ID,
			Status: job.Status,
		})
	}

	t, err := h.pipeline.Transcribe(c.Request().Context(), orgID, req.MeetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, transcript.NewTranscriptResponse(t))
}

// GetJob handles GET /transcribe/jobs/:job_id
// @Summary      Get a transcription job
// @Tags         Transcripts
// @Produce      json
// @Security     BearerAuth
// @Param        job_id  path      string  true  "Job ID"
// @Success      200  {object}  transcript.JobResponse
// @Failure      400  {object}  common.ErrorResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /transcribe/jobs/{job_id} [get]
func (h *Transcript) GetJob(c echo.Context) error {
	var req transcript.JobRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	orgID, err := organisationOf(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	job, err := h.pipeline.GetJob(c.Request().Context(), orgID, uuid.MustParse(req.JobID))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, transcript.NewJobResponse(job))
}

// GetTranscript handles GET /transcript/:meeting_id
// @Summary      Get the stored transcript of a meeting
// @Description  Returns the transcript, or {"transcript": null} when the meeting has not been transcribed
// @Tags         Transcripts
// @Produce      json
// @Security     BearerAuth
// @Param        meeting_id  path      string  true  "Zoom meeting ID"
// @Success      200  {object}  transcript.TranscriptResponse
// @Failure      403  {object}  common.ErrorResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /transcript/{meeting_id} [get]
func (h *Transcript) GetTranscript(c echo.Context) error {
	var req transcript.MeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	orgID, err := organisationOf(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	t, err := h.pipeline.GetTranscript(c.Request().Context(), orgID, req.MeetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if t == nil {
		return HandleSuccess(h.logger, c, http.StatusOK, transcript.EmptyTranscriptResponse{})
	}

	return HandleSuccess(h.logger, c, http.StatusOK, transcript.NewTranscriptResponse(t))
}
