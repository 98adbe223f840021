package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/adapter/dto/speaker"
	"github.com/johnquangdev/meeting-insights/internal/adapter/dto/transcript"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// SpeakerService lists and relabels transcript speakers
type SpeakerService interface {
	ListSpeakers(ctx context.Context, organisationID uuid.UUID, meetingExternalID string) ([]string, bool, error)
	Relabel(ctx context.Context, organisationID uuid.UUID, meetingExternalID string, speakerMap map[string]string) (*entities.Transcript, error)
}

// Speaker handles speaker HTTP requests
type Speaker struct {
	speakers SpeakerService
	logger   *zap.Logger
}

// NewSpeakerHandler creates a new speaker handler
func NewSpeakerHandler(speakers SpeakerService, logger *zap.Logger) *Speaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Speaker{
		speakers: speakers,
		logger:   logger,
	}
}

// ListSpeakers handles GET /speakers/:meeting_id
// @Summary      List transcript speakers
// @Tags         Speakers
// @Produce      json
// @Security     BearerAuth
// @Param        meeting_id  path      string  true  "Zoom meeting ID"
// @Success      200  {object}  speaker.SpeakersResponse
// @Failure      404  {object}  common.ErrorResponse
// @Router       /speakers/{meeting_id} [get]
func (h *Speaker) ListSpeakers(c echo.Context) error {
	var req transcript.MeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	orgID, err := organisationOf(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	speakers, updated, err := h.speakers.ListSpeakers(c.Request().Context(), orgID, req.MeetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if speakers == nil {
		speakers = []string{}
	}

	return HandleSuccess(h.logger, c, http.StatusOK, speaker.SpeakersResponse{
		Speakers:        speakers,
		SpeakersUpdated: updated,
	})
}

// Relabel handles POST /speakers/:meeting_id
// @Summary      Rename transcript speakers
// @Description  Maps diarization codes to names across utterances, transcript and insights. Allowed once per transcript.
// @Tags         Speakers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        meeting_id  path      string                  true  "Zoom meeting ID"
// @Param        request     body      speaker.RelabelRequest  true  "Speaker map"
// @Success      200  {object}  transcript.TranscriptResponse
// @Failure      400  {object}  common.ErrorResponse
// @Failure      404  {object}  common.ErrorResponse
// @Failure      409  {object}  common.ErrorResponse
// @Router       /speakers/{meeting_id} [post]
func (h *Speaker) Relabel(c echo.Context) error {
	var req speaker.RelabelRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	orgID, err := organisationOf(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	t, err := h.speakers.Relabel(c.Request().Context(), orgID, req.MeetingID, req.SpeakerMap)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, transcript.NewTranscriptResponse(t))
}
