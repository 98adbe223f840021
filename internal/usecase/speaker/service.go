package speaker

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/meeting-insights/internal/usecase/errors"
)

// MeetingResolver looks up a meeting owned by an organisation
type MeetingResolver interface {
	Resolve(ctx context.Context, organisationID uuid.UUID, externalID string) (*entities.Meeting, error)
}

// Archiver stores a transcript snapshot; failures are logged, not returned
type Archiver interface {
	Archive(ctx context.Context, meeting *entities.Meeting, t *entities.Transcript, reason string) error
}

// Service lists and relabels the speakers of a stored transcript
type Service struct {
	meetings    MeetingResolver
	transcripts repositories.TranscriptRepository
	archiver    Archiver
	logger      *zap.Logger
}

// NewService creates a speaker service. archiver may be nil.
func NewService(meetings MeetingResolver, transcripts repositories.TranscriptRepository, archiver Archiver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		meetings:    meetings,
		transcripts: transcripts,
		archiver:    archiver,
		logger:      logger,
	}
}

// ListSpeakers returns the sorted distinct speakers of the meeting's
// transcript. After a relabel these are the assigned names.
func (s *Service) ListSpeakers(ctx context.Context, organisationID uuid.UUID, meetingExternalID string) ([]string, bool, error) {
	_, t, err := s.load(ctx, organisationID, meetingExternalID)
	if err != nil {
		return nil, false, err
	}
	return t.Utterances.Speakers(), t.SpeakersUpdated, nil
}

// Relabel replaces speaker codes with names across the transcript exactly once
func (s *Service) Relabel(ctx context.Context, organisationID uuid.UUID, meetingExternalID string, speakerMap map[string]string) (*entities.Transcript, error) {
	meeting, t, err := s.load(ctx, organisationID, meetingExternalID)
	if err != nil {
		return nil, err
	}

	updated, err := Relabel(t, speakerMap)
	if err != nil {
		return nil, err
	}

	applied, err := s.transcripts.ApplyRelabel(ctx, updated)
	if errors.Is(err, entities.ErrStaleTranscript) {
		return nil, fmt.Errorf("meeting %s: %w", meetingExternalID, usecaseErrors.ErrTranscriptChanged)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save relabeled transcript: %w", err)
	}
	if !applied {
		return nil, usecaseErrors.ErrAlreadyRelabeled
	}

	s.logger.Info("🏷️ Speakers relabeled",
		zap.String("meeting_id", meetingExternalID),
		zap.String("transcript_id", updated.ID.String()),
		zap.Int("mapped", len(updated.SpeakerMap)),
	)

	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, meeting, updated, "relabeled"); err != nil {
			s.logger.Warn("⚠️ Failed to archive relabeled transcript",
				zap.String("meeting_id", meetingExternalID),
				zap.Error(err),
			)
		}
	}

	return updated, nil
}

func (s *Service) load(ctx context.Context, organisationID uuid.UUID, meetingExternalID string) (*entities.Meeting, *entities.Transcript, error) {
	meeting, err := s.meetings.Resolve(ctx, organisationID, meetingExternalID)
	if err != nil {
		return nil, nil, err
	}
	t, err := s.transcripts.GetByMeetingID(ctx, meeting.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load transcript: %w", err)
	}
	if t == nil {
		return nil, nil, fmt.Errorf("meeting %s: %w", meetingExternalID, usecaseErrors.ErrTranscriptNotFound)
	}
	return meeting, t, nil
}
