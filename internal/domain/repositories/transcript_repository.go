package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// TranscriptRepository is the persistence sink for enriched transcripts
type TranscriptRepository interface {
	// GetByMeetingID returns the meeting's transcript, or nil when none exists
	GetByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Transcript, error)

	// SaveResult writes a freshly transcribed result, replacing any previous
	// transcript for the meeting, and sets the meeting status, in one transaction.
	SaveResult(ctx context.Context, transcript *entities.Transcript, status entities.MeetingStatus) error

	// ApplyRelabel persists a relabeled transcript only if it has not been
	// relabeled before and is still at the revision it was loaded with. It
	// reports false when the latch was already set and returns
	// entities.ErrStaleTranscript when a re-transcription replaced it.
	ApplyRelabel(ctx context.Context, transcript *entities.Transcript) (bool, error)
}
