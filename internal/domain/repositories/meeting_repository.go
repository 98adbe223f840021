package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// MeetingRepository is the meeting registry boundary the pipeline consumes
type MeetingRepository interface {
	// FindByExternalID returns the meeting with the provider meeting id, or nil
	FindByExternalID(ctx context.Context, externalID string) (*entities.Meeting, error)

	// UpdateStatus sets the meeting status
	UpdateStatus(ctx context.Context, meetingID uuid.UUID, status entities.MeetingStatus) error

	// MarkEnded records the end of a meeting; returns false when the meeting is unknown
	MarkEnded(ctx context.Context, externalID string, endTime time.Time) (bool, error)

	// MarkRecordingReady stores the recording link; returns false when the meeting is unknown
	MarkRecordingReady(ctx context.Context, externalID, videoURL string, endTime *time.Time) (bool, error)
}
