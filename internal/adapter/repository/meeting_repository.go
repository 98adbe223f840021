package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// MeetingRepository implements repositories.MeetingRepository using GORM
type MeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// Create inserts a meeting
func (r *MeetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	if meeting == nil {
		return errors.New("meeting cannot be nil")
	}
	return r.db.WithContext(ctx).Create(meeting).Error
}

// FindByExternalID retrieves a meeting by its provider meeting id
func (r *MeetingRepository) FindByExternalID(ctx context.Context, externalID string) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).Where("external_meeting_id = ?", externalID).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

// UpdateStatus updates the meeting status
func (r *MeetingRepository) UpdateStatus(ctx context.Context, meetingID uuid.UUID, status entities.MeetingStatus) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", meetingID).
		Update("status", status).Error
}

// MarkEnded sets the ended status and end time
func (r *MeetingRepository) MarkEnded(ctx context.Context, externalID string, endTime time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("external_meeting_id = ?", externalID).
		Updates(map[string]interface{}{
			"status":     entities.MeetingStatusEnded,
			"end_time":   endTime,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkRecordingReady stores the recording link and flags it as ready
func (r *MeetingRepository) MarkRecordingReady(ctx context.Context, externalID, videoURL string, endTime *time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":          entities.MeetingStatusRecordingReady,
		"video_url":       videoURL,
		"recording_ready": true,
		"updated_at":      time.Now(),
	}
	if endTime != nil {
		updates["end_time"] = *endTime
	}
	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("external_meeting_id = ?", externalID).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
