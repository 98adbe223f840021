package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// TranscriptRepository implements repositories.TranscriptRepository using GORM
type TranscriptRepository struct {
	db *gorm.DB
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *gorm.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// GetByMeetingID retrieves the transcript for a meeting
func (r *TranscriptRepository) GetByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Transcript, error) {
	var t entities.Transcript
	if err := r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// SaveResult replaces the meeting's transcript with a new pipeline result.
// A re-transcription resets the relabel latch and speaker map and bumps the
// revision, so relabels computed from the previous result no longer apply.
func (r *TranscriptRepository) SaveResult(ctx context.Context, transcript *entities.Transcript, status entities.MeetingStatus) error {
	if transcript == nil {
		return errors.New("transcript cannot be nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entities.Transcript
		err := tx.Select("id", "created_at", "revision").Where("meeting_id = ?", transcript.MeetingID).First(&existing).Error
		switch {
		case err == nil:
			transcript.ID = existing.ID
			transcript.CreatedAt = existing.CreatedAt
			transcript.SpeakersUpdated = false
			transcript.SpeakerMap = entities.SpeakerMap{}
			transcript.Revision = existing.Revision + 1
			if err := tx.Model(&entities.Transcript{}).
				Where("id = ?", existing.ID).
				Updates(map[string]interface{}{
					"full_transcript":  transcript.FullTranscript,
					"summary":          transcript.Summary,
					"utterances":       transcript.Utterances,
					"insights":         transcript.Insights,
					"language":         transcript.Language,
					"speakers_updated": false,
					"speaker_map":      transcript.SpeakerMap,
					"revision":         transcript.Revision,
					"updated_at":       time.Now(),
				}).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			transcript.Revision = 1
			if err := tx.Create(transcript).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return tx.Model(&entities.Meeting{}).
			Where("id = ?", transcript.MeetingID).
			Update("status", status).Error
	})
}

// ApplyRelabel writes the relabeled artifacts and sets the latch in a single
// conditional update on the revision the relabel was computed from. It
// reports false when the latch was already set and ErrStaleTranscript when
// the transcript was replaced in between.
func (r *TranscriptRepository) ApplyRelabel(ctx context.Context, transcript *entities.Transcript) (bool, error) {
	if transcript == nil {
		return false, errors.New("transcript cannot be nil")
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.Transcript{}).
			Where("id = ? AND revision = ? AND speakers_updated = ?", transcript.ID, transcript.Revision, false).
			Updates(map[string]interface{}{
				"full_transcript":  transcript.FullTranscript,
				"utterances":       transcript.Utterances,
				"insights":         transcript.Insights,
				"speaker_map":      transcript.SpeakerMap,
				"speakers_updated": true,
				"revision":         transcript.Revision + 1,
				"updated_at":       time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 1 {
			return nil
		}

		var current entities.Transcript
		err := tx.Select("speakers_updated").Where("id = ?", transcript.ID).First(&current).Error
		switch {
		case err == nil && current.SpeakersUpdated:
			return errAlreadyRelabeled
		case err == nil, errors.Is(err, gorm.ErrRecordNotFound):
			return entities.ErrStaleTranscript
		default:
			return err
		}
	})
	switch {
	case err == nil:
		transcript.Revision++
		return true, nil
	case errors.Is(err, errAlreadyRelabeled):
		return false, nil
	default:
		return false, err
	}
}

var errAlreadyRelabeled = errors.New("speakers already updated")
