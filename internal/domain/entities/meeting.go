package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MeetingStatus tracks where a meeting is in its recording lifecycle
type MeetingStatus string

const (
	MeetingStatusScheduled      MeetingStatus = "scheduled"
	MeetingStatusEnded          MeetingStatus = "ended"
	MeetingStatusRecordingReady MeetingStatus = "recording_ready"
	MeetingStatusTranscribed    MeetingStatus = "transcribed"
	MeetingStatusSummarized     MeetingStatus = "summarized"
)

// Meeting is owned by the meeting registry; the pipeline only reads it and
// advances its status.
type Meeting struct {
	ID                uuid.UUID     `json:"id" gorm:"type:uuid;primary_key"`
	OrganisationID    uuid.UUID     `json:"organisation_id" gorm:"type:uuid;not null;index"`
	ExternalMeetingID string        `json:"external_meeting_id" gorm:"type:varchar(255);not null;uniqueIndex"`
	Title             string        `json:"title" gorm:"type:varchar(255)"`
	Status            MeetingStatus `json:"status" gorm:"type:varchar(32);not null;default:'scheduled';index"`
	VideoURL          string        `json:"video_url,omitempty" gorm:"type:text"`
	RecordingReady    bool          `json:"recording_ready" gorm:"not null;default:false"`
	EndTime           *time.Time    `json:"end_time,omitempty"`
	CreatedAt         time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

func (m *Meeting) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = MeetingStatusScheduled
	}
	return nil
}

// BelongsTo reports whether the meeting is owned by the organisation
func (m *Meeting) BelongsTo(organisationID uuid.UUID) bool {
	return m.OrganisationID == organisationID
}
