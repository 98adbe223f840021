package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PipelineJobStatus represents the status of an asynchronous transcribe request
type PipelineJobStatus string

const (
	PipelineJobStatusPending    PipelineJobStatus = "pending"    // Waiting for a worker
	PipelineJobStatusProcessing PipelineJobStatus = "processing" // Claimed by a worker
	PipelineJobStatusCompleted  PipelineJobStatus = "completed"  // Transcript persisted
	PipelineJobStatusFailed     PipelineJobStatus = "failed"     // Pipeline returned an error
)

// PipelineJob is a queued transcribe request for one meeting
type PipelineJob struct {
	ID                uuid.UUID         `json:"id" gorm:"type:uuid;primary_key"`
	MeetingID         uuid.UUID         `json:"meeting_id" gorm:"type:uuid;not null;index"`
	OrganisationID    uuid.UUID         `json:"organisation_id" gorm:"type:uuid;not null"`
	ExternalMeetingID string            `json:"external_meeting_id" gorm:"type:varchar(255);not null"`
	Status            PipelineJobStatus `json:"status" gorm:"type:varchar(32);not null;index;default:'pending'"`
	Attempts          int               `json:"attempts" gorm:"not null;default:0"`
	LastError         *string           `json:"last_error,omitempty" gorm:"type:text"`
	TranscriptID      *uuid.UUID        `json:"transcript_id,omitempty" gorm:"type:uuid"`
	StartedAt         *time.Time        `json:"started_at,omitempty"`
	CompletedAt       *time.Time        `json:"completed_at,omitempty"`
	CreatedAt         time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (PipelineJob) TableName() string {
	return "pipeline_jobs"
}

func (j *PipelineJob) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// NewPipelineJob creates a pending job for a meeting
func NewPipelineJob(meeting *Meeting) *PipelineJob {
	return &PipelineJob{
		ID:                uuid.New(),
		MeetingID:         meeting.ID,
		OrganisationID:    meeting.OrganisationID,
		ExternalMeetingID: meeting.ExternalMeetingID,
		Status:            PipelineJobStatusPending,
	}
}

// IsFinished reports whether the job reached a terminal status
func (j *PipelineJob) IsFinished() bool {
	return j.Status == PipelineJobStatusCompleted || j.Status == PipelineJobStatusFailed
}

// MarkAsCompleted marks job as completed successfully
func (j *PipelineJob) MarkAsCompleted(transcriptID uuid.UUID) {
	j.Status = PipelineJobStatusCompleted
	j.TranscriptID = &transcriptID
	j.LastError = nil
	now := time.Now()
	j.CompletedAt = &now
}

// MarkAsFailed marks job as failed with error message
func (j *PipelineJob) MarkAsFailed(errMsg string) {
	j.Status = PipelineJobStatusFailed
	j.LastError = &errMsg
	now := time.Now()
	j.CompletedAt = &now
}
