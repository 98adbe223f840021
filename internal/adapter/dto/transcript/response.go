package transcript

import (
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// TranscriptResponse is the stored, enriched transcript of a meeting
type TranscriptResponse struct {
	FullTranscript  string              `json:"full_transcript"`
	Summary         string              `json:"summary"`
	MeetingInsights entities.Insights   `json:"meeting_insights"`
	Utterances      entities.Utterances `json:"utterances"`
	SpeakersUpdated bool                `json:"speakers_updated"`
}

// EmptyTranscriptResponse is returned when a meeting has no transcript yet
type EmptyTranscriptResponse struct {
	Transcript *TranscriptResponse `json:"transcript"`
}

// JobAcceptedResponse acknowledges an asynchronous transcribe request
type JobAcceptedResponse struct {
	JobID  uuid.UUID                  `json:"job_id"`
	Status entities.PipelineJobStatus `json:"status"`
}

// JobResponse is the state of an asynchronous transcribe request
type JobResponse struct {
	JobID        uuid.UUID                  `json:"job_id"`
	MeetingID    string                     `json:"meeting_id"`
	Status       entities.PipelineJobStatus `json:"status"`
	Error        *string                    `json:"error,omitempty"`
	TranscriptID *uuid.UUID                 `json:"transcript_id,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`
	StartedAt    *time.Time                 `json:"started_at,omitempty"`
	CompletedAt  *time.Time                 `json:"completed_at,omitempty"`
}

// NewTranscriptResponse converts a stored transcript
func NewTranscriptResponse(t *entities.Transcript) *TranscriptResponse {
	utterances := t.Utterances
	if utterances == nil {
		utterances = entities.Utterances{}
	}
	return &TranscriptResponse{
		FullTranscript:  t.FullTranscript,
		Summary:         t.Summary,
		MeetingInsights: t.MeetingInsights(),
		Utterances:      utterances,
		SpeakersUpdated: t.SpeakersUpdated,
	}
}

// NewJobResponse converts a pipeline job
func NewJobResponse(j *entities.PipelineJob) *JobResponse {
	return &JobResponse{
		JobID:        j.ID,
		MeetingID:    j.ExternalMeetingID,
		Status:       j.Status,
		Error:        j.LastError,
		TranscriptID: j.TranscriptID,
		CreatedAt:    j.CreatedAt,
		StartedAt:    j.StartedAt,
		CompletedAt:  j.CompletedAt,
	}
}
