package transcript

// TranscribeRequest represents the path and query of POST /transcribe/:meeting_id
type TranscribeRequest struct {
	MeetingID string `param:"meeting_id" validate:"required,meeting_id"`
	Async     bool   `query:"async"`
}

// MeetingRequest addresses a meeting by its external id
type MeetingRequest struct {
	MeetingID string `param:"meeting_id" validate:"required,meeting_id"`
}

// JobRequest addresses a pipeline job
type JobRequest struct {
	JobID string `param:"job_id" validate:"required,uuid"`
}
