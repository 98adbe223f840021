package entities

// TranscriptionJobKind distinguishes the two provider jobs run per meeting
type TranscriptionJobKind string

const (
	TranscriptionJobDiarization TranscriptionJobKind = "diarization"
	TranscriptionJobSummary     TranscriptionJobKind = "summary"
)

// TranscriptionJobStatus mirrors the provider's job status values
type TranscriptionJobStatus string

const (
	TranscriptionJobQueued     TranscriptionJobStatus = "queued"
	TranscriptionJobProcessing TranscriptionJobStatus = "processing"
	TranscriptionJobCompleted  TranscriptionJobStatus = "completed"
	TranscriptionJobError      TranscriptionJobStatus = "error"
)

// IsTerminal reports whether the provider will not change the status again
func (s TranscriptionJobStatus) IsTerminal() bool {
	return s == TranscriptionJobCompleted || s == TranscriptionJobError
}

// TranscriptionJob is one remote job at the transcription provider. It lives
// only for the duration of a transcribe call and is never persisted.
type TranscriptionJob struct {
	RemoteID string
	Kind     TranscriptionJobKind
	Status   TranscriptionJobStatus
	Error    string

	Text         string
	Summary      string
	LanguageCode string
	Utterances   Utterances
}
