package errors

import "errors"

// Common errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden access")
	ErrInvalidState = errors.New("invalid or expired oauth state")
)

// Integration errors
var (
	ErrNotConnected   = errors.New("provider account not connected")
	ErrRefreshFailed  = errors.New("token refresh rejected by provider")
	ErrInvalidWebhook = errors.New("invalid webhook signature")
)

// Pipeline errors
var (
	ErrMeetingNotFound         = errors.New("meeting not found")
	ErrRecordingsFetchFailed   = errors.New("failed to fetch recordings")
	ErrNoAudioAsset            = errors.New("no audio file found in recordings")
	ErrTranscriptionFailed     = errors.New("transcription failed")
	ErrTranscriptionTimeout    = errors.New("transcription timed out")
	ErrInsightGenerationFailed = errors.New("insight generation failed")
	ErrTranscriptNotFound      = errors.New("transcript not found")
	ErrJobNotFound             = errors.New("job not found")
	ErrJobAlreadyClaimed       = errors.New("job already claimed")
)

// Speaker errors
var (
	ErrAlreadyRelabeled  = errors.New("speakers have already been updated")
	ErrInvalidSpeakerMap = errors.New("invalid speaker map")
	ErrTranscriptChanged = errors.New("transcript changed while relabeling")
)
