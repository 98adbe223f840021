package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError is the error type handlers translate into HTTP responses.
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

func newAppError(raw error, httpCode int, code ErrorCode, message string) AppError {
	return AppError{
		Raw:       raw,
		HTTPCode:  httpCode,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// General Errors
func ErrInternal(err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_INTERNAL, "Internal server error")
}

func ErrInvalidArgument(message string) AppError {
	return newAppError(nil, http.StatusBadRequest, ErrorCode_INVALID_ARGUMENT, message)
}

func ErrInvalidPayload() AppError {
	return newAppError(nil, http.StatusBadRequest, ErrorCode_INVALID_PAYLOAD, "Invalid payload")
}

func ErrNotFound(resource string) AppError {
	return newAppError(nil, http.StatusNotFound, ErrorCode_NOT_FOUND, fmt.Sprintf("%s not found", resource))
}

func ErrPermissionDenied(action string) AppError {
	return newAppError(nil, http.StatusForbidden, ErrorCode_PERMISSION_DENIED, fmt.Sprintf("Permission denied: %s", action))
}

func ErrUnauthenticated() AppError {
	return newAppError(nil, http.StatusUnauthorized, ErrorCode_UNAUTHENTICATED, "Authentication required")
}

// Authentication Errors
func ErrInvalidToken() AppError {
	return newAppError(nil, http.StatusUnauthorized, ErrorCode_AUTH_INVALID_TOKEN, "Invalid authentication token")
}

func ErrTokenExpired() AppError {
	return newAppError(nil, http.StatusUnauthorized, ErrorCode_AUTH_TOKEN_EXPIRED, "Authentication token has expired")
}

func ErrOAuthFailed(provider string, err error) AppError {
	return newAppError(err, http.StatusBadGateway, ErrorCode_AUTH_OAUTH_FAILED,
		fmt.Sprintf("OAuth authentication failed with %s", provider))
}

func ErrInvalidOAuthState() AppError {
	return newAppError(nil, http.StatusBadRequest, ErrorCode_AUTH_INVALID_STATE, "Invalid or expired OAuth state")
}

// Integration Errors
func ErrNotConnected(provider string, err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_INTEGRATION_NOT_CONNECTED,
		fmt.Sprintf("%s account is not connected", provider)).WithDetail("provider", provider)
}

func ErrRefreshFailed(provider string, err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_INTEGRATION_REFRESH_FAILED,
		fmt.Sprintf("Failed to refresh %s access token", provider)).WithDetail("provider", provider)
}

func ErrWebhookSignature() AppError {
	return newAppError(nil, http.StatusUnauthorized, ErrorCode_INTEGRATION_WEBHOOK_SIGNATURE, "Invalid webhook signature")
}

// Pipeline Errors
func ErrMeetingNotFound(meetingID string) AppError {
	return newAppError(nil, http.StatusNotFound, ErrorCode_MEETING_NOT_FOUND, "Meeting not found").
		WithDetail("meeting_id", meetingID)
}

func ErrRecordingsFetchFailed(meetingID string, err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_RECORDINGS_FETCH_FAILED,
		"Failed to fetch meeting recordings").WithDetail("meeting_id", meetingID)
}

func ErrNoAudioAsset(meetingID string, err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_NO_AUDIO_ASSET,
		"No audio recording found for meeting").WithDetail("meeting_id", meetingID)
}

func ErrTranscriptionFailed(err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_TRANSCRIPTION_FAILED, "Audio transcription failed")
}

func ErrTranscriptionTimeout(err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_TRANSCRIPTION_TIMEOUT, "Audio transcription timed out")
}

func ErrInsightGenerationFailed(err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_INSIGHT_GENERATION_FAILED, "Failed to generate meeting insights")
}

func ErrTranscriptNotFound(meetingID string) AppError {
	return newAppError(nil, http.StatusNotFound, ErrorCode_TRANSCRIPT_NOT_FOUND, "Transcript not found").
		WithDetail("meeting_id", meetingID)
}

func ErrJobNotFound(jobID string) AppError {
	return newAppError(nil, http.StatusNotFound, ErrorCode_JOB_NOT_FOUND, "Job not found").
		WithDetail("job_id", jobID)
}

// Speaker Errors
func ErrSpeakersAlreadyUpdated() AppError {
	return newAppError(nil, http.StatusBadRequest, ErrorCode_SPEAKERS_ALREADY_UPDATED, "Speakers have already been updated")
}

func ErrInvalidSpeakerMap(err error) AppError {
	msg := "Invalid speaker map"
	if err != nil {
		msg = err.Error()
	}
	return newAppError(err, http.StatusBadRequest, ErrorCode_INVALID_SPEAKER_MAP, msg)
}

func ErrTranscriptChanged(meetingID string) AppError {
	return newAppError(nil, http.StatusConflict, ErrorCode_TRANSCRIPT_CHANGED, "Transcript was replaced while relabeling; reload and retry").
		WithDetail("meeting_id", meetingID)
}

// Database Errors
func ErrDBQueryFailed(query string, err error) AppError {
	return newAppError(err, http.StatusInternalServerError, ErrorCode_DB_QUERY_FAILED, "Database query failed").
		WithDetail("query", query)
}
