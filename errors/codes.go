package errors

// ErrorCode identifies an application error independently of its HTTP status.
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = iota
	ErrorCode_INTERNAL
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_INVALID_PAYLOAD
	ErrorCode_NOT_FOUND
	ErrorCode_PERMISSION_DENIED
	ErrorCode_UNAUTHENTICATED

	// Auth
	ErrorCode_AUTH_INVALID_TOKEN
	ErrorCode_AUTH_TOKEN_EXPIRED
	ErrorCode_AUTH_OAUTH_FAILED
	ErrorCode_AUTH_INVALID_STATE

	// Integration
	ErrorCode_INTEGRATION_NOT_CONNECTED
	ErrorCode_INTEGRATION_REFRESH_FAILED
	ErrorCode_INTEGRATION_WEBHOOK_SIGNATURE

	// Pipeline
	ErrorCode_MEETING_NOT_FOUND
	ErrorCode_RECORDINGS_FETCH_FAILED
	ErrorCode_NO_AUDIO_ASSET
	ErrorCode_TRANSCRIPTION_FAILED
	ErrorCode_TRANSCRIPTION_TIMEOUT
	ErrorCode_INSIGHT_GENERATION_FAILED
	ErrorCode_TRANSCRIPT_NOT_FOUND
	ErrorCode_JOB_NOT_FOUND

	// Speakers
	ErrorCode_SPEAKERS_ALREADY_UPDATED
	ErrorCode_INVALID_SPEAKER_MAP
	ErrorCode_TRANSCRIPT_CHANGED

	// Database
	ErrorCode_DB_QUERY_FAILED
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                       "OK",
	ErrorCode_INTERNAL:                      "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:              "INVALID_ARGUMENT",
	ErrorCode_INVALID_PAYLOAD:               "INVALID_PAYLOAD",
	ErrorCode_NOT_FOUND:                     "NOT_FOUND",
	ErrorCode_PERMISSION_DENIED:             "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:               "UNAUTHENTICATED",
	ErrorCode_AUTH_INVALID_TOKEN:            "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:            "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_OAUTH_FAILED:             "AUTH_OAUTH_FAILED",
	ErrorCode_AUTH_INVALID_STATE:            "AUTH_INVALID_STATE",
	ErrorCode_INTEGRATION_NOT_CONNECTED:     "INTEGRATION_NOT_CONNECTED",
	ErrorCode_INTEGRATION_REFRESH_FAILED:    "INTEGRATION_REFRESH_FAILED",
	ErrorCode_INTEGRATION_WEBHOOK_SIGNATURE: "INTEGRATION_WEBHOOK_SIGNATURE",
	ErrorCode_MEETING_NOT_FOUND:             "MEETING_NOT_FOUND",
	ErrorCode_RECORDINGS_FETCH_FAILED:       "RECORDINGS_FETCH_FAILED",
	ErrorCode_NO_AUDIO_ASSET:                "NO_AUDIO_ASSET",
	ErrorCode_TRANSCRIPTION_FAILED:          "TRANSCRIPTION_FAILED",
	ErrorCode_TRANSCRIPTION_TIMEOUT:         "TRANSCRIPTION_TIMEOUT",
	ErrorCode_INSIGHT_GENERATION_FAILED:     "INSIGHT_GENERATION_FAILED",
	ErrorCode_TRANSCRIPT_NOT_FOUND:          "TRANSCRIPT_NOT_FOUND",
	ErrorCode_JOB_NOT_FOUND:                 "JOB_NOT_FOUND",
	ErrorCode_SPEAKERS_ALREADY_UPDATED:      "SPEAKERS_ALREADY_UPDATED",
	ErrorCode_INVALID_SPEAKER_MAP:           "INVALID_SPEAKER_MAP",
	ErrorCode_TRANSCRIPT_CHANGED:            "TRANSCRIPT_CHANGED",
	ErrorCode_DB_QUERY_FAILED:               "DB_QUERY_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// MarshalText renders the code by name in JSON bodies.
func (c ErrorCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
