package zoom

import (
	"bytes"
	"encoding/json"
	"time"
)

// Webhook event names handled by the service
const (
	EventURLValidation      = "endpoint.url_validation"
	EventMeetingEnded       = "meeting.ended"
	EventRecordingCompleted = "recording.completed"
)

// MeetingID accepts Zoom meeting ids sent either as JSON numbers or strings
type MeetingID string

// UnmarshalJSON implements json.Unmarshaler
func (m *MeetingID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = MeetingID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*m = MeetingID(n.String())
	return nil
}

// WebhookEvent is the envelope of every Zoom webhook delivery
type WebhookEvent struct {
	Event   string         `json:"event"`
	EventTS int64          `json:"event_ts"`
	Payload WebhookPayload `json:"payload"`
}

// WebhookPayload carries either a URL validation token or a meeting object
type WebhookPayload struct {
	PlainToken string        `json:"plainToken"`
	AccountID  string        `json:"account_id"`
	Object     WebhookObject `json:"object"`
}

// WebhookObject is the meeting the event refers to
type WebhookObject struct {
	ID             MeetingID       `json:"id"`
	UUID           string          `json:"uuid"`
	Topic          string          `json:"topic"`
	HostID         string          `json:"host_id"`
	StartTime      *time.Time      `json:"start_time,omitempty"`
	EndTime        *time.Time      `json:"end_time,omitempty"`
	ShareURL       string          `json:"share_url"`
	RecordingFiles []RecordingFile `json:"recording_files"`
}

// URLValidationResponse answers an endpoint.url_validation event
type URLValidationResponse struct {
	PlainToken     string `json:"plainToken"`
	EncryptedToken string `json:"encryptedToken"`
}
