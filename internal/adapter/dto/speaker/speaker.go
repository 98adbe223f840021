package speaker

// RelabelRequest maps diarization codes ("A", "B") to display names
type RelabelRequest struct {
	MeetingID  string            `param:"meeting_id" json:"-" validate:"required,meeting_id"`
	SpeakerMap map[string]string `json:"speaker_map" validate:"required,min=1,dive,keys,required,endkeys,required"`
}

// SpeakersResponse lists the distinct speakers of a transcript
type SpeakersResponse struct {
	Speakers        []string `json:"speakers"`
	SpeakersUpdated bool     `json:"speakers_updated"`
}
