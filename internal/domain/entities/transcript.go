package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Utterance is one diarized speaker turn. Speaker holds the provider code
// ("A", "B") until the transcript is relabeled, then the mapped name.
type Utterance struct {
	Speaker    string  `json:"speaker"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Utterances is stored as a single JSON column, in emission order
type Utterances []Utterance

// Speakers returns the sorted distinct speaker values
func (u Utterances) Speakers() []string {
	seen := make(map[string]struct{}, len(u))
	speakers := make([]string, 0)
	for _, utt := range u {
		if _, ok := seen[utt.Speaker]; ok {
			continue
		}
		seen[utt.Speaker] = struct{}{}
		speakers = append(speakers, utt.Speaker)
	}
	sort.Strings(speakers)
	return speakers
}

// Scan implements sql.Scanner interface for GORM
func (u *Utterances) Scan(value interface{}) error {
	return scanJSON(value, u)
}

// Value implements driver.Valuer interface for GORM
func (u Utterances) Value() (driver.Value, error) {
	if u == nil {
		u = Utterances{}
	}
	return valueJSON(u)
}

// SpeakerMap maps an original speaker code to the human name it was replaced with
type SpeakerMap map[string]string

// Scan implements sql.Scanner interface for GORM
func (m *SpeakerMap) Scan(value interface{}) error {
	return scanJSON(value, m)
}

// Value implements driver.Valuer interface for GORM
func (m SpeakerMap) Value() (driver.Value, error) {
	if m == nil {
		m = SpeakerMap{}
	}
	return valueJSON(m)
}

// Insights holds the generative-text output for a meeting. SpeakerSummaries is
// keyed "Speaker {code}" until relabeled, then by the mapped name.
type Insights struct {
	StructuredSummary string            `json:"structured_summary"`
	SpeakerSummaries  map[string]string `json:"speaker_summaries"`
}

// Transcript is the enriched, persisted result of transcribing one meeting
type Transcript struct {
	ID              uuid.UUID                    `json:"id" gorm:"type:uuid;primary_key"`
	MeetingID       uuid.UUID                    `json:"meeting_id" gorm:"type:uuid;not null;uniqueIndex"`
	FullTranscript  string                       `json:"full_transcript" gorm:"type:text"`
	Summary         string                       `json:"summary" gorm:"type:text"`
	Utterances      Utterances                   `json:"utterances" gorm:"type:jsonb;not null"`
	Insights        datatypes.JSONType[Insights] `json:"meeting_insights" gorm:"type:jsonb;not null"`
	Language        string                       `json:"language,omitempty" gorm:"type:varchar(20)"`
	SpeakersUpdated bool                         `json:"speakers_updated" gorm:"not null;default:false"`
	SpeakerMap      SpeakerMap                   `json:"speaker_map" gorm:"type:jsonb;not null"`
	Revision        int                          `json:"revision" gorm:"not null;default:1"`
	CreatedAt       time.Time                    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time                    `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}

func (t *Transcript) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// NewTranscript creates a new transcript
func NewTranscript(meetingID uuid.UUID) *Transcript {
	return &Transcript{
		ID:         uuid.New(),
		MeetingID:  meetingID,
		Utterances: Utterances{},
		SpeakerMap: SpeakerMap{},
		Insights:   datatypes.NewJSONType(Insights{SpeakerSummaries: map[string]string{}}),
	}
}

// MeetingInsights returns the decoded insights column
func (t *Transcript) MeetingInsights() Insights {
	insights := t.Insights.Data()
	if insights.SpeakerSummaries == nil {
		insights.SpeakerSummaries = map[string]string{}
	}
	return insights
}

// SetInsights replaces the insights column
func (t *Transcript) SetInsights(insights Insights) {
	if insights.SpeakerSummaries == nil {
		insights.SpeakerSummaries = map[string]string{}
	}
	t.Insights = datatypes.NewJSONType(insights)
}

func scanJSON(value interface{}, dest interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, dest)
}

func valueJSON(v interface{}) (driver.Value, error) {
	bytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}
