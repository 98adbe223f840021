package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type meetingRequest struct {
	MeetingID string `validate:"required,meeting_id"`
}

type relabelRequest struct {
	SpeakerMap map[string]string `validate:"required,min=1,dive,keys,required,endkeys,required"`
}

func TestValidate_MeetingID(t *testing.T) {
	v := New()

	for _, id := range []string{"85746065432", "aDYlohsHRtCd4ii1uC2+hA==", "abc-123"} {
		assert.NoError(t, v.Validate(meetingRequest{MeetingID: id}), id)
	}
	for _, id := range []string{"", "85 74", "../etc", "a/b"} {
		assert.Error(t, v.Validate(meetingRequest{MeetingID: id}), id)
	}
}

func TestValidate_SpeakerMap(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(relabelRequest{SpeakerMap: map[string]string{"A": "Alice"}}))
	assert.Error(t, v.Validate(relabelRequest{}))
	assert.Error(t, v.Validate(relabelRequest{SpeakerMap: map[string]string{}}))
	assert.Error(t, v.Validate(relabelRequest{SpeakerMap: map[string]string{"A": ""}}))
}
