package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/testutil"
)

func newTestDB(t *testing.T) *gorm.DB {
	return testutil.NewDB(t)
}

func seedMeeting(t *testing.T, db *gorm.DB, externalID string) *entities.Meeting {
	t.Helper()
	meeting := &entities.Meeting{
		OrganisationID:    uuid.New(),
		ExternalMeetingID: externalID,
		Title:             "Weekly sync",
	}
	require.NoError(t, NewMeetingRepository(db).Create(context.Background(), meeting))
	return meeting
}

func TestCredentialRepository_SaveAndRefreshKeepsIdentity(t *testing.T) {
	db := newTestDB(t)
	repo := NewCredentialRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	missing, err := repo.Get(ctx, orgID, entities.ProviderZoom)
	require.NoError(t, err)
	assert.Nil(t, missing)

	cred := &entities.Credential{
		OrganisationID: orgID,
		Provider:       entities.ProviderZoom,
		AccessToken:    "access-1",
		RefreshToken:   "refresh-1",
		ExpiresAt:      time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Save(ctx, cred))
	originalID := cred.ID
	assert.Equal(t, "Bearer", cred.TokenType)

	cred.ApplyToken("access-2", "refresh-2", "", "", time.Now().Add(2*time.Hour))
	require.NoError(t, repo.Save(ctx, cred))

	stored, err := repo.Get(ctx, orgID, entities.ProviderZoom)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, originalID, stored.ID)
	assert.Equal(t, "access-2", stored.AccessToken)
	assert.Equal(t, "refresh-2", stored.RefreshToken)

	var count int64
	require.NoError(t, db.Model(&entities.Credential{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCredentialRepository_ReconnectOverwritesExisting(t *testing.T) {
	db := newTestDB(t)
	repo := NewCredentialRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	first := &entities.Credential{OrganisationID: orgID, Provider: entities.ProviderZoom, AccessToken: "a", RefreshToken: "r", ExpiresAt: time.Now()}
	require.NoError(t, repo.Save(ctx, first))

	second := &entities.Credential{OrganisationID: orgID, Provider: entities.ProviderZoom, AccessToken: "b", RefreshToken: "s", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Save(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "b", second.AccessToken)
}

func TestCredentialRepository_SaveAccount(t *testing.T) {
	db := newTestDB(t)
	repo := NewCredentialRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	require.NoError(t, repo.SaveAccount(ctx, &entities.ProviderAccount{
		OrganisationID: orgID, Provider: entities.ProviderZoom, ExternalUserID: "u1", Email: "old@example.com",
	}))
	require.NoError(t, repo.SaveAccount(ctx, &entities.ProviderAccount{
		OrganisationID: orgID, Provider: entities.ProviderZoom, ExternalUserID: "u1", Email: "new@example.com",
	}))

	account, err := repo.GetAccount(ctx, orgID, entities.ProviderZoom)
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "new@example.com", account.Email)
}

func TestMeetingRepository_WebhookTransitions(t *testing.T) {
	db := newTestDB(t)
	repo := NewMeetingRepository(db)
	ctx := context.Background()
	seedMeeting(t, db, "85746065432")

	end := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	ok, err := repo.MarkEnded(ctx, "85746065432", end)
	require.NoError(t, err)
	assert.True(t, ok)

	meeting, err := repo.FindByExternalID(ctx, "85746065432")
	require.NoError(t, err)
	assert.Equal(t, entities.MeetingStatusEnded, meeting.Status)
	require.NotNil(t, meeting.EndTime)
	assert.True(t, meeting.EndTime.Equal(end))

	ok, err = repo.MarkRecordingReady(ctx, "85746065432", "https://zoom.us/rec/play/abc", nil)
	require.NoError(t, err)
	assert.True(t, ok)

	meeting, err = repo.FindByExternalID(ctx, "85746065432")
	require.NoError(t, err)
	assert.True(t, meeting.RecordingReady)
	assert.Equal(t, "https://zoom.us/rec/play/abc", meeting.VideoURL)

	ok, err = repo.MarkEnded(ctx, "unknown", end)
	require.NoError(t, err)
	assert.False(t, ok)

	missing, err := repo.FindByExternalID(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTranscriptRepository_SaveResultReplacesAndResetsLatch(t *testing.T) {
	db := newTestDB(t)
	repo := NewTranscriptRepository(db)
	ctx := context.Background()
	meeting := seedMeeting(t, db, "m-1")

	first := entities.NewTranscript(meeting.ID)
	first.FullTranscript = "Speaker A | [0-2] Hi"
	first.Utterances = entities.Utterances{{Speaker: "A", Start: 0, End: 2000, Text: "Hi"}}
	first.SetInsights(entities.Insights{StructuredSummary: "Minutes", SpeakerSummaries: map[string]string{"Speaker A": "Greets"}})
	require.NoError(t, repo.SaveResult(ctx, first, entities.MeetingStatusSummarized))

	first.Utterances = entities.Utterances{{Speaker: "Alice", Start: 0, End: 2000, Text: "Hi"}}
	first.SpeakerMap = entities.SpeakerMap{"A": "Alice"}
	applied, err := repo.ApplyRelabel(ctx, first)
	require.NoError(t, err)
	require.True(t, applied)

	second := entities.NewTranscript(meeting.ID)
	second.FullTranscript = "Speaker B | [0-1] Again"
	second.Utterances = entities.Utterances{{Speaker: "B", Start: 0, End: 1000, Text: "Again"}}
	require.NoError(t, repo.SaveResult(ctx, second, entities.MeetingStatusSummarized))
	assert.Equal(t, first.ID, second.ID)

	stored, err := repo.GetByMeetingID(ctx, meeting.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.SpeakersUpdated)
	assert.Empty(t, stored.SpeakerMap)
	assert.Equal(t, "B", stored.Utterances[0].Speaker)

	var count int64
	require.NoError(t, db.Model(&entities.Transcript{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var updated entities.Meeting
	require.NoError(t, db.First(&updated, "id = ?", meeting.ID).Error)
	assert.Equal(t, entities.MeetingStatusSummarized, updated.Status)
}

func TestTranscriptRepository_ApplyRelabelOnlyOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewTranscriptRepository(db)
	ctx := context.Background()
	meeting := seedMeeting(t, db, "m-2")

	transcript := entities.NewTranscript(meeting.ID)
	transcript.Utterances = entities.Utterances{{Speaker: "A", Text: "Hi"}}
	require.NoError(t, repo.SaveResult(ctx, transcript, entities.MeetingStatusTranscribed))

	transcript.Utterances = entities.Utterances{{Speaker: "Alice", Text: "Hi"}}
	transcript.SpeakerMap = entities.SpeakerMap{"A": "Alice"}
	applied, err := repo.ApplyRelabel(ctx, transcript)
	require.NoError(t, err)
	assert.True(t, applied)

	transcript.Utterances = entities.Utterances{{Speaker: "Bob", Text: "Hi"}}
	transcript.SpeakerMap = entities.SpeakerMap{"A": "Bob"}
	applied, err = repo.ApplyRelabel(ctx, transcript)
	require.NoError(t, err)
	assert.False(t, applied)

	stored, err := repo.GetByMeetingID(ctx, meeting.ID)
	require.NoError(t, err)
	assert.True(t, stored.SpeakersUpdated)
	assert.Equal(t, "Alice", stored.Utterances[0].Speaker)
	assert.Equal(t, entities.SpeakerMap{"A": "Alice"}, stored.SpeakerMap)
	assert.Equal(t, 2, stored.Revision)
}

func TestTranscriptRepository_ApplyRelabelRejectsReplacedTranscript(t *testing.T) {
	db := newTestDB(t)
	repo := NewTranscriptRepository(db)
	ctx := context.Background()
	meeting := seedMeeting(t, db, "m-3")

	original := entities.NewTranscript(meeting.ID)
	original.FullTranscript = "Speaker A | [0-1] old"
	original.Summary = "old summary"
	original.Utterances = entities.Utterances{{Speaker: "A", Start: 0, End: 1000, Text: "old"}}
	require.NoError(t, repo.SaveResult(ctx, original, entities.MeetingStatusSummarized))

	loaded, err := repo.GetByMeetingID(ctx, meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Revision)

	relabeled := *loaded
	relabeled.FullTranscript = "Alice | [0-1] old"
	relabeled.Utterances = entities.Utterances{{Speaker: "Alice", Start: 0, End: 1000, Text: "old"}}
	relabeled.SpeakerMap = entities.SpeakerMap{"A": "Alice"}

	replacement := entities.NewTranscript(meeting.ID)
	replacement.FullTranscript = "Speaker A | [0-2] new"
	replacement.Summary = "new summary"
	replacement.Utterances = entities.Utterances{{Speaker: "A", Start: 0, End: 2000, Text: "new"}}
	require.NoError(t, repo.SaveResult(ctx, replacement, entities.MeetingStatusSummarized))
	assert.Equal(t, 2, replacement.Revision)

	applied, err := repo.ApplyRelabel(ctx, &relabeled)
	assert.ErrorIs(t, err, entities.ErrStaleTranscript)
	assert.False(t, applied)

	stored, err := repo.GetByMeetingID(ctx, meeting.ID)
	require.NoError(t, err)
	assert.False(t, stored.SpeakersUpdated)
	assert.Equal(t, "new summary", stored.Summary)
	assert.Equal(t, "Speaker A | [0-2] new", stored.FullTranscript)
	assert.Equal(t, entities.Utterances{{Speaker: "A", Start: 0, End: 2000, Text: "new"}}, stored.Utterances)
	assert.Empty(t, stored.SpeakerMap)
	assert.Equal(t, 2, stored.Revision)
}

func TestPipelineJobRepository_ClaimIsExclusive(t *testing.T) {
	db := newTestDB(t)
	repo := NewPipelineJobRepository(db)
	ctx := context.Background()
	meeting := seedMeeting(t, db, "m-3")

	job := entities.NewPipelineJob(meeting)
	require.NoError(t, repo.Create(ctx, job))

	pending, err := repo.ListPending(ctx, 5)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	claimed, err := repo.Claim(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.Claim(ctx, job.ID)
	require.NoError(t, err)
	assert.False(t, claimed)

	job.MarkAsFailed("boom")
	require.NoError(t, repo.Finish(ctx, job))

	stored, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.PipelineJobStatusFailed, stored.Status)
	assert.Equal(t, 1, stored.Attempts)
	require.NotNil(t, stored.LastError)
	assert.Equal(t, "boom", *stored.LastError)
}

func TestPipelineJobRepository_FailStale(t *testing.T) {
	db := newTestDB(t)
	repo := NewPipelineJobRepository(db)
	ctx := context.Background()
	meeting := seedMeeting(t, db, "m-4")

	stuck := entities.NewPipelineJob(meeting)
	require.NoError(t, repo.Create(ctx, stuck))
	claimed, err := repo.Claim(ctx, stuck.ID)
	require.NoError(t, err)
	require.True(t, claimed)

	waiting := entities.NewPipelineJob(meeting)
	require.NoError(t, repo.Create(ctx, waiting))

	n, err := repo.FailStale(ctx, time.Now().Add(time.Minute), "worker stopped")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stored, err := repo.GetByID(ctx, stuck.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.PipelineJobStatusFailed, stored.Status)

	stored, err = repo.GetByID(ctx, waiting.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.PipelineJobStatusPending, stored.Status)
}
