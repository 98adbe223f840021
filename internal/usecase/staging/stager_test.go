package staging

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/external/zoom"
	usecaseErrors "github.com/johnquangdev/meeting-insights/internal/usecase/errors"
)

type fakeAPI struct {
	recordings  *zoom.MeetingRecordings
	listErr     error
	payload     string
	downloadErr error
	token       string
}

func (f *fakeAPI) ListRecordings(_ context.Context, _ string, accessToken string) (*zoom.MeetingRecordings, error) {
	f.token = accessToken
	return f.recordings, f.listErr
}

func (f *fakeAPI) Download(_ context.Context, _ string, _ string, w io.Writer) (int64, error) {
	if f.downloadErr != nil {
		_, _ = w.Write([]byte("partial"))
		return 7, f.downloadErr
	}
	n, err := io.WriteString(w, f.payload)
	return int64(n), err
}

type passthroughAuth struct{}

func (passthroughAuth) Do(ctx context.Context, cred *entities.Credential, call func(context.Context, string) error) error {
	return call(ctx, cred.AccessToken)
}

func testCredential() *entities.Credential {
	return &entities.Credential{OrganisationID: uuid.New(), Provider: entities.ProviderZoom, AccessToken: "tok"}
}

func scratchFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*"))
	require.NoError(t, err)
	return matches
}

func TestStageAudio_DownloadsAudioFile(t *testing.T) {
	dir := t.TempDir()
	api := &fakeAPI{
		recordings: &zoom.MeetingRecordings{RecordingFiles: []zoom.RecordingFile{
			{FileType: "MP4", DownloadURL: "https://zoom.example/video"},
			{FileType: "M4A", DownloadURL: "https://zoom.example/audio"},
		}},
		payload: "audio-bytes",
	}
	stager := NewStager(api, passthroughAuth{}, "M4A", dir, nil)

	asset, err := stager.StageAudio(context.Background(), "123", testCredential())
	require.NoError(t, err)
	assert.Equal(t, "https://zoom.example/audio", asset.SourceURL)
	assert.Equal(t, "tok", api.token)

	data, err := os.ReadFile(asset.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, "audio-bytes", string(data))
	assert.Equal(t, ".m4a", filepath.Ext(asset.LocalPath))

	require.NoError(t, asset.Cleanup())
	assert.Empty(t, scratchFiles(t, dir))
	require.NoError(t, asset.Cleanup())
}

func TestStageAudio_UniquePathPerCall(t *testing.T) {
	dir := t.TempDir()
	api := &fakeAPI{
		recordings: &zoom.MeetingRecordings{RecordingFiles: []zoom.RecordingFile{
			{FileType: "M4A", DownloadURL: "https://zoom.example/audio"},
		}},
		payload: "x",
	}
	stager := NewStager(api, passthroughAuth{}, "M4A", dir, nil)

	first, err := stager.StageAudio(context.Background(), "123", testCredential())
	require.NoError(t, err)
	second, err := stager.StageAudio(context.Background(), "123", testCredential())
	require.NoError(t, err)
	assert.NotEqual(t, first.LocalPath, second.LocalPath)
}

func TestStageAudio_NoAudioAssetCreatesNoFile(t *testing.T) {
	dir := t.TempDir()
	api := &fakeAPI{
		recordings: &zoom.MeetingRecordings{RecordingFiles: []zoom.RecordingFile{
			{FileType: "MP4", DownloadURL: "https://zoom.example/video"},
			{FileType: "CHAT", DownloadURL: "https://zoom.example/chat"},
		}},
	}
	stager := NewStager(api, passthroughAuth{}, "M4A", dir, nil)

	asset, err := stager.StageAudio(context.Background(), "123", testCredential())
	assert.Nil(t, asset)
	assert.ErrorIs(t, err, usecaseErrors.ErrNoAudioAsset)
	assert.Empty(t, scratchFiles(t, dir))
}

func TestStageAudio_RecordingsFetchFailed(t *testing.T) {
	dir := t.TempDir()
	api := &fakeAPI{listErr: &zoom.APIError{StatusCode: 404, Body: "not found"}}
	stager := NewStager(api, passthroughAuth{}, "M4A", dir, nil)

	_, err := stager.StageAudio(context.Background(), "123", testCredential())
	assert.ErrorIs(t, err, usecaseErrors.ErrRecordingsFetchFailed)
	assert.Empty(t, scratchFiles(t, dir))
}

func TestStageAudio_FailedDownloadRemovesFile(t *testing.T) {
	dir := t.TempDir()
	api := &fakeAPI{
		recordings: &zoom.MeetingRecordings{RecordingFiles: []zoom.RecordingFile{
			{FileType: "M4A", DownloadURL: "https://zoom.example/audio"},
		}},
		downloadErr: errors.New("connection reset"),
	}
	stager := NewStager(api, passthroughAuth{}, "M4A", dir, nil)

	_, err := stager.StageAudio(context.Background(), "123", testCredential())
	assert.ErrorIs(t, err, usecaseErrors.ErrRecordingsFetchFailed)
	assert.Empty(t, scratchFiles(t, dir))
}

func TestSweepStale(t *testing.T) {
	dir := t.TempDir()
	stager := NewStager(&fakeAPI{}, passthroughAuth{}, "M4A", dir, nil)

	old := filepath.Join(dir, "recording-old.m4a")
	fresh := filepath.Join(dir, "recording-fresh.m4a")
	other := filepath.Join(dir, "keep.txt")
	for _, p := range []string{old, fresh, other} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))
	}
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))
	require.NoError(t, os.Chtimes(other, past, past))

	removed, err := stager.SweepStale(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.FileExists(t, other)
}
