package zoom

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-insights/pkg/config"
)

func TestClient_ListRecordingsAndDownload(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/meetings/123/recordings":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"uuid":"u","topic":"Weekly","recording_files":[
				{"file_type":"MP4","download_url":"` + srv.URL + `/rec/video"},
				{"file_type":"M4A","download_url":"` + srv.URL + `/rec/audio"}]}`))
		case "/rec/audio":
			assert.Equal(t, "tok", r.URL.Query().Get("access_token"))
			_, _ = w.Write([]byte("audio-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(config.ZoomConfig{APIBaseURL: srv.URL}, srv.Client())

	recordings, err := client.ListRecordings(context.Background(), "123", "tok")
	require.NoError(t, err)
	assert.Equal(t, "Weekly", recordings.Topic)

	file, ok := recordings.FindFile("m4a")
	require.True(t, ok)

	var buf bytes.Buffer
	n, err := client.Download(context.Background(), file.DownloadURL, "tok", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len("audio-bytes")), n)
	assert.Equal(t, "audio-bytes", buf.String())

	_, ok = recordings.FindFile("TRANSCRIPT")
	assert.False(t, ok)
}

func TestClient_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":124,"message":"Invalid access token."}`))
	}))
	defer srv.Close()

	client := NewClient(config.ZoomConfig{APIBaseURL: srv.URL}, srv.Client())
	_, err := client.ListRecordings(context.Background(), "123", "stale")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsUnauthorized())
}

func TestVerifySignature(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	ts := strconv.FormatInt(now.Unix(), 10)
	body := []byte(`{"event":"meeting.ended"}`)
	sig := Sign("secret", ts, body)

	assert.True(t, VerifySignature("secret", ts, sig, body, now))
	assert.False(t, VerifySignature("other", ts, sig, body, now))
	assert.False(t, VerifySignature("secret", ts, sig, []byte(`{}`), now))
	assert.False(t, VerifySignature("secret", ts, sig, body, now.Add(10*time.Minute)))
	assert.False(t, VerifySignature("", ts, sig, body, now))
}

func TestEncryptToken(t *testing.T) {
	// HMAC-SHA256("secret", "plain") in hex
	assert.Len(t, EncryptToken("secret", "plain"), 64)
	assert.Equal(t, EncryptToken("secret", "plain"), EncryptToken("secret", "plain"))
	assert.NotEqual(t, EncryptToken("secret", "plain"), EncryptToken("secret", "other"))
}
