package zoom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/johnquangdev/meeting-insights/pkg/config"
)

// RecordingFile is one asset of a cloud recording
type RecordingFile struct {
	ID            string `json:"id"`
	FileType      string `json:"file_type"`
	FileExtension string `json:"file_extension"`
	FileSize      int64  `json:"file_size"`
	RecordingType string `json:"recording_type"`
	Status        string `json:"status"`
	DownloadURL   string `json:"download_url"`
	PlayURL       string `json:"play_url"`
}

// MeetingRecordings is the response of GET /v2/meetings/{id}/recordings
type MeetingRecordings struct {
	UUID           string          `json:"uuid"`
	Topic          string          `json:"topic"`
	StartTime      string          `json:"start_time"`
	Duration       int             `json:"duration"`
	RecordingFiles []RecordingFile `json:"recording_files"`
}

// FindFile returns the first file of the given type (case-insensitive)
func (r *MeetingRecordings) FindFile(fileType string) (*RecordingFile, bool) {
	for i := range r.RecordingFiles {
		if strings.EqualFold(r.RecordingFiles[i].FileType, fileType) && r.RecordingFiles[i].DownloadURL != "" {
			return &r.RecordingFiles[i], true
		}
	}
	return nil, false
}

// APIError is returned for non-2xx responses
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zoom returned status %d: %s", e.StatusCode, e.Body)
}

// IsUnauthorized reports whether Zoom rejected the access token
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// Client calls the Zoom REST API on behalf of a connected account
type Client struct {
	apiBaseURL string
	httpClient *http.Client
}

// NewClient creates a Zoom API client. httpClient may be nil.
func NewClient(cfg config.ZoomConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Minute}
	}
	return &Client{
		apiBaseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		httpClient: httpClient,
	}
}

// ListRecordings fetches the cloud recording files of a meeting
func (c *Client) ListRecordings(ctx context.Context, meetingID, accessToken string) (*MeetingRecordings, error) {
	endpoint := fmt.Sprintf("%s/v2/meetings/%s/recordings", c.apiBaseURL, url.PathEscape(meetingID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list recordings for %s: %w", meetingID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}

	var recordings MeetingRecordings
	if err := json.NewDecoder(resp.Body).Decode(&recordings); err != nil {
		return nil, fmt.Errorf("decode recordings for %s: %w", meetingID, err)
	}
	return &recordings, nil
}

// Download streams a recording file into w. Zoom download links accept the
// access token as a query parameter.
func (c *Client) Download(ctx context.Context, downloadURL, accessToken string, w io.Writer) (int64, error) {
	u, err := url.Parse(downloadURL)
	if err != nil {
		return 0, fmt.Errorf("parse download url: %w", err)
	}
	q := u.Query()
	q.Set("access_token", accessToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download recording: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, readAPIError(resp)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("download recording: %w", err)
	}
	return n, nil
}

func readAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}
