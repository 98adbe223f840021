package staging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/external/zoom"
	usecaseErrors "github.com/johnquangdev/meeting-insights/internal/usecase/errors"
)

const filePrefix = "recording-"

// RecordingsAPI is the recordings surface of the video-conferencing provider
type RecordingsAPI interface {
	ListRecordings(ctx context.Context, meetingID, accessToken string) (*zoom.MeetingRecordings, error)
	Download(ctx context.Context, downloadURL, accessToken string, w io.Writer) (int64, error)
}

// Authorizer runs a provider call with a fresh token, retrying once on 401
type Authorizer interface {
	Do(ctx context.Context, cred *entities.Credential, call func(ctx context.Context, accessToken string) error) error
}

// StagedAsset is a downloaded recording owned by exactly one transcribe call
type StagedAsset struct {
	SourceURL string
	LocalPath string
	Size      int64
}

// Cleanup deletes the local file. Calling it more than once is harmless.
func (a *StagedAsset) Cleanup() error {
	if a == nil || a.LocalPath == "" {
		return nil
	}
	if err := os.Remove(a.LocalPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Stager downloads a meeting's audio recording to scratch storage
type Stager struct {
	api        RecordingsAPI
	auth       Authorizer
	fileType   string
	scratchDir string
	logger     *zap.Logger
}

// NewStager creates a stager. An empty scratchDir means os.TempDir().
func NewStager(api RecordingsAPI, auth Authorizer, fileType, scratchDir string, logger *zap.Logger) *Stager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fileType == "" {
		fileType = "M4A"
	}
	return &Stager{
		api:        api,
		auth:       auth,
		fileType:   fileType,
		scratchDir: scratchDir,
		logger:     logger,
	}
}

// StageAudio finds the meeting's audio file and streams it to a unique
// scratch path. The caller owns the returned asset and must Cleanup it.
func (s *Stager) StageAudio(ctx context.Context, meetingExternalID string, cred *entities.Credential) (*StagedAsset, error) {
	var recordings *zoom.MeetingRecordings
	err := s.auth.Do(ctx, cred, func(ctx context.Context, accessToken string) error {
		var err error
		recordings, err = s.api.ListRecordings(ctx, meetingExternalID, accessToken)
		return err
	})
	if err != nil {
		if isCredentialError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: meeting %s: %v", usecaseErrors.ErrRecordingsFetchFailed, meetingExternalID, err)
	}

	file, ok := recordings.FindFile(s.fileType)
	if !ok {
		return nil, fmt.Errorf("%w: meeting %s has no %s file", usecaseErrors.ErrNoAudioAsset, meetingExternalID, s.fileType)
	}

	out, err := os.CreateTemp(s.scratchDir, filePrefix+"*"+s.extension())
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch file: %w", err)
	}
	asset := &StagedAsset{SourceURL: file.DownloadURL, LocalPath: out.Name()}

	err = s.auth.Do(ctx, cred, func(ctx context.Context, accessToken string) error {
		// a retried download starts over
		if _, err := out.Seek(0, io.SeekStart); err != nil {
			return err
		}
		if err := out.Truncate(0); err != nil {
			return err
		}
		n, err := s.api.Download(ctx, file.DownloadURL, accessToken, out)
		asset.Size = n
		return err
	})
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = asset.Cleanup()
		if isCredentialError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: download for meeting %s: %v", usecaseErrors.ErrRecordingsFetchFailed, meetingExternalID, err)
	}

	s.logger.Info("📥 Recording staged",
		zap.String("meeting_id", meetingExternalID),
		zap.String("path", asset.LocalPath),
		zap.Int64("bytes", asset.Size),
	)

	return asset, nil
}

func (s *Stager) extension() string {
	return "." + strings.ToLower(s.fileType)
}

// SweepStale removes scratch files older than maxAge left behind by a crash
func (s *Stager) SweepStale(maxAge time.Duration) (int, error) {
	dir := s.scratchDir
	if dir == "" {
		dir = os.TempDir()
	}
	matches, err := filepath.Glob(filepath.Join(dir, filePrefix+"*"+s.extension()))
	if err != nil {
		return 0, err
	}

	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path); err == nil {
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("🧹 Removed stale scratch files", zap.Int("count", removed))
	}
	return removed, nil
}

func isCredentialError(err error) bool {
	return errors.Is(err, usecaseErrors.ErrNotConnected) || errors.Is(err, usecaseErrors.ErrRefreshFailed)
}
