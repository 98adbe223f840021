package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/pkg/config"
)

// TranscriptArchive keeps JSON snapshots of transcripts in object storage
type TranscriptArchive struct {
	client *minio.Client
	bucket string
}

// Snapshot is the archived form of a transcript at one point in time
type Snapshot struct {
	MeetingID       string              `json:"meeting_id"`
	OrganisationID  string              `json:"organisation_id"`
	Reason          string              `json:"reason"`
	ArchivedAt      time.Time           `json:"archived_at"`
	FullTranscript  string              `json:"full_transcript"`
	Summary         string              `json:"summary"`
	Utterances      entities.Utterances `json:"utterances"`
	MeetingInsights entities.Insights   `json:"meeting_insights"`
	Language        string              `json:"language,omitempty"`
	SpeakersUpdated bool                `json:"speakers_updated"`
	SpeakerMap      entities.SpeakerMap `json:"speaker_map"`
}

// NewTranscriptArchive connects to MinIO and makes sure the bucket exists
func NewTranscriptArchive(ctx context.Context, cfg config.StorageConfig) (*TranscriptArchive, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	archive := &TranscriptArchive{
		client: minioClient,
		bucket: cfg.BucketName,
	}

	if err := archive.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return archive, nil
}

// ensureBucket creates the bucket when missing. Snapshots stay private.
func (a *TranscriptArchive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Archive writes a snapshot of the transcript. reason is "transcribed" or
// "relabeled".
func (a *TranscriptArchive) Archive(ctx context.Context, meeting *entities.Meeting, t *entities.Transcript, reason string) error {
	now := time.Now().UTC()
	snapshot := Snapshot{
		MeetingID:       meeting.ExternalMeetingID,
		OrganisationID:  meeting.OrganisationID.String(),
		Reason:          reason,
		ArchivedAt:      now,
		FullTranscript:  t.FullTranscript,
		Summary:         t.Summary,
		Utterances:      t.Utterances,
		MeetingInsights: t.MeetingInsights(),
		Language:        t.Language,
		SpeakersUpdated: t.SpeakersUpdated,
		SpeakerMap:      t.SpeakerMap,
	}

	body, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = a.client.PutObject(ctx, a.bucket, ObjectName(meeting, reason, now), bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot: %w", err)
	}
	return nil
}

// ObjectName is the key of a snapshot: organisation/meeting/time-reason.json
func ObjectName(meeting *entities.Meeting, reason string, at time.Time) string {
	return fmt.Sprintf("transcripts/%s/%s/%s-%s.json",
		meeting.OrganisationID, meeting.ExternalMeetingID, at.UTC().Format("20060102T150405.000Z"), reason)
}

// ListSnapshots lists the snapshot keys stored for a meeting
func (a *TranscriptArchive) ListSnapshots(ctx context.Context, meeting *entities.Meeting) ([]string, error) {
	var keys []string

	objectCh := a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:    fmt.Sprintf("transcripts/%s/%s/", meeting.OrganisationID, meeting.ExternalMeetingID),
		Recursive: true,
	})
	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("error listing objects: %w", object.Err)
		}
		keys = append(keys, object.Key)
	}

	return keys, nil
}

// Ping reports whether the bucket is reachable, for health checks
func (a *TranscriptArchive) Ping(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", a.bucket)
	}
	return nil
}
