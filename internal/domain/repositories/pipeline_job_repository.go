package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// PipelineJobRepository stores asynchronous transcribe requests
type PipelineJobRepository interface {
	Create(ctx context.Context, job *entities.PipelineJob) error
	GetByID(ctx context.Context, jobID uuid.UUID) (*entities.PipelineJob, error)
	ListPending(ctx context.Context, limit int) ([]*entities.PipelineJob, error)

	// Claim moves a pending job to processing; it reports false when another
	// worker claimed it first.
	Claim(ctx context.Context, jobID uuid.UUID) (bool, error)

	// Finish stores the terminal state of a job
	Finish(ctx context.Context, job *entities.PipelineJob) error

	// FailStale marks processing jobs started before cutoff as failed
	FailStale(ctx context.Context, cutoff time.Time, reason string) (int64, error)
}
