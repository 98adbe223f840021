package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// PipelineJobRepository handles asynchronous transcribe jobs
type PipelineJobRepository struct {
	db *gorm.DB
}

// NewPipelineJobRepository creates a new pipeline job repository
func NewPipelineJobRepository(db *gorm.DB) *PipelineJobRepository {
	return &PipelineJobRepository{db: db}
}

// Create creates a new job
func (r *PipelineJobRepository) Create(ctx context.Context, job *entities.PipelineJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// GetByID retrieves a job by ID
func (r *PipelineJobRepository) GetByID(ctx context.Context, jobID uuid.UUID) (*entities.PipelineJob, error) {
	var job entities.PipelineJob
	if err := r.db.WithContext(ctx).Where("id = ?", jobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// ListPending retrieves the oldest pending jobs
func (r *PipelineJobRepository) ListPending(ctx context.Context, limit int) ([]*entities.PipelineJob, error) {
	var jobs []*entities.PipelineJob
	if limit == 0 {
		limit = 10
	}
	if err := r.db.WithContext(ctx).
		Where("status = ?", entities.PipelineJobStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Claim flips a pending job to processing. Only one worker sees RowsAffected == 1.
func (r *PipelineJobRepository) Claim(ctx context.Context, jobID uuid.UUID) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entities.PipelineJob{}).
		Where("id = ? AND status = ?", jobID, entities.PipelineJobStatusPending).
		Updates(map[string]interface{}{
			"status":     entities.PipelineJobStatusProcessing,
			"attempts":   gorm.Expr("attempts + 1"),
			"started_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Finish stores the terminal status, error and transcript reference
func (r *PipelineJobRepository) Finish(ctx context.Context, job *entities.PipelineJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).
		Model(&entities.PipelineJob{}).
		Where("id = ?", job.ID).
		Updates(map[string]interface{}{
			"status":        job.Status,
			"last_error":    job.LastError,
			"transcript_id": job.TranscriptID,
			"completed_at":  job.CompletedAt,
			"updated_at":    time.Now(),
		}).Error
}

// FailStale fails jobs left in processing by a worker that never finished them
func (r *PipelineJobRepository) FailStale(ctx context.Context, cutoff time.Time, reason string) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entities.PipelineJob{}).
		Where("status = ? AND started_at < ?", entities.PipelineJobStatusProcessing, cutoff).
		Updates(map[string]interface{}{
			"status":       entities.PipelineJobStatusFailed,
			"last_error":   reason,
			"completed_at": now,
			"updated_at":   now,
		})
	return result.RowsAffected, result.Error
}
