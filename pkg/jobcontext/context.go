package jobcontext

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey struct{}

// Job describes a background pipeline run
type Job struct {
	ID        uuid.UUID
	Kind      string
	MeetingID string
	WorkerID  int
	StartedAt time.Time
}

// Elapsed returns the time since the job started
func (j *Job) Elapsed() time.Duration {
	return time.Since(j.StartedAt)
}

// JobBegin derives a context bounded by timeout that carries the job.
// A non-positive timeout leaves the parent deadline in place.
func JobBegin(parent context.Context, job Job, timeout time.Duration) (context.Context, context.CancelFunc) {
	if job.StartedAt.IsZero() {
		job.StartedAt = time.Now()
	}

	ctx, cancel := context.WithCancel(parent)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, timeout)
	}
	return context.WithValue(ctx, contextKey{}, &job), cancel
}

// JobEnd runs fn once, converting a panic into an error. Work is not
// started when ctx is already done.
func JobEnd(ctx context.Context, fn func(context.Context) error) (err error) {
	if ctx.Err() != nil {
		return fmt.Errorf("context cancelled before job execution: %w", ctx.Err())
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic recovered: %v", p)
		}
	}()
	return fn(ctx)
}

// FromContext returns the job carried by ctx
func FromContext(ctx context.Context) (*Job, bool) {
	job, ok := ctx.Value(contextKey{}).(*Job)
	return job, ok
}

// Fields returns log fields describing the job in ctx, or nil outside a job
func Fields(ctx context.Context) []zap.Field {
	job, ok := FromContext(ctx)
	if !ok {
		return nil
	}
	return []zap.Field{
		zap.String("job_id", job.ID.String()),
		zap.String("job_kind", job.Kind),
		zap.String("meeting_id", job.MeetingID),
		zap.Int("worker_id", job.WorkerID),
	}
}
