package jobcontext

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobBegin_CarriesJob(t *testing.T) {
	jobID := uuid.New()
	ctx, cancel := JobBegin(context.Background(), Job{ID: jobID, Kind: "transcribe", MeetingID: "85746065432", WorkerID: 3}, time.Minute)
	defer cancel()

	job, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, jobID, job.ID)
	assert.Equal(t, 3, job.WorkerID)
	assert.False(t, job.StartedAt.IsZero())

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, time.Second)

	assert.Len(t, Fields(ctx), 4)
}

func TestJobBegin_NoTimeout(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), Job{ID: uuid.New()}, 0)
	defer cancel()

	_, ok := ctx.Deadline()
	assert.False(t, ok)
}

func TestFields_OutsideJob(t *testing.T) {
	assert.Nil(t, Fields(context.Background()))
}

func TestJobEnd_ReturnsErrorUnchanged(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), Job{ID: uuid.New()}, time.Minute)
	defer cancel()

	boom := errors.New("connection reset by peer")
	calls := 0
	err := JobEnd(ctx, func(context.Context) error {
		calls++
		return boom
	})
	assert.Same(t, boom, err)
	assert.Equal(t, 1, calls)
}

func TestJobEnd_RecoversPanic(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), Job{ID: uuid.New()}, time.Minute)
	defer cancel()

	err := JobEnd(ctx, func(context.Context) error {
		panic("nil map")
	})
	assert.ErrorContains(t, err, "panic recovered: nil map")
}

func TestJobEnd_CancelledBeforeExecution(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), Job{ID: uuid.New()}, time.Minute)
	cancel()

	called := false
	err := JobEnd(ctx, func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
