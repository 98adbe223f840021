package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/pkg/jobcontext"
)

const jobType = "transcribe"

// StartWorkers starts the background workers that execute queued jobs
func (s *Service) StartWorkers(ctx context.Context) error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if s.isWorkerRunning {
		return fmt.Errorf("worker pool already running")
	}

	s.isWorkerRunning = true
	s.workerStopChan = make(chan struct{})

	s.logger.Info("🚀 Starting pipeline worker pool",
		zap.Int("worker_count", s.cfg.Workers),
	)

	for i := 0; i < s.cfg.Workers; i++ {
		s.workerWg.Add(1)
		go s.worker(ctx, i)
	}

	s.workerWg.Add(1)
	go s.cleanupZombieJobs(ctx)

	return nil
}

// StopWorkers signals the workers and waits for in-flight jobs to finish
func (s *Service) StopWorkers() error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if !s.isWorkerRunning {
		return fmt.Errorf("worker pool not running")
	}

	s.logger.Info("🛑 Stopping pipeline worker pool...")

	close(s.workerStopChan)
	s.workerWg.Wait()
	s.isWorkerRunning = false

	s.logger.Info("✅ Pipeline worker pool stopped")

	return nil
}

func (s *Service) worker(parentCtx context.Context, workerID int) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(s.pollInterval())
	defer ticker.Stop()

	s.logger.Info("👷 Worker started", zap.Int("worker_id", workerID))

	for {
		select {
		case <-s.workerStopChan:
			s.logger.Info("👷 Worker stopping", zap.Int("worker_id", workerID))
			return
		case <-parentCtx.Done():
			return
		case <-ticker.C:
		case <-s.wake:
		}

		// drain the queue before waiting again
		for s.processNext(parentCtx, workerID) {
			select {
			case <-s.workerStopChan:
				return
			default:
			}
		}
	}
}

// processNext claims and runs one pending job. It reports whether a job was run.
func (s *Service) processNext(parentCtx context.Context, workerID int) bool {
	jobs, err := s.jobs.ListPending(parentCtx, s.cfg.Workers)
	if err != nil {
		s.logger.Error("❌ Failed to poll jobs",
			zap.Int("worker_id", workerID),
			zap.Error(err),
		)
		return false
	}

	for _, job := range jobs {
		claimed, err := s.jobs.Claim(parentCtx, job.ID)
		if err != nil {
			s.logger.Error("❌ Failed to claim job",
				zap.String("job_id", job.ID.String()),
				zap.Error(err),
			)
			return false
		}
		if !claimed {
			continue
		}

		s.execute(parentCtx, workerID, job)
		return true
	}
	return false
}

func (s *Service) execute(parentCtx context.Context, workerID int, job *entities.PipelineJob) {
	jobCtx, cancel := jobcontext.JobBegin(parentCtx, jobcontext.Job{
		ID:        job.ID,
		Kind:      jobType,
		MeetingID: job.ExternalMeetingID,
		WorkerID:  workerID,
	}, s.jobTimeout())
	defer cancel()

	meta, _ := jobcontext.FromContext(jobCtx)
	fields := jobcontext.Fields(jobCtx)
	s.logger.Info("👷 Worker claimed job", fields...)

	var transcript *entities.Transcript
	err := jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
		meeting, err := s.meetings.Resolve(ctx, job.OrganisationID, job.ExternalMeetingID)
		if err != nil {
			return err
		}
		transcript, err = s.run(ctx, meeting)
		return err
	})

	if err != nil {
		s.logger.Error("❌ Job failed", append(fields, zap.Error(err))...)
		job.MarkAsFailed(err.Error())
	} else {
		s.logger.Info("✅ Job completed successfully", append(fields, zap.Duration("elapsed", meta.Elapsed()))...)
		job.MarkAsCompleted(transcript.ID)
	}

	// the job context may already be expired; record the outcome regardless
	finishCtx, finishCancel := context.WithTimeout(context.WithoutCancel(parentCtx), 10*time.Second)
	defer finishCancel()
	if err := s.jobs.Finish(finishCtx, job); err != nil {
		s.logger.Error("❌ Failed to record job result",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
	}
}

// cleanupZombieJobs fails jobs whose worker died mid-run
func (s *Service) cleanupZombieJobs(parentCtx context.Context) {
	defer s.workerWg.Done()

	timeout := s.jobTimeout()
	ticker := time.NewTicker(timeout)
	defer ticker.Stop()

	sweep := func() {
		n, err := s.jobs.FailStale(parentCtx, time.Now().Add(-2*timeout), "job abandoned by worker")
		if err != nil {
			s.logger.Error("❌ Failed to clean up zombie jobs", zap.Error(err))
			return
		}
		if n > 0 {
			s.logger.Warn("🧟 Failed abandoned jobs", zap.Int64("count", n))
		}
	}

	sweep()
	for {
		select {
		case <-s.workerStopChan:
			return
		case <-parentCtx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}

func (s *Service) pollInterval() time.Duration {
	if s.cfg.JobPollInterval <= 0 {
		return 3 * time.Second
	}
	return s.cfg.JobPollInterval
}

func (s *Service) jobTimeout() time.Duration {
	if s.cfg.JobTimeout <= 0 {
		return 30 * time.Minute
	}
	return s.cfg.JobTimeout
}
