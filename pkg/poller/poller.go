// Package poller drives a remote asynchronous job to a terminal state.
//
// A poll run moves through Submitted -> Polling -> {Completed, Failed, TimedOut}.
// Waits between polls come from a backoff.BackOff, and the whole run is bounded
// by its own deadline layered on the caller's context.
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// State of a poll run
type State int

const (
	StateSubmitted State = iota
	StatePolling
	StateCompleted
	StateFailed
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateSubmitted:
		return "submitted"
	case StatePolling:
		return "polling"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Phase is what a single check observed at the remote side
type Phase int

const (
	PhasePending Phase = iota
	PhaseDone
	PhaseFailed
)

var (
	// ErrJobFailed is returned when the remote job reports an error status
	ErrJobFailed = errors.New("remote job failed")
	// ErrTimedOut is returned when the run's deadline elapses before a terminal status
	ErrTimedOut = errors.New("remote job did not finish in time")
)

// CheckFunc queries the remote job once. A returned error aborts the run.
type CheckFunc func(ctx context.Context) (Phase, error)

// Result summarises a finished run
type Result struct {
	State    State
	Attempts int
	Elapsed  time.Duration
}

// Option configures a Poller
type Option func(*Poller)

// WithBackOff replaces the constant interval with a custom policy. The factory
// is called once per run.
func WithBackOff(factory func() backoff.BackOff) Option {
	return func(p *Poller) {
		p.newBackOff = factory
	}
}

// WithLogger logs state transitions
func WithLogger(logger *zap.Logger) Option {
	return func(p *Poller) {
		p.logger = logger
	}
}

// WithName tags log lines with the job name
func WithName(name string) Option {
	return func(p *Poller) {
		p.name = name
	}
}

// Poller runs CheckFuncs until a terminal phase or timeout
type Poller struct {
	interval   time.Duration
	timeout    time.Duration
	newBackOff func() backoff.BackOff
	logger     *zap.Logger
	name       string
}

// New creates a Poller that checks every interval for at most timeout
func New(interval, timeout time.Duration, opts ...Option) *Poller {
	p := &Poller{
		interval: interval,
		timeout:  timeout,
		name:     "job",
	}
	p.newBackOff = func() backoff.BackOff {
		return backoff.NewConstantBackOff(p.interval)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run checks immediately, then after every backoff wait, until check reports
// a terminal phase. Cancellation of ctx ends the run as Failed with ctx.Err().
func (p *Poller) Run(ctx context.Context, check CheckFunc) (Result, error) {
	start := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	b := backoff.WithContext(p.newBackOff(), runCtx)
	b.Reset()

	res := Result{State: StateSubmitted}
	finish := func(state State, err error) (Result, error) {
		p.transition(res.State, state, res.Attempts)
		res.State = state
		res.Elapsed = time.Since(start)
		return res, err
	}
	expired := func() (Result, error) {
		if ctx.Err() != nil {
			return finish(StateFailed, ctx.Err())
		}
		return finish(StateTimedOut, fmt.Errorf("%w after %s", ErrTimedOut, p.timeout))
	}

	for {
		res.Attempts++
		phase, err := check(runCtx)
		if err != nil {
			if runCtx.Err() != nil {
				return expired()
			}
			return finish(StateFailed, err)
		}

		switch phase {
		case PhaseDone:
			return finish(StateCompleted, nil)
		case PhaseFailed:
			return finish(StateFailed, ErrJobFailed)
		}

		if res.State == StateSubmitted {
			p.transition(res.State, StatePolling, res.Attempts)
			res.State = StatePolling
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			return expired()
		}

		timer := time.NewTimer(wait)
		select {
		case <-runCtx.Done():
			timer.Stop()
			return expired()
		case <-timer.C:
		}
	}
}

func (p *Poller) transition(from, to State, attempts int) {
	if p.logger == nil {
		return
	}
	p.logger.Debug("⏱️ poll state changed",
		zap.String("job", p.name),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.Int("attempts", attempts),
	)
}
