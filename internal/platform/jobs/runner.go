// Copyright (c) 2026 TaskPro. All rights reserved.
// Author: humza.khawar.dev@gmail.com

/*
Package jobs provides a small in-process runner for queued follow-up work.

TaskPro uses it for cascading deletes: removing a list or a sub-user answers
the client immediately, while the dependent task rows are deleted by a queued
job with its own retry and logging policy. The primary deletion is never
rolled back; cascade work is best-effort, but failures are always logged.

Architecture:

  - Queue: Buffered channel, non-blocking enqueue.
  - Worker: Single goroutine started at boot, stopped via context cancellation.
  - Retry: Fixed attempt budget with linear backoff between attempts.
*/
package jobs

import (
	"context"
	"log/slog"
	"time"
)

const (
	// maxAttempts is how many times a job is tried before being dropped.
	maxAttempts = 3

	// retryBackoff is the pause added per failed attempt (linear).
	retryBackoff = 250 * time.Millisecond

	// attemptTimeout bounds a single job attempt.
	attemptTimeout = 10 * time.Second
)

// Job is a named unit of background work.
type Job struct {
	// Name identifies the job in log output (e.g. "cascade_delete_list_tasks").
	Name string

	// Run executes the work. It must honor the passed context deadline.
	Run func(ctx context.Context) error
}

// Runner executes queued jobs on a single background worker.
type Runner struct {
	queue  chan Job
	logger *slog.Logger
}

// NewRunner constructs a [Runner] with the given queue capacity.
func NewRunner(logger *slog.Logger, queueSize int) *Runner {
	return &Runner{
		queue:  make(chan Job, queueSize),
		logger: logger,
	}
}

// Start launches the worker goroutine. It returns immediately.
//
// The worker drains the queue until ctx is cancelled; a job already running
// during shutdown finishes its current attempt.
func (runner *Runner) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case job := <-runner.queue:
				runner.execute(ctx, job)
			case <-ctx.Done():
				// Stop the goroutine when the application shuts down
				return
			}
		}
	}()
}

// Enqueue schedules a job without blocking the caller.
//
// It reports false, and logs, when the queue is saturated. Callers treat
// that the same as a failed attempt: the primary response is unaffected.
func (runner *Runner) Enqueue(job Job) bool {
	select {
	case runner.queue <- job:
		return true
	default:
		runner.logger.Error("background_job_queue_full", slog.String("job", job.Name))
		return false
	}
}

// Schedule enqueues job immediately and then again on every interval tick,
// until ctx is cancelled.
//
// Used for recurring maintenance work such as session ledger pruning. A tick
// that finds the queue full is dropped and logged by [Runner.Enqueue]; the
// next tick tries again.
func (runner *Runner) Schedule(ctx context.Context, interval time.Duration, job Job) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		runner.Enqueue(job)

		for {
			select {
			case <-ticker.C:
				runner.Enqueue(job)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// execute runs one job through the retry budget.
func (runner *Runner) execute(ctx context.Context, job Job) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		lastErr = job.Run(attemptCtx)
		cancel()

		if lastErr == nil {
			if attempt > 1 {
				runner.logger.Info("background_job_recovered",
					slog.String("job", job.Name),
					slog.Int("attempt", attempt),
				)
			}
			return
		}

		// Back off before the next attempt, unless we are shutting down.
		select {
		case <-time.After(time.Duration(attempt) * retryBackoff):
		case <-ctx.Done():
			runner.logger.Error("background_job_abandoned_on_shutdown",
				slog.String("job", job.Name),
				slog.Any("error", lastErr),
			)
			return
		}
	}

	// Out of attempts. Never silently swallowed; this is the diagnostic trail.
	runner.logger.Error("background_job_failed",
		slog.String("job", job.Name),
		slog.Int("attempts", maxAttempts),
		slog.Any("error", lastErr),
	)
}
