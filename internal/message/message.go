// internal/message/message.go
//
// Outbound side-effect queue.
//
// Context
//   After a submission is durably stored, two best-effort side-effects run:
//   the external mirror POST and the thank-you email.  Neither may delay or
//   fail the visitor's request, so the pipeline enqueues them here and a
//   single worker goroutine drains the channel.  A job failure is logged
//   and counted, never propagated; there is no retry queue — the durable
//   store is the source of truth and any retry is a manual re-submit.
//
//   The buffer bounds memory: when it is full the job is dropped with a
//   log line rather than blocking the HTTP handler.
//
// Style
//   Two-space sentence spacing, Oxford comma, concise inline notes.
//
//------------------------------------------------------------------------------

package message

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrQueueFull is handed to a dropped job's OnError hook when the buffer
// has no room left.
var ErrQueueFull = errors.New("message queue full")

// Job is one queued side-effect.  OnError, when set, runs after a failed
// Do (used to bump the per-channel failure counters).
type Job struct {
	Kind    string
	Do      func(ctx context.Context) error
	OnError func(err error)
}

// Queue is a bounded fire-and-forget job channel with one worker.
type Queue struct {
	jobs    chan Job
	timeout time.Duration
}

// New returns a queue holding at most buffer pending jobs.
func New(buffer int) *Queue {
	return &Queue{
		jobs:    make(chan Job, buffer),
		timeout: 15 * time.Second, // per-job deadline
	}
}

// Enqueue hands a job to the worker without blocking.  A full queue drops
// the job; the durable record already exists, so losing the side-effect is
// the documented trade-off.
func (q *Queue) Enqueue(j Job) {
	select {
	case q.jobs <- j:
	default:
		zap.S().Warnw("message queue full, job dropped", "kind", j.Kind)
		if j.OnError != nil {
			j.OnError(ErrQueueFull)
		}
	}
}

// Run drains the queue until ctx is cancelled, then finishes whatever is
// already buffered and returns nil (errgroup-friendly).
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case j := <-q.jobs:
			q.execute(j)
		case <-ctx.Done():
			// Drain what was accepted before shutdown.
			for {
				select {
				case j := <-q.jobs:
					q.execute(j)
				default:
					return nil
				}
			}
		}
	}
}

func (q *Queue) execute(j Job) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	start := time.Now()
	if err := j.Do(ctx); err != nil {
		zap.S().Errorw("outbound job failed",
			"kind", j.Kind, "elapsed", time.Since(start), "err", err)
		if j.OnError != nil {
			j.OnError(err)
		}
		return
	}
	zap.S().Debugw("outbound job done", "kind", j.Kind, "elapsed", time.Since(start))
}
