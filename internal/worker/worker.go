package worker

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"

	"github.com/trunov/thumbd/internal/config"
	"github.com/trunov/thumbd/internal/entities"
)

// Status classifies the terminal state of one processing attempt.
type Status string

const (
	StatusSucceeded       Status = "ok"
	StatusSkippedExists   Status = "skipped-exists"
	StatusSkippedNonImage Status = "skipped-nonimage"
	StatusFailed          Status = "error"
)

type JobSource interface {
	FetchPending(ctx context.Context, limit, maxAttempts int) ([]entities.Job, error)
	Apply(ctx context.Context, id uuid.UUID, o entities.Outcome) error
}

type ObjectStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	Download(ctx context.Context, key string) ([]byte, string, error)
	Upload(ctx context.Context, key, contentType string, payload []byte) error
}

type Thumbnailer interface {
	Thumbnail(src []byte) ([]byte, error)
}

// DoneCache short-circuits the storage existence check for thumbnails
// known to be uploaded already. Optional; misses always fall through.
type DoneCache interface {
	IsDone(ctx context.Context, key string) bool
	MarkDone(ctx context.Context, key string)
}

// Worker drives the thumbnail pipeline: claim a batch of pending jobs,
// run each through the per-job state machine, commit the outcome.
type Worker struct {
	jobs  JobSource
	store ObjectStore
	conv  Thumbnailer
	cache DoneCache // may be nil
	cfg   config.WorkerConfig
}

func New(jobs JobSource, store ObjectStore, conv Thumbnailer, cache DoneCache, cfg config.WorkerConfig) *Worker {
	return &Worker{
		jobs:  jobs,
		store: store,
		conv:  conv,
		cache: cache,
		cfg:   cfg,
	}
}

// Run polls until ctx is canceled. The in-flight tick always finishes:
// batch work runs on a detached context so a shutdown signal never
// aborts a job between its storage write and its state commit.
func (w *Worker) Run(ctx context.Context) error {
	log.Printf("[worker] starting: batch=%d interval=%dms max_attempts=%d max_edge=%d",
		w.cfg.BatchSize, w.cfg.TickIntervalMs, w.cfg.MaxAttempts, w.cfg.MaxEdge,
	)

	ticker := time.NewTicker(time.Duration(w.cfg.TickIntervalMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		if n := w.tick(context.Background()); n > 0 {
			log.Printf("[worker] processed %d job(s)", n)
		}

		select {
		case <-ctx.Done():
			log.Printf("[worker] shutdown signal received, exiting")
			return nil
		case <-ticker.C:
		}
	}
}

// tick claims one batch and processes it sequentially, oldest first.
// A failed claim query is logged and retried on the next tick.
func (w *Worker) tick(ctx context.Context) int {
	jobs, err := w.jobs.FetchPending(ctx, w.cfg.BatchSize, w.cfg.MaxAttempts)
	if err != nil {
		log.Printf("[worker] fetch pending jobs: %v", err)
		sentry.CaptureException(err)
		return 0
	}

	for _, job := range jobs {
		status := w.processOne(ctx, job)
		log.Printf("[worker] job %s: %s", job.ID, status)
	}
	return len(jobs)
}

// processOne runs the state machine for a single claimed job. Every
// exit path commits exactly one outcome; a panic inside conversion is
// converted into a regular failure so one bad job cannot kill the loop.
func (w *Worker) processOne(ctx context.Context, job entities.Job) (status Status) {
	defer func() {
		if r := recover(); r != nil {
			status = w.fail(ctx, job, fmt.Errorf("panic while processing: %v", r))
		}
	}()

	thumbKey := DeriveThumbKey(job.SourceKey)

	// Idempotence: if the thumb is already in storage, just mark done.
	exists, err := w.thumbExists(ctx, thumbKey)
	if err != nil {
		return w.fail(ctx, job, err)
	}
	if exists {
		w.commit(ctx, job.ID, entities.Outcome{
			ThumbKey: &thumbKey,
			Pending:  false,
			Attempts: job.Attempts,
		})
		return StatusSkippedExists
	}

	// Only make thumbs for images
	if !strings.HasPrefix(job.SourceMime, "image/") {
		w.commit(ctx, job.ID, entities.Outcome{
			Pending:  false,
			Attempts: job.Attempts,
		})
		return StatusSkippedNonImage
	}

	src, _, err := w.store.Download(ctx, job.SourceKey)
	if err != nil {
		return w.fail(ctx, job, err)
	}

	out, err := w.conv.Thumbnail(src)
	if err != nil {
		return w.fail(ctx, job, err)
	}

	if err := w.store.Upload(ctx, thumbKey, "image/jpeg", out); err != nil {
		return w.fail(ctx, job, err)
	}
	if w.cache != nil {
		w.cache.MarkDone(ctx, thumbKey)
	}

	w.commit(ctx, job.ID, entities.Outcome{
		ThumbKey: &thumbKey,
		Pending:  false,
		Attempts: 0,
	})
	return StatusSucceeded
}

func (w *Worker) thumbExists(ctx context.Context, thumbKey string) (bool, error) {
	if w.cache != nil && w.cache.IsDone(ctx, thumbKey) {
		return true, nil
	}
	return w.store.Exists(ctx, thumbKey)
}

// fail burns one attempt. The job stays claimable until the budget is
// exhausted; after that it is parked non-pending with its last error
// kept for operator inspection.
func (w *Worker) fail(ctx context.Context, job entities.Job, cause error) Status {
	sentry.CaptureException(cause)

	attempts := job.Attempts + 1
	w.commit(ctx, job.ID, entities.Outcome{
		Pending:   attempts < w.cfg.MaxAttempts,
		Attempts:  attempts,
		LastError: cause.Error(),
	})
	return StatusFailed
}

// commit writes the outcome back to the job source. A write failure is
// logged and dropped: the row keeps its prior persisted state and the
// job is simply reconsidered on a later tick.
func (w *Worker) commit(ctx context.Context, id uuid.UUID, o entities.Outcome) {
	if err := w.jobs.Apply(ctx, id, o); err != nil {
		log.Printf("[worker] commit job %s: %v", id, err)
		sentry.CaptureException(err)
	}
}
