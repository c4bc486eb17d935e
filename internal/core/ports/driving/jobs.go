package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// JobService manages asynchronous ingest jobs.
type JobService interface {
	// Submit enqueues an ingest request and returns the pending job.
	// Returns domain.ErrJobQueueFull when the queue is at capacity.
	Submit(ctx context.Context, req IngestRequest) (*domain.IngestJob, error)

	// Get returns a job's current state.
	// Returns domain.ErrNotFound for unknown IDs.
	Get(ctx context.Context, jobID string) (*domain.IngestJob, error)

	// List returns recent jobs for a namespace, newest first.
	// An empty namespace lists all; limit <= 0 means no limit.
	List(ctx context.Context, namespace string, limit int) ([]domain.IngestJob, error)

	// Wait polls until the job reaches a terminal state or the context
	// ends. poll <= 0 uses a sensible default interval.
	Wait(ctx context.Context, jobID string, poll time.Duration) (*domain.IngestJob, error)

	// Prune removes terminal jobs older than the retention window.
	// Returns the number removed.
	Prune(ctx context.Context) (int, error)
}

// JobRunner processes queued ingest jobs with background workers.
type JobRunner interface {
	// Start launches the worker pool. Returns an error if already running.
	Start(ctx context.Context) error

	// Stop drains in-flight jobs and stops the workers.
	Stop() error
}
