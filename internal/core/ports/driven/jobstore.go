package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// JobStore persists ingest job state so progress survives across polls
// and terminal results stay queryable for a retention window.
type JobStore interface {
	// CreateJob stores a new job. Returns domain.ErrAlreadyExists if the
	// ID is taken.
	CreateJob(ctx context.Context, job *domain.IngestJob) error

	// UpdateJob overwrites a job's state. Returns domain.ErrNotFound if
	// the job does not exist.
	UpdateJob(ctx context.Context, job *domain.IngestJob) error

	// GetJob retrieves a job by ID. Returns domain.ErrNotFound if absent.
	GetJob(ctx context.Context, id string) (*domain.IngestJob, error)

	// ListJobs returns jobs for a namespace, newest first. An empty
	// namespace lists all. limit <= 0 means no limit.
	ListJobs(ctx context.Context, namespace string, limit int) ([]domain.IngestJob, error)

	// DeleteJob removes a single job regardless of state.
	// Returns domain.ErrNotFound if absent.
	DeleteJob(ctx context.Context, id string) error

	// PruneJobs deletes terminal jobs that finished before the cutoff.
	// Returns the number removed.
	PruneJobs(ctx context.Context, cutoff time.Time) (int, error)
}
