package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure JobStore implements the interface.
var _ driven.JobStore = (*JobStore)(nil)

// JobStore is an in-memory implementation of driven.JobStore.
type JobStore struct {
	mu    sync.RWMutex
	jobs  map[string]domain.IngestJob
	order []string // insertion order for newest-first listing
}

// NewJobStore creates a new in-memory job store.
func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[string]domain.IngestJob),
	}
}

// CreateJob stores a new job.
// Returns domain.ErrAlreadyExists if the ID is taken.
func (s *JobStore) CreateJob(_ context.Context, job *domain.IngestJob) error {
	if job == nil || job.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.ID]; ok {
		return domain.ErrAlreadyExists
	}
	s.jobs[job.ID] = copyJob(*job)
	s.order = append(s.order, job.ID)
	return nil
}

// UpdateJob overwrites a job's state.
// Returns domain.ErrNotFound if the job does not exist.
func (s *JobStore) UpdateJob(_ context.Context, job *domain.IngestJob) error {
	if job == nil || job.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.ID]; !ok {
		return domain.ErrNotFound
	}
	s.jobs[job.ID] = copyJob(*job)
	return nil
}

// GetJob retrieves a job by ID.
func (s *JobStore) GetJob(_ context.Context, id string) (*domain.IngestJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := copyJob(job)
	return &out, nil
}

// ListJobs returns jobs for a namespace, newest first.
// An empty namespace lists all jobs. limit <= 0 means no limit.
func (s *JobStore) ListJobs(_ context.Context, namespace string, limit int) ([]domain.IngestJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.IngestJob
	for i := len(s.order) - 1; i >= 0; i-- {
		job, ok := s.jobs[s.order[i]]
		if !ok {
			continue
		}
		if namespace != "" && job.Namespace != namespace {
			continue
		}
		result = append(result, copyJob(job))
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

// DeleteJob removes a single job regardless of state.
func (s *JobStore) DeleteJob(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.jobs, id)
	return nil
}

// PruneJobs deletes terminal jobs that finished before the cutoff.
// Returns the number removed.
func (s *JobStore) PruneJobs(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, job := range s.jobs {
		if !job.State.Terminal() {
			continue
		}
		if job.FinishedAt.IsZero() || !job.FinishedAt.Before(cutoff) {
			continue
		}
		delete(s.jobs, id)
		removed++
	}
	return removed, nil
}

// copyJob clones a job so callers cannot mutate stored state through
// shared pointers.
func copyJob(job domain.IngestJob) domain.IngestJob {
	if job.Result != nil {
		result := *job.Result
		if result.Keywords != nil {
			keywords := make([]string, len(result.Keywords))
			copy(keywords, result.Keywords)
			result.Keywords = keywords
		}
		job.Result = &result
	}
	if job.Error != nil {
		jobErr := *job.Error
		job.Error = &jobErr
	}
	return job
}
