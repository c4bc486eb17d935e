package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// Ensure JobService implements the interfaces.
var (
	_ driving.JobService = (*JobService)(nil)
	_ driving.JobRunner  = (*JobService)(nil)
)

// defaultPollInterval is the job wait polling cadence when none is given.
const defaultPollInterval = 250 * time.Millisecond

// queuedJob pairs a persisted job id with the work it stands for.
type queuedJob struct {
	jobID string
	req   driving.IngestRequest
}

// JobService runs document ingestion asynchronously: submissions are
// persisted as PENDING jobs and picked up by a fixed worker pool. Job
// state is the only channel between submitter and worker; pollers read
// it through Get.
type JobService struct {
	store  driven.JobStore
	ingest driving.IngestService
	cfg    domain.JobSettings
	queue  chan queuedJob

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewJobService creates a job service with a bounded submission queue.
func NewJobService(store driven.JobStore, ingest driving.IngestService, cfg domain.JobSettings) *JobService {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	return &JobService{
		store:  store,
		ingest: ingest,
		cfg:    cfg,
		queue:  make(chan queuedJob, cfg.QueueSize),
	}
}

// Submit enqueues an ingest request and returns the pending job.
func (s *JobService) Submit(ctx context.Context, req driving.IngestRequest) (*domain.IngestJob, error) {
	if req.Namespace == "" {
		req.Namespace = domain.DefaultNamespace
	}
	if req.DocumentID == "" {
		req.DocumentID = uuid.New().String()
	}

	job := domain.NewIngestJob(uuid.New().String(), req.Namespace, req.DocumentID, req.FileName, time.Now())
	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	select {
	case s.queue <- queuedJob{jobID: job.ID, req: req}:
		logger.Debug("Job %s queued (%s)", job.ID, req.FileName)
		return job, nil
	default:
		// Queue full: roll the row back so the job never shows as
		// pending work that no worker will pick up.
		if err := s.store.DeleteJob(ctx, job.ID); err != nil {
			logger.Warn("Failed to roll back rejected job %s: %v", job.ID, err)
		}
		return nil, domain.ErrJobQueueFull
	}
}

// Get returns a job's current state.
func (s *JobService) Get(ctx context.Context, jobID string) (*domain.IngestJob, error) {
	return s.store.GetJob(ctx, jobID)
}

// List returns recent jobs for a namespace, newest first.
func (s *JobService) List(ctx context.Context, namespace string, limit int) ([]domain.IngestJob, error) {
	return s.store.ListJobs(ctx, namespace, limit)
}

// Wait polls until the job reaches a terminal state or the context ends.
func (s *JobService) Wait(ctx context.Context, jobID string, poll time.Duration) (*domain.IngestJob, error) {
	if poll <= 0 {
		poll = defaultPollInterval
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		job, err := s.store.GetJob(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if job.State.Terminal() {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Prune removes terminal jobs older than the retention window.
func (s *JobService) Prune(ctx context.Context) (int, error) {
	retain := s.cfg.RetainFor
	if retain <= 0 {
		retain = domain.DefaultAppSettings().Jobs.RetainFor
	}
	return s.store.PruneJobs(ctx, time.Now().Add(-retain))
}

// Start launches the worker pool.
func (s *JobService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("job runner already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})

	for i := 0; i < s.cfg.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}

	logger.Info("Job runner started: %d worker(s), queue size %d", s.cfg.Workers, s.cfg.QueueSize)
	return nil
}

// Stop drains in-flight jobs and stops the workers. Queued jobs that no
// worker picked up stay PENDING for the next start.
func (s *JobService) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	logger.Info("Job runner stopped")
	return nil
}

// worker pulls queued jobs until stopped.
func (s *JobService) worker(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case q := <-s.queue:
			s.run(ctx, q)
		}
	}
}

// run executes one job: claim, ingest with progress reporting, finish.
func (s *JobService) run(ctx context.Context, q queuedJob) {
	job, err := s.store.GetJob(ctx, q.jobID)
	if err != nil {
		logger.Warn("Job %s vanished before execution: %v", q.jobID, err)
		return
	}
	if job.State.Terminal() {
		return
	}

	job.Claim(time.Now())
	s.persist(ctx, job)

	progress := func(percent int, label string) {
		job.Advance(percent, label)
		s.persist(ctx, job)
	}

	result, err := s.ingest.Ingest(ctx, q.req, progress)
	if err != nil {
		job.Fail(StageOf(err), stageMessage(err), time.Now())
		s.persist(ctx, job)
		logger.Warn("Job %s failed at %s: %s", job.ID, job.Error.Kind, job.Error.Message)
		return
	}

	job.Succeed(result, time.Now())
	s.persist(ctx, job)
	logger.Info("Job %s succeeded: %d chunks", job.ID, result.ChunkCount)
}

// persist writes job state, logging instead of failing the job on error.
func (s *JobService) persist(ctx context.Context, job *domain.IngestJob) {
	if err := s.store.UpdateJob(ctx, job); err != nil {
		logger.Debug("Failed to persist job %s state: %v", job.ID, err)
	}
}

// stageMessage strips the stage prefix from an ingest error, leaving the
// human-readable part for job state.
func stageMessage(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Err.Error()
	}
	return err.Error()
}
