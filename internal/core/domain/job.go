package domain

import "time"

// JobState is the lifecycle state of an ingestion job.
type JobState string

// Job lifecycle states. PENDING is the enqueued job before a worker claims
// it; STARTED marks the claim; PROCESSING carries progress; SUCCESS and
// FAILURE are terminal.
const (
	JobStatePending    JobState = "PENDING"
	JobStateStarted    JobState = "STARTED"
	JobStateProcessing JobState = "PROCESSING"
	JobStateSuccess    JobState = "SUCCESS"
	JobStateFailure    JobState = "FAILURE"
)

// Terminal returns true once the job can no longer change state.
func (s JobState) Terminal() bool {
	return s == JobStateSuccess || s == JobStateFailure
}

// Job error kinds name the pipeline stage that failed.
const (
	JobErrKindRead     = "read"
	JobErrKindExtract  = "extract"
	JobErrKindEmbed    = "embed"
	JobErrKindUpload   = "upload"
	JobErrKindMetadata = "metadata"
)

// JobError is the structured terminal error of a failed job.
type JobError struct {
	// Kind names the failing stage (read, extract, embed, upload, metadata).
	Kind string

	// Message is the human-readable failure description.
	Message string
}

// IngestResult is the payload of a successfully completed ingestion.
type IngestResult struct {
	// Namespace and DocumentID identify what was ingested.
	Namespace  string
	DocumentID string

	// FileName is the original file name.
	FileName string

	// ChunkCount is how many chunks were embedded and uploaded.
	ChunkCount int

	// Keywords and Summary are the extracted metadata as stored.
	Keywords []string
	Summary  string

	// Message is a short human-readable completion note.
	Message string
}

// IngestJob tracks one asynchronous ingestion request through its state
// machine. Transitions go through the methods below, which keep progress
// monotonically non-decreasing; regressing updates are clamped, never
// applied.
type IngestJob struct {
	// ID is the job identifier handed back to the submitter for polling.
	ID string

	// Namespace, DocumentID and FileName describe the ingestion target.
	Namespace  string
	DocumentID string
	FileName   string

	// State is the current lifecycle state.
	State JobState

	// Progress is the completion percentage, 0-100. It reaches 100 only
	// on SUCCESS.
	Progress int

	// StepLabel is the human-readable current step.
	StepLabel string

	// Result is set on SUCCESS.
	Result *IngestResult

	// Error is set on FAILURE.
	Error *JobError

	// EnqueuedAt is when the job was submitted.
	EnqueuedAt time.Time

	// StartedAt is when a worker claimed the job.
	StartedAt time.Time

	// FinishedAt is when the job reached a terminal state.
	FinishedAt time.Time
}

// NewIngestJob creates a pending job for the given target.
func NewIngestJob(id, namespace, documentID, fileName string, now time.Time) *IngestJob {
	return &IngestJob{
		ID:         id,
		Namespace:  namespace,
		DocumentID: documentID,
		FileName:   fileName,
		State:      JobStatePending,
		EnqueuedAt: now,
	}
}

// Claim marks the job as picked up by a worker.
func (j *IngestJob) Claim(now time.Time) {
	if j.State.Terminal() {
		return
	}
	j.State = JobStateStarted
	j.StartedAt = now
}

// Advance moves the job into PROCESSING at the given percentage.
// Percentages below the current progress are clamped to it; values are
// bounded to [0, 99] because 100 is reserved for SUCCESS.
func (j *IngestJob) Advance(percent int, label string) {
	if j.State.Terminal() {
		return
	}
	if percent < j.Progress {
		percent = j.Progress
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 99 {
		percent = 99
	}
	j.State = JobStateProcessing
	j.Progress = percent
	j.StepLabel = label
}

// Succeed moves the job to SUCCESS with the pipeline result.
func (j *IngestJob) Succeed(result *IngestResult, now time.Time) {
	if j.State.Terminal() {
		return
	}
	j.State = JobStateSuccess
	j.Progress = 100
	j.StepLabel = "done"
	j.Result = result
	j.FinishedAt = now
}

// Fail moves the job to FAILURE with a structured error.
// Progress stays where it was; a failed job never reports 100.
func (j *IngestJob) Fail(kind, message string, now time.Time) {
	if j.State.Terminal() {
		return
	}
	j.State = JobStateFailure
	j.Error = &JobError{Kind: kind, Message: message}
	j.FinishedAt = now
}
