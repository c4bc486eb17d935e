package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// jobStore implements driven.JobStore.
type jobStore struct {
	store *Store
}

var _ driven.JobStore = (*jobStore)(nil)

// jobColumns is the column list shared by all job queries.
const jobColumns = "id, namespace, document_id, file_name, state, progress, step_label, result, error, enqueued_at, started_at, finished_at"

// CreateJob stores a new job.
// Returns domain.ErrAlreadyExists if the ID is taken.
func (s *jobStore) CreateJob(ctx context.Context, job *domain.IngestJob) error {
	if job == nil || job.ID == "" {
		return domain.ErrInvalidInput
	}

	resultJSON, errorJSON, err := marshalJobPayloads(job)
	if err != nil {
		return err
	}

	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO jobs (`+jobColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, job.ID, job.Namespace, job.DocumentID, job.FileName,
		string(job.State), job.Progress, job.StepLabel, resultJSON, errorJSON,
		job.EnqueuedAt.UTC().Format(time.RFC3339),
		formatNullableTime(job.StartedAt), formatNullableTime(job.FinishedAt))

	if err != nil {
		return fmt.Errorf("creating job: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking insert result: %w", err)
	}
	if affected == 0 {
		return domain.ErrAlreadyExists
	}
	return nil
}

// UpdateJob overwrites a job's state.
// Returns domain.ErrNotFound if the job does not exist.
func (s *jobStore) UpdateJob(ctx context.Context, job *domain.IngestJob) error {
	if job == nil || job.ID == "" {
		return domain.ErrInvalidInput
	}

	resultJSON, errorJSON, err := marshalJobPayloads(job)
	if err != nil {
		return err
	}

	res, err := s.store.db.ExecContext(ctx, `
		UPDATE jobs SET
			namespace = ?,
			document_id = ?,
			file_name = ?,
			state = ?,
			progress = ?,
			step_label = ?,
			result = ?,
			error = ?,
			enqueued_at = ?,
			started_at = ?,
			finished_at = ?
		WHERE id = ?
	`, job.Namespace, job.DocumentID, job.FileName,
		string(job.State), job.Progress, job.StepLabel, resultJSON, errorJSON,
		job.EnqueuedAt.UTC().Format(time.RFC3339),
		formatNullableTime(job.StartedAt), formatNullableTime(job.FinishedAt),
		job.ID)

	if err != nil {
		return fmt.Errorf("updating job: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetJob retrieves a job by ID.
func (s *jobStore) GetJob(ctx context.Context, id string) (*domain.IngestJob, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE id = ?", id)

	return scanJob(row)
}

// ListJobs returns jobs for a namespace, newest first.
// An empty namespace lists all jobs. limit <= 0 means no limit.
func (s *jobStore) ListJobs(ctx context.Context, namespace string, limit int) ([]domain.IngestJob, error) {
	query := "SELECT " + jobColumns + " FROM jobs"
	var args []interface{}
	if namespace != "" {
		query += " WHERE namespace = ?"
		args = append(args, namespace)
	}
	// rowid preserves submission order exactly; enqueued_at has only
	// second precision.
	query += " ORDER BY rowid DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.IngestJob //nolint:prealloc // size unknown from query
	for rows.Next() {
		job, err := scanJobRows(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}

	return jobs, nil
}

// DeleteJob removes a single job regardless of state.
func (s *jobStore) DeleteJob(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM jobs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting job: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// PruneJobs deletes terminal jobs that finished before the cutoff.
// Returns the number removed.
func (s *jobStore) PruneJobs(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.store.db.ExecContext(ctx, `
		DELETE FROM jobs
		WHERE state IN (?, ?)
		AND finished_at IS NOT NULL
		AND finished_at < ?
	`, string(domain.JobStateSuccess), string(domain.JobStateFailure),
		cutoff.UTC().Format(time.RFC3339))

	if err != nil {
		return 0, fmt.Errorf("pruning jobs: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking prune result: %w", err)
	}
	return int(affected), nil
}

// ==================== Helper Functions ====================

// marshalJobPayloads serialises the job's result and error to JSON.
// A nil pointer marshals to "null", which scans back to nil.
func marshalJobPayloads(job *domain.IngestJob) (resultJSON, errorJSON string, err error) {
	resultBytes, err := json.Marshal(job.Result)
	if err != nil {
		return "", "", fmt.Errorf("marshalling job result: %w", err)
	}
	errorBytes, err := json.Marshal(job.Error)
	if err != nil {
		return "", "", fmt.Errorf("marshalling job error: %w", err)
	}
	return string(resultBytes), string(errorBytes), nil
}

// scanJob scans a single job row.
func scanJob(row *sql.Row) (*domain.IngestJob, error) {
	var job domain.IngestJob
	var state, enqueuedAt string
	var resultJSON, errorJSON, startedAt, finishedAt sql.NullString

	if err := row.Scan(&job.ID, &job.Namespace, &job.DocumentID, &job.FileName,
		&state, &job.Progress, &job.StepLabel, &resultJSON, &errorJSON,
		&enqueuedAt, &startedAt, &finishedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning job: %w", err)
	}

	if err := hydrateJob(&job, state, enqueuedAt, resultJSON, errorJSON, startedAt, finishedAt); err != nil {
		return nil, err
	}
	return &job, nil
}

// scanJobRows scans a job from *sql.Rows.
func scanJobRows(rows *sql.Rows) (*domain.IngestJob, error) {
	var job domain.IngestJob
	var state, enqueuedAt string
	var resultJSON, errorJSON, startedAt, finishedAt sql.NullString

	if err := rows.Scan(&job.ID, &job.Namespace, &job.DocumentID, &job.FileName,
		&state, &job.Progress, &job.StepLabel, &resultJSON, &errorJSON,
		&enqueuedAt, &startedAt, &finishedAt); err != nil {
		return nil, fmt.Errorf("scanning job: %w", err)
	}

	if err := hydrateJob(&job, state, enqueuedAt, resultJSON, errorJSON, startedAt, finishedAt); err != nil {
		return nil, err
	}
	return &job, nil
}

// hydrateJob fills the parsed fields shared by both scanners.
func hydrateJob(job *domain.IngestJob, state, enqueuedAt string,
	resultJSON, errorJSON, startedAt, finishedAt sql.NullString) error {
	job.State = domain.JobState(state)

	if t, err := time.Parse(time.RFC3339, enqueuedAt); err == nil {
		job.EnqueuedAt = t
	}
	job.StartedAt = parseNullableTime(startedAt)
	job.FinishedAt = parseNullableTime(finishedAt)

	if resultJSON.Valid && resultJSON.String != jsonNull {
		var result domain.IngestResult
		if err := json.Unmarshal([]byte(resultJSON.String), &result); err != nil {
			return fmt.Errorf("unmarshalling job result: %w", err)
		}
		job.Result = &result
	}

	if errorJSON.Valid && errorJSON.String != jsonNull {
		var jobErr domain.JobError
		if err := json.Unmarshal([]byte(errorJSON.String), &jobErr); err != nil {
			return fmt.Errorf("unmarshalling job error: %w", err)
		}
		job.Error = &jobErr
	}

	return nil
}

// formatNullableTime formats a time to RFC3339 string, or returns nil for zero time.
func formatNullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// parseNullableTime parses a nullable RFC3339 string to time.Time.
// Returns zero time if the string is empty or invalid.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return time.Time{} // Return zero time on parse error
	}
	return t
}
