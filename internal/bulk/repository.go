// AngelaMos | 2026
// repository.go

package bulk

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/billforge/internal/core"
)

type Repository interface {
	CreateJob(ctx context.Context, job *Job) error
	// GetJob is the tenant-scoped read used by the status endpoint.
	GetJob(ctx context.Context, entityID, id string) (*Job, error)
	// GetJobAny is the unscoped read used by the batch webhook, whose
	// caller is authenticated by signature rather than session.
	GetJobAny(ctx context.Context, id string) (*Job, error)
	GetJobStatus(ctx context.Context, id string) (string, error)
	// MarkRunning flips CREATED to RUNNING; a no-op once the job has
	// moved on, so concurrent batches can all call it safely.
	MarkRunning(ctx context.Context, id string) error
	// RecordRowOutcome inserts the per-row record and bumps the job
	// counters in one statement. A row already recorded under the same
	// (job, index) key leaves both untouched.
	RecordRowOutcome(ctx context.Context, outcome *RowOutcome) error
	// Finalize promotes a fully-processed job to its terminal status.
	// Jobs already terminal, or with rows still outstanding, are left
	// alone.
	Finalize(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
	// Cancel flips a non-terminal job to CANCELLED and reports
	// core.ErrConflict when the job already reached a terminal status.
	Cancel(ctx context.Context, entityID, id string) error
	ListRowErrors(ctx context.Context, jobID string) ([]RowError, error)
	ListJobs(ctx context.Context, entityID string, params ListJobsParams) ([]Job, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const jobColumns = `id, entity_id, template_id, file_name, status,
	total_rows, processed, succeeded, failed, submitted_by,
	created_at, updated_at`

func (r *repository) CreateJob(ctx context.Context, job *Job) error {
	query := `
		INSERT INTO bulk_jobs (
			id, entity_id, template_id, file_name, status, total_rows,
			submitted_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, job, query,
		job.ID,
		job.EntityID,
		job.TemplateID,
		job.FileName,
		job.Status,
		job.TotalRows,
		job.SubmittedBy,
	)
	if err != nil {
		return fmt.Errorf("create bulk job: %w", err)
	}

	return nil
}

func (r *repository) GetJob(
	ctx context.Context,
	entityID, id string,
) (*Job, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bulk_jobs
		WHERE id = $1 AND entity_id = $2`, jobColumns)

	var job Job
	err := r.db.GetContext(ctx, &job, query, id, entityID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get bulk job: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get bulk job: %w", err)
	}

	return &job, nil
}

func (r *repository) GetJobAny(ctx context.Context, id string) (*Job, error) {
	query := fmt.Sprintf(`SELECT %s FROM bulk_jobs WHERE id = $1`, jobColumns)

	var job Job
	err := r.db.GetContext(ctx, &job, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get bulk job: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get bulk job: %w", err)
	}

	return &job, nil
}

func (r *repository) GetJobStatus(ctx context.Context, id string) (string, error) {
	var status string
	err := r.db.GetContext(ctx, &status,
		`SELECT status FROM bulk_jobs WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get bulk job status: %w", core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get bulk job status: %w", err)
	}

	return status, nil
}

func (r *repository) MarkRunning(ctx context.Context, id string) error {
	query := `
		UPDATE bulk_jobs
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3`

	_, err := r.db.ExecContext(ctx, query, id, StatusRunning, StatusCreated)
	if err != nil {
		return fmt.Errorf("mark bulk job running: %w", err)
	}

	return nil
}

// The insert and the counter bump share one statement: the CTE only
// yields a row when the outcome was newly inserted, so a redelivered
// row cannot double-count.
func (r *repository) RecordRowOutcome(
	ctx context.Context,
	outcome *RowOutcome,
) error {
	query := `
		WITH inserted AS (
			INSERT INTO bulk_job_rows (
				job_id, row_index, success, error, artifact_url
			)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (job_id, row_index) DO NOTHING
			RETURNING 1
		)
		UPDATE bulk_jobs
		SET processed = processed + 1,
		    succeeded = succeeded + CASE WHEN $3 THEN 1 ELSE 0 END,
		    failed    = failed    + CASE WHEN $3 THEN 0 ELSE 1 END,
		    updated_at = NOW()
		WHERE id = $1 AND EXISTS (SELECT 1 FROM inserted)`

	_, err := r.db.ExecContext(ctx, query,
		outcome.JobID,
		outcome.RowIndex,
		outcome.Success,
		outcome.Error,
		outcome.ArtifactURL,
	)
	if err != nil {
		return fmt.Errorf("record row outcome: %w", err)
	}

	return nil
}

func (r *repository) Finalize(ctx context.Context, id string) error {
	query := `
		UPDATE bulk_jobs
		SET status = CASE WHEN failed > 0 THEN $2 ELSE $3 END,
		    updated_at = NOW()
		WHERE id = $1
		  AND processed = total_rows
		  AND status IN ($4, $5)`

	_, err := r.db.ExecContext(ctx, query, id,
		StatusCompletedWithErrors, StatusCompleted,
		StatusCreated, StatusRunning)
	if err != nil {
		return fmt.Errorf("finalize bulk job: %w", err)
	}

	return nil
}

func (r *repository) MarkFailed(ctx context.Context, id string) error {
	query := `
		UPDATE bulk_jobs
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status IN ($3, $4)`

	_, err := r.db.ExecContext(ctx, query, id,
		StatusFailed, StatusCreated, StatusRunning)
	if err != nil {
		return fmt.Errorf("mark bulk job failed: %w", err)
	}

	return nil
}

func (r *repository) Cancel(ctx context.Context, entityID, id string) error {
	query := `
		UPDATE bulk_jobs
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND entity_id = $2 AND status IN ($4, $5)`

	result, err := r.db.ExecContext(ctx, query, id, entityID,
		StatusCancelled, StatusCreated, StatusRunning)
	if err != nil {
		return fmt.Errorf("cancel bulk job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("cancel bulk job: %w", err)
	}

	if rows == 0 {
		// Distinguish missing from already-terminal.
		if _, getErr := r.GetJob(ctx, entityID, id); getErr != nil {
			return getErr
		}
		return fmt.Errorf("cancel bulk job: %w", core.ErrConflict)
	}

	return nil
}

func (r *repository) ListRowErrors(
	ctx context.Context,
	jobID string,
) ([]RowError, error) {
	query := `
		SELECT row_index, error AS reason
		FROM bulk_job_rows
		WHERE job_id = $1 AND success = FALSE
		ORDER BY row_index`

	var rowErrors []RowError
	if err := r.db.SelectContext(ctx, &rowErrors, query, jobID); err != nil {
		return nil, fmt.Errorf("list row errors: %w", err)
	}

	return rowErrors, nil
}

func (r *repository) ListJobs(
	ctx context.Context,
	entityID string,
	params ListJobsParams,
) ([]Job, int, error) {
	params.Normalize()

	conditions := []string{"entity_id = $1"}
	args := []any{entityID}
	argIdx := 2

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM bulk_jobs WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count bulk jobs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM bulk_jobs
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		jobColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var jobs []Job
	if err := r.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list bulk jobs: %w", err)
	}

	return jobs, total, nil
}
