// AngelaMos | 2026
// job.go

package bulk

import (
	"time"
)

// Job tracks one spreadsheet-to-invoices run. Counters only ever move
// forward; once a job reaches a terminal status it never leaves it.
type Job struct {
	ID          string    `db:"id"`
	EntityID    string    `db:"entity_id"`
	TemplateID  string    `db:"template_id"`
	FileName    string    `db:"file_name"`
	Status      string    `db:"status"`
	TotalRows   int       `db:"total_rows"`
	Processed   int       `db:"processed"`
	Succeeded   int       `db:"succeeded"`
	Failed      int       `db:"failed"`
	SubmittedBy string    `db:"submitted_by"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

const (
	StatusCreated             = "CREATED"
	StatusRunning             = "RUNNING"
	StatusCompleted           = "COMPLETED"
	StatusCompletedWithErrors = "COMPLETED_WITH_ERRORS"
	StatusFailed              = "FAILED"
	StatusCancelled           = "CANCELLED"
)

// IsTerminal reports whether the status can never change again.
func IsTerminal(status string) bool {
	switch status {
	case StatusCompleted, StatusCompletedWithErrors, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// DeriveFinal computes the terminal status once every row is accounted
// for. It must only be consulted when processed == total.
func DeriveFinal(failed int) string {
	if failed > 0 {
		return StatusCompletedWithErrors
	}
	return StatusCompleted
}

// RowOutcome is the durable per-row record. The (JobID, RowIndex) pair
// is unique, which is what makes redelivered batches harmless.
type RowOutcome struct {
	JobID       string    `db:"job_id"`
	RowIndex    int       `db:"row_index"`
	Success     bool      `db:"success"`
	Error       string    `db:"error"`
	ArtifactURL string    `db:"artifact_url"`
	CreatedAt   time.Time `db:"created_at"`
}
