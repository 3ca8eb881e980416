// AngelaMos | 2026
// service.go

package bulk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/billforge/internal/config"
	"github.com/carterperez-dev/billforge/internal/core"
)

// TemplateInfo is the slice of a template the pipeline needs: the
// opaque design blob for the renderer and the field schema rows are
// checked against.
type TemplateInfo struct {
	ID     string
	Design json.RawMessage
	Fields []FieldSpec
}

type FieldSpec struct {
	Name     string
	Required bool
}

// TemplateProvider resolves a template within the job's tenant.
type TemplateProvider interface {
	GetTemplate(ctx context.Context, entityID, id string) (*TemplateInfo, error)
}

// InvoiceRecorder persists the invoice a successfully rendered row
// produced.
type InvoiceRecorder interface {
	RecordInvoice(
		ctx context.Context,
		job *Job,
		row Row,
		artifactURL string,
	) error
}

type Service struct {
	repo       Repository
	templates  TemplateProvider
	invoices   InvoiceRecorder
	dispatcher Dispatcher
	renderer   Renderer
	cfg        config.BulkConfig
	logger     *slog.Logger
}

func NewService(
	repo Repository,
	templates TemplateProvider,
	invoices InvoiceRecorder,
	dispatcher Dispatcher,
	renderer Renderer,
	cfg config.BulkConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:       repo,
		templates:  templates,
		invoices:   invoices,
		dispatcher: dispatcher,
		renderer:   renderer,
		cfg:        cfg,
		logger:     logger,
	}
}

// Submit validates the upload, persists the job, and hands the batches
// to the dispatch boundary. It returns as soon as the job row exists;
// rendering happens out of band.
func (s *Service) Submit(
	ctx context.Context,
	entityID, userID, templateID string,
	file io.Reader,
	fileName string,
) (*Job, error) {
	if _, err := s.templates.GetTemplate(ctx, entityID, templateID); err != nil {
		return nil, err
	}

	rows, err := ParseRows(file, fileName, s.cfg.MaxRows)
	if err != nil {
		return nil, err
	}

	job := &Job{
		ID:          uuid.New().String(),
		EntityID:    entityID,
		TemplateID:  templateID,
		FileName:    fileName,
		Status:      StatusCreated,
		TotalRows:   len(rows),
		SubmittedBy: userID,
	}

	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	batches := partition(rows, s.cfg.BatchSize)
	go s.dispatchBatches(context.WithoutCancel(ctx), job.ID, batches)

	return job, nil
}

func (s *Service) dispatchBatches(
	ctx context.Context,
	jobID string,
	batches [][]Row,
) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	failures := 0
	for i, batch := range batches {
		payload := BatchPayload{JobID: jobID, BatchIndex: i, Rows: batch}
		if err := s.dispatcher.Dispatch(ctx, payload); err != nil {
			failures++
			s.logger.Error("batch dispatch failed",
				"job_id", jobID,
				"batch_index", i,
				"error", err,
			)
		}
	}

	// Losing every batch means no worker will ever touch the job; the
	// failure is not attributable to any row.
	if failures == len(batches) {
		if err := s.repo.MarkFailed(ctx, jobID); err != nil {
			s.logger.Error("mark job failed",
				"job_id", jobID,
				"error", err,
			)
		}
	}
}

// ProcessBatch is the webhook-side worker. Deliveries may repeat and
// arrive in any order; the per-row outcome key absorbs both. A row
// failure never aborts the batch, only storage errors do.
func (s *Service) ProcessBatch(ctx context.Context, payload BatchPayload) error {
	job, err := s.repo.GetJobAny(ctx, payload.JobID)
	if err != nil {
		return err
	}

	if IsTerminal(job.Status) {
		return nil
	}

	if err := s.repo.MarkRunning(ctx, job.ID); err != nil {
		return err
	}

	tmpl, err := s.templates.GetTemplate(ctx, job.EntityID, job.TemplateID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			s.logger.Error("template missing for job", "job_id", job.ID)
			return s.repo.MarkFailed(ctx, job.ID)
		}
		return err
	}

	for _, row := range payload.Rows {
		// Check-before-render: a cancel observed here stops the rest of
		// the batch without any coordination beyond reading the status.
		status, err := s.repo.GetJobStatus(ctx, job.ID)
		if err != nil {
			return err
		}
		if status == StatusCancelled {
			return nil
		}

		if err := s.processRow(ctx, job, tmpl, row); err != nil {
			return err
		}
	}

	return s.repo.Finalize(ctx, job.ID)
}

func (s *Service) processRow(
	ctx context.Context,
	job *Job,
	tmpl *TemplateInfo,
	row Row,
) error {
	if reason := validateRow(tmpl.Fields, row); reason != "" {
		return s.repo.RecordRowOutcome(ctx, &RowOutcome{
			JobID:    job.ID,
			RowIndex: row.Index,
			Success:  false,
			Error:    reason,
		})
	}

	artifactURL, err := s.renderer.Render(ctx, tmpl.Design, row.Fields)
	if err != nil {
		var renderErr *RenderError
		if errors.As(err, &renderErr) {
			return s.repo.RecordRowOutcome(ctx, &RowOutcome{
				JobID:    job.ID,
				RowIndex: row.Index,
				Success:  false,
				Error:    renderErr.Reason,
			})
		}
		return s.repo.RecordRowOutcome(ctx, &RowOutcome{
			JobID:    job.ID,
			RowIndex: row.Index,
			Success:  false,
			Error:    err.Error(),
		})
	}

	err = s.invoices.RecordInvoice(ctx, job, row, artifactURL)
	if err != nil {
		return s.repo.RecordRowOutcome(ctx, &RowOutcome{
			JobID:    job.ID,
			RowIndex: row.Index,
			Success:  false,
			Error:    fmt.Sprintf("store invoice: %v", err),
		})
	}

	return s.repo.RecordRowOutcome(ctx, &RowOutcome{
		JobID:       job.ID,
		RowIndex:    row.Index,
		Success:     true,
		ArtifactURL: artifactURL,
	})
}

// GetStatus is tenant-scoped; a job belonging to another tenant reads
// as missing.
func (s *Service) GetStatus(
	ctx context.Context,
	entityID, jobID string,
) (*Job, []RowError, error) {
	job, err := s.repo.GetJob(ctx, entityID, jobID)
	if err != nil {
		return nil, nil, err
	}

	rowErrors, err := s.repo.ListRowErrors(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}

	return job, rowErrors, nil
}

func (s *Service) Cancel(ctx context.Context, entityID, jobID string) (*Job, error) {
	if err := s.repo.Cancel(ctx, entityID, jobID); err != nil {
		return nil, err
	}
	return s.repo.GetJob(ctx, entityID, jobID)
}

func (s *Service) List(
	ctx context.Context,
	entityID string,
	params ListJobsParams,
) ([]Job, int, error) {
	return s.repo.ListJobs(ctx, entityID, params)
}

func validateRow(specs []FieldSpec, row Row) string {
	for _, spec := range specs {
		if !spec.Required {
			continue
		}
		if row.Fields[spec.Name] == "" {
			return "missing required field: " + spec.Name
		}
	}
	return ""
}

func partition(rows []Row, size int) [][]Row {
	if size < 1 {
		size = 1
	}

	var batches [][]Row
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		batches = append(batches, rows[start:end])
	}

	return batches
}
