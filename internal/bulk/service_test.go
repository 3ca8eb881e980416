// AngelaMos | 2026
// service_test.go

package bulk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/billforge/internal/config"
	"github.com/carterperez-dev/billforge/internal/core"
)

type fakeRepo struct {
	mu       sync.Mutex
	jobs     map[string]*Job
	outcomes map[string]map[int]*RowOutcome
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		jobs:     make(map[string]*Job),
		outcomes: make(map[string]map[int]*RowOutcome),
	}
}

func (f *fakeRepo) CreateJob(_ context.Context, job *Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *job
	f.jobs[job.ID] = &copied
	return nil
}

func (f *fakeRepo) GetJob(_ context.Context, entityID, id string) (*Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok || job.EntityID != entityID {
		return nil, fmt.Errorf("get bulk job: %w", core.ErrNotFound)
	}
	copied := *job
	return &copied, nil
}

func (f *fakeRepo) GetJobAny(_ context.Context, id string) (*Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return nil, fmt.Errorf("get bulk job: %w", core.ErrNotFound)
	}
	copied := *job
	return &copied, nil
}

func (f *fakeRepo) GetJobStatus(_ context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return "", fmt.Errorf("get bulk job status: %w", core.ErrNotFound)
	}
	return job.Status, nil
}

func (f *fakeRepo) MarkRunning(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if job, ok := f.jobs[id]; ok && job.Status == StatusCreated {
		job.Status = StatusRunning
	}
	return nil
}

func (f *fakeRepo) RecordRowOutcome(_ context.Context, outcome *RowOutcome) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rows, ok := f.outcomes[outcome.JobID]
	if !ok {
		rows = make(map[int]*RowOutcome)
		f.outcomes[outcome.JobID] = rows
	}

	if _, exists := rows[outcome.RowIndex]; exists {
		return nil
	}

	copied := *outcome
	rows[outcome.RowIndex] = &copied

	job := f.jobs[outcome.JobID]
	job.Processed++
	if outcome.Success {
		job.Succeeded++
	} else {
		job.Failed++
	}
	return nil
}

func (f *fakeRepo) Finalize(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return nil
	}
	if job.Processed != job.TotalRows {
		return nil
	}
	if job.Status != StatusCreated && job.Status != StatusRunning {
		return nil
	}
	job.Status = DeriveFinal(job.Failed)
	return nil
}

func (f *fakeRepo) MarkFailed(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if job, ok := f.jobs[id]; ok {
		if job.Status == StatusCreated || job.Status == StatusRunning {
			job.Status = StatusFailed
		}
	}
	return nil
}

func (f *fakeRepo) Cancel(_ context.Context, entityID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok || job.EntityID != entityID {
		return fmt.Errorf("cancel bulk job: %w", core.ErrNotFound)
	}
	if job.Status != StatusCreated && job.Status != StatusRunning {
		return fmt.Errorf("cancel bulk job: %w", core.ErrConflict)
	}
	job.Status = StatusCancelled
	return nil
}

func (f *fakeRepo) ListRowErrors(_ context.Context, jobID string) ([]RowError, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rowErrors []RowError
	for _, outcome := range f.outcomes[jobID] {
		if !outcome.Success {
			rowErrors = append(rowErrors, RowError{
				RowIndex: outcome.RowIndex,
				Reason:   outcome.Error,
			})
		}
	}
	return rowErrors, nil
}

func (f *fakeRepo) ListJobs(
	_ context.Context,
	entityID string,
	_ ListJobsParams,
) ([]Job, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var jobs []Job
	for _, job := range f.jobs {
		if job.EntityID == entityID {
			jobs = append(jobs, *job)
		}
	}
	return jobs, len(jobs), nil
}

type fakeTemplates struct {
	info *TemplateInfo
}

func (f *fakeTemplates) GetTemplate(
	_ context.Context,
	_, id string,
) (*TemplateInfo, error) {
	if f.info == nil || f.info.ID != id {
		return nil, fmt.Errorf("get template: %w", core.ErrNotFound)
	}
	return f.info, nil
}

type fakeDispatcher struct {
	mu       sync.Mutex
	payloads []BatchPayload
	err      error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, payload BatchPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakeDispatcher) dispatched() []BatchPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]BatchPayload(nil), f.payloads...)
}

type fakeRenderer struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeRenderer) Render(
	_ context.Context,
	_ json.RawMessage,
	fields map[string]string,
) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if fields["explode"] == "true" {
		return "", &RenderError{Reason: "renderer exploded"}
	}
	return "https://cdn.test/artifacts/" + fields["name"] + ".pdf", nil
}

func (f *fakeRenderer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeInvoices struct {
	mu      sync.Mutex
	records int
}

func (f *fakeInvoices) RecordInvoice(
	_ context.Context,
	_ *Job,
	_ Row,
	_ string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records++
	return nil
}

type fixture struct {
	service    *Service
	repo       *fakeRepo
	dispatcher *fakeDispatcher
	renderer   *fakeRenderer
	invoices   *fakeInvoices
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newFakeRepo()
	dispatcher := &fakeDispatcher{}
	renderer := &fakeRenderer{}
	invoices := &fakeInvoices{}
	templates := &fakeTemplates{info: &TemplateInfo{
		ID:     "tmpl-1",
		Design: json.RawMessage(`{"layout":"classic"}`),
		Fields: []FieldSpec{
			{Name: "name", Required: true},
			{Name: "amount_cents", Required: false},
		},
	}}

	service := NewService(
		repo,
		templates,
		invoices,
		dispatcher,
		renderer,
		config.BulkConfig{BatchSize: 2, MaxRows: 100},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	return &fixture{
		service:    service,
		repo:       repo,
		dispatcher: dispatcher,
		renderer:   renderer,
		invoices:   invoices,
	}
}

func seedJob(f *fixture, total int) *Job {
	job := &Job{
		ID:         "5f0c1a3e-1b2d-4c3e-8f4a-9b8c7d6e5f4a",
		EntityID:   "entity-1",
		TemplateID: "tmpl-1",
		Status:     StatusCreated,
		TotalRows:  total,
	}
	_ = f.repo.CreateJob(context.Background(), job)
	return job
}

func TestSubmitPartitionsAndDispatches(t *testing.T) {
	f := newFixture(t)

	csv := "name,amount_cents\nalpha,100\nbeta,200\ngamma,300\n"
	job, err := f.service.Submit(
		context.Background(),
		"entity-1", "user-1", "tmpl-1",
		strings.NewReader(csv), "upload.csv",
	)
	require.NoError(t, err)

	assert.Equal(t, StatusCreated, job.Status)
	assert.Equal(t, 3, job.TotalRows)

	// Batch size 2: expect batches of 2 and 1, delivered out of band.
	require.Eventually(t, func() bool {
		return len(f.dispatcher.dispatched()) == 2
	}, time.Second, 10*time.Millisecond)

	payloads := f.dispatcher.dispatched()
	assert.Equal(t, job.ID, payloads[0].JobID)
	assert.Len(t, payloads[0].Rows, 2)
	assert.Len(t, payloads[1].Rows, 1)
	assert.Equal(t, "gamma", payloads[1].Rows[0].Fields["name"])
	assert.Equal(t, 2, payloads[1].Rows[0].Index)
}

func TestSubmitRejectsBadInput(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		fileName string
		body     string
	}{
		{"empty file", "upload.csv", ""},
		{"header only", "upload.csv", "name,amount_cents\n"},
		{"unsupported extension", "upload.pdf", "name\nalpha\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Submit(
				context.Background(),
				"entity-1", "user-1", "tmpl-1",
				strings.NewReader(tt.body), tt.fileName,
			)
			require.Error(t, err)
			assert.True(t, core.IsAppError(err))
		})
	}
}

func TestSubmitRowCeiling(t *testing.T) {
	f := newFixture(t)

	var sb strings.Builder
	sb.WriteString("name\n")
	for i := 0; i < 101; i++ {
		fmt.Fprintf(&sb, "row-%d\n", i)
	}

	_, err := f.service.Submit(
		context.Background(),
		"entity-1", "user-1", "tmpl-1",
		strings.NewReader(sb.String()), "upload.csv",
	)
	require.Error(t, err)
	assert.True(t, core.IsAppError(err))
}

func TestSubmitUnknownTemplate(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Submit(
		context.Background(),
		"entity-1", "user-1", "tmpl-missing",
		strings.NewReader("name\nalpha\n"), "upload.csv",
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestSubmitDispatchFailureMarksJobFailed(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.err = errors.New("boundary unreachable")

	job, err := f.service.Submit(
		context.Background(),
		"entity-1", "user-1", "tmpl-1",
		strings.NewReader("name\nalpha\n"), "upload.csv",
	)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		status, _ := f.repo.GetJobStatus(context.Background(), job.ID)
		return status == StatusFailed
	}, time.Second, 10*time.Millisecond)
}

func TestProcessBatchThreeRowScenario(t *testing.T) {
	f := newFixture(t)
	job := seedJob(f, 3)

	// Row index 2 is missing the required "name" field.
	payload := BatchPayload{
		JobID:      job.ID,
		BatchIndex: 0,
		Rows: []Row{
			{Index: 0, Fields: map[string]string{"name": "alpha"}},
			{Index: 1, Fields: map[string]string{"name": "beta"}},
			{Index: 2, Fields: map[string]string{"name": ""}},
		},
	}

	require.NoError(t, f.service.ProcessBatch(context.Background(), payload))

	stored, err := f.repo.GetJobAny(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Processed)
	assert.Equal(t, 2, stored.Succeeded)
	assert.Equal(t, 1, stored.Failed)
	assert.Equal(t, StatusCompletedWithErrors, stored.Status)

	rowErrors, err := f.repo.ListRowErrors(context.Background(), job.ID)
	require.NoError(t, err)
	require.Len(t, rowErrors, 1)
	assert.Equal(t, 2, rowErrors[0].RowIndex)
	assert.Contains(t, rowErrors[0].Reason, "name")
}

func TestProcessBatchAllRowsSucceed(t *testing.T) {
	f := newFixture(t)
	job := seedJob(f, 2)

	payload := BatchPayload{
		JobID: job.ID,
		Rows: []Row{
			{Index: 0, Fields: map[string]string{"name": "alpha"}},
			{Index: 1, Fields: map[string]string{"name": "beta"}},
		},
	}

	require.NoError(t, f.service.ProcessBatch(context.Background(), payload))

	stored, err := f.repo.GetJobAny(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, stored.Status)
	assert.Equal(t, 2, f.invoices.records)
}

func TestProcessBatchIdempotentRedelivery(t *testing.T) {
	f := newFixture(t)
	job := seedJob(f, 3)

	payload := BatchPayload{
		JobID: job.ID,
		Rows: []Row{
			{Index: 0, Fields: map[string]string{"name": "alpha"}},
			{Index: 1, Fields: map[string]string{"name": ""}},
		},
	}

	require.NoError(t, f.service.ProcessBatch(context.Background(), payload))
	require.NoError(t, f.service.ProcessBatch(context.Background(), payload))

	stored, err := f.repo.GetJobAny(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Processed)
	assert.Equal(t, 1, stored.Succeeded)
	assert.Equal(t, 1, stored.Failed)
	assert.Equal(t, StatusRunning, stored.Status)
}

func TestProcessBatchOutOfOrderBatches(t *testing.T) {
	f := newFixture(t)
	job := seedJob(f, 3)

	second := BatchPayload{
		JobID:      job.ID,
		BatchIndex: 1,
		Rows:       []Row{{Index: 2, Fields: map[string]string{"name": "gamma"}}},
	}
	first := BatchPayload{
		JobID:      job.ID,
		BatchIndex: 0,
		Rows: []Row{
			{Index: 0, Fields: map[string]string{"name": "alpha"}},
			{Index: 1, Fields: map[string]string{"name": "beta"}},
		},
	}

	require.NoError(t, f.service.ProcessBatch(context.Background(), second))

	stored, err := f.repo.GetJobAny(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, stored.Status)

	require.NoError(t, f.service.ProcessBatch(context.Background(), first))

	stored, err = f.repo.GetJobAny(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, stored.Status)
	assert.Equal(t, 3, stored.Processed)
}

func TestProcessBatchCancelledJobShortCircuits(t *testing.T) {
	f := newFixture(t)
	job := seedJob(f, 2)
	require.NoError(t, f.repo.Cancel(context.Background(), "entity-1", job.ID))

	payload := BatchPayload{
		JobID: job.ID,
		Rows: []Row{
			{Index: 0, Fields: map[string]string{"name": "alpha"}},
			{Index: 1, Fields: map[string]string{"name": "beta"}},
		},
	}

	require.NoError(t, f.service.ProcessBatch(context.Background(), payload))

	stored, err := f.repo.GetJobAny(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status)
	assert.Equal(t, 0, stored.Processed)
	assert.Equal(t, 0, f.renderer.callCount())
}

func TestProcessBatchRenderFailureIsRowLevel(t *testing.T) {
	f := newFixture(t)
	job := seedJob(f, 2)

	payload := BatchPayload{
		JobID: job.ID,
		Rows: []Row{
			{Index: 0, Fields: map[string]string{"name": "alpha", "explode": "true"}},
			{Index: 1, Fields: map[string]string{"name": "beta"}},
		},
	}

	require.NoError(t, f.service.ProcessBatch(context.Background(), payload))

	stored, err := f.repo.GetJobAny(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Failed)
	assert.Equal(t, 1, stored.Succeeded)
	assert.Equal(t, StatusCompletedWithErrors, stored.Status)

	rowErrors, err := f.repo.ListRowErrors(context.Background(), job.ID)
	require.NoError(t, err)
	require.Len(t, rowErrors, 1)
	assert.Equal(t, "renderer exploded", rowErrors[0].Reason)
}

func TestGetStatusIsTenantScoped(t *testing.T) {
	f := newFixture(t)
	job := seedJob(f, 1)

	_, _, err := f.service.GetStatus(context.Background(), "entity-2", job.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNotFound))

	got, _, err := f.service.GetStatus(context.Background(), "entity-1", job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
}

func TestCancelTerminalJobConflicts(t *testing.T) {
	f := newFixture(t)
	job := seedJob(f, 1)

	payload := BatchPayload{
		JobID: job.ID,
		Rows:  []Row{{Index: 0, Fields: map[string]string{"name": "alpha"}}},
	}
	require.NoError(t, f.service.ProcessBatch(context.Background(), payload))

	_, err := f.service.Cancel(context.Background(), "entity-1", job.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConflict))
}
