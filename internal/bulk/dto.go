// AngelaMos | 2026
// dto.go

package bulk

import (
	"time"
)

// Row is one parsed record of the uploaded spreadsheet. Index is the
// zero-based position in the input and is stable across redeliveries.
type Row struct {
	Index  int               `json:"index"`
	Fields map[string]string `json:"fields"`
}

// BatchPayload is the body the dispatch boundary posts back to the
// batch webhook. It carries the rows themselves so processing needs no
// row storage beyond outcomes.
type BatchPayload struct {
	JobID      string `json:"job_id"      validate:"required,uuid4"`
	BatchIndex int    `json:"batch_index" validate:"gte=0"`
	Rows       []Row  `json:"rows"        validate:"required,min=1"`
}

type JobResponse struct {
	ID         string     `json:"id"`
	TemplateID string     `json:"template_id"`
	FileName   string     `json:"file_name"`
	Status     string     `json:"status"`
	TotalRows  int        `json:"total_rows"`
	Processed  int        `json:"processed"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	Errors     []RowError `json:"errors,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type RowError struct {
	RowIndex int    `db:"row_index" json:"row_index"`
	Reason   string `db:"reason"    json:"reason"`
}

type ListJobsParams struct {
	Page     int
	PageSize int
	Status   string
}

func (p *ListJobsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListJobsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToJobResponse(job *Job, rowErrors []RowError) JobResponse {
	return JobResponse{
		ID:         job.ID,
		TemplateID: job.TemplateID,
		FileName:   job.FileName,
		Status:     job.Status,
		TotalRows:  job.TotalRows,
		Processed:  job.Processed,
		Succeeded:  job.Succeeded,
		Failed:     job.Failed,
		Errors:     rowErrors,
		CreatedAt:  job.CreatedAt,
		UpdatedAt:  job.UpdatedAt,
	}
}

func ToJobResponseList(jobs []Job) []JobResponse {
	responses := make([]JobResponse, 0, len(jobs))
	for _, job := range jobs {
		responses = append(responses, ToJobResponse(&job, nil))
	}
	return responses
}
