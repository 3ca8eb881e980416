// AngelaMos | 2026
// adapters.go

package bulk

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/carterperez-dev/billforge/internal/invoice"
	"github.com/carterperez-dev/billforge/internal/template"
)

// TemplateAdapter narrows the template service down to what the
// pipeline needs.
type TemplateAdapter struct {
	Templates *template.Service
}

func (a *TemplateAdapter) GetTemplate(
	ctx context.Context,
	entityID, id string,
) (*TemplateInfo, error) {
	tmpl, err := a.Templates.Get(ctx, entityID, id)
	if err != nil {
		return nil, err
	}

	fields, err := tmpl.ParseFields()
	if err != nil {
		return nil, err
	}

	specs := make([]FieldSpec, 0, len(fields))
	for _, f := range fields {
		specs = append(specs, FieldSpec{Name: f.Name, Required: f.Required})
	}

	return &TemplateInfo{
		ID:     tmpl.ID,
		Design: tmpl.Design,
		Fields: specs,
	}, nil
}

// InvoiceAdapter turns a rendered row into an invoice record. Rows may
// carry invoice_number, amount_cents, currency, supplier_id and
// due_date columns; anything missing falls back to a neutral default.
type InvoiceAdapter struct {
	Invoices *invoice.Service
}

func (a *InvoiceAdapter) RecordInvoice(
	ctx context.Context,
	job *Job,
	row Row,
	artifactURL string,
) error {
	fields, err := json.Marshal(row.Fields)
	if err != nil {
		return fmt.Errorf("encode row fields: %w", err)
	}

	req := invoice.CreateInvoiceRequest{
		TemplateID:  job.TemplateID,
		Number:      row.Fields["invoice_number"],
		Currency:    row.Fields["currency"],
		SupplierID:  row.Fields["supplier_id"],
		AmountCents: parseAmountCents(row.Fields["amount_cents"]),
		Fields:      fields,
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}
	if req.Number == "" {
		req.Number = fmt.Sprintf("BLK-%s-%04d", shortID(job.ID), row.Index)
	}
	if due := row.Fields["due_date"]; due != "" {
		if t, err := time.Parse("2006-01-02", due); err == nil {
			req.DueDate = &t
		}
	}

	created, err := a.Invoices.Create(ctx, job.EntityID, req)
	if err != nil {
		return err
	}

	return a.Invoices.SetArtifactURL(ctx, job.EntityID, created.ID, artifactURL)
}

func parseAmountCents(raw string) int64 {
	cents, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return cents
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var (
	_ TemplateProvider = (*TemplateAdapter)(nil)
	_ InvoiceRecorder  = (*InvoiceAdapter)(nil)
)
