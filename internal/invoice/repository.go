// AngelaMos | 2026
// repository.go

package invoice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carterperez-dev/billforge/internal/core"
)

type Repository interface {
	Create(ctx context.Context, invoice *Invoice) error
	GetByID(ctx context.Context, entityID, id string) (*Invoice, error)
	UpdateStatus(ctx context.Context, entityID, id, status string) error
	SetArtifactURL(ctx context.Context, entityID, id, url string) error
	List(ctx context.Context, entityID string, params ListInvoicesParams) ([]Invoice, int, error)
	// CountByStatus powers the tenant dashboard.
	CountByStatus(ctx context.Context, entityID string) (map[string]int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const invoiceColumns = `id, entity_id, supplier_id, template_id, number,
	amount_cents, currency, status, due_date, fields, artifact_url,
	created_at, updated_at`

func (r *repository) Create(ctx context.Context, invoice *Invoice) error {
	query := `
		INSERT INTO invoices (
			id, entity_id, supplier_id, template_id, number,
			amount_cents, currency, status, due_date, fields, artifact_url
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, invoice, query,
		invoice.ID,
		invoice.EntityID,
		invoice.SupplierID,
		invoice.TemplateID,
		invoice.Number,
		invoice.AmountCents,
		invoice.Currency,
		invoice.Status,
		invoice.DueDate,
		invoice.Fields,
		invoice.ArtifactURL,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("create invoice: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create invoice: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	entityID, id string,
) (*Invoice, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM invoices
		WHERE id = $1 AND entity_id = $2`, invoiceColumns)

	var invoice Invoice
	err := r.db.GetContext(ctx, &invoice, query, id, entityID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get invoice: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	return &invoice, nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	entityID, id, status string,
) error {
	query := `
		UPDATE invoices
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND entity_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, entityID, status)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update invoice status: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) SetArtifactURL(
	ctx context.Context,
	entityID, id, url string,
) error {
	query := `
		UPDATE invoices
		SET artifact_url = $3, updated_at = NOW()
		WHERE id = $1 AND entity_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, entityID, url)
	if err != nil {
		return fmt.Errorf("set invoice artifact: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set invoice artifact: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("set invoice artifact: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	entityID string,
	params ListInvoicesParams,
) ([]Invoice, int, error) {
	params.Normalize()

	conditions := []string{"entity_id = $1"}
	args := []any{entityID}
	argIdx := 2

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	if params.SupplierID != "" {
		conditions = append(conditions, fmt.Sprintf("supplier_id = $%d", argIdx))
		args = append(args, params.SupplierID)
		argIdx++
	}

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf("number ILIKE $%d", argIdx))
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM invoices WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM invoices
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		invoiceColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var invoices []Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}

	return invoices, total, nil
}

func (r *repository) CountByStatus(
	ctx context.Context,
	entityID string,
) (map[string]int, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM invoices
		WHERE entity_id = $1
		GROUP BY status`

	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, entityID); err != nil {
		return nil, fmt.Errorf("count invoices by status: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
