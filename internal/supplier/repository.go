// AngelaMos | 2026
// repository.go

package supplier

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/billforge/internal/core"
)

type Repository interface {
	Create(ctx context.Context, supplier *Supplier) error
	GetByID(ctx context.Context, entityID, id string) (*Supplier, error)
	Update(ctx context.Context, supplier *Supplier) error
	UpdateStatus(ctx context.Context, entityID, id, status string) error
	Delete(ctx context.Context, entityID, id string) error
	List(ctx context.Context, entityID string, params ListSuppliersParams) ([]Supplier, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const supplierColumns = `id, entity_id, name, email, phone, tax_id,
	address, status, created_at, updated_at`

func (r *repository) Create(ctx context.Context, supplier *Supplier) error {
	query := `
		INSERT INTO suppliers (
			id, entity_id, name, email, phone, tax_id, address, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, supplier, query,
		supplier.ID,
		supplier.EntityID,
		supplier.Name,
		supplier.Email,
		supplier.Phone,
		supplier.TaxID,
		supplier.Address,
		supplier.Status,
	)
	if err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	entityID, id string,
) (*Supplier, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM suppliers
		WHERE id = $1 AND entity_id = $2`, supplierColumns)

	var supplier Supplier
	err := r.db.GetContext(ctx, &supplier, query, id, entityID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get supplier: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get supplier: %w", err)
	}

	return &supplier, nil
}

func (r *repository) Update(ctx context.Context, supplier *Supplier) error {
	query := `
		UPDATE suppliers
		SET name = $3, email = $4, phone = $5, tax_id = $6, address = $7,
		    updated_at = NOW()
		WHERE id = $1 AND entity_id = $2
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &supplier.UpdatedAt, query,
		supplier.ID,
		supplier.EntityID,
		supplier.Name,
		supplier.Email,
		supplier.Phone,
		supplier.TaxID,
		supplier.Address,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update supplier: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}

	return nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	entityID, id, status string,
) error {
	query := `
		UPDATE suppliers
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND entity_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, entityID, status)
	if err != nil {
		return fmt.Errorf("update supplier status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update supplier status: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update supplier status: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, entityID, id string) error {
	query := `DELETE FROM suppliers WHERE id = $1 AND entity_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, entityID)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete supplier: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	entityID string,
	params ListSuppliersParams,
) ([]Supplier, int, error) {
	params.Normalize()

	conditions := []string{"entity_id = $1"}
	args := []any{entityID}
	argIdx := 2

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM suppliers WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count suppliers: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM suppliers
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		supplierColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var suppliers []Supplier
	if err := r.db.SelectContext(ctx, &suppliers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list suppliers: %w", err)
	}

	return suppliers, total, nil
}
