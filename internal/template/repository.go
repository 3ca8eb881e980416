// AngelaMos | 2026
// repository.go

package template

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/billforge/internal/core"
)

type Repository interface {
	Create(ctx context.Context, template *Template) error
	GetByID(ctx context.Context, entityID, id string) (*Template, error)
	Update(ctx context.Context, template *Template) error
	Delete(ctx context.Context, entityID, id string) error
	List(ctx context.Context, entityID string, params ListTemplatesParams) ([]Template, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const templateColumns = `id, entity_id, name, description, fields,
	design, active, created_at, updated_at`

func (r *repository) Create(ctx context.Context, template *Template) error {
	query := `
		INSERT INTO invoice_templates (
			id, entity_id, name, description, fields, design, active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, template, query,
		template.ID,
		template.EntityID,
		template.Name,
		template.Description,
		template.Fields,
		template.Design,
		template.Active,
	)
	if err != nil {
		return fmt.Errorf("create template: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	entityID, id string,
) (*Template, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM invoice_templates
		WHERE id = $1 AND entity_id = $2`, templateColumns)

	var template Template
	err := r.db.GetContext(ctx, &template, query, id, entityID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get template: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}

	return &template, nil
}

func (r *repository) Update(ctx context.Context, template *Template) error {
	query := `
		UPDATE invoice_templates
		SET name = $3, description = $4, fields = $5, design = $6,
		    active = $7, updated_at = NOW()
		WHERE id = $1 AND entity_id = $2
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &template.UpdatedAt, query,
		template.ID,
		template.EntityID,
		template.Name,
		template.Description,
		template.Fields,
		template.Design,
		template.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update template: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, entityID, id string) error {
	query := `DELETE FROM invoice_templates WHERE id = $1 AND entity_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, entityID)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete template: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	entityID string,
	params ListTemplatesParams,
) ([]Template, int, error) {
	params.Normalize()

	conditions := []string{"entity_id = $1"}
	args := []any{entityID}
	argIdx := 2

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIdx))
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM invoice_templates WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count templates: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM invoice_templates
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		templateColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var templates []Template
	if err := r.db.SelectContext(ctx, &templates, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list templates: %w", err)
	}

	return templates, total, nil
}
