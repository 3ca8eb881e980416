// AngelaMos | 2026
// repository.go

package entity

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
	Create(ctx context.Context, entity *Entity) error
	GetByID(ctx context.Context, id string) (*Entity, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*Entity, error)
	Update(ctx context.Context, entity *Entity) error
	UpdateStatus(ctx context.Context, id, status string) error
	// Delete removes the entity row; dependent users, suppliers,
	// invoices, templates and jobs go with it via ON DELETE CASCADE.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListEntitiesParams) ([]Entity, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entity *Entity) error {
	query := `
		INSERT INTO entities (
			id, name, subdomain, status, theme_color, logo_url,
			business_type, contact_email, contact_phone, address
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, entity, query,
		entity.ID,
		entity.Name,
		entity.Subdomain,
		entity.Status,
		entity.ThemeColor,
		entity.LogoURL,
		entity.BusinessType,
		entity.ContactEmail,
		entity.ContactPhone,
		entity.Address,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create entity: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create entity: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Entity, error) {
	query := `
		SELECT id, name, subdomain, status, theme_color, logo_url,
		       business_type, contact_email, contact_phone, address,
		       created_at, updated_at
		FROM entities
		WHERE id = $1`

	var entity Entity
	err := r.db.GetContext(ctx, &entity, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get entity: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get entity: %w", err)
	}

	return &entity, nil
}

func (r *repository) GetBySubdomain(
	ctx context.Context,
	subdomain string,
) (*Entity, error) {
	query := `
		SELECT id, name, subdomain, status, theme_color, logo_url,
		       business_type, contact_email, contact_phone, address,
		       created_at, updated_at
		FROM entities
		WHERE subdomain = $1`

	var entity Entity
	err := r.db.GetContext(ctx, &entity, query, strings.ToLower(subdomain))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get entity by subdomain: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get entity by subdomain: %w", err)
	}

	return &entity, nil
}

func (r *repository) Update(ctx context.Context, entity *Entity) error {
	query := `
		UPDATE entities
		SET name = $2, theme_color = $3, logo_url = $4, business_type = $5,
		    contact_email = $6, contact_phone = $7, address = $8,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &entity.UpdatedAt, query,
		entity.ID,
		entity.Name,
		entity.ThemeColor,
		entity.LogoURL,
		entity.BusinessType,
		entity.ContactEmail,
		entity.ContactPhone,
		entity.Address,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update entity: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update entity: %w", err)
	}

	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE entities
		SET status = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update entity status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update entity status: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update entity status: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM entities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete entity: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entity: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete entity: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListEntitiesParams,
) ([]Entity, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "TRUE")

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR subdomain ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM entities WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count entities: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, subdomain, status, theme_color, logo_url,
		       business_type, contact_email, contact_phone, address,
		       created_at, updated_at
		FROM entities
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var entities []Entity
	if err := r.db.SelectContext(ctx, &entities, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list entities: %w", err)
	}

	return entities, total, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
