// AngelaMos | 2026
// repository.go

package registration

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
	Create(ctx context.Context, request *Request) error
	GetByID(ctx context.Context, id string) (*Request, error)
	// MarkApproved flips a PENDING request to APPROVED; it reports
	// core.ErrConflict when the request already left PENDING.
	MarkApproved(ctx context.Context, db core.DBTX, id, reviewedBy, entityID string) error
	MarkDeclined(ctx context.Context, id, reviewedBy, reason string) error
	List(ctx context.Context, params ListRequestsParams) ([]Request, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const requestColumns = `id, company_name, subdomain, business_type,
	contact_name, contact_email, contact_phone, address, status,
	reviewed_by, reviewed_at, decline_reason, entity_id,
	created_at, updated_at`

func (r *repository) Create(ctx context.Context, request *Request) error {
	query := `
		INSERT INTO registration_requests (
			id, company_name, subdomain, business_type, contact_name,
			contact_email, contact_phone, address, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, request, query,
		request.ID,
		request.CompanyName,
		strings.ToLower(request.Subdomain),
		request.BusinessType,
		request.ContactName,
		request.ContactEmail,
		request.ContactPhone,
		request.Address,
		StatusPending,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("create registration request: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create registration request: %w", err)
	}

	request.Status = StatusPending
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Request, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM registration_requests WHERE id = $1`,
		requestColumns,
	)

	var request Request
	err := r.db.GetContext(ctx, &request, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get registration request: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get registration request: %w", err)
	}

	return &request, nil
}

// MarkApproved takes the executor as a parameter so the caller can run
// it inside the same transaction that creates the entity and its owner.
func (r *repository) MarkApproved(
	ctx context.Context,
	db core.DBTX,
	id, reviewedBy, entityID string,
) error {
	query := `
		UPDATE registration_requests
		SET status = $2, reviewed_by = $3, reviewed_at = NOW(),
		    entity_id = $4, updated_at = NOW()
		WHERE id = $1 AND status = $5`

	result, err := db.ExecContext(ctx, query,
		id, StatusApproved, reviewedBy, entityID, StatusPending)
	if err != nil {
		return fmt.Errorf("approve registration request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("approve registration request: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("approve registration request: %w", core.ErrConflict)
	}

	return nil
}

func (r *repository) MarkDeclined(
	ctx context.Context,
	id, reviewedBy, reason string,
) error {
	query := `
		UPDATE registration_requests
		SET status = $2, reviewed_by = $3, reviewed_at = NOW(),
		    decline_reason = $4, updated_at = NOW()
		WHERE id = $1 AND status = $5`

	result, err := r.db.ExecContext(ctx, query,
		id, StatusDeclined, reviewedBy, reason, StatusPending)
	if err != nil {
		return fmt.Errorf("decline registration request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("decline registration request: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("decline registration request: %w", core.ErrConflict)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListRequestsParams,
) ([]Request, int, error) {
	params.Normalize()

	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM registration_requests WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count registration requests: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM registration_requests
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		requestColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var requests []Request
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list registration requests: %w", err)
	}

	return requests, total, nil
}
