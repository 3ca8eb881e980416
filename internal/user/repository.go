// AngelaMos | 2026
// repository.go

package user

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
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, entityID, id string) (*User, error)
	// GetByIDAny fetches by id alone. Reserved for the session layer,
	// which has already bound the caller to this user id.
	GetByIDAny(ctx context.Context, id string) (*User, error)
	// GetByEmail looks the user up within one tenant. An empty entityID
	// targets platform accounts, which carry a NULL entity_id.
	GetByEmail(ctx context.Context, entityID, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePasswordClearReset(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, entityID, id string) error
	List(ctx context.Context, entityID string, params ListUsersParams) ([]User, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `id, entity_id, email, name, password_hash, role,
	force_password_reset, created_at, updated_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (
			id, entity_id, email, name, password_hash, role,
			force_password_reset
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, user, query,
		user.ID,
		user.EntityID,
		strings.ToLower(user.Email),
		user.Name,
		user.PasswordHash,
		user.Role,
		user.ForcePasswordReset,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	user.Email = strings.ToLower(user.Email)
	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	entityID, id string,
) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE id = $1 AND entity_id = $2`, userColumns)

	var user User
	err := r.db.GetContext(ctx, &user, query, id, entityID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByIDAny(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	entityID, email string,
) (*User, error) {
	var (
		query string
		args  []any
	)
	if entityID == "" {
		query = fmt.Sprintf(`
			SELECT %s FROM users
			WHERE email = $1 AND entity_id IS NULL`, userColumns)
		args = []any{strings.ToLower(email)}
	} else {
		query = fmt.Sprintf(`
			SELECT %s FROM users
			WHERE email = $1 AND entity_id = $2`, userColumns)
		args = []any{strings.ToLower(email), entityID}
	}

	var user User
	err := r.db.GetContext(ctx, &user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET name = $2, role = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.Name,
		user.Role,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

// UpdatePasswordClearReset swaps the credential and lifts the forced
// reset flag in one statement so the two can never diverge.
func (r *repository) UpdatePasswordClearReset(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, force_password_reset = FALSE,
		    updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update user password: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, entityID, id string) error {
	query := `DELETE FROM users WHERE id = $1 AND entity_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, entityID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	entityID string,
	params ListUsersParams,
) ([]User, int, error) {
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

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM users WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}
