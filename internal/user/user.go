// AngelaMos | 2026
// user.go

package user

import (
	"database/sql"
	"time"
)

type User struct {
	ID                 string         `db:"id"`
	EntityID           sql.NullString `db:"entity_id"`
	Email              string         `db:"email"`
	Name               string         `db:"name"`
	PasswordHash       string         `db:"password_hash"`
	Role               string         `db:"role"`
	ForcePasswordReset bool           `db:"force_password_reset"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

func (u *User) EntityIDString() string {
	if u.EntityID.Valid {
		return u.EntityID.String
	}
	return ""
}
