// AngelaMos | 2026
// registration.go

package registration

import (
	"database/sql"
	"time"
)

// Request is a prospective tenant waiting for platform review. PENDING
// requests can move to APPROVED or DECLINED; both are terminal.
type Request struct {
	ID            string         `db:"id"`
	CompanyName   string         `db:"company_name"`
	Subdomain     string         `db:"subdomain"`
	BusinessType  string         `db:"business_type"`
	ContactName   string         `db:"contact_name"`
	ContactEmail  string         `db:"contact_email"`
	ContactPhone  string         `db:"contact_phone"`
	Address       string         `db:"address"`
	Status        string         `db:"status"`
	ReviewedBy    sql.NullString `db:"reviewed_by"`
	ReviewedAt    sql.NullTime   `db:"reviewed_at"`
	DeclineReason sql.NullString `db:"decline_reason"`
	EntityID      sql.NullString `db:"entity_id"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusDeclined = "DECLINED"
)

func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}
