// AngelaMos | 2026
// supplier.go

package supplier

import (
	"time"
)

// Supplier is a billable counterparty belonging to one tenant. New
// suppliers start PENDING and must be approved by an entity admin
// before invoices can reference them.
type Supplier struct {
	ID        string    `db:"id"`
	EntityID  string    `db:"entity_id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	TaxID     string    `db:"tax_id"`
	Address   string    `db:"address"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

func (s *Supplier) IsApproved() bool {
	return s.Status == StatusApproved
}
