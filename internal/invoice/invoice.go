// AngelaMos | 2026
// invoice.go

package invoice

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Invoice is one billable document inside a tenant. Number is unique
// per entity, never globally. ArtifactURL points at the rendered
// document once a renderer has produced one.
type Invoice struct {
	ID          string          `db:"id"`
	EntityID    string          `db:"entity_id"`
	SupplierID  sql.NullString  `db:"supplier_id"`
	TemplateID  sql.NullString  `db:"template_id"`
	Number      string          `db:"number"`
	AmountCents int64           `db:"amount_cents"`
	Currency    string          `db:"currency"`
	Status      string          `db:"status"`
	DueDate     sql.NullTime    `db:"due_date"`
	Fields      json.RawMessage `db:"fields"`
	ArtifactURL string          `db:"artifact_url"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

const (
	StatusPending   = "PENDING"
	StatusPaid      = "PAID"
	StatusCancelled = "CANCELLED"
	StatusOverdue   = "OVERDUE"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusPaid, StatusCancelled, StatusOverdue:
		return true
	}
	return false
}
