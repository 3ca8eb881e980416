// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/billforge/internal/core"
)

// PlatformStats is the super-admin console's headline view across all
// tenants.
type PlatformStats struct {
	TotalEntities        int `db:"total_entities"         json:"total_entities"`
	ActiveEntities       int `db:"active_entities"        json:"active_entities"`
	TotalUsers           int `db:"total_users"            json:"total_users"`
	PendingRegistrations int `db:"pending_registrations"  json:"pending_registrations"`
	TotalInvoices        int `db:"total_invoices"         json:"total_invoices"`
	RunningBulkJobs      int `db:"running_bulk_jobs"      json:"running_bulk_jobs"`
}

type Repository interface {
	GetPlatformStats(ctx context.Context) (*PlatformStats, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) GetPlatformStats(
	ctx context.Context,
) (*PlatformStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM entities) AS total_entities,
			(SELECT COUNT(*) FROM entities WHERE status = 'ACTIVE')
				AS active_entities,
			(SELECT COUNT(*) FROM users WHERE entity_id IS NOT NULL)
				AS total_users,
			(SELECT COUNT(*) FROM registration_requests WHERE status = 'PENDING')
				AS pending_registrations,
			(SELECT COUNT(*) FROM invoices) AS total_invoices,
			(SELECT COUNT(*) FROM bulk_jobs WHERE status IN ('CREATED', 'RUNNING'))
				AS running_bulk_jobs`

	var stats PlatformStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("get platform stats: %w", err)
	}

	return &stats, nil
}
