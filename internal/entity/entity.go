// AngelaMos | 2026
// entity.go

package entity

import (
	"time"
)

// Entity is a tenant organization. Every tenant-scoped record in the
// system hangs off one of these via entity_id.
type Entity struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Subdomain    string    `db:"subdomain"`
	Status       string    `db:"status"`
	ThemeColor   string    `db:"theme_color"`
	LogoURL      string    `db:"logo_url"`
	BusinessType string    `db:"business_type"`
	ContactEmail string    `db:"contact_email"`
	ContactPhone string    `db:"contact_phone"`
	Address      string    `db:"address"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

const (
	StatusActive    = "ACTIVE"
	StatusInactive  = "INACTIVE"
	StatusSuspended = "SUSPENDED"
)

func (e *Entity) IsActive() bool {
	return e.Status == StatusActive
}

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}
