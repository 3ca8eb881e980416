// AngelaMos | 2026
// template.go

package template

import (
	"encoding/json"
	"fmt"
	"time"
)

// Template describes what an invoice built from it needs: the field
// schema bulk rows must satisfy, and an opaque design descriptor the
// renderer consumes as-is.
type Template struct {
	ID          string          `db:"id"`
	EntityID    string          `db:"entity_id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Fields      json.RawMessage `db:"fields"`
	Design      json.RawMessage `db:"design"`
	Active      bool            `db:"active"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// Field is one column of the template's schema. Type constrains how
// bulk row values are checked before rendering.
type Field struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Label    string `json:"label"    validate:"required,min=1,max=200"`
	Type     string `json:"type"     validate:"required,oneof=string number date"`
	Required bool   `json:"required"`
}

// ParseFields decodes the stored schema.
func (t *Template) ParseFields() ([]Field, error) {
	if len(t.Fields) == 0 {
		return nil, nil
	}

	var fields []Field
	if err := json.Unmarshal(t.Fields, &fields); err != nil {
		return nil, fmt.Errorf("parse template fields: %w", err)
	}

	return fields, nil
}
