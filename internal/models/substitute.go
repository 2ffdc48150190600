package models

import (
	"database/sql"

	"github.com/noah-isme/substitute-matcher/pkg/geo"
)

// Substitute is a pool entry joined with the employee it refers to.
type Substitute struct {
	ID         string          `db:"id" json:"id"`
	EmployeeID string          `db:"employee_id" json:"employee_id"`
	Active     bool            `db:"active" json:"active"`
	BaseLat    sql.NullFloat64 `db:"base_lat" json:"-"`
	BaseLng    sql.NullFloat64 `db:"base_lng" json:"-"`
	FullName   string          `db:"full_name" json:"full_name"`
	RoleTitle  *string         `db:"role_title" json:"role_title,omitempty"`
	Rating     *float64        `db:"rating" json:"rating,omitempty"`
}

// Location returns the substitute's base coordinates and whether they are usable.
func (s Substitute) Location() (geo.Point, bool) {
	return pointFromNullable(s.BaseLat, s.BaseLng)
}
