package models

import (
	"database/sql"
	"time"

	"github.com/noah-isme/substitute-matcher/pkg/geo"
)

// Branch is a fixed site that raises assignment requests.
type Branch struct {
	ID        string          `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Address   *string         `db:"address" json:"address,omitempty"`
	Latitude  sql.NullFloat64 `db:"latitude" json:"-"`
	Longitude sql.NullFloat64 `db:"longitude" json:"-"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Location returns the branch coordinates and whether they are usable.
func (b Branch) Location() (geo.Point, bool) {
	return pointFromNullable(b.Latitude, b.Longitude)
}

func pointFromNullable(lat, lng sql.NullFloat64) (geo.Point, bool) {
	if !lat.Valid || !lng.Valid {
		return geo.Point{}, false
	}
	p := geo.Point{Lat: lat.Float64, Lng: lng.Float64}
	return p, p.Valid()
}
