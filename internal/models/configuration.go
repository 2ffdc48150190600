package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// ConfigurationType is the declared encoding of a configuration value.
type ConfigurationType string

// ConfigurationTypeJSON marks values holding a JSON document. Matching settings are always JSON.
const ConfigurationTypeJSON ConfigurationType = "JSON"

// Configuration is one row of the shared configurations table.
type Configuration struct {
	Key         string            `db:"key" json:"key"`
	Value       types.JSONText    `db:"value" json:"value"`
	Type        ConfigurationType `db:"type" json:"type"`
	Description *string           `db:"description" json:"description,omitempty"`
	UpdatedBy   *string           `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}
