package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/substitute-matcher/internal/models"
)

// ConfigurationRepository persists key/value configuration entries such as scoring weights.
type ConfigurationRepository struct {
	db *sqlx.DB
}

// NewConfigurationRepository constructs the repository.
func NewConfigurationRepository(db *sqlx.DB) *ConfigurationRepository {
	return &ConfigurationRepository{db: db}
}

// ListByKeys returns the entries whose key is in keys. Unknown keys are simply absent.
func (r *ConfigurationRepository) ListByKeys(ctx context.Context, keys []string) ([]models.Configuration, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	const query = `SELECT key, value, type, description, updated_by, updated_at
FROM configurations WHERE key = ANY($1) ORDER BY key ASC`
	var configs []models.Configuration
	if err := r.db.SelectContext(ctx, &configs, query, pq.Array(keys)); err != nil {
		return nil, fmt.Errorf("list configurations: %w", err)
	}
	return configs, nil
}

// BulkUpsert writes every entry in one transaction.
func (r *ConfigurationRepository) BulkUpsert(ctx context.Context, cfgs []models.Configuration) (err error) {
	if len(cfgs) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin configuration tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO configurations (key, value, type, description, updated_by, updated_at)
VALUES (:key, :value, :type, :description, :updated_by, :updated_at)
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, type = EXCLUDED.type, description = EXCLUDED.description,
              updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`
	now := time.Now().UTC()
	for i := range cfgs {
		cfgs[i].UpdatedAt = now
		if _, err = tx.NamedExecContext(ctx, query, cfgs[i]); err != nil {
			return fmt.Errorf("upsert configuration %s: %w", cfgs[i].Key, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit configuration tx: %w", err)
	}
	return nil
}
