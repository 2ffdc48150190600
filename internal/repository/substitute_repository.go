package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/substitute-matcher/internal/models"
)

// SubstituteRepository reads the substitute pool.
type SubstituteRepository struct {
	db *sqlx.DB
}

// NewSubstituteRepository constructs the repository.
func NewSubstituteRepository(db *sqlx.DB) *SubstituteRepository {
	return &SubstituteRepository{db: db}
}

// ListActive returns every active substitute joined with its employee profile.
// Rows are ordered by id so ranking ties resolve the same way on every run.
func (r *SubstituteRepository) ListActive(ctx context.Context) ([]models.Substitute, error) {
	const query = `SELECT s.id, s.employee_id, s.active, s.base_lat, s.base_lng, e.full_name, e.role_title, e.rating
FROM substitutes s
JOIN employees e ON e.id = s.employee_id
WHERE s.active = TRUE
ORDER BY s.id ASC`
	var subs []models.Substitute
	if err := r.db.SelectContext(ctx, &subs, query); err != nil {
		return nil, fmt.Errorf("list active substitutes: %w", err)
	}
	return subs, nil
}
