package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/substitute-matcher/internal/models"
)

// AssignmentRepository reads confirmed assignments for workload scoring.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// CountRecentBySubstitutes counts assignments created at or after since for every substitute id
// with a single grouped query. Substitutes without assignments are absent from the map.
func (r *AssignmentRepository) CountRecentBySubstitutes(ctx context.Context, substituteIDs []string, since time.Time) (map[string]int, error) {
	counts := make(map[string]int, len(substituteIDs))
	if len(substituteIDs) == 0 {
		return counts, nil
	}
	const query = `SELECT substitute_id, COUNT(*) AS count
FROM assignments
WHERE substitute_id = ANY($1) AND created_at >= $2
GROUP BY substitute_id`
	var rows []models.SubstituteAssignmentCount
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(substituteIDs), since.UTC()); err != nil {
		return nil, fmt.Errorf("count recent assignments: %w", err)
	}
	for _, row := range rows {
		counts[row.SubstituteID] = row.Count
	}
	return counts, nil
}
