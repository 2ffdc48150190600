package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/substitute-matcher/internal/models"
)

// CandidateRepository persists ranked candidate sets.
type CandidateRepository struct {
	db *sqlx.DB
}

// NewCandidateRepository constructs the repository.
func NewCandidateRepository(db *sqlx.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

func (r *CandidateRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListByRequest returns the stored candidates for a request ordered by scenario and rank.
// A nil scenario returns every scenario.
func (r *CandidateRepository) ListByRequest(ctx context.Context, requestID string, scenario *models.ScenarioType) ([]models.AssignmentCandidate, error) {
	var (
		conditions = []string{"request_id = $1"}
		args       = []interface{}{requestID}
	)
	if scenario != nil {
		conditions = append(conditions, "scenario_type = $2")
		args = append(args, *scenario)
	}
	query := fmt.Sprintf(`SELECT id, request_id, substitute_id, scenario_type, rank, score, detail, eta_at, run_id, created_at
FROM assignment_candidates WHERE %s ORDER BY scenario_type ASC, rank ASC`, strings.Join(conditions, " AND "))

	var items []models.AssignmentCandidate
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list assignment candidates: %w", err)
	}
	return items, nil
}

// DeleteByRequest removes every candidate of a request and reports how many rows went away.
func (r *CandidateRepository) DeleteByRequest(ctx context.Context, exec sqlx.ExtContext, requestID string) (int64, error) {
	const query = `DELETE FROM assignment_candidates WHERE request_id = $1`
	res, err := r.exec(exec).ExecContext(ctx, query, requestID)
	if err != nil {
		return 0, fmt.Errorf("delete assignment candidates: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted assignment candidates: %w", err)
	}
	return affected, nil
}

// InsertBatch writes candidates with one multi-row INSERT.
func (r *CandidateRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, candidates []models.AssignmentCandidate) error {
	if len(candidates) == 0 {
		return nil
	}
	for i := range candidates {
		if candidates[i].ID == "" {
			candidates[i].ID = uuid.NewString()
		}
	}

	const query = `INSERT INTO assignment_candidates (id, request_id, substitute_id, scenario_type, rank, score, detail, eta_at, run_id, created_at)
VALUES (:id, :request_id, :substitute_id, :scenario_type, :rank, :score, :detail, :eta_at, :run_id, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, candidates); err != nil {
		return fmt.Errorf("insert assignment candidates: %w", err)
	}
	return nil
}
