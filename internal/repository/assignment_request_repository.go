package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/substitute-matcher/internal/models"
)

// AssignmentRequestRepository reads assignment requests and moves them through their lifecycle.
type AssignmentRequestRepository struct {
	db *sqlx.DB
}

// NewAssignmentRequestRepository constructs the repository.
func NewAssignmentRequestRepository(db *sqlx.DB) *AssignmentRequestRepository {
	return &AssignmentRequestRepository{db: db}
}

func (r *AssignmentRequestRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// FindByID returns the request or sql.ErrNoRows.
func (r *AssignmentRequestRepository) FindByID(ctx context.Context, id string) (*models.AssignmentRequest, error) {
	const query = `SELECT id, branch_id, role_title, period_start, period_end, must_start_by, priority, status, last_run_id, created_at, updated_at
FROM assignment_requests WHERE id = $1`
	var req models.AssignmentRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// LockForUpdate takes a row lock on the request for the lifetime of the surrounding transaction
// and returns the status as seen under the lock.
func (r *AssignmentRequestRepository) LockForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (models.AssignmentRequestStatus, error) {
	const query = `SELECT status FROM assignment_requests WHERE id = $1 FOR UPDATE`
	var status models.AssignmentRequestStatus
	if err := sqlx.GetContext(ctx, r.exec(exec), &status, query, id); err != nil {
		return "", err
	}
	return status, nil
}

// MarkMatching moves the request to the matching status and records the run that produced
// its current candidate set.
func (r *AssignmentRequestRepository) MarkMatching(ctx context.Context, exec sqlx.ExtContext, id, runID string, at time.Time) error {
	const query = `UPDATE assignment_requests SET status = $1, last_run_id = $2, updated_at = $3 WHERE id = $4`
	if _, err := r.exec(exec).ExecContext(ctx, query, models.AssignmentRequestStatusMatching, runID, at.UTC(), id); err != nil {
		return fmt.Errorf("mark assignment request matching: %w", err)
	}
	return nil
}
