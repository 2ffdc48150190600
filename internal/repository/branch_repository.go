package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/substitute-matcher/internal/models"
)

// BranchRepository reads branch locations.
type BranchRepository struct {
	db *sqlx.DB
}

// NewBranchRepository constructs the repository.
func NewBranchRepository(db *sqlx.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

// FindByID returns the branch or sql.ErrNoRows.
func (r *BranchRepository) FindByID(ctx context.Context, id string) (*models.Branch, error) {
	const query = `SELECT id, name, address, latitude, longitude, created_at FROM branches WHERE id = $1`
	var branch models.Branch
	if err := r.db.GetContext(ctx, &branch, query, id); err != nil {
		return nil, err
	}
	return &branch, nil
}
