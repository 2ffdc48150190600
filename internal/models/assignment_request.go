package models

import "time"

// AssignmentRequestStatus enumerates the lifecycle states of an assignment request.
type AssignmentRequestStatus string

const (
	AssignmentRequestStatusOpen     AssignmentRequestStatus = "open"
	AssignmentRequestStatusMatching AssignmentRequestStatus = "matching"
	AssignmentRequestStatusAssigned AssignmentRequestStatus = "assigned"
	AssignmentRequestStatusClosed   AssignmentRequestStatus = "closed"
	AssignmentRequestStatusCanceled AssignmentRequestStatus = "canceled"
)

// AssignmentRequest is an open slot created when a regular employee is absent.
type AssignmentRequest struct {
	ID          string                  `db:"id" json:"id"`
	BranchID    string                  `db:"branch_id" json:"branch_id"`
	RoleTitle   string                  `db:"role_title" json:"role_title"`
	PeriodStart time.Time               `db:"period_start" json:"period_start"`
	PeriodEnd   time.Time               `db:"period_end" json:"period_end"`
	MustStartBy time.Time               `db:"must_start_by" json:"must_start_by"`
	Priority    int                     `db:"priority" json:"priority"`
	Status      AssignmentRequestStatus `db:"status" json:"status"`
	LastRunID   *string                 `db:"last_run_id" json:"last_run_id,omitempty"`
	CreatedAt   time.Time               `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time               `db:"updated_at" json:"updated_at"`
}

// Matchable reports whether candidates may be (re)computed in this status.
func (s AssignmentRequestStatus) Matchable() bool {
	return s == AssignmentRequestStatusOpen || s == AssignmentRequestStatusMatching
}

// CandidateGeneration identifies the stored candidate set. It changes with every committed run.
func (r AssignmentRequest) CandidateGeneration() string {
	if r.LastRunID == nil || *r.LastRunID == "" {
		return "none"
	}
	return *r.LastRunID
}
