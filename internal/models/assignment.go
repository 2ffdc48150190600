package models

import "time"

// RecentAssignmentWindow is the trailing window used to measure substitute workload.
const RecentAssignmentWindow = 30 * 24 * time.Hour

// Assignment is a confirmed placement of a substitute on a request.
type Assignment struct {
	ID           string    `db:"id" json:"id"`
	RequestID    string    `db:"request_id" json:"request_id"`
	SubstituteID string    `db:"substitute_id" json:"substitute_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// SubstituteAssignmentCount is one row of the grouped recent-assignment lookup.
type SubstituteAssignmentCount struct {
	SubstituteID string `db:"substitute_id"`
	Count        int    `db:"count"`
}
