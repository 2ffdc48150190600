package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// CandidateDetailVersion is bumped whenever CandidateDetail changes shape.
const CandidateDetailVersion = 1

// SubScores are the independent components of a candidate score, each within [0,100].
type SubScores struct {
	Speed     float64 `json:"speed"`
	Logistics float64 `json:"logistics"`
	Load      float64 `json:"load"`
}

// LogisticsEstimate is the closed-form travel approximation between two points.
type LogisticsEstimate struct {
	Mode       TravelMode `json:"mode"`
	EtaHours   float64    `json:"eta_hours"`
	Cost       float64    `json:"cost"`
	DistanceKm float64    `json:"distance_km"`
}

// CandidateDetail is the score breakdown persisted alongside every candidate.
type CandidateDetail struct {
	Version           int               `json:"version"`
	Scores            SubScores         `json:"scores"`
	Logistics         LogisticsEstimate `json:"logistics"`
	RecentAssignments int               `json:"recent_assignments"`
	Weights           ScoringWeights    `json:"weights"`
	Explanation       string            `json:"explanation"`
}

// Value implements driver.Valuer so the detail can be written to a JSONB column.
func (d CandidateDetail) Value() (driver.Value, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode candidate detail: %w", err)
	}
	return raw, nil
}

// Scan implements sql.Scanner.
func (d *CandidateDetail) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*d = CandidateDetail{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported candidate detail type %T", src)
	}
	if err := json.Unmarshal(raw, d); err != nil {
		return fmt.Errorf("decode candidate detail: %w", err)
	}
	return nil
}

// AssignmentCandidate is one ranked (request, substitute, scenario) entry.
type AssignmentCandidate struct {
	ID           string          `db:"id" json:"id"`
	RequestID    string          `db:"request_id" json:"request_id"`
	SubstituteID string          `db:"substitute_id" json:"substitute_id"`
	ScenarioType ScenarioType    `db:"scenario_type" json:"scenario_type"`
	Rank         int             `db:"rank" json:"rank"`
	Score        float64         `db:"score" json:"score"`
	Detail       CandidateDetail `db:"detail" json:"detail"`
	EtaAt        time.Time       `db:"eta_at" json:"eta_at"`
	RunID        string          `db:"run_id" json:"run_id"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}
