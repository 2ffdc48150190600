package dto

import (
	"time"

	"github.com/noah-isme/substitute-matcher/internal/models"
)

// MatchRunResult summarises one matching run.
type MatchRunResult struct {
	RequestID       string                      `json:"request_id"`
	RunID           string                      `json:"run_id"`
	CandidatesCount int                         `json:"candidates_count"`
	Scenarios       []models.ScenarioType       `json:"scenarios"`
	ScenarioCounts  map[models.ScenarioType]int `json:"scenario_counts"`
	Skipped         int                         `json:"skipped"`
	MatchedAt       time.Time                   `json:"matched_at"`
}

// CandidateList is the stored candidate set of a request.
type CandidateList struct {
	RequestID string                       `json:"request_id"`
	Scenario  string                       `json:"scenario,omitempty"`
	Items     []models.AssignmentCandidate `json:"items"`
}

// UpdateMatchingSettingsRequest replaces the stored logistics rules and/or scenario weights.
// Omitted sections keep their current values.
type UpdateMatchingSettingsRequest struct {
	Logistics *models.LogisticsRules                        `json:"logistics_rules" validate:"omitempty"`
	Weights   map[models.ScenarioType]models.ScoringWeights `json:"weights" validate:"omitempty,dive"`
}
