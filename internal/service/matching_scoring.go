package service

import (
	"math"
	"time"

	"github.com/noah-isme/substitute-matcher/internal/models"
)

const (
	// speedHorizonHours maps a full week of lead time to the maximum speed score.
	speedHorizonHours        = 168.0
	etaHalfPenaltyHours      = 24.0
	costHalfPenalty          = 10000.0
	loadPenaltyPerAssignment = 25.0
)

// CalculateScores derives the three sub-scores for one substitute.
//
// The speed score depends only on the request deadline relative to now, so it is
// identical for every substitute of a run. Logistics penalises travel time and cost,
// load penalises assignments accepted in the trailing window.
func CalculateScores(req models.AssignmentRequest, est models.LogisticsEstimate, recentCount int, now time.Time) models.SubScores {
	hoursUntilStart := req.MustStartBy.Sub(now).Hours()

	return models.SubScores{
		Speed:     clampScore(hoursUntilStart / speedHorizonHours * 100),
		Logistics: clampScore(100 - est.EtaHours/etaHalfPenaltyHours*50 - est.Cost/costHalfPenalty*50),
		Load:      clampScore(100 - float64(recentCount)*loadPenaltyPerAssignment),
	}
}

// FinalScore combines sub-scores with scenario weights.
func FinalScore(scores models.SubScores, weights models.ScoringWeights) float64 {
	return scores.Speed*weights.Speed + scores.Logistics*weights.Logistics + scores.Load*weights.Load
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}
