package service

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/substitute-matcher/internal/models"
)

var scoringNow = time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)

func requestStartingIn(d time.Duration) models.AssignmentRequest {
	return models.AssignmentRequest{ID: "req-1", MustStartBy: scoringNow.Add(d)}
}

func TestCalculateScoresSpeed(t *testing.T) {
	car := models.LogisticsEstimate{Mode: models.TravelModeCar, Cost: 500}

	cases := []struct {
		name  string
		until time.Duration
		want  float64
	}{
		{name: "half a week", until: 84 * time.Hour, want: 50},
		{name: "beyond a week clamps", until: 400 * time.Hour, want: 100},
		{name: "deadline passed clamps", until: -5 * time.Hour, want: 0},
		{name: "deadline now", until: 0, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			scores := CalculateScores(requestStartingIn(tc.until), car, 0, scoringNow)
			assert.InDelta(t, tc.want, scores.Speed, 1e-9)
		})
	}
}

func TestCalculateScoresLogistics(t *testing.T) {
	req := requestStartingIn(84 * time.Hour)

	local := CalculateScores(req, models.LogisticsEstimate{Cost: 500}, 0, scoringNow)
	assert.InDelta(t, 97.5, local.Logistics, 1e-9)

	remote := CalculateScores(req, models.LogisticsEstimate{EtaHours: 24, Cost: 10000}, 0, scoringNow)
	assert.InDelta(t, 0, remote.Logistics, 1e-9)

	absurd := CalculateScores(req, models.LogisticsEstimate{EtaHours: 100, Cost: 90000}, 0, scoringNow)
	assert.Zero(t, absurd.Logistics)
}

func TestCalculateScoresLoad(t *testing.T) {
	req := requestStartingIn(84 * time.Hour)
	est := models.LogisticsEstimate{Cost: 500}

	assert.Equal(t, 100.0, CalculateScores(req, est, 0, scoringNow).Load)
	assert.Equal(t, 50.0, CalculateScores(req, est, 2, scoringNow).Load)
	assert.Equal(t, 0.0, CalculateScores(req, est, 4, scoringNow).Load)
	assert.Equal(t, 0.0, CalculateScores(req, est, 9, scoringNow).Load)
}

func TestCalculateScoresWithinBounds(t *testing.T) {
	for _, until := range []time.Duration{-100 * time.Hour, 0, time.Hour, 168 * time.Hour, 1000 * time.Hour} {
		for _, eta := range []float64{0, 1, 48, 1e6} {
			for _, recent := range []int{0, 1, 3, 100} {
				scores := CalculateScores(requestStartingIn(until), models.LogisticsEstimate{EtaHours: eta, Cost: eta * 100}, recent, scoringNow)
				for _, v := range []float64{scores.Speed, scores.Logistics, scores.Load} {
					assert.GreaterOrEqual(t, v, 0.0)
					assert.LessOrEqual(t, v, 100.0)
				}
			}
		}
	}
}

func TestFinalScore(t *testing.T) {
	scores := models.SubScores{Speed: 50, Logistics: 97.5, Load: 100}
	weights := models.DefaultScenarioWeights()[models.ScenarioDefault]

	assert.InDelta(t, 50*0.4+97.5*0.35+100*0.25, FinalScore(scores, weights), 1e-9)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.0, clampScore(math.NaN()))
	assert.Equal(t, 0.0, clampScore(math.Inf(-1)))
	assert.Equal(t, 100.0, clampScore(math.Inf(1)))
	assert.Equal(t, 42.0, clampScore(42))
}
