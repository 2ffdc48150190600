package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/substitute-matcher/internal/models"
	"github.com/noah-isme/substitute-matcher/pkg/geo"
)

// MaxCandidatesPerScenario caps every ranked list.
const MaxCandidatesPerScenario = 5

const defaultRankWorkers = 8

// PoolEntry is a substitute whose base location has already been validated.
type PoolEntry struct {
	Substitute models.Substitute
	Location   geo.Point
}

// RankInput carries everything a scenario ranking needs. It is read-only once built.
type RankInput struct {
	Request      models.AssignmentRequest
	Destination  geo.Point
	Pool         []PoolEntry
	RecentCounts map[string]int
	Rules        models.LogisticsRules
	Now          time.Time
	Workers      int
}

// RankedCandidate is one entry of a scenario's ranked list.
type RankedCandidate struct {
	SubstituteID string
	Rank         int
	Score        float64
	Detail       models.CandidateDetail
	EtaAt        time.Time
}

// RankScenario scores every pool entry under the scenario weights and returns the best
// MaxCandidatesPerScenario, highest score first. Equal scores keep pool order.
func RankScenario(ctx context.Context, input RankInput, scenario models.ScenarioType, weights models.ScoringWeights) ([]RankedCandidate, error) {
	if len(input.Pool) == 0 {
		return []RankedCandidate{}, nil
	}

	workers := input.Workers
	if workers <= 0 {
		workers = defaultRankWorkers
	}

	scored := make([]RankedCandidate, len(input.Pool))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range input.Pool {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scored[i] = scoreEntry(input, input.Pool[i], scenario, weights)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("rank scenario %s: %w", scenario, err)
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})
	if len(scored) > MaxCandidatesPerScenario {
		scored = scored[:MaxCandidatesPerScenario]
	}
	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored, nil
}

func scoreEntry(input RankInput, entry PoolEntry, scenario models.ScenarioType, weights models.ScoringWeights) RankedCandidate {
	est := EstimateLogistics(entry.Location, input.Destination, input.Rules)
	recent := input.RecentCounts[entry.Substitute.ID]
	scores := CalculateScores(input.Request, est, recent, input.Now)
	final := FinalScore(scores, weights)

	return RankedCandidate{
		SubstituteID: entry.Substitute.ID,
		Score:        final,
		EtaAt:        input.Now.Add(time.Duration(est.EtaHours * float64(time.Hour))),
		Detail: models.CandidateDetail{
			Version:           models.CandidateDetailVersion,
			Scores:            scores,
			Logistics:         est,
			RecentAssignments: recent,
			Weights:           weights,
			Explanation: fmt.Sprintf("scenario=%s mode=%s distance=%.1fkm eta=%.2fh cost=%.2f recent=%d",
				scenario, est.Mode, est.DistanceKm, est.EtaHours, est.Cost, recent),
		},
	}
}
