package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/substitute-matcher/internal/dto"
	"github.com/noah-isme/substitute-matcher/internal/models"
	appErrors "github.com/noah-isme/substitute-matcher/pkg/errors"
	"github.com/noah-isme/substitute-matcher/pkg/logger"
)

type assignmentRequestStore interface {
	FindByID(ctx context.Context, id string) (*models.AssignmentRequest, error)
	LockForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (models.AssignmentRequestStatus, error)
	MarkMatching(ctx context.Context, exec sqlx.ExtContext, id, runID string, at time.Time) error
}

type branchReader interface {
	FindByID(ctx context.Context, id string) (*models.Branch, error)
}

type substitutePoolReader interface {
	ListActive(ctx context.Context) ([]models.Substitute, error)
}

type recentAssignmentCounter interface {
	CountRecentBySubstitutes(ctx context.Context, substituteIDs []string, since time.Time) (map[string]int, error)
}

type candidateStore interface {
	ListByRequest(ctx context.Context, requestID string, scenario *models.ScenarioType) ([]models.AssignmentCandidate, error)
	DeleteByRequest(ctx context.Context, exec sqlx.ExtContext, requestID string) (int64, error)
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, candidates []models.AssignmentCandidate) error
}

type matchingSettingsLoader interface {
	Load(ctx context.Context) (models.MatchingSettings, error)
}

// errNotMatchable reports that the request left the open/matching states before the row lock.
var errNotMatchable = errors.New("assignment request is no longer matchable")

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// MatchingServiceConfig tunes a matching run.
type MatchingServiceConfig struct {
	RunTimeout time.Duration
	Workers    int
	CacheTTL   time.Duration
	// Now is the clock used for scoring and timestamps. Defaults to time.Now.
	Now func() time.Time
}

// MatchingService computes ranked candidate sets for assignment requests.
type MatchingService struct {
	requests    assignmentRequestStore
	branches    branchReader
	substitutes substitutePoolReader
	assignments recentAssignmentCounter
	candidates  candidateStore
	settings    matchingSettingsLoader
	tx          txProvider
	cache       *CacheService
	metrics     *MetricsService
	logger      *zap.Logger
	cfg         MatchingServiceConfig
}

// NewMatchingService wires matching dependencies.
func NewMatchingService(
	requests assignmentRequestStore,
	branches branchReader,
	substitutes substitutePoolReader,
	assignments recentAssignmentCounter,
	candidates candidateStore,
	settings matchingSettingsLoader,
	tx txProvider,
	cache *CacheService,
	metrics *MetricsService,
	logger *zap.Logger,
	cfg MatchingServiceConfig,
) *MatchingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 30 * time.Second
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultRankWorkers
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &MatchingService{
		requests:    requests,
		branches:    branches,
		substitutes: substitutes,
		assignments: assignments,
		candidates:  candidates,
		settings:    settings,
		tx:          tx,
		cache:       cache,
		metrics:     metrics,
		logger:      logger,
		cfg:         cfg,
	}
}

// Run recomputes the candidate set of one assignment request for every scenario, replaces
// the stored set atomically and moves the request to the matching status.
// Either the whole new set is committed or the previous set stays untouched.
func (s *MatchingService) Run(ctx context.Context, requestID string) (result *dto.MatchRunResult, err error) {
	started := time.Now()
	defer func() {
		outcome := MatchOutcomeSuccess
		if err != nil {
			outcome = MatchOutcomeFailure
		}
		s.metrics.ObserveMatchRun(outcome, time.Since(started))
	}()

	if requestID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "assignment request id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	log := logger.FromContext(ctx, s.logger).With(zap.String("assignment_request_id", requestID))

	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, lookupError(err, "assignment request not found", "failed to load assignment request")
	}
	if !req.Status.Matchable() {
		return nil, notMatchableError(req.Status)
	}
	branch, err := s.branches.FindByID(ctx, req.BranchID)
	if err != nil {
		return nil, lookupError(err, "branch not found", "failed to load branch")
	}
	destination, ok := branch.Location()
	if !ok {
		log.Error("branch has unusable coordinates", zap.String("branch_id", branch.ID))
		return nil, appErrors.Clone(appErrors.ErrDataUnavailable, "branch coordinates unavailable")
	}

	subs, err := s.substitutes.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataUnavailable.Code, appErrors.ErrDataUnavailable.Status, "failed to load substitute pool")
	}
	pool := make([]PoolEntry, 0, len(subs))
	ids := make([]string, 0, len(subs))
	skipped := 0
	for _, sub := range subs {
		location, ok := sub.Location()
		if !ok {
			skipped++
			log.Warn("skipping substitute with unusable coordinates", zap.String("substitute_id", sub.ID))
			continue
		}
		pool = append(pool, PoolEntry{Substitute: sub, Location: location})
		ids = append(ids, sub.ID)
	}

	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.cfg.Now().UTC()
	counts := map[string]int{}
	if len(ids) > 0 {
		counts, err = s.assignments.CountRecentBySubstitutes(ctx, ids, now.Add(-models.RecentAssignmentWindow))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrDataUnavailable.Code, appErrors.ErrDataUnavailable.Status, "failed to load recent assignments")
		}
	}

	input := RankInput{
		Request:      *req,
		Destination:  destination,
		Pool:         pool,
		RecentCounts: counts,
		Rules:        settings.Logistics,
		Now:          now,
		Workers:      s.cfg.Workers,
	}
	ranked, err := s.rankAll(ctx, input, settings)
	if err != nil {
		if ctx.Err() != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrDataUnavailable.Code, appErrors.ErrDataUnavailable.Status, "matching run timed out")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to rank candidates")
	}

	runID := uuid.NewString()
	rows := make([]models.AssignmentCandidate, 0, len(models.Scenarios)*MaxCandidatesPerScenario)
	scenarioCounts := make(map[models.ScenarioType]int, len(models.Scenarios))
	for i, scenario := range models.Scenarios {
		scenarioCounts[scenario] = len(ranked[i])
		for _, candidate := range ranked[i] {
			rows = append(rows, models.AssignmentCandidate{
				RequestID:    req.ID,
				SubstituteID: candidate.SubstituteID,
				ScenarioType: scenario,
				Rank:         candidate.Rank,
				Score:        candidate.Score,
				Detail:       candidate.Detail,
				EtaAt:        candidate.EtaAt,
				RunID:        runID,
				CreatedAt:    now,
			})
		}
	}

	if err = s.replaceCandidates(ctx, req.ID, runID, rows, now); err != nil {
		log.Error("failed to persist candidates", zap.Error(err))
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment request not found")
		}
		if errors.Is(err, errNotMatchable) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "assignment request changed status during matching")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, appErrors.ErrPersistenceFailure.Message)
	}

	if invalidateErr := s.cache.Invalidate(ctx, CandidateCacheKeys(req.ID, req.CandidateGeneration())...); invalidateErr != nil {
		log.Warn("candidate cache not invalidated", zap.Error(invalidateErr))
	}
	s.metrics.ObserveMatchCandidates(scenarioCounts, skipped)

	log.Info("matching run completed",
		zap.String("run_id", runID),
		zap.Int("pool", len(subs)),
		zap.Int("skipped", skipped),
		zap.Int("candidates", len(rows)),
	)

	return &dto.MatchRunResult{
		RequestID:       req.ID,
		RunID:           runID,
		CandidatesCount: len(rows),
		Scenarios:       append([]models.ScenarioType(nil), models.Scenarios...),
		ScenarioCounts:  scenarioCounts,
		Skipped:         skipped,
		MatchedAt:       now,
	}, nil
}

// ListCandidates returns the stored candidates of a request, optionally narrowed to one scenario.
// The boolean reports whether the result was served from the cache.
func (s *MatchingService) ListCandidates(ctx context.Context, requestID, scenario string) (*dto.CandidateList, bool, error) {
	if requestID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "assignment request id is required")
	}
	var filter *models.ScenarioType
	if scenario != "" {
		st := models.ScenarioType(scenario)
		if !isKnownScenario(st) {
			return nil, false, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown scenario %q", scenario))
		}
		filter = &st
	}

	// The generation is read before the rows so a list filled from a superseded set lands under a
	// key no reader uses once the replacing run has committed.
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, false, lookupError(err, "assignment request not found", "failed to load assignment request")
	}
	key := CandidateCacheKey(requestID, req.CandidateGeneration(), scenario)
	var cached dto.CandidateList
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	items, err := s.candidates.ListByRequest(ctx, requestID, filter)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrDataUnavailable.Code, appErrors.ErrDataUnavailable.Status, "failed to load candidates")
	}
	if items == nil {
		items = []models.AssignmentCandidate{}
	}

	list := &dto.CandidateList{RequestID: requestID, Scenario: scenario, Items: items}
	_ = s.cache.Set(ctx, key, list, s.cfg.CacheTTL)
	return list, false, nil
}

func (s *MatchingService) rankAll(ctx context.Context, input RankInput, settings models.MatchingSettings) ([][]RankedCandidate, error) {
	ranked := make([][]RankedCandidate, len(models.Scenarios))
	g, gctx := errgroup.WithContext(ctx)
	for i, scenario := range models.Scenarios {
		g.Go(func() error {
			list, err := RankScenario(gctx, input, scenario, settings.WeightsFor(scenario))
			if err != nil {
				return err
			}
			ranked[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ranked, nil
}

func (s *MatchingService) replaceCandidates(ctx context.Context, requestID, runID string, rows []models.AssignmentCandidate, now time.Time) (err error) {
	if s.tx == nil {
		return errors.New("transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin candidate transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	status, err := s.requests.LockForUpdate(ctx, tx, requestID)
	if err != nil {
		return fmt.Errorf("lock assignment request: %w", err)
	}
	if !status.Matchable() {
		return fmt.Errorf("%w: status %s", errNotMatchable, status)
	}
	if _, err = s.candidates.DeleteByRequest(ctx, tx, requestID); err != nil {
		return err
	}
	if err = s.candidates.InsertBatch(ctx, tx, rows); err != nil {
		return err
	}
	if err = s.requests.MarkMatching(ctx, tx, requestID, runID, now); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit candidate transaction: %w", err)
	}
	return nil
}

func lookupError(err error, notFoundMsg, unavailableMsg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFoundMsg)
	}
	return appErrors.Wrap(err, appErrors.ErrDataUnavailable.Code, appErrors.ErrDataUnavailable.Status, unavailableMsg)
}

func notMatchableError(status models.AssignmentRequestStatus) error {
	return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("assignment request is %s; only open or matching requests can be matched", status))
}

func isKnownScenario(scenario models.ScenarioType) bool {
	for _, known := range models.Scenarios {
		if known == scenario {
			return true
		}
	}
	return false
}
