package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/substitute-matcher/internal/dto"
	"github.com/noah-isme/substitute-matcher/internal/middleware"
	"github.com/noah-isme/substitute-matcher/internal/models"
	"github.com/noah-isme/substitute-matcher/internal/service"
	appErrors "github.com/noah-isme/substitute-matcher/pkg/errors"
)

const requestUUID = "6f1c2d3e-4a5b-4c6d-8e9f-0a1b2c3d4e5f"

type matchingServiceMock struct {
	runErr   error
	listErr  error
	cacheHit bool
	runID    string
	scenario string
}

func (m *matchingServiceMock) Run(ctx context.Context, requestID string) (*dto.MatchRunResult, error) {
	if m.runErr != nil {
		return nil, m.runErr
	}
	m.runID = requestID
	return &dto.MatchRunResult{
		RequestID:       requestID,
		RunID:           "run-1",
		CandidatesCount: 3,
		Scenarios:       models.Scenarios,
		ScenarioCounts:  map[models.ScenarioType]int{models.ScenarioDefault: 1, models.ScenarioFast: 1, models.ScenarioNear: 1},
		MatchedAt:       time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC),
	}, nil
}

func (m *matchingServiceMock) ListCandidates(ctx context.Context, requestID, scenario string) (*dto.CandidateList, bool, error) {
	if m.listErr != nil {
		return nil, false, m.listErr
	}
	m.scenario = scenario
	return &dto.CandidateList{RequestID: requestID, Scenario: scenario, Items: []models.AssignmentCandidate{
		{ID: "cand-1", RequestID: requestID, SubstituteID: "sub-1", ScenarioType: models.ScenarioNear, Rank: 1, Score: 86},
	}}, m.cacheHit, nil
}

type settingsServiceMock struct {
	updated *dto.UpdateMatchingSettingsRequest
	actor   *models.JWTClaims
}

func (m *settingsServiceMock) Load(ctx context.Context) (models.MatchingSettings, error) {
	return models.DefaultMatchingSettings(), nil
}

func (m *settingsServiceMock) Update(ctx context.Context, req dto.UpdateMatchingSettingsRequest, actor *models.JWTClaims) (models.MatchingSettings, error) {
	m.updated = &req
	m.actor = actor
	return models.DefaultMatchingSettings(), nil
}

func newMatchingRouter(h *MatchingHandler, claims *models.JWTClaims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.WithResponseMeta())
	r.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.ContextUserKey, claims)
		}
		c.Next()
	})
	r.POST("/assignment-requests/:id/match", h.Run)
	r.GET("/assignment-requests/:id/candidates", h.Candidates)
	r.GET("/matching/settings", h.Settings)
	r.PUT("/matching/settings", h.UpdateSettings)
	return r
}

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestMatchingHandlerRun(t *testing.T) {
	svc := &matchingServiceMock{}
	r := newMatchingRouter(NewMatchingHandler(svc, &settingsServiceMock{}, nil), nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/assignment-requests/"+requestUUID+"/match", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var result dto.MatchRunResult
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &result))
	assert.Equal(t, requestUUID, result.RequestID)
	assert.Equal(t, 3, result.CandidatesCount)
	assert.Equal(t, requestUUID, svc.runID)
}

func TestMatchingHandlerRunRejectsBadID(t *testing.T) {
	r := newMatchingRouter(NewMatchingHandler(&matchingServiceMock{}, &settingsServiceMock{}, nil), nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/assignment-requests/not-a-uuid/match", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decodeEnvelope(t, rec).Error.Code)
}

func TestMatchingHandlerRunErrors(t *testing.T) {
	cases := []struct {
		err  error
		code string
		want int
	}{
		{err: appErrors.Clone(appErrors.ErrNotFound, "assignment request not found"), code: "NOT_FOUND", want: http.StatusNotFound},
		{err: appErrors.Clone(appErrors.ErrConflict, "assignment request is closed"), code: "CONFLICT", want: http.StatusConflict},
		{err: appErrors.Clone(appErrors.ErrDataUnavailable, "branch coordinates unavailable"), code: "DATA_UNAVAILABLE", want: http.StatusServiceUnavailable},
		{err: appErrors.Wrap(errors.New("tx"), appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed"), code: "PERSISTENCE_FAILURE", want: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			r := newMatchingRouter(NewMatchingHandler(&matchingServiceMock{runErr: tc.err}, &settingsServiceMock{}, nil), nil)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/assignment-requests/"+requestUUID+"/match", nil))

			require.Equal(t, tc.want, rec.Code)
			env := decodeEnvelope(t, rec)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}
}

func TestMatchingHandlerCandidatesReportsCacheHit(t *testing.T) {
	svc := &matchingServiceMock{cacheHit: true}
	r := newMatchingRouter(NewMatchingHandler(svc, &settingsServiceMock{}, nil), nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assignment-requests/"+requestUUID+"/candidates?scenario=near", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, true, env.Meta["cache_hit"])
	assert.Equal(t, "near", svc.scenario)

	var list dto.CandidateList
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "sub-1", list.Items[0].SubstituteID)
}

func TestMatchingHandlerSettings(t *testing.T) {
	r := newMatchingRouter(NewMatchingHandler(&matchingServiceMock{}, &settingsServiceMock{}, nil), nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/matching/settings", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var settings models.MatchingSettings
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &settings))
	assert.Equal(t, 1500.0, settings.Logistics.AirThresholdKm)
	assert.Equal(t, 0.6, settings.Weights[models.ScenarioNear].Logistics)
}

func TestMatchingHandlerUpdateSettings(t *testing.T) {
	settings := &settingsServiceMock{}
	actor := &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}
	r := newMatchingRouter(NewMatchingHandler(&matchingServiceMock{}, settings, nil), actor)

	body := []byte(`{"weights":{"fast":{"speed":0.7,"logistics":0.2,"load":0.1}}}`)
	req := httptest.NewRequest(http.MethodPut, "/matching/settings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, settings.updated)
	assert.Equal(t, 0.7, settings.updated.Weights[models.ScenarioFast].Speed)
	assert.Equal(t, actor, settings.actor)
}

func TestMatchingHandlerUpdateSettingsInvalidBody(t *testing.T) {
	r := newMatchingRouter(NewMatchingHandler(&matchingServiceMock{}, &settingsServiceMock{}, nil), nil)

	req := httptest.NewRequest(http.MethodPut, "/matching/settings", bytes.NewReader([]byte(`{"weights":`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsHandlerReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	healthy := NewMetricsHandler(service.NewMetricsService(), map[string]ReadinessCheck{
		"database": func(ctx context.Context) error { return nil },
	})
	broken := NewMetricsHandler(nil, map[string]ReadinessCheck{
		"database": func(ctx context.Context) error { return errors.New("dial tcp: refused") },
	})

	r := gin.New()
	r.GET("/ready", healthy.Ready)
	r.GET("/ready-broken", broken.Ready)
	r.GET("/metrics", healthy.Prometheus)
	r.GET("/metrics-off", broken.Prometheus)
	r.GET("/summary", healthy.Summary)

	for path, want := range map[string]int{
		"/ready":        http.StatusOK,
		"/ready-broken": http.StatusServiceUnavailable,
		"/metrics":      http.StatusOK,
		"/metrics-off":  http.StatusServiceUnavailable,
		"/summary":      http.StatusOK,
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
	}
}
