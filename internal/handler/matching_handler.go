package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/substitute-matcher/internal/dto"
	"github.com/noah-isme/substitute-matcher/internal/middleware"
	"github.com/noah-isme/substitute-matcher/internal/models"
	appErrors "github.com/noah-isme/substitute-matcher/pkg/errors"
	"github.com/noah-isme/substitute-matcher/pkg/response"
)

type matchingService interface {
	Run(ctx context.Context, requestID string) (*dto.MatchRunResult, error)
	ListCandidates(ctx context.Context, requestID, scenario string) (*dto.CandidateList, bool, error)
}

type matchingSettingsService interface {
	Load(ctx context.Context) (models.MatchingSettings, error)
	Update(ctx context.Context, req dto.UpdateMatchingSettingsRequest, actor *models.JWTClaims) (models.MatchingSettings, error)
}

// MatchingHandler exposes candidate matching endpoints.
type MatchingHandler struct {
	service   matchingService
	settings  matchingSettingsService
	validator *validator.Validate
}

// NewMatchingHandler builds a new handler.
func NewMatchingHandler(service matchingService, settings matchingSettingsService, validate *validator.Validate) *MatchingHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &MatchingHandler{service: service, settings: settings, validator: validate}
}

// Run godoc
// @Summary Compute candidates for an assignment request
// @Description Ranks the active substitute pool for every scenario and replaces the stored candidate set.
// @Tags Matching
// @Produce json
// @Param id path string true "Assignment request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /assignment-requests/{id}/match [post]
func (h *MatchingHandler) Run(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}
	result, err := h.service.Run(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Candidates godoc
// @Summary List stored candidates
// @Tags Matching
// @Produce json
// @Param id path string true "Assignment request ID"
// @Param scenario query string false "default, fast or near"
// @Success 200 {object} response.Envelope
// @Router /assignment-requests/{id}/candidates [get]
func (h *MatchingHandler) Candidates(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}
	list, hit, err := h.service.ListCandidates(c.Request.Context(), id, c.Query("scenario"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	middleware.SetMeta(c, "count", len(list.Items))
	response.JSON(c, http.StatusOK, list, middleware.ResponseMeta(c))
}

// Settings godoc
// @Summary Effective matching settings
// @Tags Matching
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /matching/settings [get]
func (h *MatchingHandler) Settings(c *gin.Context) {
	settings, err := h.settings.Load(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary Update matching settings
// @Tags Matching
// @Accept json
// @Produce json
// @Param payload body dto.UpdateMatchingSettingsRequest true "Settings payload"
// @Success 200 {object} response.Envelope
// @Router /matching/settings [put]
func (h *MatchingHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdateMatchingSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid settings payload"))
		return
	}
	settings, err := h.settings.Update(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings)
}

func (h *MatchingHandler) requestID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if err := h.validator.Var(id, "required,uuid"); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "assignment request id must be a UUID"))
		return "", false
	}
	return id, true
}

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}
