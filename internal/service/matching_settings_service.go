package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/substitute-matcher/internal/dto"
	"github.com/noah-isme/substitute-matcher/internal/models"
	appErrors "github.com/noah-isme/substitute-matcher/pkg/errors"
	"github.com/noah-isme/substitute-matcher/pkg/logger"
)

// Configuration keys holding matching settings as JSON documents.
const (
	ConfigKeyScoringWeights     = "scoring_weights"
	ConfigKeyScoringWeightsFast = "scoring_weights_fast"
	ConfigKeyScoringWeightsNear = "scoring_weights_near"
	ConfigKeyLogisticsRules     = "logistics_rules"
)

var scenarioWeightKeys = map[models.ScenarioType]string{
	models.ScenarioDefault: ConfigKeyScoringWeights,
	models.ScenarioFast:    ConfigKeyScoringWeightsFast,
	models.ScenarioNear:    ConfigKeyScoringWeightsNear,
}

var settingDescriptions = map[string]string{
	ConfigKeyScoringWeights:     "Sub-score weights for the balanced scenario",
	ConfigKeyScoringWeightsFast: "Sub-score weights for the fastest-start scenario",
	ConfigKeyScoringWeightsNear: "Sub-score weights for the nearest-location scenario",
	ConfigKeyLogisticsRules:     "Travel mode thresholds, speeds and costs",
}

type matchingConfigRepository interface {
	ListByKeys(ctx context.Context, keys []string) ([]models.Configuration, error)
	BulkUpsert(ctx context.Context, cfgs []models.Configuration) error
}

// MatchingSettingsService loads typed matching settings from the configurations table.
type MatchingSettingsService struct {
	repo      matchingConfigRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMatchingSettingsService constructs the service.
func NewMatchingSettingsService(repo matchingConfigRepository, validate *validator.Validate, logger *zap.Logger) *MatchingSettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchingSettingsService{repo: repo, validator: validate, logger: logger}
}

func settingKeys() []string {
	return []string{ConfigKeyLogisticsRules, ConfigKeyScoringWeights, ConfigKeyScoringWeightsFast, ConfigKeyScoringWeightsNear}
}

// Load returns the effective settings. Absent, malformed or invalid entries fall back to
// the built-in defaults; only a failed lookup is an error.
func (s *MatchingSettingsService) Load(ctx context.Context) (models.MatchingSettings, error) {
	settings := models.DefaultMatchingSettings()

	rows, err := s.repo.ListByKeys(ctx, settingKeys())
	if err != nil {
		return settings, appErrors.Wrap(err, appErrors.ErrDataUnavailable.Code, appErrors.ErrDataUnavailable.Status, "failed to load matching settings")
	}

	log := logger.FromContext(ctx, s.logger)
	for _, row := range rows {
		if row.Key == ConfigKeyLogisticsRules {
			rules := models.DefaultLogisticsRules()
			if err := s.decode(row.Value, &rules); err != nil {
				log.Warn("invalid logistics rules, using defaults", zap.String("key", row.Key), zap.Error(err))
				continue
			}
			settings.Logistics = rules
			continue
		}
		for scenario, key := range scenarioWeightKeys {
			if key != row.Key {
				continue
			}
			weights := settings.Weights[scenario]
			if err := s.decode(row.Value, &weights); err != nil {
				log.Warn("invalid scoring weights, using defaults", zap.String("key", row.Key), zap.Error(err))
				break
			}
			settings.Weights[scenario] = weights
		}
	}
	return settings, nil
}

// Update validates and stores new settings, then returns the effective result.
func (s *MatchingSettingsService) Update(ctx context.Context, req dto.UpdateMatchingSettingsRequest, actor *models.JWTClaims) (models.MatchingSettings, error) {
	if actor == nil {
		return models.MatchingSettings{}, appErrors.ErrUnauthorized
	}
	if req.Logistics == nil && len(req.Weights) == 0 {
		return models.MatchingSettings{}, appErrors.Clone(appErrors.ErrValidation, "nothing to update")
	}
	if err := s.validator.Struct(req); err != nil {
		return models.MatchingSettings{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid matching settings")
	}

	updatedBy := actor.UserID
	entries := make([]models.Configuration, 0, len(req.Weights)+1)
	if req.Logistics != nil {
		entry, err := settingEntry(ConfigKeyLogisticsRules, req.Logistics, &updatedBy)
		if err != nil {
			return models.MatchingSettings{}, err
		}
		entries = append(entries, entry)
	}
	for _, scenario := range models.Scenarios {
		weights, ok := req.Weights[scenario]
		if !ok {
			continue
		}
		entry, err := settingEntry(scenarioWeightKeys[scenario], weights, &updatedBy)
		if err != nil {
			return models.MatchingSettings{}, err
		}
		entries = append(entries, entry)
	}
	if len(entries) != countRequested(req) {
		return models.MatchingSettings{}, appErrors.Clone(appErrors.ErrValidation, "unknown scenario in weights")
	}

	if err := s.repo.BulkUpsert(ctx, entries); err != nil {
		return models.MatchingSettings{}, appErrors.Wrap(err, appErrors.ErrPersistenceFailure.Code, appErrors.ErrPersistenceFailure.Status, "failed to store matching settings")
	}
	logger.FromContext(ctx, s.logger).Info("matching settings updated",
		zap.String("updated_by", updatedBy),
		zap.Int("entries", len(entries)),
	)
	return s.Load(ctx)
}

func (s *MatchingSettingsService) decode(raw types.JSONText, dest interface{}) error {
	if err := raw.Unmarshal(dest); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := s.validator.Struct(dest); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

func settingEntry(key string, value interface{}, updatedBy *string) (models.Configuration, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return models.Configuration{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode matching settings")
	}
	description := settingDescriptions[key]
	return models.Configuration{
		Key:         key,
		Value:       types.JSONText(raw),
		Type:        models.ConfigurationTypeJSON,
		Description: &description,
		UpdatedBy:   updatedBy,
	}, nil
}

func countRequested(req dto.UpdateMatchingSettingsRequest) int {
	n := len(req.Weights)
	if req.Logistics != nil {
		n++
	}
	return n
}
