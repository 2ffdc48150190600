package models

// ScenarioType names a weighting configuration used to rank the same pool.
type ScenarioType string

const (
	ScenarioDefault ScenarioType = "default"
	ScenarioFast    ScenarioType = "fast"
	ScenarioNear    ScenarioType = "near"
)

// Scenarios lists every scenario a matching run produces, in reporting order.
var Scenarios = []ScenarioType{ScenarioDefault, ScenarioFast, ScenarioNear}

// TravelMode is the transport chosen for a substitute's trip to the branch.
type TravelMode string

const (
	TravelModeCar  TravelMode = "car"
	TravelModeRail TravelMode = "rail"
	TravelModeAir  TravelMode = "air"
)

// ScoringWeights combine the three sub-scores into a final score.
type ScoringWeights struct {
	Speed     float64 `json:"speed" validate:"gte=0"`
	Logistics float64 `json:"logistics" validate:"gte=0"`
	Load      float64 `json:"load" validate:"gte=0"`
}

// LogisticsRules drive travel mode selection and the linear ETA/cost model.
type LogisticsRules struct {
	AirThresholdKm  float64 `json:"air_threshold_km" validate:"gte=0"`
	RailThresholdKm float64 `json:"rail_threshold_km" validate:"gte=0"`
	AirSpeedKmh     float64 `json:"air_speed_kmh" validate:"gt=0"`
	RailSpeedKmh    float64 `json:"rail_speed_kmh" validate:"gt=0"`
	CarSpeedKmh     float64 `json:"car_speed_kmh" validate:"gt=0"`
	AirBaseCost     float64 `json:"air_base_cost" validate:"gte=0"`
	RailBaseCost    float64 `json:"rail_base_cost" validate:"gte=0"`
	CarBaseCost     float64 `json:"car_base_cost" validate:"gte=0"`
	AirCostPerKm    float64 `json:"air_cost_per_km" validate:"gte=0"`
	RailCostPerKm   float64 `json:"rail_cost_per_km" validate:"gte=0"`
	CarCostPerKm    float64 `json:"car_cost_per_km" validate:"gte=0"`
}

// MatchingSettings is the typed configuration loaded once per matching run.
type MatchingSettings struct {
	Logistics LogisticsRules                  `json:"logistics_rules"`
	Weights   map[ScenarioType]ScoringWeights `json:"weights"`
}

// WeightsFor returns the weights configured for a scenario, falling back to the built-in set.
func (s MatchingSettings) WeightsFor(scenario ScenarioType) ScoringWeights {
	if w, ok := s.Weights[scenario]; ok {
		return w
	}
	return DefaultScenarioWeights()[scenario]
}

// DefaultLogisticsRules returns the documented fallback logistics configuration.
func DefaultLogisticsRules() LogisticsRules {
	return LogisticsRules{
		AirThresholdKm:  1500,
		RailThresholdKm: 200,
		AirSpeedKmh:     700,
		RailSpeedKmh:    80,
		CarSpeedKmh:     60,
		AirBaseCost:     5000,
		RailBaseCost:    1500,
		CarBaseCost:     500,
		AirCostPerKm:    3,
		RailCostPerKm:   1,
		CarCostPerKm:    0.5,
	}
}

// DefaultScenarioWeights returns the documented fallback weights for every scenario.
func DefaultScenarioWeights() map[ScenarioType]ScoringWeights {
	return map[ScenarioType]ScoringWeights{
		ScenarioDefault: {Speed: 0.4, Logistics: 0.35, Load: 0.25},
		ScenarioFast:    {Speed: 0.5, Logistics: 0.35, Load: 0.15},
		ScenarioNear:    {Speed: 0.25, Logistics: 0.6, Load: 0.15},
	}
}

// DefaultMatchingSettings bundles all fallback values.
func DefaultMatchingSettings() MatchingSettings {
	return MatchingSettings{
		Logistics: DefaultLogisticsRules(),
		Weights:   DefaultScenarioWeights(),
	}
}
