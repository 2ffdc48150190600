package service

import (
	"github.com/noah-isme/substitute-matcher/internal/models"
	"github.com/noah-isme/substitute-matcher/pkg/geo"
)

// EstimateLogistics picks a travel mode by distance and derives the linear ETA and cost for it.
// Thresholds are strict: a trip of exactly RailThresholdKm still goes by car.
func EstimateLogistics(from, to geo.Point, rules models.LogisticsRules) models.LogisticsEstimate {
	distance := geo.DistanceKm(from, to)

	var (
		mode  models.TravelMode
		speed float64
		base  float64
		perKm float64
	)
	switch {
	case distance > rules.AirThresholdKm:
		mode, speed, base, perKm = models.TravelModeAir, rules.AirSpeedKmh, rules.AirBaseCost, rules.AirCostPerKm
	case distance > rules.RailThresholdKm:
		mode, speed, base, perKm = models.TravelModeRail, rules.RailSpeedKmh, rules.RailBaseCost, rules.RailCostPerKm
	default:
		mode, speed, base, perKm = models.TravelModeCar, rules.CarSpeedKmh, rules.CarBaseCost, rules.CarCostPerKm
	}

	var eta float64
	if speed > 0 {
		eta = distance / speed
	}

	return models.LogisticsEstimate{
		Mode:       mode,
		EtaHours:   eta,
		Cost:       base + distance*perKm,
		DistanceKm: distance,
	}
}
