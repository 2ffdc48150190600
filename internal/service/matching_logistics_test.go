package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/substitute-matcher/internal/models"
	"github.com/noah-isme/substitute-matcher/pkg/geo"
)

var equatorOrigin = geo.Point{Lng: 0, Lat: 0}

func TestEstimateLogisticsSamePoint(t *testing.T) {
	est := EstimateLogistics(equatorOrigin, equatorOrigin, models.DefaultLogisticsRules())

	assert.Equal(t, models.TravelModeCar, est.Mode)
	assert.Zero(t, est.DistanceKm)
	assert.Zero(t, est.EtaHours)
	assert.Equal(t, 500.0, est.Cost)
}

func TestEstimateLogisticsModes(t *testing.T) {
	rules := models.DefaultLogisticsRules()

	cases := []struct {
		name string
		to   geo.Point
		mode models.TravelMode
	}{
		{name: "short trip by car", to: geo.Point{Lng: 1, Lat: 0}, mode: models.TravelModeCar},
		{name: "mid trip by rail", to: geo.Point{Lng: 2.7, Lat: 0}, mode: models.TravelModeRail},
		{name: "long trip by air", to: geo.Point{Lng: 27, Lat: 0}, mode: models.TravelModeAir},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			est := EstimateLogistics(equatorOrigin, tc.to, rules)
			assert.Equal(t, tc.mode, est.Mode)
			assert.Greater(t, est.EtaHours, 0.0)
		})
	}
}

func TestEstimateLogisticsAntipodalTrip(t *testing.T) {
	rules := models.DefaultLogisticsRules()
	est := EstimateLogistics(geo.Point{Lng: -179.5, Lat: -88.5}, geo.Point{Lng: 0.5, Lat: 88.5}, rules)

	assert.Equal(t, models.TravelModeAir, est.Mode)
	assert.False(t, math.IsNaN(est.EtaHours))
	assert.False(t, math.IsNaN(est.Cost))
	assert.InDelta(t, math.Pi*geo.EarthRadiusKm/rules.AirSpeedKmh, est.EtaHours, 1e-5)
}

func TestEstimateLogisticsAirCost(t *testing.T) {
	rules := models.DefaultLogisticsRules()
	to := geo.Point{Lng: 27, Lat: 0}
	distance := geo.DistanceKm(equatorOrigin, to)

	est := EstimateLogistics(equatorOrigin, to, rules)

	assert.InDelta(t, distance/700, est.EtaHours, 1e-9)
	assert.InDelta(t, 5000+distance*3, est.Cost, 1e-9)
	assert.InDelta(t, distance, est.DistanceKm, 1e-9)
}

func TestEstimateLogisticsThresholdIsStrict(t *testing.T) {
	to := geo.Point{Lng: 2.7, Lat: 0}
	distance := geo.DistanceKm(equatorOrigin, to)

	rules := models.DefaultLogisticsRules()
	rules.RailThresholdKm = distance
	assert.Equal(t, models.TravelModeCar, EstimateLogistics(equatorOrigin, to, rules).Mode)

	rules.RailThresholdKm = distance - 0.001
	assert.Equal(t, models.TravelModeRail, EstimateLogistics(equatorOrigin, to, rules).Mode)

	rules.AirThresholdKm = distance
	assert.Equal(t, models.TravelModeRail, EstimateLogistics(equatorOrigin, to, rules).Mode)
}

func TestEstimateLogisticsNonPositiveSpeed(t *testing.T) {
	rules := models.DefaultLogisticsRules()
	rules.CarSpeedKmh = 0

	est := EstimateLogistics(equatorOrigin, geo.Point{Lng: 1, Lat: 0}, rules)
	assert.Equal(t, models.TravelModeCar, est.Mode)
	assert.Zero(t, est.EtaHours)
}
