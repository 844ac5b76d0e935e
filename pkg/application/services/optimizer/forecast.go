package optimizer

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vsinha/coilplan/pkg/domain/entities"
)

// forecastNamespace scopes the name-based forecast ids
var forecastNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("coilplan.forecast"))

type forecastKey struct {
	thickness float64
	grade     string
}

func (k forecastKey) String() string {
	return fmt.Sprintf("%g|%s", k.thickness, k.grade)
}

// ForecastID returns the deterministic id of the forecast for a thickness and grade
func ForecastID(thickness float64, grade string) entities.ForecastID {
	key := forecastKey{thickness: thickness, grade: grade}
	return entities.ForecastID(uuid.NewSHA1(forecastNamespace, []byte(key.String())).String())
}

// GenerateForecasts aggregates unfulfilled orders into raw-material purchase
// recommendations, one per thickness and grade in first-appearance order.
// The same input always yields the same forecasts, ids included.
func GenerateForecasts(unfulfilled []*entities.Order, config Config) []entities.RMForecast {
	var keys []forecastKey
	buckets := make(map[forecastKey][]*entities.Order)
	for _, order := range unfulfilled {
		key := forecastKey{thickness: order.Thickness, grade: order.Grade}
		if _, seen := buckets[key]; !seen {
			keys = append(keys, key)
		}
		buckets[key] = append(buckets[key], order)
	}

	buffer := decimal.NewFromFloat(config.ForecastWeightBuffer)
	margin := decimal.NewFromFloat(config.ForecastWidthMargin)

	forecasts := make([]entities.RMForecast, 0, len(keys))
	for _, key := range keys {
		orders := buckets[key]

		var maxWidth float64
		totalWeight := decimal.Zero
		ids := make([]entities.OrderID, len(orders))
		details := make([]entities.ForecastOrderDetail, len(orders))
		for i, order := range orders {
			if !math.IsInf(order.Width, 0) && order.Width > maxWidth {
				maxWidth = order.Width
			}
			weight := forecastWeight(order.Weight)
			totalWeight = totalWeight.Add(decimal.NewFromFloat(weight))
			ids[i] = order.ID
			details[i] = entities.ForecastOrderDetail{
				OrderID:         order.ID,
				RequiredWidth:   order.Width,
				RequiredLength:  order.Length,
				Quantity:        order.Quantity,
				EstimatedWeight: weight,
			}
		}

		recommended := totalWeight.Mul(buffer).Ceil()
		if recommended.IsNegative() {
			recommended = decimal.Zero
		}
		recommendedWeight := recommended.InexactFloat64()
		if math.IsInf(recommendedWeight, 0) || math.IsNaN(recommendedWeight) {
			continue
		}

		forecasts = append(forecasts, entities.RMForecast{
			ID:                   ForecastID(key.thickness, key.grade),
			RecommendedWidth:     decimal.NewFromFloat(maxWidth).Add(margin).Ceil().InexactFloat64(),
			RecommendedThickness: key.thickness,
			RecommendedWeight:    recommendedWeight,
			Grade:                key.grade,
			Unfulfilled:          ids,
			Quantity:             len(orders),
			Details:              details,
		})
	}

	return forecasts
}

// forecastWeight counts non-finite and negative weights as zero
func forecastWeight(weight float64) float64 {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return 0
	}
	return weight
}
