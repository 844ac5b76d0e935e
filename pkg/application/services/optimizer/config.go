package optimizer

import "github.com/vsinha/coilplan/pkg/domain/entities"

// Config holds the tunable constants of the allocation engine
type Config struct {
	// ChangeoverCost is the fixed score penalty for setting a coil up on a line
	ChangeoverCost float64
	// WidthTolerance is how far (mm) an order's width may sit from its group anchor
	WidthTolerance float64
	// FulfilmentThreshold is the share of an order's weight that counts as fulfilled
	FulfilmentThreshold float64
	// ForecastWidthMargin is the trim allowance (mm) added to forecast widths
	ForecastWidthMargin float64
	// ForecastWeightBuffer multiplies unfulfilled tonnage in forecasts
	ForecastWeightBuffer float64
}

// DefaultConfig returns the standard engine configuration
func DefaultConfig() Config {
	return Config{
		ChangeoverCost:       100,
		WidthTolerance:       10,
		FulfilmentThreshold:  entities.FulfilmentThreshold,
		ForecastWidthMargin:  20,
		ForecastWeightBuffer: 1.1,
	}
}
