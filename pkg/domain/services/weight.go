package services

import (
	"github.com/shopspring/decimal"
)

// SteelDensity is the density of carbon steel in t/m³ (equivalently g/cm³)
var SteelDensity = decimal.RequireFromString("7.85")

var (
	mmCubedPerMetreCubed = decimal.New(1, 9)
	kgPerTonne           = decimal.NewFromInt(1000)
	mmPerMetre           = decimal.NewFromInt(1000)
)

// OrderWeight returns the tonnage of quantity sheets of the given dimensions
// (millimetres), rounded to 10 kg.
func OrderWeight(width, length, thickness float64, quantity int) float64 {
	if width <= 0 || length <= 0 || thickness <= 0 || quantity <= 0 {
		return 0
	}

	volume := decimal.NewFromFloat(width).
		Mul(decimal.NewFromFloat(length)).
		Mul(decimal.NewFromFloat(thickness)).
		Mul(decimal.NewFromInt(int64(quantity)))

	return volume.Mul(SteelDensity).Div(mmCubedPerMetreCubed).Round(2).InexactFloat64()
}

// CoilLength returns the strip length in millimetres of a coil with the
// given weight (tonnes), width and thickness (millimetres).
func CoilLength(weight, width, thickness float64) float64 {
	if weight <= 0 || width <= 0 || thickness <= 0 {
		return 0
	}

	weightKg := decimal.NewFromFloat(weight).Mul(kgPerTonne)
	widthM := decimal.NewFromFloat(width).Div(mmPerMetre)
	thicknessM := decimal.NewFromFloat(thickness).Div(mmPerMetre)
	densityKg := SteelDensity.Mul(kgPerTonne)

	lengthM := weightKg.Div(densityKg.Mul(widthM).Mul(thicknessM))
	return lengthM.Mul(mmPerMetre).Round(0).InexactFloat64()
}
