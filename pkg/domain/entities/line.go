package entities

import "fmt"

// LineID identifies a processing line
type LineID string

// Line represents a cut-to-length processing line and its operating envelope
type Line struct {
	ID           LineID  `json:"id"`
	Name         string  `json:"name"`
	MinWidth     float64 `json:"min_width"`
	MaxWidth     float64 `json:"max_width"`
	MaxThickness float64 `json:"max_thickness"`
	MaxWeight    float64 `json:"max_weight"`
	SpeedMpm     float64 `json:"speed_mpm"`
	CostPerTonne float64 `json:"cost_per_tonne"`
}

// NewLine creates a validated Line
func NewLine(id LineID, name string, minWidth, maxWidth, maxThickness, maxWeight, speedMpm, costPerTonne float64) (*Line, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("line id cannot be empty")
	}
	if minWidth < 0 {
		return nil, fmt.Errorf("min width cannot be negative, got %g", minWidth)
	}
	if maxWidth < minWidth {
		return nil, fmt.Errorf("max width %g cannot be below min width %g", maxWidth, minWidth)
	}
	if maxThickness <= 0 {
		return nil, fmt.Errorf("max thickness must be positive, got %g", maxThickness)
	}
	if maxWeight <= 0 {
		return nil, fmt.Errorf("max weight must be positive, got %g", maxWeight)
	}

	return &Line{
		ID:           id,
		Name:         name,
		MinWidth:     minWidth,
		MaxWidth:     maxWidth,
		MaxThickness: maxThickness,
		MaxWeight:    maxWeight,
		SpeedMpm:     speedMpm,
		CostPerTonne: costPerTonne,
	}, nil
}
