package entities

import "fmt"

// CoilID identifies a coil in inventory
type CoilID string

// Coil represents one raw-material coil. Dimensions are in millimetres,
// weight in tonnes.
type Coil struct {
	ID        CoilID     `json:"id"`
	Product   Product    `json:"product"`
	Width     float64    `json:"width"`
	Thickness float64    `json:"thickness"`
	Length    float64    `json:"length"`
	Weight    float64    `json:"weight"`
	Grade     string     `json:"grade"`
	Status    CoilStatus `json:"status"`
}

// NewCoil creates a validated Coil
func NewCoil(id CoilID, product Product, width, thickness, length, weight float64, grade string, status CoilStatus) (*Coil, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("coil id cannot be empty")
	}
	if width <= 0 {
		return nil, fmt.Errorf("width must be positive, got %g", width)
	}
	if thickness <= 0 {
		return nil, fmt.Errorf("thickness must be positive, got %g", thickness)
	}
	if length < 0 {
		return nil, fmt.Errorf("length cannot be negative, got %g", length)
	}
	if weight <= 0 {
		return nil, fmt.Errorf("weight must be positive, got %g", weight)
	}
	if grade == "" {
		return nil, fmt.Errorf("grade cannot be empty")
	}

	return &Coil{
		ID:        id,
		Product:   product,
		Width:     width,
		Thickness: thickness,
		Length:    length,
		Weight:    weight,
		Grade:     grade,
		Status:    status,
	}, nil
}
