package services

import (
	"fmt"
	"math"

	"github.com/vsinha/coilplan/pkg/domain/entities"
)

// InputValidator checks an optimization snapshot for data problems that the
// engine would otherwise silently route around
type InputValidator struct{}

// NewInputValidator creates a new input validator
func NewInputValidator() *InputValidator {
	return &InputValidator{}
}

// ValidationResult contains the results of input validation
type ValidationResult struct {
	DuplicateCoils  []entities.CoilID
	DuplicateOrders []entities.OrderID
	DuplicateLines  []entities.LineID
	// Coils that no line can run; they can never be assigned
	UnrunnableCoils []entities.CoilID
	Errors          []string
	Warnings        []string
}

// Valid reports whether validation found no errors
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Validate performs validation across coils, orders and lines
func (v *InputValidator) Validate(coils []*entities.Coil, orders []*entities.Order, lines []*entities.Line) *ValidationResult {
	result := &ValidationResult{
		DuplicateCoils:  make([]entities.CoilID, 0),
		DuplicateOrders: make([]entities.OrderID, 0),
		DuplicateLines:  make([]entities.LineID, 0),
		UnrunnableCoils: make([]entities.CoilID, 0),
		Errors:          make([]string, 0),
		Warnings:        make([]string, 0),
	}

	result.DuplicateCoils = detectDuplicates(coils, func(c *entities.Coil) entities.CoilID { return c.ID })
	result.DuplicateOrders = detectDuplicates(orders, func(o *entities.Order) entities.OrderID { return o.ID })
	result.DuplicateLines = detectDuplicates(lines, func(l *entities.Line) entities.LineID { return l.ID })

	if len(result.DuplicateCoils) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Duplicate coil ids found: %v", result.DuplicateCoils))
	}
	if len(result.DuplicateOrders) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Duplicate order ids found: %v", result.DuplicateOrders))
	}
	if len(result.DuplicateLines) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Duplicate line ids found: %v", result.DuplicateLines))
	}

	for _, line := range lines {
		if line.MinWidth > line.MaxWidth {
			result.Errors = append(result.Errors, fmt.Sprintf("Line %s: min width %g exceeds max width %g", line.ID, line.MinWidth, line.MaxWidth))
		}
	}

	for _, coil := range coils {
		if !isPositiveFinite(coil.Weight) || !isPositiveFinite(coil.Width) || !isPositiveFinite(coil.Thickness) {
			result.Errors = append(result.Errors, fmt.Sprintf("Coil %s: width, thickness and weight must be positive", coil.ID))
			continue
		}
		if _, ok := FirstCompatibleLine(coil, lines); !ok {
			result.UnrunnableCoils = append(result.UnrunnableCoils, coil.ID)
		}
	}
	if len(result.UnrunnableCoils) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Coils outside every line envelope: %v", result.UnrunnableCoils))
	}

	for _, order := range orders {
		if !isPositiveFinite(order.Weight) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Order %s: weight %g cannot be allocated", order.ID, order.Weight))
		}
	}

	return result
}

func detectDuplicates[T any, K comparable](records []T, key func(T) K) []K {
	seen := make(map[K]bool)
	duplicates := make([]K, 0)

	for _, record := range records {
		k := key(record)
		if seen[k] {
			duplicates = append(duplicates, k)
		} else {
			seen[k] = true
		}
	}

	return duplicates
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
