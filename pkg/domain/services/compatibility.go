package services

import "github.com/vsinha/coilplan/pkg/domain/entities"

// LineFits reports whether a coil falls inside a line's operating envelope
func LineFits(coil *entities.Coil, line *entities.Line) bool {
	return coil.Width >= line.MinWidth &&
		coil.Width <= line.MaxWidth &&
		coil.Thickness <= line.MaxThickness &&
		coil.Weight <= line.MaxWeight
}

// OrderFitsCoil reports whether a coil can serve an order on its own.
// Thickness must match exactly.
func OrderFitsCoil(order *entities.Order, coil *entities.Coil) bool {
	return order.Grade == coil.Grade &&
		order.Thickness == coil.Thickness &&
		order.Width <= coil.Width &&
		order.Weight <= coil.Weight
}

// SpecMatches reports whether a coil has exactly the given thickness, grade and product
func SpecMatches(coil *entities.Coil, thickness float64, grade string, product entities.Product) bool {
	return coil.Thickness == thickness &&
		coil.Grade == grade &&
		coil.Product == product
}

// FirstCompatibleLine returns the first line, in input order, that can run the coil
func FirstCompatibleLine(coil *entities.Coil, lines []*entities.Line) (*entities.Line, bool) {
	for _, line := range lines {
		if LineFits(coil, line) {
			return line, true
		}
	}
	return nil, false
}
