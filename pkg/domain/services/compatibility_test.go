package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vsinha/coilplan/pkg/domain/entities"
)

func TestLineFits(t *testing.T) {
	line := &entities.Line{ID: "L1", MinWidth: 600, MaxWidth: 1600, MaxThickness: 3, MaxWeight: 25}

	tests := []struct {
		name     string
		coil     entities.Coil
		expected bool
	}{
		{"inside envelope", entities.Coil{Width: 1250, Thickness: 2, Weight: 20}, true},
		{"at width bounds", entities.Coil{Width: 1600, Thickness: 3, Weight: 25}, true},
		{"too narrow", entities.Coil{Width: 500, Thickness: 2, Weight: 20}, false},
		{"too wide", entities.Coil{Width: 1700, Thickness: 2, Weight: 20}, false},
		{"too thick", entities.Coil{Width: 1250, Thickness: 3.5, Weight: 20}, false},
		{"too heavy", entities.Coil{Width: 1250, Thickness: 2, Weight: 26}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LineFits(&tt.coil, line))
		})
	}
}

func TestOrderFitsCoil(t *testing.T) {
	coil := &entities.Coil{Width: 1250, Thickness: 2.0, Weight: 20, Grade: "CRCA"}

	tests := []struct {
		name     string
		order    entities.Order
		expected bool
	}{
		{"compatible", entities.Order{Width: 1200, Thickness: 2.0, Weight: 15, Grade: "CRCA"}, true},
		{"grade mismatch", entities.Order{Width: 1200, Thickness: 2.0, Weight: 15, Grade: "DD"}, false},
		{"thickness is exact", entities.Order{Width: 1200, Thickness: 2.01, Weight: 15, Grade: "CRCA"}, false},
		{"wider than coil", entities.Order{Width: 1300, Thickness: 2.0, Weight: 15, Grade: "CRCA"}, false},
		{"heavier than coil", entities.Order{Width: 1200, Thickness: 2.0, Weight: 21, Grade: "CRCA"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OrderFitsCoil(&tt.order, coil))
		})
	}
}

func TestFirstCompatibleLine(t *testing.T) {
	lines := []*entities.Line{
		{ID: "NARROW", MinWidth: 300, MaxWidth: 1000, MaxThickness: 3, MaxWeight: 25},
		{ID: "WIDE-A", MinWidth: 600, MaxWidth: 1600, MaxThickness: 3, MaxWeight: 25},
		{ID: "WIDE-B", MinWidth: 600, MaxWidth: 2000, MaxThickness: 6, MaxWeight: 30},
	}

	line, ok := FirstCompatibleLine(&entities.Coil{Width: 1250, Thickness: 2, Weight: 20}, lines)
	assert.True(t, ok)
	assert.Equal(t, entities.LineID("WIDE-A"), line.ID)

	_, ok = FirstCompatibleLine(&entities.Coil{Width: 2500, Thickness: 2, Weight: 20}, lines)
	assert.False(t, ok)
}
