package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoil_Validation(t *testing.T) {
	coil, err := NewCoil("C1", ColdRolled, 1250, 2.0, 1000, 20, "CRCA", CoilAvailable)
	require.NoError(t, err)
	assert.Equal(t, 20.0, coil.Weight)

	testCases := []struct {
		name        string
		id          CoilID
		width       float64
		thickness   float64
		weight      float64
		grade       string
		expectError string
	}{
		{"empty id", "", 1250, 2, 20, "CRCA", "coil id cannot be empty"},
		{"zero width", "C1", 0, 2, 20, "CRCA", "width must be positive, got 0"},
		{"negative thickness", "C1", 1250, -1, 20, "CRCA", "thickness must be positive, got -1"},
		{"zero weight", "C1", 1250, 2, 0, "CRCA", "weight must be positive, got 0"},
		{"empty grade", "C1", 1250, 2, 20, "", "grade cannot be empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCoil(tc.id, ColdRolled, tc.width, tc.thickness, 0, tc.weight, tc.grade, CoilAvailable)
			assert.EqualError(t, err, tc.expectError)
		})
	}
}

func TestOrder_Validation(t *testing.T) {
	due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	order, err := NewOrder("O1", ColdRolled, 1200, 2500, 2.0, 100, "CRCA", 15, 1, due)
	require.NoError(t, err)
	assert.Equal(t, OrderPending, order.Status)

	_, err = NewOrder("O1", ColdRolled, 1200, 2500, 2.0, 0, "CRCA", 15, 1, due)
	assert.EqualError(t, err, "quantity must be positive, got 0")

	_, err = NewOrder("O1", ColdRolled, 1200, 2500, 2.0, 10, "CRCA", -1, 1, due)
	assert.EqualError(t, err, "weight cannot be negative, got -1")
}

func TestLine_Validation(t *testing.T) {
	_, err := NewLine("L1", "CTL-1", 600, 1600, 3, 25, 60, 1200)
	require.NoError(t, err)

	_, err = NewLine("L1", "CTL-1", 1600, 600, 3, 25, 60, 1200)
	assert.EqualError(t, err, "max width 600 cannot be below min width 1600")
}

func TestAssignment_AllocatedTo(t *testing.T) {
	a := Assignment{
		Kind: FullAllocation,
		Allocations: []OrderAllocation{
			{OrderID: "O1", AllocatedWeight: 5},
			{OrderID: "O2", AllocatedWeight: 3},
		},
	}

	assert.Equal(t, 5.0, a.AllocatedTo("O1"))
	assert.Equal(t, 0.0, a.AllocatedTo("O3"))
	assert.False(t, a.IsPartial())
}
