package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusFor(t *testing.T) {
	tests := []struct {
		name      string
		allocated float64
		required  float64
		expected  OrderStatus
	}{
		{"nothing allocated", 0, 10, OrderPending},
		{"forty percent", 4, 10, OrderAssigned},
		{"just below threshold", 9.89, 10, OrderAssigned},
		{"at threshold", 9.9, 10, OrderCompleted},
		{"fully allocated", 10, 10, OrderCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OrderStatusFor(tt.allocated, tt.required, FulfilmentThreshold))
		})
	}
}

func TestCoilStatus_Transitions(t *testing.T) {
	assert.True(t, CoilAvailable.CanTransitionTo(CoilUsed))
	assert.True(t, CoilAllocated.CanTransitionTo(CoilAvailable))
	assert.True(t, CoilUsed.CanTransitionTo(CoilAvailable))
	assert.True(t, CoilUsed.CanTransitionTo(CoilUsed))
	assert.False(t, CoilUsed.CanTransitionTo(CoilAllocated))
}

func TestAssignment_TransitionTo(t *testing.T) {
	a := &Assignment{ID: "A1", Status: AssignmentProposed}

	require.NoError(t, a.TransitionTo(AssignmentConfirmed))
	assert.Equal(t, AssignmentConfirmed, a.Status)

	err := a.TransitionTo(AssignmentConfirmed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	require.NoError(t, a.TransitionTo(AssignmentCompleted))
	assert.Error(t, a.TransitionTo(AssignmentProposed))
}

func TestStatus_TextRoundTrip(t *testing.T) {
	var coil CoilStatus
	require.NoError(t, coil.UnmarshalText([]byte("USED")))
	assert.Equal(t, CoilUsed, coil)

	var order OrderStatus
	assert.Error(t, order.UnmarshalText([]byte("shipped")))

	text, err := AssignmentConfirmed.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "confirmed", string(text))
}

func TestParseProduct(t *testing.T) {
	p, err := ParseProduct(" cr ")
	require.NoError(t, err)
	assert.Equal(t, ColdRolled, p)
	assert.Equal(t, "CR", p.String())

	_, err = ParseProduct("XX")
	assert.EqualError(t, err, "invalid product: XX (expected: HR, CR, GP, CC, or SS)")
}
