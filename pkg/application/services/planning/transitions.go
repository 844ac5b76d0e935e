package planning

import (
	"errors"
	"fmt"

	"github.com/vsinha/coilplan/pkg/domain/entities"
)

var (
	// ErrNoProposedPlan is returned when confirming without a proposed plan
	ErrNoProposedPlan = errors.New("no proposed plan to confirm")
	// ErrMissingBreakdown is returned when an assignment carries no per-order allocations
	ErrMissingBreakdown = errors.New("assignment has no allocation breakdown")
)

// Confirmation is the state after a plan has been confirmed
type Confirmation struct {
	Assignments []entities.Assignment
	Coils       []entities.Coil
	Orders      []entities.Order
}

// CoilsUsed returns the ids of the coils the confirmed plan consumes, in plan order
func (c *Confirmation) CoilsUsed() []entities.CoilID {
	seen := make(map[entities.CoilID]bool)
	var ids []entities.CoilID
	for _, a := range c.Assignments {
		if !seen[a.CoilID] {
			seen[a.CoilID] = true
			ids = append(ids, a.CoilID)
		}
	}
	return ids
}

// ConfirmPlan applies a proposed plan: every assignment becomes confirmed,
// every coil it references becomes used, and every order's status is
// recomputed from the weight the plan allocates to it. Nothing is changed
// when an error is returned.
func ConfirmPlan(
	proposed []entities.Assignment,
	coils []entities.Coil,
	orders []entities.Order,
	threshold float64,
) (*Confirmation, error) {
	if len(proposed) == 0 {
		return nil, ErrNoProposedPlan
	}

	confirmed := make([]entities.Assignment, len(proposed))
	allocated := make(map[entities.OrderID]float64)
	referenced := make(map[entities.CoilID]bool)

	for i, a := range proposed {
		if len(a.Allocations) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingBreakdown, a.ID)
		}
		if err := a.TransitionTo(entities.AssignmentConfirmed); err != nil {
			return nil, err
		}
		a.OrderIDs = append([]entities.OrderID(nil), a.OrderIDs...)
		a.Allocations = append([]entities.OrderAllocation(nil), a.Allocations...)
		confirmed[i] = a

		referenced[a.CoilID] = true
		for _, alloc := range a.Allocations {
			allocated[alloc.OrderID] += alloc.AllocatedWeight
		}
	}

	updatedCoils := make([]entities.Coil, len(coils))
	for i, coil := range coils {
		if referenced[coil.ID] {
			if !coil.Status.CanTransitionTo(entities.CoilUsed) {
				return nil, fmt.Errorf("%w: coil %s from %s to %s",
					entities.ErrInvalidTransition, coil.ID, coil.Status, entities.CoilUsed)
			}
			coil.Status = entities.CoilUsed
		}
		updatedCoils[i] = coil
	}

	updatedOrders := make([]entities.Order, len(orders))
	for i, order := range orders {
		order.Status = entities.OrderStatusFor(allocated[order.ID], order.Weight, threshold)
		updatedOrders[i] = order
	}

	return &Confirmation{
		Assignments: confirmed,
		Coils:       updatedCoils,
		Orders:      updatedOrders,
	}, nil
}

// ClearPlan returns every coil to available and every order to pending
func ClearPlan(coils []entities.Coil, orders []entities.Order) ([]entities.Coil, []entities.Order) {
	clearedCoils := make([]entities.Coil, len(coils))
	for i, coil := range coils {
		coil.Status = entities.CoilAvailable
		clearedCoils[i] = coil
	}
	clearedOrders := make([]entities.Order, len(orders))
	for i, order := range orders {
		order.Status = entities.OrderPending
		clearedOrders[i] = order
	}
	return clearedCoils, clearedOrders
}
