package entities

import (
	"fmt"
	"strings"
)

// AssignmentID identifies one assignment within a plan
type AssignmentID string

// AssignmentKind distinguishes a coil serving whole orders from a coil
// contributing part of a multi-coil fulfilment
type AssignmentKind int

const (
	FullAllocation AssignmentKind = iota
	PartialAllocation
)

// String method for AssignmentKind enum
func (k AssignmentKind) String() string {
	switch k {
	case FullAllocation:
		return "full"
	case PartialAllocation:
		return "partial"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (k AssignmentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *AssignmentKind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "full":
		*k = FullAllocation
	case "partial":
		*k = PartialAllocation
	default:
		return fmt.Errorf("invalid assignment kind: %s (expected: full or partial)", text)
	}
	return nil
}

// OrderAllocation records how much of one order an assignment covers
type OrderAllocation struct {
	OrderID         OrderID `json:"order_id"`
	AllocatedWeight float64 `json:"allocated_weight"`
	Partial         bool    `json:"partial"`
}

// Assignment is a cutting pattern: one coil run on one line producing one or
// more orders. Allocations always carries one entry per covered order.
type Assignment struct {
	ID              AssignmentID      `json:"id"`
	CoilID          CoilID            `json:"coil_id"`
	LineID          LineID            `json:"line_id"`
	OrderIDs        []OrderID         `json:"order_ids"`
	Kind            AssignmentKind    `json:"kind"`
	Pass            int               `json:"pass"`
	SideScrap       float64           `json:"side_scrap"`
	EndScrap        float64           `json:"end_scrap"`
	Utilization     float64           `json:"utilization"`
	ChangeoverCost  float64           `json:"changeover_cost"`
	TotalScore      float64           `json:"total_score"`
	CoilConsumption float64           `json:"coil_consumption"`
	CoilBalance     float64           `json:"coil_balance"`
	AllocatedWeight float64           `json:"allocated_weight"`
	Status          AssignmentStatus  `json:"status"`
	Allocations     []OrderAllocation `json:"allocations"`
}

// IsPartial reports whether the assignment is one leg of a multi-coil fulfilment
func (a *Assignment) IsPartial() bool {
	return a.Kind == PartialAllocation
}

// TotalScrap returns side plus end scrap
func (a *Assignment) TotalScrap() float64 {
	return a.SideScrap + a.EndScrap
}

// AllocatedTo returns the weight this assignment allocates to the given order
func (a *Assignment) AllocatedTo(orderID OrderID) float64 {
	var total float64
	for _, alloc := range a.Allocations {
		if alloc.OrderID == orderID {
			total += alloc.AllocatedWeight
		}
	}
	return total
}

// TransitionTo moves the assignment to the next status if the transition table allows it
func (a *Assignment) TransitionTo(next AssignmentStatus) error {
	if !a.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: assignment %s from %s to %s", ErrInvalidTransition, a.ID, a.Status, next)
	}
	a.Status = next
	return nil
}
