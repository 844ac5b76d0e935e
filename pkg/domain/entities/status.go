package entities

import (
	"errors"
	"fmt"
	"strings"
)

// FulfilmentThreshold is the fraction of an order's weight that must be
// allocated before the order counts as fulfilled.
const FulfilmentThreshold = 0.99

// ErrInvalidTransition is returned when a status change is not in the transition table
var ErrInvalidTransition = errors.New("invalid status transition")

// CoilStatus represents the inventory status of a coil
type CoilStatus int

const (
	CoilAvailable CoilStatus = iota
	CoilAllocated
	CoilUsed
)

// String method for CoilStatus enum
func (s CoilStatus) String() string {
	switch s {
	case CoilAvailable:
		return "available"
	case CoilAllocated:
		return "allocated"
	case CoilUsed:
		return "used"
	default:
		return "unknown"
	}
}

// ParseCoilStatus parses a coil status, case-insensitive
func ParseCoilStatus(s string) (CoilStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "available", "":
		return CoilAvailable, nil
	case "allocated":
		return CoilAllocated, nil
	case "used":
		return CoilUsed, nil
	default:
		return CoilAvailable, fmt.Errorf("invalid coil status: %s (expected: available, allocated, or used)", s)
	}
}

var coilTransitions = map[CoilStatus][]CoilStatus{
	CoilAvailable: {CoilAllocated, CoilUsed},
	CoilAllocated: {CoilAvailable, CoilUsed},
	CoilUsed:      {CoilAvailable},
}

// CanTransitionTo reports whether the coil may move to the given status.
// Staying in the same status is always allowed.
func (s CoilStatus) CanTransitionTo(next CoilStatus) bool {
	if s == next {
		return true
	}
	return containsStatus(coilTransitions[s], next)
}

// MarshalText implements encoding.TextMarshaler
func (s CoilStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *CoilStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseCoilStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// OrderStatus represents the fulfilment status of an order
type OrderStatus int

const (
	OrderPending OrderStatus = iota
	OrderAssigned
	OrderCompleted
)

// String method for OrderStatus enum
func (s OrderStatus) String() string {
	switch s {
	case OrderPending:
		return "pending"
	case OrderAssigned:
		return "assigned"
	case OrderCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// ParseOrderStatus parses an order status, case-insensitive
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "":
		return OrderPending, nil
	case "assigned":
		return OrderAssigned, nil
	case "completed":
		return OrderCompleted, nil
	default:
		return OrderPending, fmt.Errorf("invalid order status: %s (expected: pending, assigned, or completed)", s)
	}
}

// Order status is recomputed from scratch on every confirmation, so every
// status can reach every other one.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderAssigned, OrderCompleted},
	OrderAssigned:  {OrderPending, OrderCompleted},
	OrderCompleted: {OrderPending, OrderAssigned},
}

// CanTransitionTo reports whether the order may move to the given status
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	return containsStatus(orderTransitions[s], next)
}

// MarshalText implements encoding.TextMarshaler
func (s OrderStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *OrderStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseOrderStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// OrderStatusFor derives the order status from the weight allocated to it.
// Nothing allocated keeps the order pending; reaching the threshold share of
// the required weight completes it; anything in between is assigned.
func OrderStatusFor(allocated, required, threshold float64) OrderStatus {
	if allocated <= 0 {
		return OrderPending
	}
	if allocated >= required*threshold {
		return OrderCompleted
	}
	return OrderAssigned
}

// AssignmentStatus represents the lifecycle status of an assignment
type AssignmentStatus int

const (
	AssignmentProposed AssignmentStatus = iota
	AssignmentConfirmed
	AssignmentCompleted
)

// String method for AssignmentStatus enum
func (s AssignmentStatus) String() string {
	switch s {
	case AssignmentProposed:
		return "proposed"
	case AssignmentConfirmed:
		return "confirmed"
	case AssignmentCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// ParseAssignmentStatus parses an assignment status, case-insensitive
func ParseAssignmentStatus(s string) (AssignmentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "proposed", "":
		return AssignmentProposed, nil
	case "confirmed":
		return AssignmentConfirmed, nil
	case "completed":
		return AssignmentCompleted, nil
	default:
		return AssignmentProposed, fmt.Errorf("invalid assignment status: %s (expected: proposed, confirmed, or completed)", s)
	}
}

var assignmentTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentProposed:  {AssignmentConfirmed},
	AssignmentConfirmed: {AssignmentCompleted},
	AssignmentCompleted: {},
}

// CanTransitionTo reports whether the assignment may move to the given status.
// Assignments only move forward.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	return containsStatus(assignmentTransitions[s], next)
}

// MarshalText implements encoding.TextMarshaler
func (s AssignmentStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *AssignmentStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseAssignmentStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func containsStatus[S comparable](allowed []S, next S) bool {
	for _, candidate := range allowed {
		if candidate == next {
			return true
		}
	}
	return false
}
