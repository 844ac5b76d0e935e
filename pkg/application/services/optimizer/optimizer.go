package optimizer

import (
	"math"
	"strconv"

	"github.com/google/uuid"

	"github.com/vsinha/coilplan/pkg/application/dto"
	"github.com/vsinha/coilplan/pkg/domain/entities"
)

// Optimizer turns a snapshot of coils, orders and lines into a proposed
// cutting plan and raw-material forecasts. It holds no state between runs
// and never modifies its input.
type Optimizer struct {
	config   Config
	newRunID func() uuid.UUID
}

// NewOptimizer creates an optimizer with the default configuration
func NewOptimizer() *Optimizer {
	return NewOptimizerWithConfig(DefaultConfig())
}

// NewOptimizerWithConfig creates an optimizer with the given configuration
func NewOptimizerWithConfig(config Config) *Optimizer {
	return &Optimizer{
		config:   config,
		newRunID: uuid.New,
	}
}

// Config returns the configuration the optimizer runs with
func (o *Optimizer) Config() Config {
	return o.config
}

// Optimize runs grouping, the three allocation passes and forecasting.
//
// Pass 1 places whole order groups on single coils. Pass 2 fills the orders
// still pending from the coils with the most remaining capacity, and pass 3
// mops up with the smallest remainders first. Whatever is still unfulfilled
// becomes a raw-material forecast.
func (o *Optimizer) Optimize(input dto.OptimizationInput) *dto.OptimizationResult {
	runID := o.newRunID()
	trace := &traceRecorder{}

	// The first record wins when ids repeat
	seenCoils := make(map[entities.CoilID]bool, len(input.Coils))
	coils := make([]*entities.Coil, 0, len(input.Coils))
	for i := range input.Coils {
		coil := input.Coils[i]
		if seenCoils[coil.ID] {
			trace.record(dto.TraceEvent{Action: dto.TraceCoilDuplicate, CoilID: coil.ID, Weight: coil.Weight})
			continue
		}
		seenCoils[coil.ID] = true
		coils = append(coils, &coil)
	}
	lines := make([]*entities.Line, len(input.Lines))
	for i := range input.Lines {
		line := input.Lines[i]
		lines[i] = &line
	}
	seenOrders := make(map[entities.OrderID]bool, len(input.Orders))
	orders := make([]*entities.Order, 0, len(input.Orders))
	for i := range input.Orders {
		order := input.Orders[i]
		if seenOrders[order.ID] {
			trace.orderEvent(0, dto.TraceOrderDuplicate, order.ID, order.Weight)
			continue
		}
		seenOrders[order.ID] = true
		orders = append(orders, &order)
	}

	trace.record(dto.TraceEvent{Action: dto.TraceRunStarted, Count: len(orders)})

	var valid []*entities.Order
	for _, order := range orders {
		if !groupable(order) {
			trace.orderEvent(0, dto.TraceOrderInvalid, order.ID, order.Weight)
			continue
		}
		valid = append(valid, order)
	}

	groups := GroupOrders(valid, o.config.WidthTolerance)
	trace.record(dto.TraceEvent{Pass: 1, Action: dto.TraceGroupsFormed, Count: len(groups)})

	alloc := &allocator{config: o.config, coils: coils, lines: lines, trace: trace}
	state := newPassState(valid)

	firstPass, state := alloc.groupPass(groups, state)
	secondPass, state := alloc.drawPass(2, largestRemainingFirst, state)
	thirdPass, state := alloc.drawPass(3, smallestRemainingFirst, state)

	assignments := make([]entities.Assignment, 0, len(firstPass)+len(secondPass)+len(thirdPass))
	assignments = append(assignments, firstPass...)
	assignments = append(assignments, secondPass...)
	assignments = append(assignments, thirdPass...)
	for i := range assignments {
		assignments[i].ID = assignmentID(runID, i)
		assignments[i].Status = entities.AssignmentProposed
	}

	stillPending := make(map[entities.OrderID]bool, len(state.pending))
	for _, order := range state.pending {
		stillPending[order.ID] = true
	}
	var unfulfilled []*entities.Order
	var unfulfilledIDs []entities.OrderID
	for _, order := range orders {
		if stillPending[order.ID] || !groupable(order) {
			unfulfilled = append(unfulfilled, order)
			unfulfilledIDs = append(unfulfilledIDs, order.ID)
		}
	}

	forecasts := GenerateForecasts(unfulfilled, o.config)
	for _, forecast := range forecasts {
		trace.record(dto.TraceEvent{
			Action:   dto.TraceForecastEmitted,
			OrderIDs: forecast.Unfulfilled,
			Weight:   forecast.RecommendedWeight,
			Count:    forecast.Quantity,
		})
	}

	trace.record(dto.TraceEvent{Action: dto.TraceRunCompleted, Count: len(assignments)})

	return &dto.OptimizationResult{
		RunID:       runID.String(),
		Assignments: assignments,
		Forecasts:   forecasts,
		Ledger:      state.ledger,
		Unfulfilled: unfulfilledIDs,
		Trace:       trace.events,
	}
}

// groupable reports whether an order may take part in pass 1. A zero weight
// is allowed there since the group still has to fit a coil.
func groupable(order *entities.Order) bool {
	return order.Weight >= 0 && !math.IsInf(order.Weight, 0) && !math.IsNaN(order.Weight)
}

// allocatable reports whether an order has weight to draw in passes 2 and 3
func allocatable(order *entities.Order) bool {
	return groupable(order) && order.Weight > 0
}

// assignmentID derives the id of the n-th assignment of a run
func assignmentID(runID uuid.UUID, n int) entities.AssignmentID {
	return entities.AssignmentID(uuid.NewSHA1(runID, []byte(strconv.Itoa(n))).String())
}
