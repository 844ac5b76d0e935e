package optimizer

import (
	"math"
	"sort"

	"github.com/vsinha/coilplan/pkg/application/dto"
	"github.com/vsinha/coilplan/pkg/application/services/shared"
	"github.com/vsinha/coilplan/pkg/domain/entities"
	"github.com/vsinha/coilplan/pkg/domain/services"
)

// weightEpsilon absorbs float noise when comparing tonnages
const weightEpsilon = 1e-9

// capacityOrder selects how pass candidates are ranked by remaining capacity
type capacityOrder int

const (
	largestRemainingFirst capacityOrder = iota
	smallestRemainingFirst
)

// passState is the state threaded from one allocation pass to the next.
// Each pass clones it, works on the clone and returns the clone.
type passState struct {
	ledger    shared.CapacityLedger
	allocated map[entities.OrderID]float64
	// pending holds the orders not yet fulfilled, in input order
	pending []*entities.Order
}

func newPassState(pending []*entities.Order) passState {
	return passState{
		ledger:    shared.NewCapacityLedger(),
		allocated: make(map[entities.OrderID]float64),
		pending:   pending,
	}
}

func (s passState) clone() passState {
	allocated := make(map[entities.OrderID]float64, len(s.allocated))
	for id, weight := range s.allocated {
		allocated[id] = weight
	}
	pending := make([]*entities.Order, len(s.pending))
	copy(pending, s.pending)
	return passState{ledger: s.ledger.Clone(), allocated: allocated, pending: pending}
}

// withoutFulfilled drops fulfilled orders from pending, keeping input order
func (s passState) withoutFulfilled(fulfilled map[entities.OrderID]bool) passState {
	remaining := s.pending[:0]
	for _, order := range s.pending {
		if !fulfilled[order.ID] {
			remaining = append(remaining, order)
		}
	}
	s.pending = remaining
	return s
}

// allocator runs the allocation passes over one input snapshot
type allocator struct {
	config Config
	coils  []*entities.Coil
	lines  []*entities.Line
	trace  *traceRecorder
}

// groupPass assigns each order group to the single best-scoring coil that can
// carry the whole group. A coil serves at most one group.
func (a *allocator) groupPass(groups []OrderGroup, state passState) ([]entities.Assignment, passState) {
	const pass = 1
	state = state.clone()
	claimed := make(map[entities.CoilID]bool)
	fulfilled := make(map[entities.OrderID]bool)
	var assignments []entities.Assignment

	for _, group := range groups {
		anchor := group.Anchor()
		maxWidth := group.MaxWidth()
		totalWeight := group.TotalWeight()

		var best *entities.Assignment
		for _, coil := range a.coils {
			if claimed[coil.ID] {
				continue
			}
			if !services.SpecMatches(coil, anchor.Thickness, anchor.Grade, anchor.Product) {
				continue
			}
			if coil.Width < maxWidth || coil.Weight < totalWeight {
				continue
			}

			pattern, ok := ScorePattern(coil, group.Orders, a.lines, a.config.ChangeoverCost)
			if !ok {
				continue
			}
			// first seen wins ties
			if best == nil || pattern.TotalScore > best.TotalScore {
				candidate := pattern
				best = &candidate
			}
		}

		if best == nil {
			a.trace.record(dto.TraceEvent{
				Pass:     pass,
				Action:   dto.TraceGroupUnmatched,
				OrderIDs: group.IDs(),
				Weight:   totalWeight,
			})
			continue
		}

		best.Pass = pass
		claimed[best.CoilID] = true
		state.ledger.Set(best.CoilID, best.AllocatedWeight)
		for _, alloc := range best.Allocations {
			state.allocated[alloc.OrderID] += alloc.AllocatedWeight
			fulfilled[alloc.OrderID] = true
		}
		assignments = append(assignments, *best)

		a.trace.record(dto.TraceEvent{
			Pass:     pass,
			Action:   dto.TraceGroupAssigned,
			CoilID:   best.CoilID,
			OrderIDs: best.OrderIDs,
			Weight:   best.AllocatedWeight,
		})
	}

	return assignments, state.withoutFulfilled(fulfilled)
}

// drawPass serves each pending order, in priority order, by drawing weight
// from every compatible coil with remaining capacity until the order is met.
// Each coil drawn from yields one partial assignment.
func (a *allocator) drawPass(pass int, ranking capacityOrder, state passState) ([]entities.Assignment, passState) {
	state = state.clone()
	fulfilled := make(map[entities.OrderID]bool)
	var assignments []entities.Assignment

	for _, order := range byPriority(state.pending) {
		if !allocatable(order) {
			a.trace.orderEvent(pass, dto.TraceOrderUnmatched, order.ID, order.Weight)
			continue
		}
		candidates := a.candidates(order, state.ledger, ranking)
		if len(candidates) == 0 {
			a.trace.orderEvent(pass, dto.TraceOrderUnmatched, order.ID, order.Weight-state.allocated[order.ID])
			continue
		}

		legs := 0
		for _, coil := range candidates {
			unmet := order.Weight - state.allocated[order.ID]
			if unmet <= weightEpsilon {
				break
			}

			line, ok := services.FirstCompatibleLine(coil, a.lines)
			if !ok {
				a.trace.record(dto.TraceEvent{
					Pass:     pass,
					Action:   dto.TraceCoilNoLine,
					CoilID:   coil.ID,
					OrderIDs: []entities.OrderID{order.ID},
				})
				continue
			}

			available := state.ledger.Remaining(coil)
			if available <= weightEpsilon {
				continue
			}

			draw := math.Min(available, unmet)
			committed := state.ledger.Commit(coil.ID, draw)
			state.allocated[order.ID] += draw
			stillShort := order.Weight-state.allocated[order.ID] > weightEpsilon

			assignments = append(assignments, a.partialAssignment(pass, coil, line, order, draw, committed, stillShort))
			legs++

			a.trace.record(dto.TraceEvent{
				Pass:     pass,
				Action:   dto.TraceWeightDrawn,
				CoilID:   coil.ID,
				OrderIDs: []entities.OrderID{order.ID},
				Weight:   draw,
			})
		}

		allocated := state.allocated[order.ID]
		switch {
		case allocated >= order.Weight*a.config.FulfilmentThreshold:
			fulfilled[order.ID] = true
			a.trace.orderEvent(pass, dto.TraceOrderFulfilled, order.ID, allocated)
		case legs > 0:
			a.trace.orderEvent(pass, dto.TraceOrderPartial, order.ID, allocated)
		default:
			a.trace.orderEvent(pass, dto.TraceOrderUnmatched, order.ID, order.Weight-allocated)
		}
	}

	return assignments, state.withoutFulfilled(fulfilled)
}

// candidates returns the coils an order may draw from, ranked by remaining
// capacity. Ties keep coil input order.
func (a *allocator) candidates(order *entities.Order, ledger shared.CapacityLedger, ranking capacityOrder) []*entities.Coil {
	var candidates []*entities.Coil
	for _, coil := range a.coils {
		if !services.SpecMatches(coil, order.Thickness, order.Grade, order.Product) {
			continue
		}
		if coil.Width < order.Width {
			continue
		}
		if ledger.Remaining(coil) <= weightEpsilon {
			continue
		}
		candidates = append(candidates, coil)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ri, rj := ledger.Remaining(candidates[i]), ledger.Remaining(candidates[j])
		if ranking == smallestRemainingFirst {
			return ri < rj
		}
		return ri > rj
	})
	return candidates
}

// partialAssignment builds one leg of a multi-coil fulfilment. Side scrap is
// prorated by the share of the order this leg carries.
func (a *allocator) partialAssignment(
	pass int,
	coil *entities.Coil,
	line *entities.Line,
	order *entities.Order,
	draw, committed float64,
	stillShort bool,
) entities.Assignment {
	sideScrap := (coil.Width - order.Width) * order.Length * (draw / order.Weight)
	utilization := draw / coil.Weight * 100
	consumption := committed / coil.Weight * 100
	allocations := []entities.OrderAllocation{{
		OrderID:         order.ID,
		AllocatedWeight: draw,
		Partial:         stillShort,
	}}

	return entities.Assignment{
		CoilID:          coil.ID,
		LineID:          line.ID,
		OrderIDs:        []entities.OrderID{order.ID},
		Kind:            entities.PartialAllocation,
		Pass:            pass,
		SideScrap:       sideScrap,
		EndScrap:        0,
		Utilization:     utilization,
		ChangeoverCost:  a.config.ChangeoverCost,
		TotalScore:      utilization*10 - sideScrap/1000 - a.config.ChangeoverCost,
		CoilConsumption: consumption,
		CoilBalance:     100 - consumption,
		AllocatedWeight: draw,
		Status:          entities.AssignmentProposed,
		Allocations:     allocations,
	}
}

// byPriority returns the orders sorted by priority, stable on input order
func byPriority(orders []*entities.Order) []*entities.Order {
	sorted := make([]*entities.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return sorted
}
