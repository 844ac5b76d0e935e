package dto

import (
	"github.com/vsinha/coilplan/pkg/application/services/shared"
	"github.com/vsinha/coilplan/pkg/domain/entities"
)

// OptimizationInput is the snapshot one optimization run works on. The
// engine never modifies it.
type OptimizationInput struct {
	Coils  []entities.Coil
	Orders []entities.Order
	Lines  []entities.Line
}

// OptimizationResult contains the complete output of an optimization run
type OptimizationResult struct {
	RunID       string                `json:"run_id"`
	Assignments []entities.Assignment `json:"assignments"`
	Forecasts   []entities.RMForecast `json:"forecasts"`
	Ledger      shared.CapacityLedger `json:"-"`
	Unfulfilled []entities.OrderID    `json:"unfulfilled"`
	Trace       []TraceEvent          `json:"trace"`
}

// AllocatedByCoil sums allocated weight per coil across all assignments
func (r *OptimizationResult) AllocatedByCoil() map[entities.CoilID]float64 {
	totals := make(map[entities.CoilID]float64)
	for _, a := range r.Assignments {
		totals[a.CoilID] += a.AllocatedWeight
	}
	return totals
}

// AllocatedByOrder sums allocated weight per order across all assignments
func (r *OptimizationResult) AllocatedByOrder() map[entities.OrderID]float64 {
	totals := make(map[entities.OrderID]float64)
	for _, a := range r.Assignments {
		for _, alloc := range a.Allocations {
			totals[alloc.OrderID] += alloc.AllocatedWeight
		}
	}
	return totals
}
