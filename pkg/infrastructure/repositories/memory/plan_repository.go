package memory

import (
	"sync"

	"github.com/vsinha/coilplan/pkg/domain/entities"
	"github.com/vsinha/coilplan/pkg/domain/repositories"
)

// PlanRepository provides in-memory storage for the current plan
type PlanRepository struct {
	mu        sync.RWMutex
	proposed  []entities.Assignment
	confirmed []entities.Assignment
	forecasts []entities.RMForecast
}

// NewPlanRepository creates an empty plan repository
func NewPlanRepository() *PlanRepository {
	return &PlanRepository{}
}

// Verify interface compliance
var _ repositories.PlanRepository = (*PlanRepository)(nil)

// GetProposed returns the proposed assignments
func (r *PlanRepository) GetProposed() ([]entities.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAssignments(r.proposed), nil
}

// GetConfirmed returns the confirmed assignments
func (r *PlanRepository) GetConfirmed() ([]entities.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAssignments(r.confirmed), nil
}

// GetForecasts returns the raw-material forecasts
func (r *PlanRepository) GetForecasts() ([]entities.RMForecast, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneForecasts(r.forecasts), nil
}

// SaveProposed replaces the proposed plan and the forecasts
func (r *PlanRepository) SaveProposed(assignments []entities.Assignment, forecasts []entities.RMForecast) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.proposed = cloneAssignments(assignments)
	r.forecasts = cloneForecasts(forecasts)
	return nil
}

// SaveConfirmed replaces the confirmed plan and empties the proposed one
func (r *PlanRepository) SaveConfirmed(assignments []entities.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.confirmed = cloneAssignments(assignments)
	r.proposed = nil
	return nil
}

// Clear drops every assignment and forecast
func (r *PlanRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.proposed = nil
	r.confirmed = nil
	r.forecasts = nil
	return nil
}

func cloneAssignments(in []entities.Assignment) []entities.Assignment {
	out := make([]entities.Assignment, len(in))
	for i, a := range in {
		a.OrderIDs = append([]entities.OrderID(nil), a.OrderIDs...)
		a.Allocations = append([]entities.OrderAllocation(nil), a.Allocations...)
		out[i] = a
	}
	return out
}

func cloneForecasts(in []entities.RMForecast) []entities.RMForecast {
	out := make([]entities.RMForecast, len(in))
	for i, f := range in {
		f.Unfulfilled = append([]entities.OrderID(nil), f.Unfulfilled...)
		f.Details = append([]entities.ForecastOrderDetail(nil), f.Details...)
		out[i] = f
	}
	return out
}
