package repositories

import "github.com/vsinha/coilplan/pkg/domain/entities"

// PlanRepository holds the proposed plan, the confirmed plan and the
// raw-material forecasts of the latest optimization run
type PlanRepository interface {
	GetProposed() ([]entities.Assignment, error)
	GetConfirmed() ([]entities.Assignment, error)
	GetForecasts() ([]entities.RMForecast, error)
	// SaveProposed replaces the proposed plan and the forecasts entirely
	SaveProposed(assignments []entities.Assignment, forecasts []entities.RMForecast) error
	// SaveConfirmed replaces the confirmed plan and empties the proposed one
	SaveConfirmed(assignments []entities.Assignment) error
	Clear() error
}
