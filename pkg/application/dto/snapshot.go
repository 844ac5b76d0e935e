package dto

import (
	"time"

	"github.com/vsinha/coilplan/pkg/domain/entities"
)

// Snapshot is the complete planning state: inventory, demand, lines and the
// current plan. It is what the state store persists between runs.
type Snapshot struct {
	Coils     []entities.Coil       `json:"coils"`
	Orders    []entities.Order      `json:"orders"`
	Lines     []entities.Line       `json:"lines"`
	Proposed  []entities.Assignment `json:"proposed"`
	Confirmed []entities.Assignment `json:"confirmed"`
	Forecasts []entities.RMForecast `json:"forecasts"`
	SavedAt   time.Time             `json:"saved_at"`
}

// CurrentPlan returns the proposed plan when there is one, else the confirmed plan
func (s *Snapshot) CurrentPlan() []entities.Assignment {
	if len(s.Proposed) > 0 {
		return s.Proposed
	}
	return s.Confirmed
}
