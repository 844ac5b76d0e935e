package events

import (
	"github.com/vsinha/coilplan/pkg/domain/entities"
)

const (
	PlanProposedEvent  = "plan.proposed"
	PlanConfirmedEvent = "plan.confirmed"
	PlanClearedEvent   = "plan.cleared"

	CoilsImportedEvent  = "coils.imported"
	OrdersImportedEvent = "orders.imported"
	LinesImportedEvent  = "lines.imported"
)

// PlanStream is the stream all plan lifecycle events are appended to
const PlanStream = "plan"

// InventoryStream is the stream import events are appended to
const InventoryStream = "inventory"

// PlanEventTypes lists every plan lifecycle event type
var PlanEventTypes = []string{PlanProposedEvent, PlanConfirmedEvent, PlanClearedEvent}

type PlanProposed struct {
	RunID       string             `json:"run_id"`
	Assignments int                `json:"assignments"`
	Forecasts   int                `json:"forecasts"`
	Unfulfilled []entities.OrderID `json:"unfulfilled"`
	Allocated   float64            `json:"allocated"`
}

type PlanConfirmed struct {
	Assignments int                                       `json:"assignments"`
	CoilsUsed   []entities.CoilID                         `json:"coils_used"`
	OrderStatus map[entities.OrderID]entities.OrderStatus `json:"order_status"`
}

type PlanCleared struct {
	Assignments int `json:"assignments"`
	Forecasts   int `json:"forecasts"`
	CoilsReset  int `json:"coils_reset"`
}

type Imported struct {
	Source   string `json:"source"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

func NewPlanProposedEvent(data PlanProposed) Event {
	return NewEvent(PlanProposedEvent, PlanStream, data)
}

func NewPlanConfirmedEvent(data PlanConfirmed) Event {
	return NewEvent(PlanConfirmedEvent, PlanStream, data)
}

func NewPlanClearedEvent(data PlanCleared) Event {
	return NewEvent(PlanClearedEvent, PlanStream, data)
}

func NewImportedEvent(eventType string, data Imported) Event {
	return NewEvent(eventType, InventoryStream, data)
}
