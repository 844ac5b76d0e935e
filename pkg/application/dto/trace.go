package dto

import "github.com/vsinha/coilplan/pkg/domain/entities"

// TraceAction names a step the optimizer took
type TraceAction string

const (
	TraceRunStarted      TraceAction = "run.started"
	TraceGroupsFormed    TraceAction = "groups.formed"
	TraceGroupAssigned   TraceAction = "group.assigned"
	TraceGroupUnmatched  TraceAction = "group.unmatched"
	TraceCoilNoLine      TraceAction = "coil.no_line"
	TraceWeightDrawn     TraceAction = "weight.drawn"
	TraceOrderFulfilled  TraceAction = "order.fulfilled"
	TraceOrderPartial    TraceAction = "order.partial"
	TraceOrderUnmatched  TraceAction = "order.unmatched"
	TraceOrderInvalid    TraceAction = "order.invalid"
	TraceOrderDuplicate  TraceAction = "order.duplicate"
	TraceCoilDuplicate   TraceAction = "coil.duplicate"
	TraceForecastEmitted TraceAction = "forecast.emitted"
	TraceRunCompleted    TraceAction = "run.completed"
)

// TraceEvent is one entry of the ordered optimization trace. Pass is 0 for
// events outside the three allocation passes.
type TraceEvent struct {
	Seq      int                `json:"seq"`
	Pass     int                `json:"pass"`
	Action   TraceAction        `json:"action"`
	CoilID   entities.CoilID    `json:"coil_id,omitempty"`
	OrderIDs []entities.OrderID `json:"order_ids,omitempty"`
	Weight   float64            `json:"weight"`
	Count    int                `json:"count"`
}

// Filter returns the events with the given action
func Filter(events []TraceEvent, action TraceAction) []TraceEvent {
	var matched []TraceEvent
	for _, e := range events {
		if e.Action == action {
			matched = append(matched, e)
		}
	}
	return matched
}
