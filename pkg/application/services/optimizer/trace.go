package optimizer

import (
	"github.com/vsinha/coilplan/pkg/application/dto"
	"github.com/vsinha/coilplan/pkg/domain/entities"
)

// traceRecorder collects the ordered trace of one run
type traceRecorder struct {
	events []dto.TraceEvent
}

func (r *traceRecorder) record(event dto.TraceEvent) {
	event.Seq = len(r.events)
	r.events = append(r.events, event)
}

func (r *traceRecorder) orderEvent(pass int, action dto.TraceAction, orderID entities.OrderID, weight float64) {
	r.record(dto.TraceEvent{
		Pass:     pass,
		Action:   action,
		OrderIDs: []entities.OrderID{orderID},
		Weight:   weight,
	})
}
