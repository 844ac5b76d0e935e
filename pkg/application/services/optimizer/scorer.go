package optimizer

import (
	"math"

	"github.com/vsinha/coilplan/pkg/domain/entities"
	"github.com/vsinha/coilplan/pkg/domain/services"
)

// ScorePattern evaluates cutting all the given orders from one coil. It
// returns false when no line can run the coil, when any order does not fit
// the coil, or when the orders together weigh more than the coil.
//
// The score rewards utilization (finished length against side trim) and
// penalizes every millimetre of scrap plus a fixed changeover cost, so a
// single well-filled coil beats several lightly used ones.
func ScorePattern(
	coil *entities.Coil,
	orders []*entities.Order,
	lines []*entities.Line,
	changeoverCost float64,
) (entities.Assignment, bool) {
	if len(orders) == 0 {
		return entities.Assignment{}, false
	}

	line, ok := services.FirstCompatibleLine(coil, lines)
	if !ok {
		return entities.Assignment{}, false
	}

	var totalOrderWeight, sideScrap, totalOrderLength float64
	for _, order := range orders {
		if !services.OrderFitsCoil(order, coil) {
			return entities.Assignment{}, false
		}
		totalOrderWeight += order.Weight
		sideScrap += (coil.Width - order.Width) * order.Length
		totalOrderLength += order.Length * float64(order.Quantity)
	}

	if totalOrderWeight > coil.Weight {
		return entities.Assignment{}, false
	}

	coilConsumption := totalOrderWeight / coil.Weight * 100
	if coilConsumption > 100 {
		return entities.Assignment{}, false
	}

	endScrap := math.Max(0, coil.Length-totalOrderLength)

	var utilization float64
	if totalMaterial := totalOrderLength + sideScrap; totalMaterial > 0 {
		utilization = totalOrderLength / totalMaterial * 100
	}

	orderIDs := make([]entities.OrderID, len(orders))
	allocations := make([]entities.OrderAllocation, len(orders))
	for i, order := range orders {
		orderIDs[i] = order.ID
		allocations[i] = entities.OrderAllocation{
			OrderID:         order.ID,
			AllocatedWeight: order.Weight,
		}
	}

	return entities.Assignment{
		CoilID:          coil.ID,
		LineID:          line.ID,
		OrderIDs:        orderIDs,
		Kind:            entities.FullAllocation,
		SideScrap:       sideScrap,
		EndScrap:        endScrap,
		Utilization:     utilization,
		ChangeoverCost:  changeoverCost,
		TotalScore:      utilization*10 - (sideScrap+endScrap)/1000 - changeoverCost,
		CoilConsumption: coilConsumption,
		CoilBalance:     100 - coilConsumption,
		AllocatedWeight: totalOrderWeight,
		Status:          entities.AssignmentProposed,
		Allocations:     allocations,
	}, true
}
