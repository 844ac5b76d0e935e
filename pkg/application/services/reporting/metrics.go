package reporting

import (
	"github.com/vsinha/coilplan/pkg/domain/entities"
)

// ScrapBalanceThreshold is the remaining share of a coil (percent) at or
// below which the remainder counts as scrap instead of a reusable balance
const ScrapBalanceThreshold = 6.0

// UtilizationBand classifies a utilization percentage
type UtilizationBand int

const (
	BandLow UtilizationBand = iota
	BandMedium
	BandHigh
)

// String method for UtilizationBand enum
func (b UtilizationBand) String() string {
	switch b {
	case BandLow:
		return "low"
	case BandMedium:
		return "medium"
	case BandHigh:
		return "high"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (b UtilizationBand) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// BandFor returns the band of a utilization percentage: 95 and above is
// high, 80 and above medium, anything else low
func BandFor(utilization float64) UtilizationBand {
	switch {
	case utilization >= 95:
		return BandHigh
	case utilization >= 80:
		return BandMedium
	default:
		return BandLow
	}
}

// OrderShare is the weight one coil contributes to one order
type OrderShare struct {
	OrderID entities.OrderID `json:"order_id"`
	CoilID  entities.CoilID  `json:"coil_id"`
	Weight  float64          `json:"weight"`
}

// CoilUsage summarizes everything a plan takes from one coil
type CoilUsage struct {
	CoilID      entities.CoilID  `json:"coil_id"`
	Product     entities.Product `json:"product"`
	Grade       string           `json:"grade"`
	Width       float64          `json:"width"`
	Thickness   float64          `json:"thickness"`
	Weight      float64          `json:"weight"`
	Allocated   float64          `json:"allocated"`
	Consumption float64          `json:"consumption"`
	Balance     float64          `json:"balance"`
	Scrap       float64          `json:"scrap"`
	Orders      []OrderShare     `json:"orders"`
}

// MultiCoilOrder is an order served by more than one coil
type MultiCoilOrder struct {
	OrderID     entities.OrderID `json:"order_id"`
	OrderWeight float64          `json:"order_weight"`
	Allocated   float64          `json:"allocated"`
	Coils       []OrderShare     `json:"coils"`
}

// PlanMetrics is the report of one plan against the inventory it draws on
type PlanMetrics struct {
	Assignments        int              `json:"assignments"`
	CoilsUsed          int              `json:"coils_used"`
	TotalOrders        int              `json:"total_orders"`
	OrdersServed       int              `json:"orders_served"`
	OrdersFulfilled    int              `json:"orders_fulfilled"`
	TotalCoilWeight    float64          `json:"total_coil_weight"`
	AllocatedWeight    float64          `json:"allocated_weight"`
	ForecastWeight     float64          `json:"forecast_weight"`
	TotalScrap         float64          `json:"total_scrap"`
	ScrapPercentage    float64          `json:"scrap_percentage"`
	AverageUtilization float64          `json:"average_utilization"`
	Band               UtilizationBand  `json:"band"`
	Coils              []CoilUsage      `json:"coils"`
	MultiCoilOrders    []MultiCoilOrder `json:"multi_coil_orders"`
}

// Compute derives plan metrics. Scrap percentage is scrap against scrap plus
// the sheet area the plan produces. Coils and orders missing from the
// inventory are skipped in the breakdowns.
func Compute(
	assignments []entities.Assignment,
	coils []entities.Coil,
	orders []entities.Order,
	forecasts []entities.RMForecast,
	threshold float64,
) PlanMetrics {
	coilsByID := make(map[entities.CoilID]*entities.Coil, len(coils))
	metrics := PlanMetrics{
		Assignments: len(assignments),
		TotalOrders: len(orders),
	}
	for i := range coils {
		coilsByID[coils[i].ID] = &coils[i]
		metrics.TotalCoilWeight += coils[i].Weight
	}
	ordersByID := make(map[entities.OrderID]*entities.Order, len(orders))
	for i := range orders {
		ordersByID[orders[i].ID] = &orders[i]
	}
	for _, f := range forecasts {
		metrics.ForecastWeight += f.RecommendedWeight
	}

	var (
		utilizationSum float64
		producedArea   float64
		coilOrder      []entities.CoilID
		orderOrder     []entities.OrderID
	)
	usage := make(map[entities.CoilID]*CoilUsage)
	perOrder := make(map[entities.OrderID]*MultiCoilOrder)

	for _, a := range assignments {
		utilizationSum += a.Utilization
		metrics.TotalScrap += a.TotalScrap()

		coil, ok := coilsByID[a.CoilID]
		if !ok {
			continue
		}
		u, seen := usage[a.CoilID]
		if !seen {
			u = &CoilUsage{
				CoilID:    coil.ID,
				Product:   coil.Product,
				Grade:     coil.Grade,
				Width:     coil.Width,
				Thickness: coil.Thickness,
				Weight:    coil.Weight,
			}
			usage[a.CoilID] = u
			coilOrder = append(coilOrder, a.CoilID)
		}

		for _, alloc := range a.Allocations {
			order, ok := ordersByID[alloc.OrderID]
			if !ok {
				continue
			}
			u.Allocated += alloc.AllocatedWeight
			u.Orders = addShare(u.Orders, OrderShare{OrderID: order.ID, CoilID: coil.ID, Weight: alloc.AllocatedWeight})

			m, seen := perOrder[order.ID]
			if !seen {
				m = &MultiCoilOrder{OrderID: order.ID, OrderWeight: order.Weight}
				perOrder[order.ID] = m
				orderOrder = append(orderOrder, order.ID)
			}
			m.Allocated += alloc.AllocatedWeight
			m.Coils = addShare(m.Coils, OrderShare{OrderID: order.ID, CoilID: coil.ID, Weight: alloc.AllocatedWeight})

			if order.Weight > 0 {
				share := alloc.AllocatedWeight / order.Weight
				producedArea += order.Width * order.Length * float64(order.Quantity) * share
			}
		}
	}

	if len(assignments) > 0 {
		metrics.AverageUtilization = utilizationSum / float64(len(assignments))
	}
	metrics.Band = BandFor(metrics.AverageUtilization)
	if total := metrics.TotalScrap + producedArea; total > 0 {
		metrics.ScrapPercentage = metrics.TotalScrap / total * 100
	}

	for _, id := range coilOrder {
		u := usage[id]
		if u.Weight > 0 {
			u.Consumption = u.Allocated / u.Weight * 100
		}
		remaining := 100 - u.Consumption
		if remaining < 0 {
			remaining = 0
		}
		if remaining > ScrapBalanceThreshold {
			u.Balance = remaining
		} else {
			u.Scrap = remaining
		}
		metrics.AllocatedWeight += u.Allocated
		metrics.Coils = append(metrics.Coils, *u)
	}
	metrics.CoilsUsed = len(metrics.Coils)

	for _, id := range orderOrder {
		m := perOrder[id]
		metrics.OrdersServed++
		if entities.OrderStatusFor(m.Allocated, m.OrderWeight, threshold) == entities.OrderCompleted {
			metrics.OrdersFulfilled++
		}
		if len(m.Coils) > 1 {
			metrics.MultiCoilOrders = append(metrics.MultiCoilOrders, *m)
		}
	}

	return metrics
}

// addShare merges a share into the list, summing weight for a repeated
// order and coil pair
func addShare(shares []OrderShare, share OrderShare) []OrderShare {
	for i := range shares {
		if shares[i].OrderID == share.OrderID && shares[i].CoilID == share.CoilID {
			shares[i].Weight += share.Weight
			return shares
		}
	}
	return append(shares, share)
}
