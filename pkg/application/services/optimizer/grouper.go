package optimizer

import (
	"sort"

	"github.com/vsinha/coilplan/pkg/domain/entities"
)

// OrderGroup is a set of orders that could be cut from the same coil. The
// first order is the anchor the others were matched against.
type OrderGroup struct {
	Orders []*entities.Order
}

// Anchor returns the order the group was built around
func (g OrderGroup) Anchor() *entities.Order {
	return g.Orders[0]
}

// IDs returns the order ids of the group in group order
func (g OrderGroup) IDs() []entities.OrderID {
	ids := make([]entities.OrderID, len(g.Orders))
	for i, order := range g.Orders {
		ids[i] = order.ID
	}
	return ids
}

// MaxWidth returns the widest order in the group
func (g OrderGroup) MaxWidth() float64 {
	var maxWidth float64
	for _, order := range g.Orders {
		if order.Width > maxWidth {
			maxWidth = order.Width
		}
	}
	return maxWidth
}

// TotalWeight returns the combined weight of the group
func (g OrderGroup) TotalWeight() float64 {
	var total float64
	for _, order := range g.Orders {
		total += order.Weight
	}
	return total
}

// GroupOrders partitions orders into groups sharing thickness, grade and
// product with widths within widthTolerance of the group anchor. Every order
// lands in exactly one group.
//
// Anchors are chosen in priority order, widest and thickest first; order id
// breaks any remaining tie so the partition never depends on input order.
func GroupOrders(orders []*entities.Order, widthTolerance float64) []OrderGroup {
	sorted := make([]*entities.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if a.Width != b.Width {
			return a.Width > b.Width
		}
		if a.Thickness != b.Thickness {
			return a.Thickness > b.Thickness
		}
		return a.ID < b.ID
	})

	// tracked by position so orders sharing an id still land in a group each
	grouped := make([]bool, len(sorted))
	var groups []OrderGroup

	for i, anchor := range sorted {
		if grouped[i] {
			continue
		}
		grouped[i] = true
		group := OrderGroup{Orders: []*entities.Order{anchor}}

		for j := i + 1; j < len(sorted); j++ {
			other := sorted[j]
			if grouped[j] {
				continue
			}
			if other.Thickness == anchor.Thickness &&
				other.Grade == anchor.Grade &&
				other.Product == anchor.Product &&
				other.Width <= anchor.Width+widthTolerance &&
				other.Width >= anchor.Width-widthTolerance {
				group.Orders = append(group.Orders, other)
				grouped[j] = true
			}
		}

		groups = append(groups, group)
	}

	return groups
}
