package testing

import (
	"time"

	"github.com/vsinha/coilplan/pkg/domain/entities"
	"github.com/vsinha/coilplan/pkg/domain/services"
	"github.com/vsinha/coilplan/pkg/infrastructure/repositories/memory"
)

// MustCreateCoil is a helper for tests - panics on validation error.
// Length is derived from weight, width and thickness.
func MustCreateCoil(id string, product entities.Product, width, thickness, weight float64, grade string) *entities.Coil {
	coil, err := entities.NewCoil(
		entities.CoilID(id),
		product,
		width,
		thickness,
		services.CoilLength(weight, width, thickness),
		weight,
		grade,
		entities.CoilAvailable,
	)
	if err != nil {
		panic(err)
	}
	return coil
}

// MustCreateOrder is a helper for tests - panics on validation error.
// Weight is derived from the sheet dimensions.
func MustCreateOrder(
	id string,
	product entities.Product,
	width, length, thickness float64,
	quantity int,
	grade string,
	priority int,
) *entities.Order {
	order, err := entities.NewOrder(
		entities.OrderID(id),
		product,
		width,
		length,
		thickness,
		quantity,
		grade,
		services.OrderWeight(width, length, thickness, quantity),
		priority,
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		panic(err)
	}
	return order
}

// MustCreateLine is a helper for tests - panics on validation error
func MustCreateLine(id, name string, minWidth, maxWidth, maxThickness, maxWeight float64) *entities.Line {
	line, err := entities.NewLine(entities.LineID(id), name, minWidth, maxWidth, maxThickness, maxWeight, 60, 1200)
	if err != nil {
		panic(err)
	}
	return line
}

// BuildMillTestData builds a small service centre: two cut-to-length lines,
// hot- and cold-rolled coils, and orders of which one has no matching grade
// in stock
func BuildMillTestData() (*memory.CoilRepository, *memory.OrderRepository, *memory.LineRepository, *memory.PlanRepository) {
	coilRepo := memory.NewCoilRepository(4)
	orderRepo := memory.NewOrderRepository(5)
	lineRepo := memory.NewLineRepository()
	planRepo := memory.NewPlanRepository()

	_ = lineRepo.LoadLines([]*entities.Line{
		MustCreateLine("CTL-1", "Light CTL", 600, 1600, 3, 25),
		MustCreateLine("CTL-2", "Heavy CTL", 900, 2000, 8, 30),
	})

	_ = coilRepo.LoadCoils([]*entities.Coil{
		MustCreateCoil("HR-001", entities.HotRolled, 1250, 2, 20, "IS2062"),
		MustCreateCoil("HR-002", entities.HotRolled, 1250, 2, 15, "IS2062"),
		MustCreateCoil("CR-001", entities.ColdRolled, 1000, 1.2, 8, "DC01"),
		MustCreateCoil("HR-003", entities.HotRolled, 1800, 5, 28, "IS2062"),
	})

	_ = orderRepo.LoadOrders([]*entities.Order{
		// 4.71 t
		MustCreateOrder("SO-1001", entities.HotRolled, 1200, 2500, 2, 100, "IS2062", 1),
		// 14.07 t
		MustCreateOrder("SO-1002", entities.HotRolled, 1195, 2500, 2, 300, "IS2062", 2),
		// 3.58 t
		MustCreateOrder("SO-1003", entities.ColdRolled, 950, 2000, 1.2, 200, "DC01", 1),
		// 17.66 t, no E350 in stock
		MustCreateOrder("SO-1004", entities.HotRolled, 1500, 3000, 5, 100, "E350", 3),
	})

	return coilRepo, orderRepo, lineRepo, planRepo
}
