package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/coilplan/pkg/domain/entities"
)

func TestBandFor(t *testing.T) {
	tests := []struct {
		utilization float64
		want        UtilizationBand
	}{
		{100, BandHigh},
		{95, BandHigh},
		{94.99, BandMedium},
		{80, BandMedium},
		{79.9, BandLow},
		{0, BandLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BandFor(tt.utilization), "utilization %g", tt.utilization)
	}
}

func TestCompute(t *testing.T) {
	coils := []entities.Coil{
		{ID: "C1", Width: 1250, Thickness: 2, Weight: 20, Grade: "IS2062"},
		{ID: "C2", Width: 1250, Thickness: 2, Weight: 10, Grade: "IS2062"},
		{ID: "C3", Width: 1250, Thickness: 2, Weight: 50, Grade: "IS2062"},
	}
	orders := []entities.Order{
		{ID: "O1", Width: 1200, Length: 2000, Quantity: 10, Weight: 15},
		{ID: "O2", Width: 1000, Length: 2000, Quantity: 10, Weight: 10},
		{ID: "O3", Width: 1000, Length: 2000, Quantity: 10, Weight: 40},
	}
	assignments := []entities.Assignment{
		{
			CoilID:      "C1",
			OrderIDs:    []entities.OrderID{"O1"},
			Kind:        entities.FullAllocation,
			SideScrap:   100,
			EndScrap:    50,
			Utilization: 90,
			Allocations: []entities.OrderAllocation{{OrderID: "O1", AllocatedWeight: 15}},
		},
		{
			CoilID:      "C1",
			OrderIDs:    []entities.OrderID{"O2"},
			Kind:        entities.PartialAllocation,
			SideScrap:   10,
			Utilization: 20,
			Allocations: []entities.OrderAllocation{{OrderID: "O2", AllocatedWeight: 4, Partial: true}},
		},
		{
			CoilID:      "C2",
			OrderIDs:    []entities.OrderID{"O2"},
			Kind:        entities.PartialAllocation,
			SideScrap:   40,
			Utilization: 60,
			Allocations: []entities.OrderAllocation{{OrderID: "O2", AllocatedWeight: 6}},
		},
	}
	forecasts := []entities.RMForecast{{RecommendedWeight: 44}}

	m := Compute(assignments, coils, orders, forecasts, entities.FulfilmentThreshold)

	assert.Equal(t, 3, m.Assignments)
	assert.Equal(t, 2, m.CoilsUsed)
	assert.Equal(t, 3, m.TotalOrders)
	assert.Equal(t, 2, m.OrdersServed)
	assert.Equal(t, 2, m.OrdersFulfilled)
	assert.InDelta(t, 80.0, m.TotalCoilWeight, 1e-9)
	assert.InDelta(t, 25.0, m.AllocatedWeight, 1e-9)
	assert.InDelta(t, 44.0, m.ForecastWeight, 1e-9)
	assert.InDelta(t, 200.0, m.TotalScrap, 1e-9)
	assert.InDelta(t, 170.0/3, m.AverageUtilization, 1e-9)
	assert.Equal(t, BandLow, m.Band)
	assert.Greater(t, m.ScrapPercentage, 0.0)
	assert.Less(t, m.ScrapPercentage, 100.0)

	require.Len(t, m.Coils, 2)
	c1 := m.Coils[0]
	assert.Equal(t, entities.CoilID("C1"), c1.CoilID)
	assert.InDelta(t, 19.0, c1.Allocated, 1e-9)
	assert.InDelta(t, 95.0, c1.Consumption, 1e-9)
	assert.InDelta(t, 5.0, c1.Scrap, 1e-9)
	assert.Zero(t, c1.Balance)
	assert.Len(t, c1.Orders, 2)

	c2 := m.Coils[1]
	assert.InDelta(t, 60.0, c2.Consumption, 1e-9)
	assert.InDelta(t, 40.0, c2.Balance, 1e-9)
	assert.Zero(t, c2.Scrap)

	require.Len(t, m.MultiCoilOrders, 1)
	multi := m.MultiCoilOrders[0]
	assert.Equal(t, entities.OrderID("O2"), multi.OrderID)
	assert.InDelta(t, 10.0, multi.Allocated, 1e-9)
	assert.Len(t, multi.Coils, 2)
}

func TestCompute_Empty(t *testing.T) {
	m := Compute(nil, nil, nil, nil, entities.FulfilmentThreshold)

	assert.Zero(t, m.Assignments)
	assert.Zero(t, m.AverageUtilization)
	assert.Zero(t, m.ScrapPercentage)
	assert.Equal(t, BandLow, m.Band)
	assert.Empty(t, m.Coils)
}

func TestCompute_ScrapPercentageIsAreaOverArea(t *testing.T) {
	coils := []entities.Coil{{ID: "C1", Width: 1250, Thickness: 2, Weight: 20}}
	orders := []entities.Order{{ID: "O1", Width: 1200, Length: 2000, Quantity: 10, Weight: 15}}
	assignments := []entities.Assignment{{
		CoilID:          "C1",
		OrderIDs:        []entities.OrderID{"O1"},
		SideScrap:       100_000,
		AllocatedWeight: 15,
		Allocations:     []entities.OrderAllocation{{OrderID: "O1", AllocatedWeight: 15}},
	}}

	m := Compute(assignments, coils, orders, nil, 0.99)

	// 24,000,000 mm² of sheet produced next to 100,000 mm² of trim
	assert.Equal(t, 100_000.0, m.TotalScrap)
	assert.InDelta(t, 100_000.0/24_100_000.0*100, m.ScrapPercentage, 1e-9)
}
