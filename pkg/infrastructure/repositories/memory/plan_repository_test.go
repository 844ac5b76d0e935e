package memory

import (
	"errors"
	"testing"

	"github.com/vsinha/coilplan/pkg/domain/entities"
	"github.com/vsinha/coilplan/pkg/domain/repositories"
)

func TestPlanRepository_ProposeConfirmClear(t *testing.T) {
	repo := NewPlanRepository()

	proposed := []entities.Assignment{{
		ID:       "A1",
		CoilID:   "C1",
		OrderIDs: []entities.OrderID{"SO1", "SO2"},
	}}
	forecasts := []entities.RMForecast{{ID: "F1", Unfulfilled: []entities.OrderID{"SO3"}}}

	if err := repo.SaveProposed(proposed, forecasts); err != nil {
		t.Fatalf("Failed to save proposed plan: %v", err)
	}

	// Stored slices are detached from the caller's
	proposed[0].OrderIDs[0] = "changed"
	got, _ := repo.GetProposed()
	if len(got) != 1 || got[0].OrderIDs[0] != "SO1" {
		t.Errorf("Expected stored proposal to be unchanged, got %+v", got)
	}

	if err := repo.SaveConfirmed(got); err != nil {
		t.Fatalf("Failed to save confirmed plan: %v", err)
	}
	if p, _ := repo.GetProposed(); len(p) != 0 {
		t.Errorf("Expected no proposed assignments after confirm, got %d", len(p))
	}
	if c, _ := repo.GetConfirmed(); len(c) != 1 {
		t.Errorf("Expected 1 confirmed assignment, got %d", len(c))
	}
	if f, _ := repo.GetForecasts(); len(f) != 1 {
		t.Errorf("Expected forecasts to survive confirm, got %d", len(f))
	}

	if err := repo.Clear(); err != nil {
		t.Fatalf("Failed to clear plan: %v", err)
	}
	c, _ := repo.GetConfirmed()
	f, _ := repo.GetForecasts()
	if len(c) != 0 || len(f) != 0 {
		t.Errorf("Expected empty plan after clear, got %d confirmed and %d forecasts", len(c), len(f))
	}
}

func TestLineRepository_KeepsInsertionOrder(t *testing.T) {
	repo := NewLineRepository()

	lines := []*entities.Line{
		{ID: "CTL-2", Name: "CTL-2", MinWidth: 900, MaxWidth: 2000, MaxThickness: 8, MaxWeight: 30},
		{ID: "CTL-1", Name: "CTL-1", MinWidth: 600, MaxWidth: 1600, MaxThickness: 3, MaxWeight: 25},
	}
	if err := repo.LoadLines(lines); err != nil {
		t.Fatalf("Failed to load lines: %v", err)
	}

	// Replacing a line keeps its position
	if err := repo.SaveLine(&entities.Line{ID: "CTL-2", Name: "CTL-2", MaxWidth: 2100}); err != nil {
		t.Fatalf("Failed to save line: %v", err)
	}

	all, _ := repo.GetAllLines()
	if len(all) != 2 || all[0].ID != "CTL-2" || all[1].ID != "CTL-1" {
		t.Fatalf("Expected lines in insertion order, got %v", all)
	}
	if all[0].MaxWidth != 2100 {
		t.Errorf("Expected replaced max width 2100, got %g", all[0].MaxWidth)
	}

	if err := repo.DeleteLine("CTL-2"); err != nil {
		t.Fatalf("Failed to delete line: %v", err)
	}
	line, err := repo.GetLine("CTL-1")
	if err != nil || line.MinWidth != 600 {
		t.Errorf("Expected CTL-1 to remain reachable, got %v, %v", line, err)
	}

	if _, err := repo.GetLine("CTL-2"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := repo.SaveLine(nil); err == nil {
		t.Error("Expected error saving nil line")
	}
}
