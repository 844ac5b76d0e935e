package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vsinha/coilplan/pkg/domain/entities"
)

func TestCapacityLedger_BasicOperations(t *testing.T) {
	ledger := NewCapacityLedger()
	assert.Equal(t, 0, ledger.Size())

	coil := &entities.Coil{ID: "C1", Weight: 20}
	assert.Equal(t, 20.0, ledger.Remaining(coil))
	assert.False(t, ledger.Has("C1"))

	ledger.Set("C1", 15)
	assert.Equal(t, 5.0, ledger.Remaining(coil))

	total := ledger.Commit("C1", 5)
	assert.Equal(t, 20.0, total)
	assert.Equal(t, 0.0, ledger.Remaining(coil))
	assert.True(t, ledger.Has("C1"))
}

func TestCapacityLedger_RemainingNeverNegative(t *testing.T) {
	ledger := NewCapacityLedger()
	ledger.Set("C1", 25)

	assert.Equal(t, 0.0, ledger.Remaining(&entities.Coil{ID: "C1", Weight: 20}))
}

func TestCapacityLedger_CloneIsIndependent(t *testing.T) {
	original := NewCapacityLedger()
	original.Set("C1", 10)

	clone := original.Clone()
	clone.Commit("C1", 5)
	clone.Commit("C2", 3)

	assert.Equal(t, 10.0, original.Committed("C1"))
	assert.False(t, original.Has("C2"))
	assert.Equal(t, 15.0, clone.Committed("C1"))
	assert.Equal(t, 18.0, clone.TotalCommitted())
}

func TestCapacityLedger_EntriesSorted(t *testing.T) {
	ledger := NewCapacityLedger()
	ledger.Set("C3", 1)
	ledger.Set("C1", 2)
	ledger.Set("C2", 3)

	entries := ledger.Entries()

	assert.Equal(t, []LedgerEntry{
		{CoilID: "C1", Committed: 2},
		{CoilID: "C2", Committed: 3},
		{CoilID: "C3", Committed: 1},
	}, entries)
	assert.Contains(t, ledger.String(), "C2: committed=3.000")
	assert.Equal(t, "CapacityLedger{empty}", NewCapacityLedger().String())
}
