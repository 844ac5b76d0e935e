package shared

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vsinha/coilplan/pkg/domain/entities"
)

// CapacityLedger records how much of each coil's weight has been committed
// within one optimization run. A ledger is handed from pass to pass: each
// pass works on its own Clone and returns it, so earlier ledgers are never
// changed behind the caller's back.
type CapacityLedger struct {
	committed map[entities.CoilID]float64
}

// LedgerEntry is one coil's committed weight
type LedgerEntry struct {
	CoilID    entities.CoilID `json:"coil_id"`
	Committed float64         `json:"committed"`
}

// NewCapacityLedger creates an empty ledger
func NewCapacityLedger() CapacityLedger {
	return CapacityLedger{committed: make(map[entities.CoilID]float64)}
}

// Clone returns an independent copy of the ledger
func (l CapacityLedger) Clone() CapacityLedger {
	clone := make(map[entities.CoilID]float64, len(l.committed))
	for id, weight := range l.committed {
		clone[id] = weight
	}
	return CapacityLedger{committed: clone}
}

// Committed returns the weight already committed from a coil
func (l CapacityLedger) Committed(coilID entities.CoilID) float64 {
	return l.committed[coilID]
}

// Remaining returns the coil weight not yet committed, never below zero
func (l CapacityLedger) Remaining(coil *entities.Coil) float64 {
	remaining := coil.Weight - l.committed[coil.ID]
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Set overwrites the committed weight of a coil
func (l CapacityLedger) Set(coilID entities.CoilID, weight float64) {
	l.committed[coilID] = weight
}

// Commit adds weight to a coil's committed total and returns the new total
func (l CapacityLedger) Commit(coilID entities.CoilID, weight float64) float64 {
	l.committed[coilID] += weight
	return l.committed[coilID]
}

// Has checks whether the coil has a ledger entry
func (l CapacityLedger) Has(coilID entities.CoilID) bool {
	_, exists := l.committed[coilID]
	return exists
}

// Size returns the number of coils with a ledger entry
func (l CapacityLedger) Size() int {
	return len(l.committed)
}

// TotalCommitted returns the committed weight across all coils
func (l CapacityLedger) TotalCommitted() float64 {
	var total float64
	for _, weight := range l.committed {
		total += weight
	}
	return total
}

// Entries returns the ledger sorted by coil id
func (l CapacityLedger) Entries() []LedgerEntry {
	entries := make([]LedgerEntry, 0, len(l.committed))
	for id, weight := range l.committed {
		entries = append(entries, LedgerEntry{CoilID: id, Committed: weight})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CoilID < entries[j].CoilID
	})
	return entries
}

// String returns a string representation of the ledger for debugging
func (l CapacityLedger) String() string {
	if len(l.committed) == 0 {
		return "CapacityLedger{empty}"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CapacityLedger{%d entries:\n", len(l.committed))
	for _, entry := range l.Entries() {
		fmt.Fprintf(&b, "  %s: committed=%.3f\n", entry.CoilID, entry.Committed)
	}
	b.WriteString("}")
	return b.String()
}

