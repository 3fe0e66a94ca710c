package calculation

import (
	"sort"

	"github.com/google/uuid"
	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/shopspring/decimal"
)

// Ledger is an append-only record of money movements for one run.
// Entries get a monotonically increasing Seq and a random ID when recorded.
type Ledger struct {
	entries []domain.LedgerEntry
	newID   func() string
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{newID: uuid.NewString}
}

// Record stamps and appends an entry, returning the stored copy
func (l *Ledger) Record(e domain.LedgerEntry) domain.LedgerEntry {
	e.ID = l.newID()
	e.Seq = len(l.entries)
	l.entries = append(l.entries, e)
	return e
}

// Len returns the number of recorded entries
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the recorded entries in recording order
func (l *Ledger) Entries() []domain.LedgerEntry {
	out := make([]domain.LedgerEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// GroupLedgerByYear indexes entries by year index, preserving order within a year
func GroupLedgerByYear(entries []domain.LedgerEntry) map[int][]domain.LedgerEntry {
	byYear := make(map[int][]domain.LedgerEntry)
	for _, e := range entries {
		byYear[e.YearIndex] = append(byYear[e.YearIndex], e)
	}
	return byYear
}

// PhaseGroup is a run of a year's entries that share a phase
type PhaseGroup struct {
	Phase   domain.LedgerPhase
	Entries []domain.LedgerEntry
}

// GroupByPhase buckets one year's entries by phase in loop order. Empty phases are omitted.
func GroupByPhase(entries []domain.LedgerEntry) []PhaseGroup {
	rank := make(map[domain.LedgerPhase]int, len(domain.LedgerPhases))
	for i, p := range domain.LedgerPhases {
		rank[p] = i
	}
	buckets := make(map[domain.LedgerPhase][]domain.LedgerEntry)
	for _, e := range entries {
		buckets[e.Phase] = append(buckets[e.Phase], e)
	}
	groups := make([]PhaseGroup, 0, len(buckets))
	for phase, es := range buckets {
		groups = append(groups, PhaseGroup{Phase: phase, Entries: es})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return rank[groups[i].Phase] < rank[groups[j].Phase]
	})
	return groups
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
