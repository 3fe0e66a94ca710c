package sequencing

import (
	"strings"

	"github.com/rgehrsitz/rothsim/internal/domain"
)

// WithdrawalOrder is the sequence in which accounts are drawn
type WithdrawalOrder []domain.AccountType

// NamedOrder pairs an order with its display label
type NamedOrder struct {
	Label string          `json:"label"`
	Order WithdrawalOrder `json:"order"`
}

// Label renders an order as "Cash → Taxable → IRA → Roth"
func Label(order []domain.AccountType) string {
	names := make([]string, len(order))
	for i, a := range order {
		names[i] = a.DisplayName()
	}
	return strings.Join(names, " → ")
}

// Key is a compact identifier suitable for flags and map keys, e.g. "cash,taxable,ira,roth"
func Key(order []domain.AccountType) string {
	names := make([]string, len(order))
	for i, a := range order {
		names[i] = string(a)
	}
	return strings.Join(names, ",")
}

// Equal reports whether two orders list the same accounts in the same positions
func Equal(a, b []domain.AccountType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Clone copies an order
func (o WithdrawalOrder) Clone() WithdrawalOrder {
	return append(WithdrawalOrder(nil), o...)
}
