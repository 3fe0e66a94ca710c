package sequencing

import "github.com/rgehrsitz/rothsim/internal/domain"

const (
	cash    = domain.AccountCash
	taxable = domain.AccountTaxable
	ira     = domain.AccountIRA
	roth    = domain.AccountRoth
)

// commonOrders is the curated set of plausible orderings compared by the optimizer.
// It is intentionally a subset of the 24 permutations; order matters for tie-breaks.
var commonOrders = []WithdrawalOrder{
	{cash, taxable, ira, roth},
	{cash, ira, taxable, roth},
	{cash, taxable, roth, ira},
	{cash, ira, roth, taxable},
	{cash, roth, taxable, ira},
	{cash, roth, ira, taxable},
	{ira, cash, taxable, roth},
	{ira, taxable, cash, roth},
	{ira, cash, roth, taxable},
	{taxable, cash, ira, roth},
	{taxable, ira, cash, roth},
	{roth, cash, taxable, ira},
}

// CommonWithdrawalOrders returns fresh copies of the curated orders with labels
func CommonWithdrawalOrders() []NamedOrder {
	out := make([]NamedOrder, len(commonOrders))
	for i, o := range commonOrders {
		out[i] = NamedOrder{Label: Label(o), Order: o.Clone()}
	}
	return out
}

// DefaultWithdrawalOrder draws cash first and Roth last
func DefaultWithdrawalOrder() WithdrawalOrder {
	return commonOrders[0].Clone()
}

// DefaultTaxPaymentOrder pays taxes from cash, then taxable, then IRA
func DefaultTaxPaymentOrder() WithdrawalOrder {
	return WithdrawalOrder{cash, taxable, ira}
}

// IndexOf returns the position of order within the curated list, or -1
func IndexOf(order []domain.AccountType) int {
	for i, o := range commonOrders {
		if Equal(o, order) {
			return i
		}
	}
	return -1
}
