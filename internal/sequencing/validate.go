package sequencing

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/rothsim/internal/domain"
)

// ValidateWithdrawalOrder requires a permutation of all four accounts
func ValidateWithdrawalOrder(order []domain.AccountType) error {
	return validatePermutation("withdrawal order", order, domain.AllAccounts)
}

// ValidateTaxPaymentOrder requires a permutation of cash, taxable and IRA. Roth never pays taxes.
func ValidateTaxPaymentOrder(order []domain.AccountType) error {
	return validatePermutation("tax payment order", order, domain.TaxPaymentAccounts)
}

func validatePermutation(what string, order []domain.AccountType, allowed []domain.AccountType) error {
	if len(order) == 0 {
		return fmt.Errorf("%s is empty", what)
	}
	allowedSet := make(map[domain.AccountType]bool, len(allowed))
	for _, a := range allowed {
		allowedSet[a] = true
	}
	seen := make(map[domain.AccountType]bool, len(order))
	for _, a := range order {
		if !allowedSet[a] {
			return fmt.Errorf("%s: account %q is not allowed", what, a)
		}
		if seen[a] {
			return fmt.Errorf("%s: account %q appears more than once", what, a)
		}
		seen[a] = true
	}
	if len(seen) != len(allowed) {
		var missing []string
		for _, a := range allowed {
			if !seen[a] {
				missing = append(missing, string(a))
			}
		}
		return fmt.Errorf("%s: missing %s", what, strings.Join(missing, ", "))
	}
	return nil
}

// ParseOrder reads a comma separated list like "cash,taxable,ira,roth"
func ParseOrder(s string) (WithdrawalOrder, error) {
	parts := strings.Split(s, ",")
	order := make(WithdrawalOrder, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		a, err := domain.ParseAccountType(p)
		if err != nil {
			return nil, err
		}
		order = append(order, a)
	}
	return order, nil
}
