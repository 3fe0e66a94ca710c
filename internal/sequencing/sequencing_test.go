package sequencing

import (
	"testing"

	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommonWithdrawalOrders(t *testing.T) {
	orders := CommonWithdrawalOrders()

	require.Len(t, orders, 12)
	assert.Equal(t, "Cash → Taxable → IRA → Roth", orders[0].Label)
	assert.Equal(t, "Roth → Cash → Taxable → IRA", orders[11].Label)

	seen := map[string]bool{}
	for _, o := range orders {
		assert.NoError(t, ValidateWithdrawalOrder(o.Order), o.Label)
		key := Key(o.Order)
		assert.False(t, seen[key], "duplicate order %s", key)
		seen[key] = true
	}
}

func TestCommonWithdrawalOrders_ReturnsCopies(t *testing.T) {
	orders := CommonWithdrawalOrders()
	orders[0].Order[0] = domain.AccountRoth

	assert.Equal(t, domain.AccountCash, CommonWithdrawalOrders()[0].Order[0])
}

func TestValidateWithdrawalOrder(t *testing.T) {
	tests := []struct {
		name    string
		order   []domain.AccountType
		wantErr string
	}{
		{"valid", []domain.AccountType{"ira", "roth", "cash", "taxable"}, ""},
		{"empty", nil, "empty"},
		{"duplicate", []domain.AccountType{"ira", "ira", "cash", "taxable"}, "more than once"},
		{"unknown", []domain.AccountType{"ira", "hsa", "cash", "taxable"}, "not allowed"},
		{"missing", []domain.AccountType{"ira", "cash", "taxable"}, "missing roth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWithdrawalOrder(tt.order)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateTaxPaymentOrder(t *testing.T) {
	assert.NoError(t, ValidateTaxPaymentOrder(DefaultTaxPaymentOrder()))
	assert.Error(t, ValidateTaxPaymentOrder([]domain.AccountType{"cash", "taxable", "ira", "roth"}))
	assert.Error(t, ValidateTaxPaymentOrder([]domain.AccountType{"cash"}))
}

func TestParseOrder(t *testing.T) {
	order, err := ParseOrder("cash, brokerage,IRA ,roth")
	require.NoError(t, err)
	assert.Equal(t, WithdrawalOrder{"cash", "taxable", "ira", "roth"}, order)
	assert.Equal(t, 0, IndexOf(order))

	_, err = ParseOrder("cash,annuity")
	assert.Error(t, err)
}
