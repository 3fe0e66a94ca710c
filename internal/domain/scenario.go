package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType identifies one of the four simulated accounts
type AccountType string

const (
	AccountIRA     AccountType = "ira"
	AccountRoth    AccountType = "roth"
	AccountTaxable AccountType = "taxable"
	AccountCash    AccountType = "cash"
)

// AllAccounts lists every account in canonical display order
var AllAccounts = []AccountType{AccountCash, AccountTaxable, AccountIRA, AccountRoth}

// TaxPaymentAccounts lists the accounts that may pay taxes. Roth never pays taxes.
var TaxPaymentAccounts = []AccountType{AccountCash, AccountTaxable, AccountIRA}

// DisplayName returns the human readable account name
func (a AccountType) DisplayName() string {
	switch a {
	case AccountIRA:
		return "IRA"
	case AccountRoth:
		return "Roth"
	case AccountTaxable:
		return "Taxable"
	case AccountCash:
		return "Cash"
	default:
		return string(a)
	}
}

// ParseAccountType converts a user supplied name into an AccountType
func ParseAccountType(s string) (AccountType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ira", "traditional", "traditional_ira", "pretax":
		return AccountIRA, nil
	case "roth", "roth_ira":
		return AccountRoth, nil
	case "taxable", "brokerage":
		return AccountTaxable, nil
	case "cash":
		return AccountCash, nil
	default:
		return "", fmt.Errorf("unknown account type: %q", s)
	}
}

// SpendingPhase is a nominal (today's dollars) spending level over an inclusive age range
type SpendingPhase struct {
	FromAge      int             `yaml:"fromAge" json:"fromAge"`
	ToAge        int             `yaml:"toAge" json:"toAge"`
	AnnualAmount decimal.Decimal `yaml:"annualAmount" json:"annualAmount"`
	Label        string          `yaml:"label,omitempty" json:"label,omitempty"`
}

// Covers reports whether the phase applies at the given age
func (p SpendingPhase) Covers(age int) bool {
	return age >= p.FromAge && age <= p.ToAge
}

// OneOffExpense is a single expense in today's dollars at an exact age
type OneOffExpense struct {
	Age    int             `yaml:"age" json:"age"`
	Amount decimal.Decimal `yaml:"amount" json:"amount"`
	Note   string          `yaml:"note,omitempty" json:"note,omitempty"`
}

// Scenario holds every input to a simulation run. Rates are fractions (0.07 == 7%).
type Scenario struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	StartAge  int  `yaml:"startAge" json:"startAge"`
	EndAge    int  `yaml:"endAge" json:"endAge"`
	BirthYear *int `yaml:"birthYear,omitempty" json:"birthYear,omitempty"`

	// Starting balances
	IRABalance     decimal.Decimal `yaml:"iraBalance" json:"iraBalance"`
	RothBalance    decimal.Decimal `yaml:"rothBalance" json:"rothBalance"`
	TaxableBalance decimal.Decimal `yaml:"taxableBalance" json:"taxableBalance"`
	TaxableBasis   decimal.Decimal `yaml:"taxableBasis" json:"taxableBasis"`
	CashBalance    decimal.Decimal `yaml:"cashBalance" json:"cashBalance"`

	// Market assumptions
	InvestmentReturn decimal.Decimal `yaml:"investmentReturn" json:"investmentReturn"`
	CashReturn       decimal.Decimal `yaml:"cashReturn" json:"cashReturn"`
	InflationRate    decimal.Decimal `yaml:"inflationRate" json:"inflationRate"`

	// Blended flat tax rates
	OrdinaryIncomeRate decimal.Decimal `yaml:"ordinaryIncomeRate" json:"ordinaryIncomeRate"`
	CapitalGainsRate   decimal.Decimal `yaml:"capitalGainsRate" json:"capitalGainsRate"`

	SpendingPhases []SpendingPhase `yaml:"spendingPhases" json:"spendingPhases"`
	OneOffExpenses []OneOffExpense `yaml:"oneOffExpenses,omitempty" json:"oneOffExpenses,omitempty"`

	// Social Security benefit at full retirement age in today's dollars
	SSEnabled       bool            `yaml:"ssEnabled" json:"ssEnabled"`
	SSAnnualBenefit decimal.Decimal `yaml:"ssAnnualBenefit" json:"ssAnnualBenefit"`
	SSClaimAge      int             `yaml:"ssClaimAge" json:"ssClaimAge"`

	WithdrawalOrder []AccountType `yaml:"withdrawalOrder" json:"withdrawalOrder"`
	TaxPaymentOrder []AccountType `yaml:"taxPaymentOrder" json:"taxPaymentOrder"`

	RothConversionAmount   decimal.Decimal `yaml:"rothConversionAmount" json:"rothConversionAmount"`
	RothConversionStartAge int             `yaml:"rothConversionStartAge" json:"rothConversionStartAge"`
	RothConversionEndAge   int             `yaml:"rothConversionEndAge" json:"rothConversionEndAge"`

	// AssumedIRATaxRate discounts the IRA balance in the TANW metric
	AssumedIRATaxRate decimal.Decimal `yaml:"assumedIraTaxRate" json:"assumedIraTaxRate"`
}

// Clone returns a deep copy so candidates can override fields without aliasing slices
func (s Scenario) Clone() Scenario {
	c := s
	if s.BirthYear != nil {
		by := *s.BirthYear
		c.BirthYear = &by
	}
	if s.SpendingPhases != nil {
		c.SpendingPhases = append([]SpendingPhase(nil), s.SpendingPhases...)
	}
	if s.OneOffExpenses != nil {
		c.OneOffExpenses = append([]OneOffExpense(nil), s.OneOffExpenses...)
	}
	if s.WithdrawalOrder != nil {
		c.WithdrawalOrder = append([]AccountType(nil), s.WithdrawalOrder...)
	}
	if s.TaxPaymentOrder != nil {
		c.TaxPaymentOrder = append([]AccountType(nil), s.TaxPaymentOrder...)
	}
	return c
}

// Years returns the number of simulated years (inclusive of both ends)
func (s Scenario) Years() int {
	if s.EndAge < s.StartAge {
		return 0
	}
	return s.EndAge - s.StartAge + 1
}

// PhaseAt returns the first spending phase covering age, if any
func (s Scenario) PhaseAt(age int) (SpendingPhase, bool) {
	for _, p := range s.SpendingPhases {
		if p.Covers(age) {
			return p, true
		}
	}
	return SpendingPhase{}, false
}
