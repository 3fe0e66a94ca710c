package domain

import "github.com/shopspring/decimal"

// LedgerPhase is the step of the yearly loop that produced an entry
type LedgerPhase string

const (
	PhaseGrowth        LedgerPhase = "growth"
	PhaseSpending      LedgerPhase = "spending"
	PhaseRMD           LedgerPhase = "rmd"
	PhaseConversion    LedgerPhase = "conversion"
	PhaseTaxSettlement LedgerPhase = "tax_settlement"
	PhaseReinvest      LedgerPhase = "reinvest"
)

// LedgerPhases is the order phases occur within a year
var LedgerPhases = []LedgerPhase{PhaseGrowth, PhaseSpending, PhaseRMD, PhaseConversion, PhaseTaxSettlement, PhaseReinvest}

// LedgerEntryType classifies the money movement
type LedgerEntryType string

const (
	EntryIncome     LedgerEntryType = "income"
	EntryWithdrawal LedgerEntryType = "withdrawal"
	EntryDeposit    LedgerEntryType = "deposit"
	EntryTransfer   LedgerEntryType = "transfer"
	EntryTaxAccrual LedgerEntryType = "tax_accrual"
	EntryTaxPayment LedgerEntryType = "tax_payment"
	EntryGrowth     LedgerEntryType = "growth"
)

// LedgerPurpose is why the money moved
type LedgerPurpose string

const (
	PurposeSpending   LedgerPurpose = "spending"
	PurposeTax        LedgerPurpose = "tax"
	PurposeConversion LedgerPurpose = "conversion"
	PurposeRMD        LedgerPurpose = "rmd"
	PurposeReinvest   LedgerPurpose = "reinvest"
	PurposeIncome     LedgerPurpose = "income"
)

// LedgerAttribution ties an entry to the tax category it feeds
type LedgerAttribution string

const (
	AttrIRADistribution LedgerAttribution = "ira_distribution"
	AttrRothWithdrawal  LedgerAttribution = "roth_withdrawal"
	AttrTaxableSale     LedgerAttribution = "taxable_sale"
	AttrCashWithdrawal  LedgerAttribution = "cash_withdrawal"
	AttrSocialSecurity  LedgerAttribution = "social_security"
	AttrRothConversion  LedgerAttribution = "roth_conversion"
	AttrCapitalGains    LedgerAttribution = "capital_gains"
	AttrInterest        LedgerAttribution = "interest"
)

// LedgerEntry is an immutable record of one money movement within a run.
// Optional fields are pointers so that zero and absent stay distinguishable.
type LedgerEntry struct {
	ID          string            `json:"id"`
	Seq         int               `json:"seq"`
	YearIndex   int               `json:"yearIndex"`
	Age         int               `json:"age"`
	Phase       LedgerPhase       `json:"phase"`
	Type        LedgerEntryType   `json:"type"`
	AmountGross decimal.Decimal   `json:"amountGross"`
	AmountNet   *decimal.Decimal  `json:"amountNet,omitempty"`
	Account     AccountType       `json:"account,omitempty"`
	AccountFrom AccountType       `json:"accountFrom,omitempty"`
	AccountTo   AccountType       `json:"accountTo,omitempty"`
	TaxOrdinary *decimal.Decimal  `json:"taxOrdinary,omitempty"`
	TaxCapGains *decimal.Decimal  `json:"taxCapGains,omitempty"`
	Purpose     LedgerPurpose     `json:"purpose"`
	Attribution LedgerAttribution `json:"attribution,omitempty"`
	Description string            `json:"description"`
}

// Net returns AmountNet when set, otherwise AmountGross
func (e LedgerEntry) Net() decimal.Decimal {
	if e.AmountNet != nil {
		return *e.AmountNet
	}
	return e.AmountGross
}

// PrimaryAccount returns the account most relevant for display
func (e LedgerEntry) PrimaryAccount() AccountType {
	if e.Account != "" {
		return e.Account
	}
	if e.AccountFrom != "" {
		return e.AccountFrom
	}
	return e.AccountTo
}
