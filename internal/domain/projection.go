package domain

import "github.com/shopspring/decimal"

// SpendingComponents breaks down how the year's net spending need was derived
type SpendingComponents struct {
	BaseSpending      decimal.Decimal `json:"baseSpending"`
	OneOffExpenses    decimal.Decimal `json:"oneOffExpenses"`
	TotalBeforeIncome decimal.Decimal `json:"totalBeforeIncome"`
	SSIncome          decimal.Decimal `json:"ssIncome"`
	NetSpendingNeed   decimal.Decimal `json:"netSpendingNeed"`
}

// SpendingFundedFrom records the net dollars each account delivered toward spending
type SpendingFundedFrom struct {
	Cash    decimal.Decimal `json:"cash"`
	Taxable decimal.Decimal `json:"taxable"`
	IRA     decimal.Decimal `json:"ira"`
	Roth    decimal.Decimal `json:"roth"`
}

// TaxSources attributes the year's tax to each income stream
type TaxSources struct {
	IRADistributions decimal.Decimal `json:"iraDistributions"`
	RothConversion   decimal.Decimal `json:"rothConversion"`
	SSTaxable        decimal.Decimal `json:"ssTaxable"`
	CapitalGains     decimal.Decimal `json:"capitalGains"`
	CashInterest     decimal.Decimal `json:"cashInterest"`
}

// TaxPaidFrom records the gross dollars drawn from each account to pay taxes
type TaxPaidFrom struct {
	Cash    decimal.Decimal `json:"cash"`
	Taxable decimal.Decimal `json:"taxable"`
	IRA     decimal.Decimal `json:"ira"`
}

// Total sums the gross drawn across accounts
func (t TaxPaidFrom) Total() decimal.Decimal {
	return t.Cash.Add(t.Taxable).Add(t.IRA)
}

// Growth records each account's investment growth for the year
type Growth struct {
	IRA     decimal.Decimal `json:"ira"`
	Roth    decimal.Decimal `json:"roth"`
	Taxable decimal.Decimal `json:"taxable"`
	Cash    decimal.Decimal `json:"cash"`
	Total   decimal.Decimal `json:"total"`
}

// TANWComponents is the after-tax value of each account
type TANWComponents struct {
	IRAAfterTax     decimal.Decimal `json:"iraAfterTax"`
	RothAfterTax    decimal.Decimal `json:"rothAfterTax"`
	TaxableAfterTax decimal.Decimal `json:"taxableAfterTax"`
	CashAfterTax    decimal.Decimal `json:"cashAfterTax"`
}

// YearRow is the end-of-year snapshot for one simulated age
type YearRow struct {
	YearIndex int `json:"yearIndex"`
	Age       int `json:"age"`

	IRAEnd          decimal.Decimal `json:"iraEnd"`
	RothEnd         decimal.Decimal `json:"rothEnd"`
	TaxableEnd      decimal.Decimal `json:"taxableEnd"`
	TaxableBasisEnd decimal.Decimal `json:"taxableBasisEnd"`
	CashEnd         decimal.Decimal `json:"cashEnd"`
	TotalEnd        decimal.Decimal `json:"totalEnd"`

	SpendingNeed       decimal.Decimal    `json:"spendingNeed"`
	SpendingComponents SpendingComponents `json:"spendingComponents"`
	SpendingFundedFrom SpendingFundedFrom `json:"spendingFundedFrom"`
	SpendingShortfall  decimal.Decimal    `json:"spendingShortfall"`

	TaxOwedOrdinary decimal.Decimal `json:"taxOwedOrdinary"`
	TaxOwedCapGains decimal.Decimal `json:"taxOwedCapGains"`
	TaxOwedTotal    decimal.Decimal `json:"taxOwedTotal"`
	TaxSources      TaxSources      `json:"taxSources"`
	TaxPaidFrom     TaxPaidFrom     `json:"taxPaidFrom"`
	TaxShortfall    decimal.Decimal `json:"taxShortfall"`
	TaxIterations   int             `json:"taxIterations"`

	IRADistributionsPlanned decimal.Decimal `json:"iraDistributionsPlanned"`
	RMDRequired             decimal.Decimal `json:"rmdRequired"`
	RMDForced               decimal.Decimal `json:"rmdForced"`
	IRADistributionsActual  decimal.Decimal `json:"iraDistributionsActual"`
	RMDSurplusReinvested    decimal.Decimal `json:"rmdSurplusReinvested"`
	RothConversion          decimal.Decimal `json:"rothConversion"`

	SSGross         decimal.Decimal `json:"ssGross"`
	SSTaxable       decimal.Decimal `json:"ssTaxable"`
	SSEffectiveRate decimal.Decimal `json:"ssEffectiveRate"`

	Growth Growth `json:"growth"`

	TANW           decimal.Decimal `json:"tanw"`
	TANWComponents TANWComponents  `json:"tanwComponents"`
}

// Summary aggregates a run into headline metrics
type Summary struct {
	FinalTotal             decimal.Decimal `json:"finalTotal"`
	FinalTANW              decimal.Decimal `json:"finalTanw"`
	TotalTaxesPaid         decimal.Decimal `json:"totalTaxesPaid"`
	TotalOrdinaryTax       decimal.Decimal `json:"totalOrdinaryTax"`
	TotalCapGainsTax       decimal.Decimal `json:"totalCapGainsTax"`
	TotalConverted         decimal.Decimal `json:"totalConverted"`
	TotalRMDs              decimal.Decimal `json:"totalRmds"`
	TotalSpendingShortfall decimal.Decimal `json:"totalSpendingShortfall"`
	TotalTaxShortfall      decimal.Decimal `json:"totalTaxShortfall"`
	WorstShortfallAge      *int            `json:"worstShortfallAge,omitempty"`
}

// SimulationResult is the complete output of one run
type SimulationResult struct {
	Scenario     Scenario              `json:"scenario"`
	YearRows     []YearRow             `json:"yearRows"`
	Ledger       []LedgerEntry         `json:"ledger"`
	LedgerByYear map[int][]LedgerEntry `json:"ledgerByYear"`
	Summary      Summary               `json:"summary"`
}

// RowForAge returns the row for the given age, if simulated
func (r *SimulationResult) RowForAge(age int) (YearRow, bool) {
	for _, row := range r.YearRows {
		if row.Age == age {
			return row, true
		}
	}
	return YearRow{}, false
}
