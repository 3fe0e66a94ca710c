package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/shopspring/decimal"
)

var yearCSVHeader = []string{
	"Age", "YearIndex",
	"IRAEnd", "RothEnd", "TaxableEnd", "TaxableBasisEnd", "CashEnd", "TotalEnd",
	"SpendingNeed", "FundedCash", "FundedTaxable", "FundedIRA", "FundedRoth", "SpendingShortfall",
	"SSGross", "SSTaxable",
	"RMDRequired", "RMDForced", "IRADistributionsActual", "RMDSurplusReinvested", "RothConversion",
	"TaxOrdinary", "TaxCapGains", "TaxTotal", "TaxPaidCash", "TaxPaidTaxable", "TaxPaidIRA", "TaxShortfall",
	"GrowthTotal", "TANW",
}

// CSVFormatter writes one row per simulated year
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (CSVFormatter) Format(res *domain.SimulationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(yearCSVHeader); err != nil {
		return nil, err
	}
	for _, r := range res.YearRows {
		row := []string{
			strconv.Itoa(r.Age),
			strconv.Itoa(r.YearIndex),
			money(r.IRAEnd), money(r.RothEnd), money(r.TaxableEnd), money(r.TaxableBasisEnd), money(r.CashEnd), money(r.TotalEnd),
			money(r.SpendingNeed),
			money(r.SpendingFundedFrom.Cash), money(r.SpendingFundedFrom.Taxable), money(r.SpendingFundedFrom.IRA), money(r.SpendingFundedFrom.Roth),
			money(r.SpendingShortfall),
			money(r.SSGross), money(r.SSTaxable),
			money(r.RMDRequired), money(r.RMDForced), money(r.IRADistributionsActual), money(r.RMDSurplusReinvested), money(r.RothConversion),
			money(r.TaxOwedOrdinary), money(r.TaxOwedCapGains), money(r.TaxOwedTotal),
			money(r.TaxPaidFrom.Cash), money(r.TaxPaidFrom.Taxable), money(r.TaxPaidFrom.IRA), money(r.TaxShortfall),
			money(r.Growth.Total), money(r.TANW),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

var ledgerCSVHeader = []string{
	"Seq", "Age", "Phase", "Type", "Account", "From", "To",
	"Gross", "Net", "TaxOrdinary", "TaxCapGains", "Purpose", "Attribution", "Description",
}

// LedgerCSVFormatter writes every ledger entry in recording order
type LedgerCSVFormatter struct{}

func (LedgerCSVFormatter) Name() string { return "ledger-csv" }

func (LedgerCSVFormatter) Format(res *domain.SimulationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(ledgerCSVHeader); err != nil {
		return nil, err
	}
	for _, e := range res.Ledger {
		row := []string{
			strconv.Itoa(e.Seq),
			strconv.Itoa(e.Age),
			string(e.Phase),
			string(e.Type),
			string(e.Account),
			string(e.AccountFrom),
			string(e.AccountTo),
			money(e.AmountGross),
			optionalMoney(e.AmountNet),
			optionalMoney(e.TaxOrdinary),
			optionalMoney(e.TaxCapGains),
			string(e.Purpose),
			string(e.Attribution),
			e.Description,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func optionalMoney(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}
