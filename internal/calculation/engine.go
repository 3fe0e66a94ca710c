package calculation

import (
	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// MaxTaxIterations bounds the tax fixed point; paying tax can itself create taxable income
	MaxTaxIterations = 5
)

// TaxTolerance is the unpaid tax (in dollars) treated as settled
var TaxTolerance = decimal.NewFromInt(1)

// Engine runs year-by-year simulations. It holds no per-run state and is safe
// for concurrent use once configured.
type Engine struct {
	Logger Logger
}

// NewEngine creates an engine with a no-op logger
func NewEngine() *Engine {
	return &Engine{Logger: NopLogger{}}
}

// SetLogger sets the engine logger; nil restores the no-op logger
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

func (e *Engine) logger() Logger {
	if e == nil || e.Logger == nil {
		return NopLogger{}
	}
	return e.Logger
}

// RunSimulation simulates a scenario with a default engine
func RunSimulation(s domain.Scenario) *domain.SimulationResult {
	return NewEngine().RunSimulation(s)
}

// RunSimulation simulates every age from StartAge to EndAge inclusive.
// The scenario is never mutated. Shortfalls are reported in the rows, not as errors.
func (e *Engine) RunSimulation(s domain.Scenario) *domain.SimulationResult {
	scenario := s.Clone()
	st := newAccountState(scenario)
	ledger := NewLedger()

	rows := make([]domain.YearRow, 0, scenario.Years())
	priorYearIRA := st.ira

	for yearIndex := 0; yearIndex <= scenario.EndAge-scenario.StartAge; yearIndex++ {
		yc := yearContext{
			yearIndex: yearIndex,
			age:       scenario.StartAge + yearIndex,
			scenario:  &scenario,
			ledger:    ledger,
		}
		row := e.simulateYear(yc, st, priorYearIRA)
		rows = append(rows, row)
		priorYearIRA = st.ira
	}

	entries := ledger.Entries()
	return &domain.SimulationResult{
		Scenario:     scenario,
		YearRows:     rows,
		Ledger:       entries,
		LedgerByYear: GroupLedgerByYear(entries),
		Summary:      ComputeSummary(rows),
	}
}

// simulateYear advances the state by one year and returns the row for it
func (e *Engine) simulateYear(yc yearContext, st *accountState, priorYearIRA decimal.Decimal) domain.YearRow {
	s := yc.scenario
	one := decimal.NewFromInt(1)

	growth, cashInterest := applyGrowth(yc, st)

	need := spendingNeed(*s, yc.yearIndex, yc.age)

	ssGross := decimal.Zero
	if s.SSEnabled {
		ssGross = CalculateSSBenefit(yc.age, s.SSAnnualBenefit, s.SSClaimAge, yc.yearIndex, s.InflationRate)
	}
	if ssGross.IsPositive() {
		st.cash = st.cash.Add(ssGross)
		yc.record(domain.LedgerEntry{
			Phase: domain.PhaseSpending, Type: domain.EntryIncome,
			AmountGross: ssGross, Account: domain.AccountCash,
			Purpose: domain.PurposeIncome, Attribution: domain.AttrSocialSecurity,
			Description: "Social Security benefit",
		})
	}

	var rmdRequired decimal.Decimal
	if s.BirthYear != nil {
		rmdRequired = CalculateRMDForBirthYear(yc.age, priorYearIRA, *s.BirthYear)
	} else {
		rmdRequired = CalculateRMD(yc.age, priorYearIRA)
	}

	netNeed := decimal.Max(decimal.Zero, need.TotalBeforeIncome.Sub(ssGross))
	spending := withdrawForSpending(yc, st, netNeed)

	rothConversion := convertToRoth(yc, st)

	iraPlanned := spending.iraGross
	iraActual := spending.iraGross
	realizedGains := spending.taxableGains

	rmdForced := decimal.Zero
	if rmdRequired.GreaterThan(iraPlanned) {
		rmdForced = decimal.Min(st.ira, rmdRequired.Sub(iraPlanned))
		if rmdForced.IsPositive() {
			// Gross lands in cash; its tax is settled with the rest of the year's bill
			st.ira = st.ira.Sub(rmdForced)
			st.cash = st.cash.Add(rmdForced)
			iraActual = iraActual.Add(rmdForced)
			rmdTax := rmdForced.Mul(s.OrdinaryIncomeRate)
			yc.record(domain.LedgerEntry{
				Phase: domain.PhaseRMD, Type: domain.EntryWithdrawal,
				AmountGross: rmdForced, AmountNet: decimalPtr(rmdForced.Sub(rmdTax)),
				Account: domain.AccountIRA, TaxOrdinary: decimalPtr(rmdTax),
				Purpose: domain.PurposeRMD, Attribution: domain.AttrIRADistribution,
				Description: "RMD forced distribution (gross goes to cash, subject to income tax)",
			})
		}
	}

	settled := e.settleTaxes(yc, st, taxBase{
		iraDistributions: iraActual,
		rothConversion:   rothConversion,
		capGains:         realizedGains,
		cashInterest:     cashInterest,
		ssGross:          ssGross,
	})
	iraActual = iraActual.Add(settled.payment.iraGross)

	reinvested := decimal.Zero
	if rmdForced.IsPositive() {
		netRMD := rmdForced.Mul(one.Sub(s.OrdinaryIncomeRate))
		reinvested = decimal.Max(decimal.Zero, decimal.Min(netRMD, st.cash))
		if reinvested.IsPositive() {
			st.cash = st.cash.Sub(reinvested)
			st.taxableMarket = st.taxableMarket.Add(reinvested)
			st.taxableBasis = st.taxableBasis.Add(reinvested)
			yc.record(domain.LedgerEntry{
				Phase: domain.PhaseReinvest, Type: domain.EntryDeposit,
				AmountGross: reinvested, Account: domain.AccountTaxable,
				Purpose: domain.PurposeReinvest, Attribution: domain.AttrIRADistribution,
				Description: "Reinvested RMD surplus",
			})
		}
	}

	st.clamp()

	row := domain.YearRow{
		YearIndex: yc.yearIndex,
		Age:       yc.age,

		IRAEnd:          st.ira,
		RothEnd:         st.roth,
		TaxableEnd:      st.taxableMarket,
		TaxableBasisEnd: st.taxableBasis,
		CashEnd:         st.cash,
		TotalEnd:        st.total(),

		SpendingNeed: need.TotalBeforeIncome,
		SpendingComponents: domain.SpendingComponents{
			BaseSpending:      need.BaseSpending,
			OneOffExpenses:    need.OneOffExpenses,
			TotalBeforeIncome: need.TotalBeforeIncome,
			SSIncome:          ssGross,
			NetSpendingNeed:   netNeed,
		},
		SpendingFundedFrom: spending.fundedFrom,
		SpendingShortfall:  spending.shortfall,

		TaxOwedOrdinary: settled.tax.OrdinaryTax,
		TaxOwedCapGains: settled.tax.CapitalGainsTax,
		TaxOwedTotal:    settled.tax.TotalTax,
		TaxSources:      settled.tax.Sources,
		TaxPaidFrom:     settled.payment.paidFrom,
		TaxShortfall:    settled.payment.remaining,
		TaxIterations:   settled.iterations,

		IRADistributionsPlanned: iraPlanned,
		RMDRequired:             rmdRequired,
		RMDForced:               rmdForced,
		IRADistributionsActual:  iraActual,
		RMDSurplusReinvested:    reinvested,
		RothConversion:          rothConversion,

		SSGross:   ssGross,
		SSTaxable: settled.ssTaxable,

		Growth: growth,
	}
	if ssGross.IsPositive() {
		row.SSEffectiveRate = settled.ssTaxable.Div(ssGross)
	}

	row.TANWComponents = domain.TANWComponents{
		IRAAfterTax:     st.ira.Mul(one.Sub(s.AssumedIRATaxRate)),
		RothAfterTax:    st.roth,
		TaxableAfterTax: st.taxableMarket.Sub(st.unrealizedGain().Mul(s.CapitalGainsRate)),
		CashAfterTax:    st.cash,
	}
	row.TANW = row.TANWComponents.IRAAfterTax.
		Add(row.TANWComponents.RothAfterTax).
		Add(row.TANWComponents.TaxableAfterTax).
		Add(row.TANWComponents.CashAfterTax)

	return row
}

// applyGrowth grows every account once and returns the growth and taxable cash interest
func applyGrowth(yc yearContext, st *accountState) (domain.Growth, decimal.Decimal) {
	s := yc.scenario
	g := domain.Growth{
		IRA:     st.ira.Mul(s.InvestmentReturn),
		Roth:    st.roth.Mul(s.InvestmentReturn),
		Taxable: st.taxableMarket.Mul(s.InvestmentReturn),
		Cash:    st.cash.Mul(s.CashReturn),
	}
	g.Total = g.IRA.Add(g.Roth).Add(g.Taxable).Add(g.Cash)

	st.ira = st.ira.Add(g.IRA)
	st.roth = st.roth.Add(g.Roth)
	st.taxableMarket = st.taxableMarket.Add(g.Taxable)
	st.cash = st.cash.Add(g.Cash)

	entries := []struct {
		amount      decimal.Decimal
		account     domain.AccountType
		attribution domain.LedgerAttribution
		description string
	}{
		{g.IRA, domain.AccountIRA, domain.AttrCapitalGains, "IRA growth"},
		{g.Roth, domain.AccountRoth, domain.AttrCapitalGains, "Roth growth"},
		{g.Taxable, domain.AccountTaxable, domain.AttrCapitalGains, "Taxable account growth"},
		{g.Cash, domain.AccountCash, domain.AttrInterest, "Cash interest"},
	}
	for _, e := range entries {
		if e.amount.IsZero() {
			continue
		}
		yc.record(domain.LedgerEntry{
			Phase: domain.PhaseGrowth, Type: domain.EntryGrowth,
			AmountGross: e.amount, Account: e.account,
			Purpose: domain.PurposeReinvest, Attribution: e.attribution,
			Description: e.description,
		})
	}

	return g, decimal.Max(decimal.Zero, g.Cash)
}

// spendingNeed inflates the covering phase and this age's one-off expenses to nominal dollars
func spendingNeed(s domain.Scenario, yearIndex, age int) domain.SpendingComponents {
	inflationFactor := decimal.NewFromFloat(1).Add(s.InflationRate).Pow(decimal.NewFromInt(int64(yearIndex)))

	base := decimal.Zero
	if phase, ok := s.PhaseAt(age); ok {
		base = phase.AnnualAmount.Mul(inflationFactor)
	}
	oneOff := decimal.Zero
	for _, x := range s.OneOffExpenses {
		if x.Age == age {
			oneOff = oneOff.Add(x.Amount)
		}
	}
	oneOff = oneOff.Mul(inflationFactor)

	return domain.SpendingComponents{
		BaseSpending:      base,
		OneOffExpenses:    oneOff,
		TotalBeforeIncome: base.Add(oneOff),
	}
}

// convertToRoth moves min(IRA, amount) to Roth when age is inside the conversion window
func convertToRoth(yc yearContext, st *accountState) decimal.Decimal {
	s := yc.scenario
	if yc.age < s.RothConversionStartAge || yc.age > s.RothConversionEndAge {
		return decimal.Zero
	}
	if !s.RothConversionAmount.IsPositive() || !st.ira.IsPositive() {
		return decimal.Zero
	}
	amount := decimal.Min(st.ira, s.RothConversionAmount)
	st.ira = st.ira.Sub(amount)
	st.roth = st.roth.Add(amount)
	yc.record(domain.LedgerEntry{
		Phase: domain.PhaseConversion, Type: domain.EntryTransfer,
		AmountGross: amount, AccountFrom: domain.AccountIRA, AccountTo: domain.AccountRoth,
		Purpose: domain.PurposeConversion, Attribution: domain.AttrRothConversion,
		Description: "Roth conversion",
	})
	return amount
}

// taxBase is the year's taxable activity before any tax payments
type taxBase struct {
	iraDistributions decimal.Decimal
	rothConversion   decimal.Decimal
	capGains         decimal.Decimal
	cashInterest     decimal.Decimal
	ssGross          decimal.Decimal
}

type settlement struct {
	tax        TaxCalculation
	payment    taxPayment
	ssTaxable  decimal.Decimal
	iterations int
}

// settleTaxes iterates tax computation and payment to a fixed point. Each round taxes
// the income created by the previous round's IRA draws and taxable sales.
func (e *Engine) settleTaxes(yc yearContext, st *accountState, base taxBase) settlement {
	s := yc.scenario
	var out settlement

	iraForTax := base.iraDistributions
	capGains := base.capGains

	for iter := 0; iter < MaxTaxIterations; iter++ {
		out.iterations = iter + 1

		other := iraForTax.Add(base.rothConversion).Add(capGains).Add(base.cashInterest)
		out.ssTaxable = CalculateSSTaxable(base.ssGross, other).Taxable

		calc := CalculateYearlyTax(YearlyTaxInput{
			IRADistributions: iraForTax,
			RothConversion:   base.rothConversion,
			RealizedCapGains: capGains,
			CashInterest:     base.cashInterest,
			SSGross:          base.ssGross,
			SSTaxable:        out.ssTaxable,
			OrdinaryRate:     s.OrdinaryIncomeRate,
			CapGainsRate:     s.CapitalGainsRate,
		})
		out.tax = calc

		due := calc.TotalTax.Sub(out.payment.paidFrom.Total())
		if due.LessThanOrEqual(TaxTolerance) {
			break
		}

		round := payTaxes(yc, st, due)
		out.payment.add(round)

		iraForTax = base.iraDistributions.Add(out.payment.iraGross)
		capGains = base.capGains.Add(out.payment.taxableGains)

		if round.iraGross.IsZero() && round.taxableGains.IsZero() {
			break
		}
	}

	if out.payment.remaining.GreaterThan(TaxTolerance) {
		e.logger().Warnf("Year %d (age %d): Tax shortfall of $%s - insufficient funds to pay all taxes",
			yc.yearIndex, yc.age, out.payment.remaining.StringFixed(2))
	}
	return out
}
