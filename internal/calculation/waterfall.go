package calculation

import (
	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/shopspring/decimal"
)

// accountState is the mutable balance sheet for one run
type accountState struct {
	ira           decimal.Decimal
	roth          decimal.Decimal
	taxableMarket decimal.Decimal
	taxableBasis  decimal.Decimal
	cash          decimal.Decimal
}

func newAccountState(s domain.Scenario) *accountState {
	return &accountState{
		ira:           s.IRABalance,
		roth:          s.RothBalance,
		taxableMarket: s.TaxableBalance,
		taxableBasis:  s.TaxableBasis,
		cash:          s.CashBalance,
	}
}

func (st *accountState) total() decimal.Decimal {
	return st.ira.Add(st.roth).Add(st.taxableMarket).Add(st.cash)
}

// clamp keeps every balance non-negative and basis within market value
func (st *accountState) clamp() {
	st.ira = decimal.Max(st.ira, decimal.Zero)
	st.roth = decimal.Max(st.roth, decimal.Zero)
	st.taxableMarket = decimal.Max(st.taxableMarket, decimal.Zero)
	st.cash = decimal.Max(st.cash, decimal.Zero)
	st.taxableBasis = decimal.Min(decimal.Max(st.taxableBasis, decimal.Zero), st.taxableMarket)
}

// unrealizedGain is max(0, market - basis)
func (st *accountState) unrealizedGain() decimal.Decimal {
	if !st.taxableMarket.IsPositive() {
		return decimal.Zero
	}
	return decimal.Max(decimal.Zero, st.taxableMarket.Sub(st.taxableBasis))
}

// gainFraction is the share of a taxable sale that is realized gain
func (st *accountState) gainFraction() decimal.Decimal {
	if !st.taxableMarket.IsPositive() {
		return decimal.Zero
	}
	return decimal.Max(decimal.Zero, st.taxableMarket.Sub(st.taxableBasis).Div(st.taxableMarket))
}

// draw is one grossed-up withdrawal from a single account
type draw struct {
	gross   decimal.Decimal
	net     decimal.Decimal
	gain    decimal.Decimal
	taxOrd  decimal.Decimal
	taxCapG decimal.Decimal
}

// grossUp returns the gross amount needed to net `want` after tax at rate,
// capped at balance. capped is false when the balance covers the full gross,
// in which case the draw nets exactly `want`.
// A rate of 100% or more can only ever yield the full balance.
func grossUp(want, rate, balance decimal.Decimal) (gross decimal.Decimal, capped bool) {
	keep := decimal.NewFromInt(1).Sub(rate)
	if !keep.IsPositive() {
		return balance, true
	}
	needed := want.Div(keep)
	if needed.GreaterThan(balance) {
		return balance, true
	}
	return needed, false
}

// netOf is what a draw of gross yields after tax. Uncapped draws net `want`
// exactly so division remainders never leave a sub-cent amount unfunded.
func netOf(gross, keep, want decimal.Decimal, capped bool) decimal.Decimal {
	if !capped {
		return want
	}
	return gross.Mul(keep)
}

// drawIRA withdraws enough IRA to net `want` after ordinary income tax
func (st *accountState) drawIRA(want, ordinaryRate decimal.Decimal) draw {
	gross, capped := grossUp(want, ordinaryRate, st.ira)
	net := netOf(gross, decimal.NewFromInt(1).Sub(ordinaryRate), want, capped)
	st.ira = st.ira.Sub(gross)
	return draw{gross: gross, net: net, taxOrd: gross.Sub(net)}
}

// drawTaxable sells enough of the taxable account to net `want` after capital gains tax.
// The non-gain portion of the sale reduces basis.
func (st *accountState) drawTaxable(want, capGainsRate decimal.Decimal) draw {
	gainPct := st.gainFraction()
	effectiveRate := gainPct.Mul(capGainsRate)
	gross, capped := grossUp(want, effectiveRate, st.taxableMarket)
	net := netOf(gross, decimal.NewFromInt(1).Sub(effectiveRate), want, capped)
	gain := gross.Mul(gainPct)

	st.taxableMarket = st.taxableMarket.Sub(gross)
	st.taxableBasis = decimal.Max(decimal.Zero, st.taxableBasis.Sub(gross.Sub(gain)))
	return draw{gross: gross, net: net, gain: gain, taxCapG: gain.Mul(capGainsRate)}
}

// drawPlain withdraws from an untaxed balance 1:1
func drawPlain(balance *decimal.Decimal, want decimal.Decimal) decimal.Decimal {
	amount := decimal.Min(*balance, want)
	*balance = balance.Sub(amount)
	return amount
}

// spendingOutcome summarizes the spending waterfall
type spendingOutcome struct {
	fundedFrom   domain.SpendingFundedFrom
	iraGross     decimal.Decimal
	taxableGross decimal.Decimal
	taxableGains decimal.Decimal
	taxOrdinary  decimal.Decimal
	taxCapGains  decimal.Decimal
	shortfall    decimal.Decimal
}

// taxPayment summarizes one pass of the tax payment waterfall
type taxPayment struct {
	paidFrom     domain.TaxPaidFrom
	iraGross     decimal.Decimal
	taxableGross decimal.Decimal
	taxableGains decimal.Decimal
	taxOrdinary  decimal.Decimal
	taxCapGains  decimal.Decimal
	remaining    decimal.Decimal
}

func (p *taxPayment) add(o taxPayment) {
	p.paidFrom.Cash = p.paidFrom.Cash.Add(o.paidFrom.Cash)
	p.paidFrom.Taxable = p.paidFrom.Taxable.Add(o.paidFrom.Taxable)
	p.paidFrom.IRA = p.paidFrom.IRA.Add(o.paidFrom.IRA)
	p.iraGross = p.iraGross.Add(o.iraGross)
	p.taxableGross = p.taxableGross.Add(o.taxableGross)
	p.taxableGains = p.taxableGains.Add(o.taxableGains)
	p.taxOrdinary = p.taxOrdinary.Add(o.taxOrdinary)
	p.taxCapGains = p.taxCapGains.Add(o.taxCapGains)
	p.remaining = o.remaining
}

// yearContext is what every ledger entry for a year shares
type yearContext struct {
	yearIndex int
	age       int
	scenario  *domain.Scenario
	ledger    *Ledger
}

func (yc yearContext) record(e domain.LedgerEntry) {
	e.YearIndex = yc.yearIndex
	e.Age = yc.age
	yc.ledger.Record(e)
}

// withdrawForSpending walks the withdrawal order until targetNet is funded or every account is empty.
// fundedFrom records net dollars delivered.
func withdrawForSpending(yc yearContext, st *accountState, targetNet decimal.Decimal) spendingOutcome {
	s := yc.scenario
	remaining := targetNet
	var out spendingOutcome

	for _, account := range s.WithdrawalOrder {
		if !remaining.IsPositive() {
			break
		}
		switch account {
		case domain.AccountCash:
			if !st.cash.IsPositive() {
				continue
			}
			amount := drawPlain(&st.cash, remaining)
			remaining = remaining.Sub(amount)
			out.fundedFrom.Cash = out.fundedFrom.Cash.Add(amount)
			if amount.IsPositive() {
				yc.record(domain.LedgerEntry{
					Phase: domain.PhaseSpending, Type: domain.EntryWithdrawal,
					AmountGross: amount, AmountNet: decimalPtr(amount),
					Account: domain.AccountCash, Purpose: domain.PurposeSpending,
					Attribution: domain.AttrCashWithdrawal,
					Description: "Cash used for spending (no tax)",
				})
			}

		case domain.AccountRoth:
			if !st.roth.IsPositive() {
				continue
			}
			amount := drawPlain(&st.roth, remaining)
			remaining = remaining.Sub(amount)
			out.fundedFrom.Roth = out.fundedFrom.Roth.Add(amount)
			if amount.IsPositive() {
				yc.record(domain.LedgerEntry{
					Phase: domain.PhaseSpending, Type: domain.EntryWithdrawal,
					AmountGross: amount, AmountNet: decimalPtr(amount),
					Account: domain.AccountRoth, Purpose: domain.PurposeSpending,
					Attribution: domain.AttrRothWithdrawal,
					Description: "Roth withdrawal for spending (tax-free)",
				})
			}

		case domain.AccountIRA:
			if !st.ira.IsPositive() {
				continue
			}
			d := st.drawIRA(remaining, s.OrdinaryIncomeRate)
			remaining = remaining.Sub(d.net)
			out.fundedFrom.IRA = out.fundedFrom.IRA.Add(d.net)
			out.iraGross = out.iraGross.Add(d.gross)
			out.taxOrdinary = out.taxOrdinary.Add(d.taxOrd)
			if d.gross.IsPositive() {
				yc.record(domain.LedgerEntry{
					Phase: domain.PhaseSpending, Type: domain.EntryWithdrawal,
					AmountGross: d.gross, AmountNet: decimalPtr(d.net),
					Account: domain.AccountIRA, TaxOrdinary: decimalPtr(d.taxOrd),
					Purpose: domain.PurposeSpending, Attribution: domain.AttrIRADistribution,
					Description: "IRA withdrawal for spending (net after income tax withheld)",
				})
			}

		case domain.AccountTaxable:
			if !st.taxableMarket.IsPositive() {
				continue
			}
			d := st.drawTaxable(remaining, s.CapitalGainsRate)
			remaining = remaining.Sub(d.net)
			out.fundedFrom.Taxable = out.fundedFrom.Taxable.Add(d.net)
			out.taxableGross = out.taxableGross.Add(d.gross)
			out.taxableGains = out.taxableGains.Add(d.gain)
			out.taxCapGains = out.taxCapGains.Add(d.taxCapG)
			if d.gross.IsPositive() {
				yc.record(domain.LedgerEntry{
					Phase: domain.PhaseSpending, Type: domain.EntryWithdrawal,
					AmountGross: d.gross, AmountNet: decimalPtr(d.net),
					Account: domain.AccountTaxable, TaxCapGains: decimalPtr(d.taxCapG),
					Purpose: domain.PurposeSpending, Attribution: domain.AttrTaxableSale,
					Description: "Taxable sale for spending (net after capital gains tax)",
				})
			}
		}
	}

	out.shortfall = decimal.Max(decimal.Zero, remaining)
	return out
}

// payTaxes walks the tax payment order until targetTax is covered.
// Unlike spending, paidFrom records the gross drawn from taxable and IRA.
func payTaxes(yc yearContext, st *accountState, targetTax decimal.Decimal) taxPayment {
	s := yc.scenario
	remaining := targetTax
	var out taxPayment

	for _, account := range s.TaxPaymentOrder {
		if !remaining.IsPositive() {
			break
		}
		switch account {
		case domain.AccountCash:
			if !st.cash.IsPositive() {
				continue
			}
			amount := drawPlain(&st.cash, remaining)
			remaining = remaining.Sub(amount)
			out.paidFrom.Cash = out.paidFrom.Cash.Add(amount)
			if amount.IsPositive() {
				yc.record(domain.LedgerEntry{
					Phase: domain.PhaseTaxSettlement, Type: domain.EntryTaxPayment,
					AmountGross: amount, AmountNet: decimalPtr(amount),
					Account: domain.AccountCash, Purpose: domain.PurposeTax,
					Attribution: domain.AttrCashWithdrawal,
					Description: "Cash used to pay taxes (from cash reserves or prior income)",
				})
			}

		case domain.AccountTaxable:
			if !st.taxableMarket.IsPositive() {
				continue
			}
			d := st.drawTaxable(remaining, s.CapitalGainsRate)
			remaining = remaining.Sub(d.net)
			out.paidFrom.Taxable = out.paidFrom.Taxable.Add(d.gross)
			out.taxableGross = out.taxableGross.Add(d.gross)
			out.taxableGains = out.taxableGains.Add(d.gain)
			out.taxCapGains = out.taxCapGains.Add(d.taxCapG)
			if d.gross.IsPositive() {
				yc.record(domain.LedgerEntry{
					Phase: domain.PhaseTaxSettlement, Type: domain.EntryTaxPayment,
					AmountGross: d.gross, AmountNet: decimalPtr(d.net),
					Account: domain.AccountTaxable, TaxCapGains: decimalPtr(d.taxCapG),
					Purpose: domain.PurposeTax, Attribution: domain.AttrTaxableSale,
					Description: "Taxable sale to raise cash for taxes (generates additional cap gains tax)",
				})
			}

		case domain.AccountIRA:
			if !st.ira.IsPositive() {
				continue
			}
			d := st.drawIRA(remaining, s.OrdinaryIncomeRate)
			remaining = remaining.Sub(d.net)
			out.paidFrom.IRA = out.paidFrom.IRA.Add(d.gross)
			out.iraGross = out.iraGross.Add(d.gross)
			out.taxOrdinary = out.taxOrdinary.Add(d.taxOrd)
			if d.gross.IsPositive() {
				yc.record(domain.LedgerEntry{
					Phase: domain.PhaseTaxSettlement, Type: domain.EntryTaxPayment,
					AmountGross: d.gross, AmountNet: decimalPtr(d.net),
					Account: domain.AccountIRA, TaxOrdinary: decimalPtr(d.taxOrd),
					Purpose: domain.PurposeTax, Attribution: domain.AttrIRADistribution,
					Description: "IRA withdrawal to raise cash for taxes (generates additional income tax)",
				})
			}
		}
	}

	out.remaining = decimal.Max(decimal.Zero, remaining)
	return out
}
