package output

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCurrency formats a decimal as currency with thousands separators, e.g. $1,234.56
func FormatCurrency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + FormatCurrency(amount.Neg())
	}
	return "$" + printer.Sprintf("%.2f", amount.Round(2).InexactFloat64())
}

// FormatWhole formats whole dollars, e.g. $1,235
func FormatWhole(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + FormatWhole(amount.Neg())
	}
	return "$" + printer.Sprintf("%d", amount.Round(0).IntPart())
}

// FormatPercentage formats a fraction as a percentage, e.g. 0.22 -> 22.00%
func FormatPercentage(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// FormatCompact abbreviates large amounts, e.g. $1.25M or $350K
func FormatCompact(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	switch {
	case amount.GreaterThanOrEqual(decimal.NewFromInt(1_000_000)):
		return sign + "$" + strings.TrimSuffix(strings.TrimSuffix(amount.Div(decimal.NewFromInt(1_000_000)).StringFixed(2), "0"), ".0") + "M"
	case amount.GreaterThanOrEqual(decimal.NewFromInt(1_000)):
		return sign + "$" + amount.Div(decimal.NewFromInt(1_000)).Round(0).String() + "K"
	default:
		return sign + "$" + amount.Round(0).String()
	}
}
