package calculation

import "github.com/shopspring/decimal"

// Single-filer provisional income thresholds. Not indexed to inflation by statute.
var (
	ssFirstThreshold  = decimal.NewFromInt(25000)
	ssSecondThreshold = decimal.NewFromInt(34000)
	ssTierOneCap      = decimal.NewFromInt(4500)
	ssHalf            = decimal.NewFromFloat(0.5)
	ssEightyFive      = decimal.NewFromFloat(0.85)
)

// ssAdjustmentFactors maps claim age to the fraction of the full retirement age benefit
var ssAdjustmentFactors = map[int]string{
	62: "0.70",
	63: "0.75",
	64: "0.80",
	65: "0.8667",
	66: "0.9333",
	67: "1.0",
	68: "1.08",
	69: "1.16",
	70: "1.24",
}

// SSAdjustmentFactor returns the early or delayed claiming multiplier; ages outside 62-70 get 1.0
func SSAdjustmentFactor(claimAge int) decimal.Decimal {
	if f, ok := ssAdjustmentFactors[claimAge]; ok {
		return decimal.RequireFromString(f)
	}
	return decimal.NewFromInt(1)
}

// CalculateSSBenefit returns the gross annual benefit received at age.
// fraAmount is in today's dollars and is inflated by yearsFromStart.
func CalculateSSBenefit(age int, fraAmount decimal.Decimal, claimAge, yearsFromStart int, inflationRate decimal.Decimal) decimal.Decimal {
	if age < claimAge {
		return decimal.Zero
	}
	inflationFactor := decimal.NewFromFloat(1).Add(inflationRate).Pow(decimal.NewFromInt(int64(yearsFromStart)))
	return fraAmount.Mul(SSAdjustmentFactor(claimAge)).Mul(inflationFactor)
}

// SSTaxability is the result of the provisional income test
type SSTaxability struct {
	Taxable           decimal.Decimal
	ProvisionalIncome decimal.Decimal
}

// CalculateSSTaxable applies the single-filer provisional income tiers.
// otherTaxableIncome excludes Social Security itself.
func CalculateSSTaxable(ssGross, otherTaxableIncome decimal.Decimal) SSTaxability {
	provisional := otherTaxableIncome.Add(ssGross.Mul(ssHalf))
	result := SSTaxability{ProvisionalIncome: provisional}

	switch {
	case provisional.LessThanOrEqual(ssFirstThreshold):
		result.Taxable = decimal.Zero
	case provisional.LessThanOrEqual(ssSecondThreshold):
		result.Taxable = decimal.Min(provisional.Sub(ssFirstThreshold).Mul(ssHalf), ssGross.Mul(ssHalf))
	default:
		tierOne := decimal.Min(ssTierOneCap, ssGross.Mul(ssHalf))
		tierTwo := provisional.Sub(ssSecondThreshold).Mul(ssEightyFive)
		result.Taxable = decimal.Min(tierOne.Add(tierTwo), ssGross.Mul(ssEightyFive))
	}
	return result
}
