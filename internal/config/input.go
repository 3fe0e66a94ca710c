package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/rgehrsitz/rothsim/internal/sequencing"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Format is a scenario file encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Age bounds accepted for a scenario
const (
	MinAge = 18
	MaxAge = 120
)

// InputParser handles parsing of scenario files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// FormatForPath picks the decoder from a file extension. Anything that is not
// .json is read as YAML, which also accepts JSON documents.
func FormatForPath(filename string) Format {
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// LoadFromFile loads and validates a scenario from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	s, err := ip.Parse(data, FormatForPath(filename))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return s, nil
}

// Parse decodes a scenario, fills omitted account orders and validates it
func (ip *InputParser) Parse(data []byte, format Format) (*domain.Scenario, error) {
	var s domain.Scenario
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case FormatYAML, "":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	ApplyOrderDefaults(&s)
	if err := ip.ValidateScenario(&s); err != nil {
		return nil, fmt.Errorf("scenario validation failed: %w", err)
	}
	return &s, nil
}

// SaveToFile writes a scenario as YAML, or JSON when the path ends in .json
func (ip *InputParser) SaveToFile(filename string, s domain.Scenario) error {
	var (
		data []byte
		err  error
	)
	if FormatForPath(filename) == FormatJSON {
		data, err = json.MarshalIndent(s, "", "  ")
	} else {
		data, err = yaml.Marshal(s)
	}
	if err != nil {
		return fmt.Errorf("failed to encode scenario: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// ApplyOrderDefaults fills empty withdrawal and tax payment orders
func ApplyOrderDefaults(s *domain.Scenario) {
	if len(s.WithdrawalOrder) == 0 {
		s.WithdrawalOrder = sequencing.DefaultWithdrawalOrder()
	}
	if len(s.TaxPaymentOrder) == 0 {
		s.TaxPaymentOrder = sequencing.DefaultTaxPaymentOrder()
	}
}

// ValidateScenario checks a scenario before it reaches the engine. The engine
// tolerates degenerate balances; this rejects inputs that are plainly wrong.
func (ip *InputParser) ValidateScenario(s *domain.Scenario) error {
	if err := validateAges(s); err != nil {
		return err
	}
	if err := validateBalances(s); err != nil {
		return err
	}
	if err := validateRates(s); err != nil {
		return err
	}
	if err := validateSpending(s); err != nil {
		return err
	}
	if s.SSEnabled {
		if s.SSAnnualBenefit.IsNegative() {
			return fmt.Errorf("social security benefit cannot be negative")
		}
		if s.SSClaimAge < 62 || s.SSClaimAge > 70 {
			return fmt.Errorf("social security claim age must be between 62 and 70, got %d", s.SSClaimAge)
		}
	}
	if err := sequencing.ValidateWithdrawalOrder(s.WithdrawalOrder); err != nil {
		return err
	}
	if err := sequencing.ValidateTaxPaymentOrder(s.TaxPaymentOrder); err != nil {
		return err
	}
	if s.RothConversionAmount.IsNegative() {
		return fmt.Errorf("roth conversion amount cannot be negative")
	}
	if s.RothConversionAmount.IsPositive() && s.RothConversionStartAge > s.RothConversionEndAge {
		return fmt.Errorf("roth conversion start age %d is after end age %d", s.RothConversionStartAge, s.RothConversionEndAge)
	}
	return nil
}

func validateAges(s *domain.Scenario) error {
	if s.StartAge < MinAge || s.StartAge > MaxAge {
		return fmt.Errorf("start age must be between %d and %d, got %d", MinAge, MaxAge, s.StartAge)
	}
	if s.EndAge < s.StartAge {
		return fmt.Errorf("end age %d is before start age %d", s.EndAge, s.StartAge)
	}
	if s.EndAge > MaxAge {
		return fmt.Errorf("end age cannot exceed %d", MaxAge)
	}
	if s.BirthYear != nil && (*s.BirthYear < 1900 || *s.BirthYear > 2100) {
		return fmt.Errorf("birth year %d is out of range", *s.BirthYear)
	}
	return nil
}

func validateBalances(s *domain.Scenario) error {
	balances := []struct {
		name  string
		value decimal.Decimal
	}{
		{"ira balance", s.IRABalance},
		{"roth balance", s.RothBalance},
		{"taxable balance", s.TaxableBalance},
		{"taxable basis", s.TaxableBasis},
		{"cash balance", s.CashBalance},
	}
	for _, b := range balances {
		if b.value.IsNegative() {
			return fmt.Errorf("%s cannot be negative", b.name)
		}
	}
	return nil
}

func validateRates(s *domain.Scenario) error {
	minusOne := decimal.NewFromInt(-1)
	if s.InvestmentReturn.LessThan(minusOne) {
		return fmt.Errorf("investment return cannot be less than -100%%")
	}
	if s.CashReturn.LessThan(minusOne) {
		return fmt.Errorf("cash return cannot be less than -100%%")
	}
	if s.InflationRate.LessThan(decimal.NewFromFloat(-0.10)) {
		return fmt.Errorf("inflation rate cannot be less than -10%% (extreme deflation)")
	}

	taxRates := []struct {
		name  string
		value decimal.Decimal
	}{
		{"ordinary income rate", s.OrdinaryIncomeRate},
		{"capital gains rate", s.CapitalGainsRate},
		{"assumed IRA tax rate", s.AssumedIRATaxRate},
	}
	for _, r := range taxRates {
		if r.value.IsNegative() || r.value.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("%s must be in [0, 1), got %s", r.name, r.value)
		}
	}
	return nil
}

// validateSpending rejects inverted or overlapping phases and negative amounts
func validateSpending(s *domain.Scenario) error {
	for i, p := range s.SpendingPhases {
		if p.FromAge > p.ToAge {
			return fmt.Errorf("spending phase %d: from age %d is after to age %d", i, p.FromAge, p.ToAge)
		}
		if p.AnnualAmount.IsNegative() {
			return fmt.Errorf("spending phase %d: annual amount cannot be negative", i)
		}
		for j := 0; j < i; j++ {
			q := s.SpendingPhases[j]
			if p.FromAge <= q.ToAge && q.FromAge <= p.ToAge {
				return fmt.Errorf("spending phases %d and %d overlap", j, i)
			}
		}
	}
	for i, e := range s.OneOffExpenses {
		if e.Amount.IsNegative() {
			return fmt.Errorf("one-off expense %d: amount cannot be negative", i)
		}
	}
	return nil
}
