package compare

import (
	"encoding/json"

	"github.com/rgehrsitz/rothsim/internal/domain"
)

// JSONFormatter formats comparison, grid and strategy results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format encodes a comparison set
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	return jf.FormatAny(compSet)
}

// FormatGrid encodes a conversion grid
func (jf *JSONFormatter) FormatGrid(g domain.GridResult) (string, error) {
	return jf.FormatAny(g)
}

// FormatStrategies encodes a withdrawal strategy comparison
func (jf *JSONFormatter) FormatStrategies(r domain.WithdrawalComparisonResult) (string, error) {
	return jf.FormatAny(r)
}

// FormatAny encodes v with the formatter's settings, newline terminated
func (jf *JSONFormatter) FormatAny(v any) (string, error) {
	marshal := json.Marshal
	if jf.Pretty {
		marshal = func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }
	}
	data, err := marshal(v)
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
