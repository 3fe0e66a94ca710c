package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rgehrsitz/rothsim/internal/calculation"
	"github.com/rgehrsitz/rothsim/internal/config"
	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult(t *testing.T) *domain.SimulationResult {
	t.Helper()
	s := config.DefaultScenario()
	s.EndAge = 75
	return calculation.RunSimulation(s)
}

func TestFormatterFunc(t *testing.T) {
	called := false
	f := FormatterFunc{ID: "test", F: func(res *domain.SimulationResult) ([]byte, error) {
		called = true
		return []byte("ok"), nil
	}}

	out, err := f.Format(&domain.SimulationResult{})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "ok", string(out))
	assert.Equal(t, "test", f.Name())
}

func TestGet(t *testing.T) {
	for _, name := range []string{"console", "csv", "ledger-csv", "json", "msgpack", "pdf"} {
		f, err := Get(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, f.Name())
	}

	_, err := Get("html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available")
	assert.Equal(t, []string{"console", "csv", "json", "ledger-csv", "msgpack", "pdf"}, Names())
}

func TestWrite_FormatterError(t *testing.T) {
	f := FormatterFunc{ID: "broken", F: func(*domain.SimulationResult) ([]byte, error) {
		return nil, errors.New("boom")
	}}
	err := Write(&bytes.Buffer{}, f, &domain.SimulationResult{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format broken")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	res := testResult(t)
	require.NoError(t, WriteFile(path, CSVFormatter{}, res))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Age,YearIndex,"))
}

func TestConsoleFormatter(t *testing.T) {
	res := testResult(t)
	out, err := ConsoleFormatter{}.Format(res)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "ROTH CONVERSION & WITHDRAWAL SIMULATION: DEFAULT")
	assert.Contains(t, text, "KEY ASSUMPTIONS:")
	assert.Contains(t, text, "Withdrawal order: Cash → Taxable → IRA → Roth")
	assert.Contains(t, text, "Final TANW:")
	assert.Contains(t, text, FormatCurrency(res.Summary.FinalTANW))
	// header plus one line per year
	tableStart := strings.Index(text, "Age")
	require.Greater(t, tableStart, 0)
	lines := strings.Split(strings.TrimSpace(text[tableStart:]), "\n")
	assert.Len(t, lines, 1+len(res.YearRows))
}

func TestCSVFormatter(t *testing.T) {
	res := testResult(t)
	out, err := CSVFormatter{}.Format(res)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+len(res.YearRows))
	assert.Equal(t, yearCSVHeader, records[0])
	for _, rec := range records {
		assert.Len(t, rec, len(yearCSVHeader))
	}
	assert.Equal(t, "62", records[1][0])
	last := records[len(records)-1]
	assert.Equal(t, res.Summary.FinalTANW.StringFixed(2), last[len(last)-1])
}

func TestLedgerCSVFormatter(t *testing.T) {
	res := testResult(t)
	out, err := LedgerCSVFormatter{}.Format(res)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+len(res.Ledger))
	assert.Equal(t, "0", records[1][0])
	assert.Equal(t, string(res.Ledger[0].Phase), records[1][2])
}

func TestJSONFormatter(t *testing.T) {
	res := testResult(t)
	out, err := JSONFormatter{}.Format(res)
	require.NoError(t, err)

	var back domain.SimulationResult
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Len(t, back.YearRows, len(res.YearRows))
	assert.True(t, back.Summary.FinalTANW.Equal(res.Summary.FinalTANW))
	assert.Len(t, back.Ledger, len(res.Ledger))
}

func TestMsgpackFormatter(t *testing.T) {
	res := testResult(t)
	out, err := MsgpackFormatter{}.Format(res)
	require.NoError(t, err)

	var back domain.SimulationResult
	require.NoError(t, UnmarshalMsgpack(out, &back))
	require.Len(t, back.YearRows, len(res.YearRows))
	assert.Equal(t, res.YearRows[3].Age, back.YearRows[3].Age)
	assert.True(t, back.Summary.FinalTotal.Equal(res.Summary.FinalTotal))
}

func TestPDFFormatter(t *testing.T) {
	res := testResult(t)
	out, err := PDFFormatter{}.Format(res)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.True(t, IsBinary("pdf"))
	assert.False(t, IsBinary("csv"))
}

func TestFormatLedgerYear(t *testing.T) {
	res := testResult(t)

	text, err := FormatLedgerYear(res, 63)
	require.NoError(t, err)
	assert.Contains(t, text, "LEDGER FOR AGE 63")
	assert.Contains(t, text, "Growth")
	assert.Contains(t, text, "Roth Conversion")
	assert.Less(t, strings.Index(text, "Growth"), strings.Index(text, "Roth Conversion"))

	_, err = FormatLedgerYear(res, 99)
	assert.Error(t, err)
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.Zero, "$0.00"},
		{decimal.RequireFromString("1234.5"), "$1,234.50"},
		{decimal.RequireFromString("-2500000"), "-$2,500,000.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.in))
	}
	assert.Equal(t, "$1,235", FormatWhole(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "22.00%", FormatPercentage(decimal.RequireFromString("0.22")))
	assert.Equal(t, "$1.25M", FormatCompact(decimal.NewFromInt(1_250_000)))
	assert.Equal(t, "$2M", FormatCompact(decimal.NewFromInt(2_000_000)))
	assert.Equal(t, "$350K", FormatCompact(decimal.NewFromInt(350_000)))
	assert.Equal(t, "$999", FormatCompact(decimal.NewFromInt(999)))
}
