package output

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/rgehrsitz/rothsim/internal/domain"
)

const (
	pageWidth    = 297.0 // A4 landscape
	marginLeft   = 10.0
	marginRight  = 10.0
	marginTop    = 12.0
	marginBottom = 15.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// PDFFormatter renders a printable report: assumptions, summary and year table
type PDFFormatter struct{}

func (PDFFormatter) Name() string { return "pdf" }

func (PDFFormatter) Format(res *domain.SimulationResult) ([]byte, error) {
	r := &pdfReport{pdf: fpdf.New("L", "mm", "A4", ""), res: res}
	r.tr = r.pdf.UnicodeTranslatorFromDescriptor("")
	r.pdf.SetMargins(marginLeft, marginTop, marginRight)
	r.pdf.SetAutoPageBreak(true, marginBottom)
	r.pdf.SetTitle("Roth Conversion Simulation", true)

	r.addOverviewPage()
	r.addYearTable()

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type pdfReport struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	res *domain.SimulationResult
}

// text converts to the core fonts' cp1252 encoding; arrows have no glyph there
func (r *pdfReport) text(s string) string {
	return r.tr(strings.ReplaceAll(s, "→", ">"))
}

func (r *pdfReport) heading(s string) {
	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, r.text(s), "", 1, "L", false, 0, "")
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)
}

func (r *pdfReport) addOverviewPage() {
	r.pdf.AddPage()

	title := "Roth Conversion Simulation"
	if r.res.Scenario.Name != "" {
		title += ": " + r.res.Scenario.Name
	}
	r.pdf.SetFont("Arial", "B", 20)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 12, r.text(title), "", 1, "C", false, 0, "")
	r.pdf.SetFont("Arial", "I", 10)
	r.pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Ages %d to %d", r.res.Scenario.StartAge, r.res.Scenario.EndAge), "", 1, "C", false, 0, "")
	r.pdf.Ln(6)

	r.heading("Key Assumptions")
	for _, a := range Assumptions(r.res.Scenario) {
		r.pdf.MultiCell(contentWidth, 5, r.text("- "+a), "", "L", false)
	}
	r.pdf.Ln(4)

	r.heading("Summary")
	s := r.res.Summary
	rows := [][2]string{
		{"Final total", FormatCurrency(s.FinalTotal)},
		{"Final TANW", FormatCurrency(s.FinalTANW)},
		{"Total taxes paid", FormatCurrency(s.TotalTaxesPaid)},
		{"Total converted", FormatCurrency(s.TotalConverted)},
		{"Total RMDs", FormatCurrency(s.TotalRMDs)},
		{"Spending shortfall", FormatCurrency(s.TotalSpendingShortfall)},
		{"Tax shortfall", FormatCurrency(s.TotalTaxShortfall)},
	}
	for _, row := range rows {
		r.pdf.CellFormat(60, 6, row[0], "", 0, "L", false, 0, "")
		r.pdf.CellFormat(60, 6, row[1], "", 1, "R", false, 0, "")
	}
	if s.WorstShortfallAge != nil {
		r.pdf.SetTextColor(180, 0, 0)
		r.pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Largest spending shortfall at age %d", *s.WorstShortfallAge), "", 1, "L", false, 0, "")
		r.pdf.SetTextColor(50, 50, 50)
	}
}

var pdfColumns = []struct {
	title string
	width float64
	value func(domain.YearRow) string
}{
	{"Age", 12, func(r domain.YearRow) string { return strconv.Itoa(r.Age) }},
	{"IRA", 24, func(r domain.YearRow) string { return FormatWhole(r.IRAEnd) }},
	{"Roth", 24, func(r domain.YearRow) string { return FormatWhole(r.RothEnd) }},
	{"Taxable", 24, func(r domain.YearRow) string { return FormatWhole(r.TaxableEnd) }},
	{"Cash", 22, func(r domain.YearRow) string { return FormatWhole(r.CashEnd) }},
	{"Total", 25, func(r domain.YearRow) string { return FormatWhole(r.TotalEnd) }},
	{"Spending", 22, func(r domain.YearRow) string { return FormatWhole(r.SpendingNeed) }},
	{"SS", 20, func(r domain.YearRow) string { return FormatWhole(r.SSGross) }},
	{"RMD", 20, func(r domain.YearRow) string { return FormatWhole(r.RMDRequired) }},
	{"Conversion", 22, func(r domain.YearRow) string { return FormatWhole(r.RothConversion) }},
	{"Tax", 20, func(r domain.YearRow) string { return FormatWhole(r.TaxOwedTotal) }},
	{"TANW", 25, func(r domain.YearRow) string { return FormatWhole(r.TANW) }},
}

func (r *pdfReport) tableHeader() {
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 8)
	for _, c := range pdfColumns {
		r.pdf.CellFormat(c.width, 6, c.title, "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)
	r.pdf.SetTextColor(50, 50, 50)
	r.pdf.SetFont("Arial", "", 8)
}

func (r *pdfReport) addYearTable() {
	r.pdf.AddPage()
	r.heading("Year by Year")
	r.tableHeader()

	for i, row := range r.res.YearRows {
		if r.pdf.GetY() > 185 {
			r.pdf.AddPage()
			r.tableHeader()
		}
		fill := i%2 == 1
		r.pdf.SetFillColor(240, 248, 255)
		shortfall := row.SpendingShortfall.IsPositive() || row.TaxShortfall.IsPositive()
		if shortfall {
			r.pdf.SetTextColor(180, 0, 0)
		}
		for _, c := range pdfColumns {
			r.pdf.CellFormat(c.width, 5, c.value(row), "1", 0, "R", fill, 0, "")
		}
		r.pdf.Ln(-1)
		if shortfall {
			r.pdf.SetTextColor(50, 50, 50)
		}
	}
}
