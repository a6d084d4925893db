// Package report renders the portfolio churn report as a PDF document.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
)

const (
	Title = "Customer Churn Decision Intelligence Report"

	insights = "This report identifies customer churn risk across the portfolio. " +
		"High-risk customers should be prioritized for retention offers, " +
		"medium-risk customers monitored closely, and low-risk customers " +
		"targeted for upsell opportunities."

	margin     = 12.7
	rowHeight  = 8.0
	chartImage = "risk-chart"
)

// Renderer produces report PDFs. The zero value is ready to use.
type Renderer struct{}

// NewRenderer creates a new report renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render builds an A4 report for the company and batch summary
func (r *Renderer) Render(company domain.CompanyInfo, summary domain.BatchSummary) ([]byte, error) {
	chart, err := renderChart(summary)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(Title, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, Title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	heading(pdf, "Company Details")
	companyRows := [][2]string{
		{"Company Name", orDash(company.Name)},
		{"Location", orDash(company.Location)},
		{"Email", orDash(company.Email)},
		{"Website", orDash(company.Website)},
	}
	for i, row := range companyRows {
		style := ""
		if i == 0 {
			style = "B"
			pdf.SetFillColor(245, 245, 245)
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(56, rowHeight, row[0], "1", 0, "L", i == 0, 0, "")
		pdf.CellFormat(89, rowHeight, row[1], "1", 1, "L", i == 0, 0, "")
	}
	pdf.Ln(6)

	heading(pdf, "Portfolio Risk Summary")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(211, 211, 211)
	for _, h := range []string{"Risk Segment", "Customers", "Revenue at Risk ($)"} {
		pdf.CellFormat(51, rowHeight, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range summary {
		pdf.CellFormat(51, rowHeight, row.Tier.String(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(51, rowHeight, fmt.Sprintf("%d", row.Customers), "1", 0, "C", false, 0, "")
		pdf.CellFormat(51, rowHeight, formatMoney(row.RevenueAtRisk), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(8)

	heading(pdf, "Risk Distribution Chart")
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(chartImage, opts, bytes.NewReader(chart))
	pdf.ImageOptions(chartImage, margin, pdf.GetY(), 160, 70, true, opts, 0, "")
	pdf.Ln(6)

	heading(pdf, "Executive Insights")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, insights, "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

func heading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 9, text, "", 1, "L", false, 0, "")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// formatMoney renders whole dollars with thousands separators, e.g. $1,234
func formatMoney(d decimal.Decimal) string {
	digits := d.Round(0).Abs().StringFixed(0)

	var b strings.Builder
	if d.Round(0).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}
