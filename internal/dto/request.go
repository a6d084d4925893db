package dto

import (
	"fmt"
	"strconv"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
)

// CustomerRequest represents a single-customer prediction request: column name to value
type CustomerRequest map[string]interface{}

// numericColumns hold numbers; a boolean sent for one of them means 1 or 0
var numericColumns = map[string]bool{
	domain.ColSeniorCitizen:  true,
	domain.ColTenure:         true,
	domain.ColMonthlyCharges: true,
	domain.ColTotalCharges:   true,
}

// RawRecord converts the JSON values into raw column text.
// Booleans become 1/0 in numeric columns and Yes/No elsewhere, numbers keep their
// shortest form and null becomes an empty string.
func (r CustomerRequest) RawRecord() domain.RawRecord {
	raw := make(domain.RawRecord, len(r))
	for col, value := range r {
		switch v := value.(type) {
		case nil:
			raw[col] = ""
		case string:
			raw[col] = v
		case bool:
			raw[col] = boolText(col, v)
		case float64:
			raw[col] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			raw[col] = fmt.Sprint(v)
		}
	}
	return raw
}

func boolText(col string, v bool) string {
	switch {
	case numericColumns[col] && v:
		return "1"
	case numericColumns[col]:
		return "0"
	case v:
		return "Yes"
	default:
		return "No"
	}
}

// HistorySummaryRequest represents a prediction history query request
type HistorySummaryRequest struct {
	From    int64  `form:"from" binding:"required" example:"1766016000"`
	To      int64  `form:"to" binding:"required" example:"1766620800"`
	GroupBy string `form:"group_by" example:"tier"`
}

// CompanyRequest identifies the company a report is produced for
type CompanyRequest struct {
	Name     string `json:"name" example:"Acme Telecom"`
	Location string `json:"location" example:"Pune, India"`
	Email    string `json:"email" example:"retention@acme.example"`
	Website  string `json:"website" example:"https://acme.example"`
}

// ReportRequest represents a PDF report request
type ReportRequest struct {
	Company CompanyRequest `json:"company"`
	Summary []SummaryRow   `json:"summary" binding:"required,min=1,max=3,dive"`
}

// CompanyInfo converts the request into the domain type
func (r *ReportRequest) CompanyInfo() domain.CompanyInfo {
	return domain.CompanyInfo{
		Name:     r.Company.Name,
		Location: r.Company.Location,
		Email:    r.Company.Email,
		Website:  r.Company.Website,
	}
}

// BatchSummary converts the summary rows, filling tiers the request leaves out with zeros
func (r *ReportRequest) BatchSummary() (domain.BatchSummary, error) {
	summary := domain.NewBatchSummary()
	for _, row := range r.Summary {
		if row.Customers < 0 {
			return nil, fmt.Errorf("customers must not be negative for %s", row.RiskSegment)
		}
		for i := range summary {
			if summary[i].Tier == row.RiskSegment {
				summary[i].Customers = row.Customers
				summary[i].RevenueAtRisk = row.RevenueAtRisk
			}
		}
	}
	return summary, nil
}

// NewSummaryRows converts a batch summary into its response form
func NewSummaryRows(summary domain.BatchSummary) []SummaryRow {
	rows := make([]SummaryRow, len(summary))
	for i, s := range summary {
		rows[i] = SummaryRow{
			RiskSegment:   s.Tier,
			Customers:     s.Customers,
			RevenueAtRisk: s.RevenueAtRisk,
		}
	}
	return rows
}
