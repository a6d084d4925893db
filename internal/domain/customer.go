package domain

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Column names of the customer schema, as they appear in payloads and uploaded tables
const (
	ColCustomerID       = "customerID"
	ColGender           = "gender"
	ColSeniorCitizen    = "SeniorCitizen"
	ColPartner          = "Partner"
	ColDependents       = "Dependents"
	ColTenure           = "tenure"
	ColPhoneService     = "PhoneService"
	ColMultipleLines    = "MultipleLines"
	ColInternetService  = "InternetService"
	ColOnlineSecurity   = "OnlineSecurity"
	ColOnlineBackup     = "OnlineBackup"
	ColDeviceProtection = "DeviceProtection"
	ColTechSupport      = "TechSupport"
	ColStreamingTV      = "StreamingTV"
	ColStreamingMovies  = "StreamingMovies"
	ColContract         = "Contract"
	ColPaperlessBilling = "PaperlessBilling"
	ColPaymentMethod    = "PaymentMethod"
	ColMonthlyCharges   = "MonthlyCharges"
	ColTotalCharges     = "TotalCharges"
)

// RequiredColumns is the schema every prediction request must satisfy, in reporting order
var RequiredColumns = []string{
	ColCustomerID,
	ColGender,
	ColSeniorCitizen,
	ColPartner,
	ColDependents,
	ColTenure,
	ColPhoneService,
	ColMultipleLines,
	ColInternetService,
	ColOnlineSecurity,
	ColOnlineBackup,
	ColDeviceProtection,
	ColTechSupport,
	ColStreamingTV,
	ColStreamingMovies,
	ColContract,
	ColPaperlessBilling,
	ColPaymentMethod,
	ColMonthlyCharges,
	ColTotalCharges,
}

// RawRecord is a customer as received at the boundary: column name to raw text.
// A key that is present with an empty value still counts as a present column.
type RawRecord map[string]string

// MissingColumns returns the required columns absent from the record, in required order
func (r RawRecord) MissingColumns() []string {
	return missingColumns(func(col string) bool {
		_, ok := r[col]
		return ok
	})
}

// CanonicalString renders the record with sorted keys, used for content hashing
func (r RawRecord) CanonicalString() string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(r[k])
	}
	return b.String()
}

// Table is an ordered collection of raw records sharing one header
type Table struct {
	Columns []string
	Rows    []RawRecord
}

// HasColumn reports whether the header contains col
func (t *Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// MissingColumns returns the required columns absent from the header, in required order
func (t *Table) MissingColumns() []string {
	return missingColumns(t.HasColumn)
}

func missingColumns(present func(string) bool) []string {
	var missing []string
	for _, col := range RequiredColumns {
		if !present(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// CustomerRecord is a typed customer with numeric fields already coerced
type CustomerRecord struct {
	CustomerID       string
	Gender           string
	SeniorCitizen    float64
	Partner          string
	Dependents       string
	Tenure           float64
	PhoneService     string
	MultipleLines    string
	InternetService  string
	OnlineSecurity   string
	OnlineBackup     string
	DeviceProtection string
	TechSupport      string
	StreamingTV      string
	StreamingMovies  string
	Contract         string
	PaperlessBilling string
	PaymentMethod    string
	MonthlyCharges   float64
	TotalCharges     float64
}

// NewCustomerRecord coerces a raw record into a CustomerRecord.
// Unparseable or non-finite numbers become 0 and negative tenure is clamped to 0.
func NewCustomerRecord(raw RawRecord) CustomerRecord {
	tenure := CoerceNumber(raw[ColTenure])
	if tenure < 0 {
		tenure = 0
	}

	return CustomerRecord{
		CustomerID:       strings.TrimSpace(raw[ColCustomerID]),
		Gender:           raw[ColGender],
		SeniorCitizen:    CoerceNumber(raw[ColSeniorCitizen]),
		Partner:          raw[ColPartner],
		Dependents:       raw[ColDependents],
		Tenure:           tenure,
		PhoneService:     raw[ColPhoneService],
		MultipleLines:    raw[ColMultipleLines],
		InternetService:  raw[ColInternetService],
		OnlineSecurity:   raw[ColOnlineSecurity],
		OnlineBackup:     raw[ColOnlineBackup],
		DeviceProtection: raw[ColDeviceProtection],
		TechSupport:      raw[ColTechSupport],
		StreamingTV:      raw[ColStreamingTV],
		StreamingMovies:  raw[ColStreamingMovies],
		Contract:         raw[ColContract],
		PaperlessBilling: raw[ColPaperlessBilling],
		PaymentMethod:    raw[ColPaymentMethod],
		MonthlyCharges:   CoerceNumber(raw[ColMonthlyCharges]),
		TotalCharges:     CoerceNumber(raw[ColTotalCharges]),
	}
}

// CoerceNumber parses s as a float, returning 0 for anything unparseable or non-finite
func CoerceNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
