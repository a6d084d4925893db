// Package features derives the model inputs from a customer record.
package features

import (
	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
)

// Transform fills defaults and derives charge_per_tenure, num_services and tenure_group.
// It is pure: transforming v.Record again yields v.
func Transform(record domain.CustomerRecord) domain.FeatureVector {
	record = fillDefaults(record)

	return domain.FeatureVector{
		Record:          record,
		ChargePerTenure: record.MonthlyCharges / (record.Tenure + 1),
		NumServices:     countServices(record),
		TenureGroup:     GroupTenure(record.Tenure),
	}
}

// TransformAll applies Transform to every record, preserving order
func TransformAll(records []domain.CustomerRecord) []domain.FeatureVector {
	vectors := make([]domain.FeatureVector, len(records))
	for i, r := range records {
		vectors[i] = Transform(r)
	}
	return vectors
}

// GroupTenure buckets tenure months with inclusive-lowest, right-open bins.
// 72 and anything above it fall into the last bucket; negatives into the first.
func GroupTenure(tenure float64) domain.TenureGroup {
	switch {
	case tenure < 12:
		return domain.TenureGroup0To1Yr
	case tenure < 24:
		return domain.TenureGroup1To2Yr
	case tenure < 48:
		return domain.TenureGroup2To4Yr
	default:
		return domain.TenureGroup4To6Yr
	}
}

// fillDefaults tolerates partial single-customer payloads
func fillDefaults(r domain.CustomerRecord) domain.CustomerRecord {
	setDefault(&r.PhoneService, "Yes")
	setDefault(&r.MultipleLines, "No")
	setDefault(&r.OnlineBackup, "No")
	setDefault(&r.DeviceProtection, "No")
	setDefault(&r.StreamingMovies, "No")
	setDefault(&r.PaperlessBilling, "Yes")
	return r
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// countServices counts exact "Yes" answers across the six add-on services
func countServices(r domain.CustomerRecord) int {
	values := []string{
		r.OnlineSecurity,
		r.OnlineBackup,
		r.DeviceProtection,
		r.TechSupport,
		r.StreamingTV,
		r.StreamingMovies,
	}

	count := 0
	for _, v := range values {
		if v == "Yes" {
			count++
		}
	}
	return count
}
