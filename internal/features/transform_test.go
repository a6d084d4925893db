package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
)

func TestTransform_ChargePerTenure(t *testing.T) {
	tests := []struct {
		name    string
		tenure  float64
		monthly float64
		want    float64
	}{
		{"zero tenure", 0, 70, 70},
		{"one year", 11, 60, 5},
		{"zero charge", 24, 0, 0},
		{"long tenure", 71, 108, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Transform(domain.CustomerRecord{Tenure: tt.tenure, MonthlyCharges: tt.monthly})

			assert.InDelta(t, tt.want, v.ChargePerTenure, 1e-9)
			assert.False(t, math.IsInf(v.ChargePerTenure, 0))
			assert.False(t, math.IsNaN(v.ChargePerTenure))
		})
	}
}

func TestTransform_NumServices(t *testing.T) {
	all := domain.CustomerRecord{
		OnlineSecurity:   "Yes",
		OnlineBackup:     "Yes",
		DeviceProtection: "Yes",
		TechSupport:      "Yes",
		StreamingTV:      "Yes",
		StreamingMovies:  "Yes",
	}
	assert.Equal(t, 6, Transform(all).NumServices)

	none := domain.CustomerRecord{
		OnlineSecurity: "No internet service",
		TechSupport:    "No",
		StreamingTV:    "yes",
	}
	assert.Equal(t, 0, Transform(none).NumServices)

	some := domain.CustomerRecord{
		OnlineSecurity:  "Yes",
		StreamingTV:     "Yes ",
		StreamingMovies: "Yes",
	}
	assert.Equal(t, 2, Transform(some).NumServices)
}

func TestGroupTenure_Boundaries(t *testing.T) {
	tests := []struct {
		tenure float64
		want   domain.TenureGroup
	}{
		{0, domain.TenureGroup0To1Yr},
		{11.9, domain.TenureGroup0To1Yr},
		{12, domain.TenureGroup1To2Yr},
		{23, domain.TenureGroup1To2Yr},
		{24, domain.TenureGroup2To4Yr},
		{47, domain.TenureGroup2To4Yr},
		{48, domain.TenureGroup4To6Yr},
		{72, domain.TenureGroup4To6Yr},
		{90, domain.TenureGroup4To6Yr},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GroupTenure(tt.tenure), "tenure %v", tt.tenure)
	}
}

func TestTransform_FillsOptionalDefaults(t *testing.T) {
	v := Transform(domain.CustomerRecord{
		OnlineBackup: "Yes",
	})

	assert.Equal(t, "Yes", v.Record.PhoneService)
	assert.Equal(t, "No", v.Record.MultipleLines)
	assert.Equal(t, "Yes", v.Record.OnlineBackup)
	assert.Equal(t, "No", v.Record.DeviceProtection)
	assert.Equal(t, "No", v.Record.StreamingMovies)
	assert.Equal(t, "Yes", v.Record.PaperlessBilling)
	assert.Equal(t, 1, v.NumServices)
}

func TestTransform_Idempotent(t *testing.T) {
	record := domain.NewCustomerRecord(domain.RawRecord{
		domain.ColTenure:           "30",
		domain.ColMonthlyCharges:   "89.1",
		domain.ColOnlineSecurity:   "Yes",
		domain.ColTechSupport:      "Yes",
		domain.ColStreamingTV:      "No",
		domain.ColContract:         "One year",
		domain.ColPaperlessBilling: "",
	})

	first := Transform(record)
	second := Transform(first.Record)

	assert.Equal(t, first, second)
}

func TestTransformAll_PreservesOrder(t *testing.T) {
	records := []domain.CustomerRecord{
		{CustomerID: "a", Tenure: 1},
		{CustomerID: "b", Tenure: 30},
		{CustomerID: "c", Tenure: 60},
	}

	vectors := TransformAll(records)

	assert.Len(t, vectors, 3)
	assert.Equal(t, "a", vectors[0].Record.CustomerID)
	assert.Equal(t, "b", vectors[1].Record.CustomerID)
	assert.Equal(t, "c", vectors[2].Record.CustomerID)
	assert.Equal(t, domain.TenureGroup4To6Yr, vectors[2].TenureGroup)
}
