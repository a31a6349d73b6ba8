// Package parquetio exports classification rows to Parquet and reads them
// back for summaries.
package parquetio

import (
	"time"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
)

// Record is the Parquet layout of one classification. IDs are stored as
// text and money as int64 cents.
type Record struct {
	RunID                   string    `parquet:"run_id"`
	AssessmentID            string    `parquet:"assessment_id"`
	ResidentID              string    `parquet:"resident_id"`
	AssessmentSHA256        string    `parquet:"assessment_sha256"`
	ReferenceDate           string    `parquet:"reference_date,optional"`
	HIPPSCode               string    `parquet:"hipps_code"`
	RUGCategory             string    `parquet:"rug_category"`
	Branch                  string    `parquet:"branch"`
	CaseMixIndex            float64   `parquet:"case_mix_index"`
	ADLScore                int32     `parquet:"adl_score"`
	RehabilitationCategory  string    `parquet:"rehabilitation_category"`
	BehaviorCategory        string    `parquet:"behavior_category"`
	ComplexMedical          bool      `parquet:"complex_medical"`
	SpecialCareHigh         bool      `parquet:"special_care_high"`
	SpecialCareLow          bool      `parquet:"special_care_low"`
	ReducedPhysicalFunction bool      `parquet:"reduced_physical_function"`
	TherapyMinutes          int32     `parquet:"therapy_minutes"`
	BaseRateCents           int64     `parquet:"base_rate_cents"`
	DailyRateCents          int64     `parquet:"daily_rate_cents"`
	MonthlyRevenueCents     int64     `parquet:"monthly_revenue_cents"`
	CoercionCount           int32     `parquet:"coercion_count"`
	ComputedAt              time.Time `parquet:"computed_at"`
}

// RequiredColumns are the columns a results file must carry to be summarized.
var RequiredColumns = []string{
	"assessment_id",
	"hipps_code",
	"rug_category",
	"case_mix_index",
	"daily_rate_cents",
	"monthly_revenue_cents",
}

// FromRow converts a DB row into its Parquet record.
func FromRow(r *model.ClassificationRow) Record {
	rec := Record{
		RunID:                   r.RunID.String(),
		AssessmentID:            r.AssessmentID.String(),
		ResidentID:              r.ResidentID,
		AssessmentSHA256:        r.AssessmentSHA256,
		HIPPSCode:               r.HIPPSCode,
		RUGCategory:             r.RUGCategory,
		Branch:                  r.Branch,
		CaseMixIndex:            r.CaseMixIndex,
		ADLScore:                r.ADLScore,
		RehabilitationCategory:  r.RehabilitationCategory,
		BehaviorCategory:        r.BehaviorCategory,
		ComplexMedical:          r.ComplexMedical,
		SpecialCareHigh:         r.SpecialCareHigh,
		SpecialCareLow:          r.SpecialCareLow,
		ReducedPhysicalFunction: r.ReducedPhysicalFunction,
		TherapyMinutes:          r.TherapyMinutes,
		BaseRateCents:           r.BaseRateCents,
		DailyRateCents:          r.DailyRateCents,
		MonthlyRevenueCents:     r.MonthlyRevenueCents,
		CoercionCount:           r.CoercionCount,
		ComputedAt:              r.ComputedAt.UTC(),
	}
	if r.ReferenceDate != nil {
		rec.ReferenceDate = r.ReferenceDate.Format("2006-01-02")
	}
	return rec
}
