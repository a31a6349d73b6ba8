package model

import (
	"time"

	"github.com/google/uuid"
)

// ClassificationRow is the DB-ready representation of one classification.
// Money values are stored as int64 cents.
type ClassificationRow struct {
	RunID        uuid.UUID
	AssessmentID uuid.UUID
	ResidentID   string

	AssessmentSHA256 string
	ReferenceDate    *time.Time

	HIPPSCode    string
	RUGCategory  string
	Branch       string
	CaseMixIndex float64
	ADLScore     int32

	RehabilitationCategory  string
	BehaviorCategory        string
	ComplexMedical          bool
	SpecialCareHigh         bool
	SpecialCareLow          bool
	ReducedPhysicalFunction bool

	TherapyMinutes      int32
	BaseRateCents       int64
	DailyRateCents      int64
	MonthlyRevenueCents int64

	CoercionCount int32
	ComputedAt    time.Time
}

// ClassificationColumns returns the ordered column names for COPY into
// care.classifications.
func ClassificationColumns() []string {
	return []string{
		"run_id",
		"assessment_id",
		"resident_id",
		"assessment_sha256",
		"reference_date",
		"hipps_code",
		"rug_category",
		"branch",
		"case_mix_index",
		"adl_score",
		"rehabilitation_category",
		"behavior_category",
		"complex_medical",
		"special_care_high",
		"special_care_low",
		"reduced_physical_function",
		"therapy_minutes",
		"base_rate_cents",
		"daily_rate_cents",
		"monthly_revenue_cents",
		"coercion_count",
		"computed_at",
	}
}

// CopyValues returns the row values in the same order as
// ClassificationColumns(), suitable for pgx CopyFromSource.
func (r *ClassificationRow) CopyValues() []any {
	return []any{
		r.RunID,
		r.AssessmentID,
		r.ResidentID,
		r.AssessmentSHA256,
		r.ReferenceDate,
		r.HIPPSCode,
		r.RUGCategory,
		r.Branch,
		r.CaseMixIndex,
		r.ADLScore,
		r.RehabilitationCategory,
		r.BehaviorCategory,
		r.ComplexMedical,
		r.SpecialCareHigh,
		r.SpecialCareLow,
		r.ReducedPhysicalFunction,
		r.TherapyMinutes,
		r.BaseRateCents,
		r.DailyRateCents,
		r.MonthlyRevenueCents,
		r.CoercionCount,
		r.ComputedAt,
	}
}
