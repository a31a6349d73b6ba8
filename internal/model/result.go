package model

import "github.com/google/uuid"

// Result is the classification of a single assessment. It is a pure function
// of the assessment, therapy minutes and base rate.
type Result struct {
	HIPPSCode               string           `json:"hipps_code"`
	RUGCategory             RUGCategory      `json:"rug_category"`
	CaseMixIndex            float64          `json:"case_mix_index"`
	ADLScore                int              `json:"adl_score"`
	EstimatedDailyRate      float64          `json:"estimated_daily_rate"`
	EstimatedMonthlyRevenue float64          `json:"estimated_monthly_revenue"`
	SpecialCareHigh         bool             `json:"special_care_high"`
	SpecialCareLow          bool             `json:"special_care_low"`
	RehabilitationCategory  RehabCategory    `json:"rehabilitation_category"`
	ComplexMedical          bool             `json:"complex_medical"`
	BehaviorCategory        BehaviorCategory `json:"behavior_category"`
	ReducedPhysicalFunction bool             `json:"reduced_physical_function"`
}

// CoercionReason explains why an item value was not used as sent.
type CoercionReason string

const (
	CoercionNonNumeric CoercionReason = "non_numeric"
	CoercionClamped    CoercionReason = "clamped"
)

// Coercion records an item value the scorers had to reinterpret. These mask
// data-quality problems, so they are surfaced instead of dropped.
type Coercion struct {
	Section SectionID      `json:"section"`
	Item    string         `json:"item"`
	Raw     string         `json:"raw"`
	Reason  CoercionReason `json:"reason"`
	Used    int            `json:"used"`
}

// QualityMeasure is one quality indicator value.
type QualityMeasure struct {
	Value  float64 `json:"value"`
	Status string  `json:"status"`
}

// Report is the full engine output for one assessment.
type Report struct {
	AssessmentID     uuid.UUID                 `json:"assessment_id"`
	ResidentID       string                    `json:"resident_id"`
	AssessmentSHA256 string                    `json:"assessment_sha256"`
	TherapyMinutes   int                       `json:"therapy_minutes"`
	BaseDailyRate    float64                   `json:"base_daily_rate"`
	Branch           string                    `json:"branch"`
	Classification   Result                    `json:"classification"`
	QualityMeasures  map[string]QualityMeasure `json:"quality_measures"`
	Coercions        []Coercion                `json:"coercions,omitempty"`
}
