package normalize

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
)

// Assessment fills a partial assessment into a complete one: every section in
// model.AllSections exists, every expected item carries a default, and any
// value present in the input overrides the default. Item codes and section
// ids are canonicalized; unknown items and sections pass through untouched.
// The input is never mutated.
func Assessment(partial model.Assessment) model.Assessment {
	out := partial
	out.Sections = make(map[model.SectionID]model.Section, len(model.AllSections))

	for _, spec := range model.AllSections {
		s := model.Section{Items: make(map[string]any, len(spec.Items))}
		for _, item := range spec.Items {
			s.Items[item.Code] = defaultValue(item.Kind)
		}
		out.Sections[spec.ID] = s
	}

	// Sorted so that spellings colliding after canonicalization ("g"/"G",
	// "G0110A"/"g0110a") resolve the same way on every run.
	ids := make([]string, 0, len(partial.Sections))
	for id := range partial.Sections {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	for _, id := range ids {
		in := partial.Sections[model.SectionID(id)].Clone()
		key := model.SectionID(SectionCode(id))
		s, ok := out.Sections[key]
		if !ok {
			s = model.Section{Items: make(map[string]any, len(in.Items))}
		}
		s.Completed = in.Completed
		for _, code := range sortedKeys(in.Items) {
			s.Items[ItemCode(code)] = in.Items[code]
		}
		out.Sections[key] = s
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func defaultValue(kind model.ItemKind) any {
	switch kind {
	case model.ItemList:
		return []any{}
	case model.ItemFlag:
		return false
	default:
		return "0"
	}
}

// ClassificationRow converts an engine report into a DB/export row.
func ClassificationRow(rep *model.Report, a *model.Assessment, runID uuid.UUID, computedAt time.Time) *model.ClassificationRow {
	c := rep.Classification
	row := &model.ClassificationRow{
		RunID:            runID,
		AssessmentID:     rep.AssessmentID,
		ResidentID:       rep.ResidentID,
		AssessmentSHA256: rep.AssessmentSHA256,

		HIPPSCode:    c.HIPPSCode,
		RUGCategory:  string(c.RUGCategory),
		Branch:       rep.Branch,
		CaseMixIndex: c.CaseMixIndex,
		ADLScore:     int32(c.ADLScore),

		RehabilitationCategory:  string(c.RehabilitationCategory),
		BehaviorCategory:        string(c.BehaviorCategory),
		ComplexMedical:          c.ComplexMedical,
		SpecialCareHigh:         c.SpecialCareHigh,
		SpecialCareLow:          c.SpecialCareLow,
		ReducedPhysicalFunction: c.ReducedPhysicalFunction,

		TherapyMinutes:      int32(rep.TherapyMinutes),
		BaseRateCents:       RoundCents(rep.BaseDailyRate),
		DailyRateCents:      RoundCents(c.EstimatedDailyRate),
		MonthlyRevenueCents: RoundCents(c.EstimatedMonthlyRevenue),

		CoercionCount: int32(len(rep.Coercions)),
		ComputedAt:    computedAt.UTC(),
	}
	if a != nil {
		row.ReferenceDate = ParseDate(a.ReferenceDate)
	}
	return row
}
