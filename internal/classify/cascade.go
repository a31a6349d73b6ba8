// Package classify selects a RUG-IV category from the scored dimensions of
// an assessment through a fixed precedence cascade.
package classify

import (
	"fmt"
	"math"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
)

// Scores are the four scored dimensions of one assessment.
type Scores struct {
	ADL            int
	Rehab          model.RehabCategory
	ComplexMedical bool
	Behavior       model.BehaviorCategory
}

// Outcome is the classifier's selection.
type Outcome struct {
	Branch                  string
	Category                model.RUGCategory
	HIPPSCode               string
	CaseMixIndex            float64
	SpecialCareHigh         bool
	SpecialCareLow          bool
	ReducedPhysicalFunction bool
}

// Branch names, in precedence order.
const (
	BranchRehabilitation    = "rehabilitation"
	BranchSpecialCareHigh   = "special_care_high"
	BranchClinicallyComplex = "clinically_complex"
	BranchReducedFunction   = "reduced_function"
)

// ReducedPhysicalFunctionADL is the ADL score at and above which a resident
// counts as having reduced physical function.
const ReducedPhysicalFunctionADL = 12

// rehabIndependentMaxADL is the highest ADL score that still selects the
// X (more independent) rehabilitation group.
const rehabIndependentMaxADL = 7

// band selects a category for ADL scores up to and including maxADL.
type band struct {
	maxADL   int
	category model.RUGCategory
}

type branch struct {
	name            string
	matches         func(Scores) bool
	pick            func(Scores) model.RUGCategory
	specialCareHigh bool
}

var rehabGroups = map[model.RehabCategory][2]model.RUGCategory{
	model.RehabUltraHigh: {model.RUX, model.RUL},
	model.RehabVeryHigh:  {model.RVX, model.RVL},
	model.RehabHigh:      {model.RHX, model.RHL},
	model.RehabMedium:    {model.RMX, model.RML},
	model.RehabLow:       {model.RLX, model.RLL},
}

var (
	specialCareBands = []band{
		{maxADL: 5, category: model.SSC},
		{maxADL: 10, category: model.SSB},
		{maxADL: math.MaxInt, category: model.SSA},
	}
	clinicallyComplexBands = []band{
		{maxADL: 5, category: model.CC2},
		{maxADL: 10, category: model.CC1},
		{maxADL: math.MaxInt, category: model.CB2},
	}
	reducedFunctionBands = []band{
		{maxADL: 7, category: model.IA2},
		{maxADL: 11, category: model.IA1},
		{maxADL: math.MaxInt, category: model.IB2},
	}
)

// cascade is evaluated top to bottom; the first matching branch wins. The
// last branch always matches, so classification cannot fail.
var cascade = []branch{
	{
		name:    BranchRehabilitation,
		matches: func(s Scores) bool { _, ok := rehabGroups[s.Rehab]; return ok },
		pick:    pickRehab,
	},
	{
		name:            BranchSpecialCareHigh,
		matches:         func(s Scores) bool { return s.ComplexMedical },
		pick:            byADL(specialCareBands),
		specialCareHigh: true,
	},
	{
		name:    BranchClinicallyComplex,
		matches: func(s Scores) bool { return s.Behavior == model.BehaviorHigh },
		pick:    byADL(clinicallyComplexBands),
	},
	{
		name:    BranchReducedFunction,
		matches: func(Scores) bool { return true },
		pick:    byADL(reducedFunctionBands),
	},
}

func pickRehab(s Scores) model.RUGCategory {
	g := rehabGroups[s.Rehab]
	if s.ADL <= rehabIndependentMaxADL {
		return g[0]
	}
	return g[1]
}

func byADL(bands []band) func(Scores) model.RUGCategory {
	return func(s Scores) model.RUGCategory {
		for _, b := range bands {
			if s.ADL <= b.maxADL {
				return b.category
			}
		}
		return bands[len(bands)-1].category
	}
}

// Classify runs the cascade. It never fails: every input lands in exactly
// one branch.
func Classify(s Scores, t Table) Outcome {
	for _, b := range cascade {
		if !b.matches(s) {
			continue
		}
		cat := b.pick(s)
		return Outcome{
			Branch:                  b.name,
			Category:                cat,
			HIPPSCode:               HIPPSCode(cat, s.ADL),
			CaseMixIndex:            t.Lookup(cat),
			SpecialCareHigh:         b.specialCareHigh,
			ReducedPhysicalFunction: s.ADL >= ReducedPhysicalFunctionADL,
		}
	}
	panic("classify: cascade has no default branch")
}

// HIPPSCode joins a category and the ADL score, zero-padded to two digits.
func HIPPSCode(cat model.RUGCategory, adl int) string {
	if adl < 0 {
		adl = 0
	}
	if adl > 99 {
		adl = 99
	}
	return fmt.Sprintf("%s%02d", cat, adl)
}
