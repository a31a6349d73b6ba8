package model

// RUGCategory is a RUG-IV classification group, the three-character prefix
// of a HIPPS code.
type RUGCategory string

const (
	// Rehabilitation
	RUX RUGCategory = "RUX"
	RUL RUGCategory = "RUL"
	RVX RUGCategory = "RVX"
	RVL RUGCategory = "RVL"
	RHX RUGCategory = "RHX"
	RHL RUGCategory = "RHL"
	RMX RUGCategory = "RMX"
	RML RUGCategory = "RML"
	RLX RUGCategory = "RLX"
	RLL RUGCategory = "RLL"

	// Special care high
	SSC RUGCategory = "SSC"
	SSB RUGCategory = "SSB"
	SSA RUGCategory = "SSA"

	// Clinically complex / behavior
	CC2 RUGCategory = "CC2"
	CC1 RUGCategory = "CC1"
	CB2 RUGCategory = "CB2"

	// Cognitive / reduced physical function
	IA2 RUGCategory = "IA2"
	IA1 RUGCategory = "IA1"
	IB2 RUGCategory = "IB2"
)

// AllRUGCategories lists every category the classifier can select, in
// cascade order.
var AllRUGCategories = []RUGCategory{
	RUX, RUL, RVX, RVL, RHX, RHL, RMX, RML, RLX, RLL,
	SSC, SSB, SSA,
	CC2, CC1, CB2,
	IA2, IA1, IB2,
}

// DefaultCaseMix holds the regulatory case-mix index per category. These are
// table values, not derived; deployments override them through the engine
// configuration file.
var DefaultCaseMix = map[RUGCategory]float64{
	RUX: 3.36,
	RUL: 3.07,
	RVX: 2.65,
	RVL: 2.38,
	RHX: 2.17,
	RHL: 1.93,
	RMX: 1.86,
	RML: 1.64,
	RLX: 1.45,
	RLL: 1.28,

	SSC: 1.35,
	SSB: 1.21,
	SSA: 1.07,

	CC2: 1.27,
	CC1: 1.12,
	CB2: 1.03,

	IA2: 1.15,
	IA1: 1.08,
	IB2: 1.01,
}

// RUGCategoryByName returns the category with the given code, or ok=false.
func RUGCategoryByName(name string) (RUGCategory, bool) {
	for _, c := range AllRUGCategories {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}
