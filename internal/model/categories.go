package model

// RehabCategory is the ordinal rehabilitation-intensity scale.
type RehabCategory string

const (
	RehabNone      RehabCategory = "none"
	RehabLow       RehabCategory = "low"
	RehabMedium    RehabCategory = "medium"
	RehabHigh      RehabCategory = "high"
	RehabVeryHigh  RehabCategory = "very_high"
	RehabUltraHigh RehabCategory = "ultra_high"
)

// MaxTherapyMinutes is the number of minutes in a week, the ceiling for a
// weekly therapy total.
const MaxTherapyMinutes = 7 * 24 * 60

// rehabOrder is lowest to highest.
var rehabOrder = []RehabCategory{RehabNone, RehabLow, RehabMedium, RehabHigh, RehabVeryHigh, RehabUltraHigh}

// Rank returns the ordinal position of c (none = 0), or -1 if unknown.
func (c RehabCategory) Rank() int {
	for i, r := range rehabOrder {
		if r == c {
			return i
		}
	}
	return -1
}

// Valid reports whether c is one of the defined categories.
func (c RehabCategory) Valid() bool { return c.Rank() >= 0 }

// BehaviorCategory is the ordinal behavior-symptom scale.
type BehaviorCategory string

const (
	BehaviorNone   BehaviorCategory = "none"
	BehaviorLow    BehaviorCategory = "low"
	BehaviorMedium BehaviorCategory = "medium"
	BehaviorHigh   BehaviorCategory = "high"
)

var behaviorOrder = []BehaviorCategory{BehaviorNone, BehaviorLow, BehaviorMedium, BehaviorHigh}

// Rank returns the ordinal position of c (none = 0), or -1 if unknown.
func (c BehaviorCategory) Rank() int {
	for i, b := range behaviorOrder {
		if b == c {
			return i
		}
	}
	return -1
}

// Valid reports whether c is one of the defined categories.
func (c BehaviorCategory) Valid() bool { return c.Rank() >= 0 }
