package scoring

import (
	"math"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
)

// RehabThreshold maps a minimum weekly therapy total to a category.
type RehabThreshold struct {
	MinMinutes int
	Category   model.RehabCategory
}

// RehabThresholds is ordered highest-first; the first entry whose minimum is
// met wins. "Any therapy at all" is expressed as a minimum of 1 minute.
var RehabThresholds = []RehabThreshold{
	{MinMinutes: 720, Category: model.RehabUltraHigh},
	{MinMinutes: 500, Category: model.RehabVeryHigh},
	{MinMinutes: 325, Category: model.RehabHigh},
	{MinMinutes: 150, Category: model.RehabMedium},
	{MinMinutes: 1, Category: model.RehabLow},
}

// Rehab maps total weekly therapy minutes to a rehabilitation category.
func Rehab(minutes int) model.RehabCategory {
	for _, t := range RehabThresholds {
		if minutes >= t.MinMinutes {
			return t.Category
		}
	}
	return model.RehabNone
}

// BehaviorThreshold maps a minimum behavior score to a category.
type BehaviorThreshold struct {
	MinScore int
	Category model.BehaviorCategory
}

// BehaviorThresholds is ordered highest-first.
var BehaviorThresholds = []BehaviorThreshold{
	{MinScore: 8, Category: model.BehaviorHigh},
	{MinScore: 4, Category: model.BehaviorMedium},
	{MinScore: 1, Category: model.BehaviorLow},
}

// BehaviorScore sums the four Section E behavior items. Items have no upper
// bound; negative codes count as 0.
func BehaviorScore(e model.Section) (int, []model.Coercion) {
	var total int
	var coerced []model.Coercion
	for _, item := range model.BehaviorItems {
		n, c := clampedItem(model.SectionE, item.Code, e.Items[item.Code], 0, math.MaxInt32)
		if c != nil {
			coerced = append(coerced, *c)
		}
		total += n
	}
	return total, coerced
}

// Behavior maps the Section E items to a behavior category.
func Behavior(e model.Section) (model.BehaviorCategory, []model.Coercion) {
	score, coerced := BehaviorScore(e)
	return BehaviorFor(score), coerced
}

// BehaviorFor maps a behavior score to its category.
func BehaviorFor(score int) model.BehaviorCategory {
	for _, t := range BehaviorThresholds {
		if score >= t.MinScore {
			return t.Category
		}
	}
	return model.BehaviorNone
}
